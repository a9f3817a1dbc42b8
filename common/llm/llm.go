package llm

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
)

// Provider constants for LLM provider selection.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// DefaultOpenRouterURL is the OpenAI-compatible endpoint used when no base URL is configured.
const DefaultOpenRouterURL = "https://openrouter.ai/api/v1"

// Config holds LLM client configuration.
type Config struct {
	Provider string // "openai" (any OpenAI-compatible endpoint) or "anthropic"
	APIKey   string // Required: API key for the provider
	BaseURL  string // Optional: custom API endpoint
	Model    string
	Timeout  time.Duration // per request; 0 keeps the SDK default
}

// New creates a Client for cfg.Provider. An empty provider selects the OpenAI-compatible client.
func New(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	switch cfg.Provider {
	case "", ProviderOpenAI:
		return newOpenAIClient(cfg), nil
	case ProviderAnthropic:
		return newAnthropicClient(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

func GenerateSchema[T any]() any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

func Temp(t float64) *float64 {
	return &t
}

var fencePattern = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")

// ExtractJSON strips a surrounding markdown code fence, which many chat models add even when
// asked for bare JSON.
func ExtractJSON(content string) string {
	content = strings.TrimSpace(content)
	if m := fencePattern.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	return content
}
