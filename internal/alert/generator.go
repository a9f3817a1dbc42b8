package alert

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/common/llm"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/model"
)

// TextGenerator writes the plain-text body of an alert e-mail. It never fails: every
// implementation falls back to a fixed template.
type TextGenerator interface {
	AlertBody(ctx context.Context, threat model.Threat, userLocation string) string
}

// NewTemplateGenerator returns the generator used when no LLM is configured.
func NewTemplateGenerator() TextGenerator {
	return templateGenerator{}
}

type templateGenerator struct{}

func (templateGenerator) AlertBody(_ context.Context, threat model.Threat, _ string) string {
	return BasicTemplate(threat)
}

const (
	emptyCompletionBody = "Alert: A new threat has been detected. Please stay alert and follow local guidance."

	alertSystemPrompt = "You write emergency alerts for civilians."
	alertUserPrompt   = `You are an emergency operations assistant. Write a clear, calm, concise email alert for a civilian user about the following threat. Avoid technical jargon, avoid panic, but clearly explain that this is serious.

Constraints:
- Use plain text (no markdown, no HTML)
- 2-4 short paragraphs max
- At the end, add a short bullet list of 3-5 practical safety steps.

THREAT CONTEXT:
%s
`
)

type llmGenerator struct {
	client llm.Client
}

// NewLLMGenerator returns a generator that asks the model for the body and falls back to
// UrgentTemplate when the call fails.
func NewLLMGenerator(client llm.Client) TextGenerator {
	return &llmGenerator{client: client}
}

func (g *llmGenerator) AlertBody(ctx context.Context, threat model.Threat, userLocation string) string {
	summary := threatSummary(threat)
	if userLocation != "" {
		summary += "\nUser Region: " + userLocation + "\n"
	}

	content, _, err := g.client.Complete(ctx, llm.Request{
		SystemPrompt: alertSystemPrompt,
		UserPrompt:   fmt.Sprintf(alertUserPrompt, summary),
		MaxTokens:    400,
		Temperature:  llm.Temp(0.4),
	})
	if err != nil {
		slog.WarnContext(ctx, "alert body generation failed, using template",
			"error", err,
			"model", g.client.Model())
		return UrgentTemplate(threat)
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return emptyCompletionBody
	}
	return content
}

func threatSummary(t model.Threat) string {
	return fmt.Sprintf(`Threat Name: %s
Threat Location: %s
Approx Yield: %s kg TNT
Time Detected: %s
Raw Details: %s
`, orDefault(t.Name, "N/A"), orDefault(t.LocationName, "Unknown"), yield(t), timestamp(t), orDefault(t.Details, "No details"))
}

// BasicTemplate is the body sent when no LLM is configured.
func BasicTemplate(t model.Threat) string {
	return fmt.Sprintf(`New Threat Detected:

Name: %s
Location: %s
Details: %s
Yield: %s kg TNT
Time: %s

Stay alert and follow safety instructions.
`, orDefault(t.Name, "N/A"), orDefault(t.LocationName, "Unknown"), orDefault(t.Details, "No details"), yield(t), timestamp(t))
}

// UrgentTemplate is the body sent when the LLM call fails.
func UrgentTemplate(t model.Threat) string {
	return fmt.Sprintf(`⚠️ URGENT INCIDENT NOTIFICATION

An incident has been detected and classified as a potential threat in your region.

Threat: %s
Location: %s
Time Detected: %s

Summary:
%s

Estimated Energy: %s kg TNT equivalent

Recommended Actions:
- Stay away from the reported location.
- Follow guidance from local authorities and emergency services.
- Avoid sharing unverified information on social media.
- Monitor official channels for updates.
- Assist vulnerable people (children, elderly, disabled) if it is safe to do so.
`, orDefault(t.Name, "N/A"), orDefault(t.LocationName, "Unknown"), timestamp(t), orDefault(t.Details, "No details available."), yield(t))
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func yield(t model.Threat) string {
	if t.Yield == 0 {
		return "N/A"
	}
	return strconv.FormatFloat(t.Yield, 'f', -1, 64)
}

func timestamp(t model.Threat) string {
	if t.Timestamp.IsZero() {
		return "N/A"
	}
	return t.Timestamp.UTC().Format(time.RFC3339)
}
