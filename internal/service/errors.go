package service

import "errors"

var (
	// ErrAIUnavailable is returned when no LLM provider is configured.
	ErrAIUnavailable = errors.New("AI service unavailable")
	// ErrInvalidAIOutput is returned when the model answered with something unusable.
	ErrInvalidAIOutput = errors.New("invalid AI output")
	ErrNoThreats       = errors.New("no threats found")
	ErrNoFacilities    = errors.New("no facilities provided")
	// ErrInvalidThreat is returned when an extracted threat fails validation.
	ErrInvalidThreat = errors.New("invalid threat")
	ErrInvalidEmail  = errors.New("invalid email")
)
