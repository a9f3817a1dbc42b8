package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields added to every log record written with the context.
type LogFields struct {
	RequestID  *string // X-Request-ID of the HTTP request
	Location   *string // user location of a news query
	Scope      *string // near_me, city or global
	ThreatID   *string
	NewsItemID *string // simulator feed item being ingested
	Component  string  // e.g. "threatnews.ingest.poller"
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking precedence.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	merged := mergeFields(GetLogFields(ctx), fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, new LogFields) LogFields {
	result := existing

	if new.RequestID != nil {
		result.RequestID = new.RequestID
	}
	if new.Location != nil {
		result.Location = new.Location
	}
	if new.Scope != nil {
		result.Scope = new.Scope
	}
	if new.ThreatID != nil {
		result.ThreatID = new.ThreatID
	}
	if new.NewsItemID != nil {
		result.NewsItemID = new.NewsItemID
	}
	if new.Component != "" {
		result.Component = new.Component
	}

	return result
}

// Ptr is a helper to create a pointer from a value.
// Useful for setting LogFields inline: logger.WithLogFields(ctx, logger.LogFields{ThreatID: logger.Ptr(id)})
func Ptr[T any](v T) *T {
	return &v
}

// Truncate truncates a string to maxLen bytes, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
