// Package tracer provides a lightweight tracing abstraction so domain code
// can emit spans without depending on OpenTelemetry APIs directly.
//
// Implementations:
//   - Noop: for tests and when tracing is disabled (zero overhead)
//   - OTel: OpenTelemetry adapter for production
package tracer

import "context"

// Attribute is a key-value pair attached to a span.
type Attribute struct {
	Key   string
	Value string
}

// String creates a string attribute.
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Bool creates a boolean attribute rendered as "true"/"false".
func Bool(key string, value bool) Attribute {
	if value {
		return Attribute{Key: key, Value: "true"}
	}
	return Attribute{Key: key, Value: "false"}
}

// Span represents an active trace span.
type Span interface {
	// End completes the span. A non-nil err marks the span as failed.
	// End must be called exactly once, typically via defer.
	End(err error)

	// SetAttributes adds key-value pairs to the span.
	SetAttributes(attrs ...Attribute)

	// AddEvent records a timestamped event within the span.
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Noop is a Tracer that records nothing.
type Noop struct{}

func (Noop) Start(ctx context.Context, _ string, _ ...Attribute) (context.Context, Span) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End(error)                     {}
func (noopSpan) SetAttributes(...Attribute)    {}
func (noopSpan) AddEvent(string, ...Attribute) {}
