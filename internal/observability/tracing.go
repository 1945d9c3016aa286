// Package observability provides injectable trace spans and context-scoped log attributes
// for the orchestration stages. Tracing is optional: callers that do not care pass NoopTracer.
package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Span represents a tracing span.
type Span interface {
	SetAttribute(key string, value any)
	AddEvent(name string)
	RecordError(err error)
	End()
}

// Tracer starts spans. Implementations must be safe for concurrent use.
type Tracer interface {
	StartSpan(ctx context.Context, spanName string) (context.Context, Span)
}

// NoopTracer discards all spans.
type NoopTracer struct{}

func (NoopTracer) StartSpan(ctx context.Context, _ string) (context.Context, Span) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) SetAttribute(string, any) {}
func (noopSpan) AddEvent(string)          {}
func (noopSpan) RecordError(error)        {}
func (noopSpan) End()                     {}

// LocalSpan is a lightweight span implementation that reports through slog.
type LocalSpan struct {
	mu         sync.Mutex
	name       string
	startTime  time.Time
	attributes map[string]any
	events     []string
	err        error
	logger     *slog.Logger
	onEnd      func(SpanRecord)
}

// SetAttribute sets an attribute on the span.
func (s *LocalSpan) SetAttribute(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attributes == nil {
		s.attributes = make(map[string]any)
	}
	s.attributes[key] = value
}

// AddEvent adds an event to the span.
func (s *LocalSpan) AddEvent(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, name)
}

// RecordError records an error in the span.
func (s *LocalSpan) RecordError(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	s.logger.Debug("Span error", "span", s.name, "error", err)
}

// End ends the span and logs its duration.
func (s *LocalSpan) End() {
	duration := time.Since(s.startTime)
	s.logger.Debug("Span ended", "span", s.name, "duration_ms", duration.Milliseconds())
	if s.onEnd == nil {
		return
	}
	s.mu.Lock()
	rec := SpanRecord{Name: s.name, Duration: duration, Err: s.err, Events: append([]string(nil), s.events...)}
	rec.Attributes = make(map[string]any, len(s.attributes))
	for k, v := range s.attributes {
		rec.Attributes[k] = v
	}
	s.mu.Unlock()
	s.onEnd(rec)
}

// LocalTracer creates LocalSpans logging to the configured logger.
type LocalTracer struct {
	logger *slog.Logger
}

// NewLocalTracer creates a tracer writing span lifecycle to logger (slog.Default when nil).
func NewLocalTracer(logger *slog.Logger) *LocalTracer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocalTracer{logger: logger}
}

// StartSpan creates a new span for a given operation.
func (t *LocalTracer) StartSpan(ctx context.Context, spanName string) (context.Context, Span) {
	span := &LocalSpan{name: spanName, startTime: time.Now(), logger: t.logger}
	t.logger.Debug("Span started", "span", spanName)
	return context.WithValue(ctx, spanContextKey, span), span
}

// SpanRecord is a finished span captured by a RecordingTracer.
type SpanRecord struct {
	Name       string
	Duration   time.Duration
	Attributes map[string]any
	Events     []string
	Err        error
}

// RecordingTracer keeps every finished span in memory, in completion order.
// The CLI uses it to print stage timings.
type RecordingTracer struct {
	mu      sync.Mutex
	logger  *slog.Logger
	records []SpanRecord
}

// NewRecordingTracer creates an empty RecordingTracer.
func NewRecordingTracer(logger *slog.Logger) *RecordingTracer {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordingTracer{logger: logger}
}

// StartSpan creates a span that is recorded when it ends.
func (t *RecordingTracer) StartSpan(ctx context.Context, spanName string) (context.Context, Span) {
	span := &LocalSpan{name: spanName, startTime: time.Now(), logger: t.logger, onEnd: t.record}
	return context.WithValue(ctx, spanContextKey, span), span
}

func (t *RecordingTracer) record(rec SpanRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.records = append(t.records, rec)
}

// Records returns a copy of all finished spans.
func (t *RecordingTracer) Records() []SpanRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]SpanRecord(nil), t.records...)
}

// Names returns the names of all finished spans in completion order.
func (t *RecordingTracer) Names() []string {
	recs := t.Records()
	names := make([]string, len(recs))
	for i, r := range recs {
		names[i] = r.Name
	}
	return names
}

// StartStageSpan creates a span for a pipeline stage.
func StartStageSpan(ctx context.Context, tracer Tracer, stageName, buildID string) (context.Context, Span) {
	if tracer == nil {
		tracer = NoopTracer{}
	}
	ctx, span := tracer.StartSpan(ctx, "stage."+stageName)
	span.SetAttribute("build.id", buildID)
	span.SetAttribute("stage.name", stageName)
	return ctx, span
}

// EndSpan ends a span, recording err first when non-nil.
func EndSpan(span Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
	}
	span.End()
}

type contextKey string

const spanContextKey contextKey = "span"

// SpanFromContext extracts span from context.
func SpanFromContext(ctx context.Context) (Span, bool) {
	span, ok := ctx.Value(spanContextKey).(Span)
	return span, ok
}
