// Package trace is the side-channel observability boundary around tool
// invocations. Hooks receive one Record per call and must never disturb the
// request path.
package trace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Record captures one tool invocation.
type Record struct {
	RunID     string
	Tool      string
	Input     string
	Output    string
	Err       string // empty on success
	StartedAt time.Time
	Duration  time.Duration
}

// Hook observes tool invocations. Implementations must not panic and should
// not block the caller.
type Hook interface {
	Observe(Record)
}

// Hooks fans a record out to several hooks.
type Hooks []Hook

func (hs Hooks) Observe(rec Record) {
	for _, h := range hs {
		h.Observe(rec)
	}
}

// LogHook writes one line per record to a writer, either as JSONL or as a
// human-readable key=value form.
type LogHook struct {
	mu       sync.Mutex
	writer   io.Writer
	jsonMode bool
}

func NewLogHook(writer io.Writer, jsonMode bool) *LogHook {
	if writer == nil {
		writer = os.Stdout
	}
	return &LogHook{writer: writer, jsonMode: jsonMode}
}

func (l *LogHook) Observe(rec Record) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.jsonMode {
		l.observeJSON(rec)
		return
	}
	l.observeText(rec)
}

func (l *LogHook) observeJSON(rec Record) {
	data, err := json.Marshal(struct {
		RunID      string `json:"runId"`
		Tool       string `json:"tool"`
		Input      string `json:"input"`
		Output     string `json:"output"`
		Error      string `json:"error,omitempty"`
		StartedAt  string `json:"startedAt"`
		DurationMS int64  `json:"durationMs"`
	}{
		RunID:      rec.RunID,
		Tool:       rec.Tool,
		Input:      rec.Input,
		Output:     rec.Output,
		Error:      rec.Err,
		StartedAt:  rec.StartedAt.UTC().Format(time.RFC3339Nano),
		DurationMS: rec.Duration.Milliseconds(),
	})
	if err != nil {
		fmt.Fprintf(l.writer, "{\"error\":\"failed to marshal trace record: %v\"}\n", err)
		return
	}
	fmt.Fprintf(l.writer, "%s\n", data)
}

func (l *LogHook) observeText(rec Record) {
	fmt.Fprintf(l.writer, "[tool_call] runID=%s tool=%s input=%q duration=%s",
		rec.RunID, rec.Tool, rec.Input, rec.Duration)
	if rec.Err != "" {
		fmt.Fprintf(l.writer, " error=%q", rec.Err)
	}
	fmt.Fprint(l.writer, "\n")
}

// OTelHook turns each record into one OpenTelemetry span. The span is
// back-dated so that its start and end match the actual invocation window.
type OTelHook struct {
	tracer oteltrace.Tracer
}

func NewOTelHook(tracer oteltrace.Tracer) *OTelHook {
	return &OTelHook{tracer: tracer}
}

func (o *OTelHook) Observe(rec Record) {
	_, span := o.tracer.Start(context.Background(), "tool."+rec.Tool,
		oteltrace.WithTimestamp(rec.StartedAt))

	span.SetAttributes(
		attribute.String("tool.run_id", rec.RunID),
		attribute.String("tool.input", rec.Input),
		attribute.String("tool.output", rec.Output),
		attribute.Int64("tool.duration_ms", rec.Duration.Milliseconds()),
	)
	if rec.Err != "" {
		span.SetStatus(codes.Error, rec.Err)
		span.RecordError(errors.New(rec.Err))
	}

	span.End(oteltrace.WithTimestamp(rec.StartedAt.Add(rec.Duration)))
}
