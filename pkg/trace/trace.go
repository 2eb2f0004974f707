// Package trace provides the append-only interaction audit trail for model
// calls. Every chain and judge invocation is recorded as one Event so runs
// can be replayed and debugged after the fact.
//
// The sink contract is best-effort by design: evaluation correctness never
// depends on the audit trail, and a sink failure must not abort a run.
// Callers log sink errors and continue.
package trace

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event records a single model interaction: who called, what went in, what
// came out, and how long it took.
type Event struct {
	// ID uniquely identifies this interaction record.
	ID string `json:"id"`

	// Name identifies the caller, e.g. "summarize_v1" or "judge_pairwise".
	Name string `json:"name"`

	// Timestamp records when the event was captured.
	Timestamp time.Time `json:"ts"`

	// LatencyMS is the wall-clock duration of the model call in
	// milliseconds. Zero when no start time was supplied.
	LatencyMS int64 `json:"latency_ms"`

	// Inputs holds the named inputs sent to the model.
	Inputs map[string]string `json:"inputs"`

	// Output is the model's raw response text.
	Output string `json:"output"`

	// Meta carries optional extra context for dashboards.
	Meta map[string]string `json:"meta,omitempty"`
}

// NewEvent builds an interaction event with a fresh ID and the latency
// derived from start. A zero start leaves LatencyMS at zero.
func NewEvent(name string, inputs map[string]string, output string, start time.Time) Event {
	now := time.Now()

	var latency int64
	if !start.IsZero() {
		latency = now.Sub(start).Milliseconds()
	}

	return Event{
		ID:        uuid.New().String(),
		Name:      name,
		Timestamp: now,
		LatencyMS: latency,
		Inputs:    inputs,
		Output:    output,
	}
}

// Sink receives interaction events with best-effort delivery.
// Implementations should handle append quickly and must tolerate concurrent
// use. Returning an error signals the event was dropped; callers must not
// fail their primary operation because of it.
type Sink interface {
	// Append adds one event to the trail.
	Append(ctx context.Context, event Event) error
}

// NoOpSink discards all events. Used in tests and when tracing is disabled.
type NoOpSink struct{}

// Append implements Sink with no-op behavior.
func (NoOpSink) Append(context.Context, Event) error { return nil }
