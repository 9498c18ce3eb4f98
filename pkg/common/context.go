package common

import (
	"context"
	"time"
)

// ContextKey represents a context key type
type ContextKey string

// Context keys
const (
	ContextKeyRunID     ContextKey = "run_id"
	ContextKeyTriggerID ContextKey = "trigger_id"
	ContextKeyStartTime ContextKey = "start_time"
)

// WithRunID adds the CLI invocation id to context
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, ContextKeyRunID, runID)
}

// GetRunID extracts the CLI invocation id from context
func GetRunID(ctx context.Context) (string, bool) {
	runID, ok := ctx.Value(ContextKeyRunID).(string)
	return runID, ok
}

// WithTriggerID adds the trigger node id to context
func WithTriggerID(ctx context.Context, triggerID string) context.Context {
	return context.WithValue(ctx, ContextKeyTriggerID, triggerID)
}

// GetTriggerID extracts the trigger node id from context
func GetTriggerID(ctx context.Context) (string, bool) {
	triggerID, ok := ctx.Value(ContextKeyTriggerID).(string)
	return triggerID, ok
}

// WithStartTime adds start time to context
func WithStartTime(ctx context.Context, startTime time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyStartTime, startTime)
}

// GetStartTime extracts start time from context
func GetStartTime(ctx context.Context) (time.Time, bool) {
	startTime, ok := ctx.Value(ContextKeyStartTime).(time.Time)
	return startTime, ok
}

// GetElapsedTime calculates elapsed time from start time in context
func GetElapsedTime(ctx context.Context) time.Duration {
	if startTime, ok := GetStartTime(ctx); ok {
		return time.Since(startTime)
	}
	return 0
}

// EnrichContext stamps a context with the metadata every operation run
// carries: an invocation id and the wall-clock start.
func EnrichContext(ctx context.Context, runID string) context.Context {
	ctx = WithRunID(ctx, runID)
	ctx = WithStartTime(ctx, time.Now())
	return ctx
}

// ContextMetadata contains all context metadata
type ContextMetadata struct {
	RunID     string        `json:"run_id,omitempty"`
	TriggerID string        `json:"trigger_id,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"`
}

// ExtractMetadata extracts all metadata from context
func ExtractMetadata(ctx context.Context) ContextMetadata {
	meta := ContextMetadata{}

	if runID, ok := GetRunID(ctx); ok {
		meta.RunID = runID
	}
	if triggerID, ok := GetTriggerID(ctx); ok {
		meta.TriggerID = triggerID
	}
	meta.Duration = GetElapsedTime(ctx)

	return meta
}
