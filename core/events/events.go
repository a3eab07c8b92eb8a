// Package events defines the scheduling pipeline events published on the
// internal event bus.
package events

// StageEvent is emitted when a pipeline stage starts, completes or degrades.
// Action is one of "start", "completed", or "fallback".
type StageEvent struct {
	Stage  string
	Action string
	Err    error
}

// RunEvent is emitted once per scheduling run, after the result is assembled.
type RunEvent struct {
	RunID     string
	StartDate string
	TotalDays int
	Fallbacks []string
}
