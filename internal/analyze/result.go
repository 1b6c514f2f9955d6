// Package analyze orchestrates the analysis pipeline and aggregates
// sessions into a single immutable result.
package analyze

import (
	"time"
)

// Result is the complete outcome of one analysis run. It is produced once,
// handed to a renderer, and never mutated or persisted. It is a pure
// function of the source logs and the filter: re-running the same query
// over unchanged logs yields an equal Result. Generation timestamps are
// stamped by the renderers, not carried here.
type Result struct {
	From, To *time.Time // the applied date range, nil when unbounded

	TotalSessions    int
	TotalMessages    int
	TotalDuration    time.Duration
	AvgSessionLength time.Duration // zero when there are no sessions
	ActiveProjects   int

	PerProject  map[string]*ProjectStats
	PerActivity map[string]time.Duration

	// MostProductiveDay is the date (YYYY-MM-DD, display timezone) with the
	// largest cumulative duration; empty when there are no sessions.
	MostProductiveDay string
	// PeakHour is the hour of day (0-23, display timezone) in which the
	// most sessions started; -1 when there are no sessions.
	PeakHour int

	Days           []DaySummary     // most recent day first
	RecentSessions []SessionSummary // start time descending, bounded
}

// ProjectStats is the per-project breakdown.
type ProjectStats struct {
	Project  string
	Sessions int
	Messages int
	Duration time.Duration
	// DominantActivity is the label with the most cumulative time in this
	// project, ties broken by classify.Labels order.
	DominantActivity string
}

// DaySummary is one calendar day's totals in the display timezone.
type DaySummary struct {
	Date     string // YYYY-MM-DD
	Sessions int
	Messages int
	Duration time.Duration
}

// SessionSummary is the per-session view surfaced in reports.
type SessionSummary struct {
	Project           string
	Title             string
	Activity          string
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
	MessageCount      int
	UserMessages      int
	AssistantMessages int
	Technologies      []string
	Topics            []string
}
