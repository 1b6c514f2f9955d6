// Package filter holds the date-range and project predicates applied to
// sessions before aggregation.
package filter

import (
	"fmt"
	"strings"
	"time"
)

// Filter narrows an analysis to a date range and/or a project. A nil bound
// means unbounded on that side; an empty Project matches everything.
type Filter struct {
	From    *time.Time
	To      *time.Time
	Project string
}

// ParseRange builds a Filter from --from/--to arguments. Dates are
// YYYY-MM-DD, interpreted in loc, and the range is inclusive: from starts at
// midnight and to extends through the end of its day. Either side may be
// empty. A from after to is a validation error, reported before any work
// starts.
func ParseRange(from, to, project string, loc *time.Location) (Filter, error) {
	f := Filter{Project: project}

	if from != "" {
		t, err := parseDate(from, loc)
		if err != nil {
			return Filter{}, fmt.Errorf("invalid --from date %q: %w", from, err)
		}
		f.From = &t
	}
	if to != "" {
		t, err := parseDate(to, loc)
		if err != nil {
			return Filter{}, fmt.Errorf("invalid --to date %q: %w", to, err)
		}
		end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		f.To = &end
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return Filter{}, fmt.Errorf("date range is empty: %s is after %s", from, to)
	}
	return f, nil
}

// LastDays returns a filter covering the trailing window of whole days up to
// now, inclusive of today. days <= 0 yields an unbounded filter.
func LastDays(days int, loc *time.Location) Filter {
	if days <= 0 {
		return Filter{}
	}
	now := time.Now().In(loc)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, -(days - 1))
	return Filter{From: &start, To: &now}
}

func parseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, loc)
}

// MatchTime reports whether t falls inside the range.
func (f Filter) MatchTime(t time.Time) bool {
	if f.From != nil && t.Before(*f.From) {
		return false
	}
	if f.To != nil && t.After(*f.To) {
		return false
	}
	return true
}

// MatchProject reports whether a project key passes the project filter.
// Matching is a case-insensitive substring test so "widget" selects
// "me/src/widget".
func (f Filter) MatchProject(key string) bool {
	if f.Project == "" {
		return true
	}
	return strings.Contains(strings.ToLower(key), strings.ToLower(f.Project))
}

// String renders the filter for informational log output.
func (f Filter) String() string {
	var parts []string
	if f.From != nil {
		parts = append(parts, "from "+f.From.Format("2006-01-02"))
	}
	if f.To != nil {
		parts = append(parts, "to "+f.To.Format("2006-01-02"))
	}
	if f.Project != "" {
		parts = append(parts, "project "+f.Project)
	}
	if len(parts) == 0 {
		return "all sessions"
	}
	return strings.Join(parts, ", ")
}
