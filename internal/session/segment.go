// Package session groups a project's chronologically sorted entries into
// work sessions using a gap threshold.
package session

import (
	"strings"
	"time"

	"worklens/internal/sanitize"
	"worklens/internal/transcript"
)

// Session is one contiguous run of entries for a project. The classifier
// fills Activity, Technologies, and Topics after segmentation; the session
// is treated as immutable once it reaches the aggregator.
type Session struct {
	Project   string
	StartTime time.Time
	EndTime   time.Time
	Entries   []transcript.Entry

	MessageCount      int
	UserMessages      int
	AssistantMessages int

	Activity     string
	Technologies []string
	Topics       []string
}

// Duration returns the session's wall-clock span. A single-entry session
// has zero duration.
func (s *Session) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// Title derives a display title from the first user message, falling back
// to the project key when the session opens with something trivial.
func (s *Session) Title() string {
	for i := range s.Entries {
		e := &s.Entries[i]
		if e.Role() != transcript.RoleUser || e.IsToolResult() {
			continue
		}
		if t := titleFrom(e.Text()); t != "" {
			return t
		}
	}
	return s.Project
}

func titleFrom(msg string) string {
	msg = sanitize.StripTags(msg)
	if msg == "" {
		return ""
	}
	if idx := strings.IndexByte(msg, '\n'); idx > 0 {
		msg = msg[:idx]
	}

	switch strings.ToLower(msg) {
	case "hi", "hello", "hey", "ok", "okay", "yes", "no", "thanks", "thank you", "y", "n", "continue":
		return ""
	}

	if len(msg) > 80 {
		msg = msg[:77] + "..."
	}
	return msg
}

// Segment splits one project's time-sorted entries into sessions. A new
// session starts when the gap to the previous entry exceeds the threshold;
// a gap exactly equal to the threshold stays in the same session. Runs with
// fewer than minMessages entries are discarded, never merged into a
// neighbor. Entries must all belong to the same project and be sorted by
// timestamp; a backwards timestamp is treated as a boundary.
func Segment(entries []transcript.Entry, gap time.Duration, minMessages int) []Session {
	if len(entries) == 0 {
		return nil
	}

	var sessions []Session
	start := 0

	for i := 1; i <= len(entries); i++ {
		boundary := i == len(entries)
		if !boundary {
			delta := entries[i].Timestamp.Sub(entries[i-1].Timestamp)
			boundary = delta > gap || delta < 0
		}
		if !boundary {
			continue
		}

		run := entries[start:i]
		if len(run) >= minMessages {
			sessions = append(sessions, build(run))
		}
		start = i
	}

	return sessions
}

func build(run []transcript.Entry) Session {
	s := Session{
		Project:   run[0].Project,
		StartTime: run[0].Timestamp,
		EndTime:   run[len(run)-1].Timestamp,
		Entries:   run,
	}
	s.MessageCount = len(run)
	for i := range run {
		switch run[i].Role() {
		case transcript.RoleUser:
			s.UserMessages++
		case transcript.RoleAssistant:
			s.AssistantMessages++
		}
	}
	return s
}
