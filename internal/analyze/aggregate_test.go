package analyze

import (
	"reflect"
	"testing"
	"time"

	"worklens/internal/session"
	"worklens/internal/transcript"
)

func mkSession(t *testing.T, project, activity, start string, durMinutes, messages int) session.Session {
	t.Helper()
	st, err := time.Parse(time.RFC3339, start)
	if err != nil {
		t.Fatal(err)
	}
	end := st.Add(time.Duration(durMinutes) * time.Minute)
	return session.Session{
		Project:      project,
		Activity:     activity,
		StartTime:    st,
		EndTime:      end,
		MessageCount: messages,
		Entries: []transcript.Entry{
			{Type: "user", Timestamp: st, Project: project, Message: &transcript.Message{Role: "user", Content: "work on " + project}},
		},
	}
}

func TestAggregate_Empty(t *testing.T) {
	res := Aggregate(nil, time.UTC, 10)

	if res.TotalSessions != 0 || res.TotalMessages != 0 || res.TotalDuration != 0 {
		t.Errorf("totals not zero: %+v", res)
	}
	if res.AvgSessionLength != 0 {
		t.Errorf("avg = %v, want 0", res.AvgSessionLength)
	}
	if res.PeakHour != -1 {
		t.Errorf("peak hour = %d, want -1", res.PeakHour)
	}
	if res.MostProductiveDay != "" {
		t.Errorf("most productive day = %q, want empty", res.MostProductiveDay)
	}
	if len(res.PerProject) != 0 || len(res.PerActivity) != 0 {
		t.Errorf("expected empty maps, got %+v", res)
	}
}

func TestAggregate_Totals(t *testing.T) {
	sessions := []session.Session{
		mkSession(t, "me/src/widget", "coding", "2026-03-02T09:00:00Z", 60, 10),
		mkSession(t, "me/src/widget", "debugging", "2026-03-02T13:00:00Z", 45, 6),
		mkSession(t, "me/src/gadget", "other", "2026-03-03T10:00:00Z", 30, 4),
	}

	res := Aggregate(sessions, time.UTC, 10)

	if res.TotalSessions != 3 {
		t.Errorf("sessions = %d, want 3", res.TotalSessions)
	}
	if res.TotalMessages != 20 {
		t.Errorf("messages = %d, want 20", res.TotalMessages)
	}
	if res.TotalDuration != 135*time.Minute {
		t.Errorf("duration = %v, want 2h15m", res.TotalDuration)
	}
	if res.AvgSessionLength != 45*time.Minute {
		t.Errorf("avg = %v, want 45m", res.AvgSessionLength)
	}
	if res.ActiveProjects != 2 {
		t.Errorf("projects = %d, want 2", res.ActiveProjects)
	}

	widget := res.PerProject["me/src/widget"]
	if widget == nil || widget.Sessions != 2 || widget.Messages != 16 || widget.Duration != 105*time.Minute {
		t.Errorf("widget stats = %+v", widget)
	}
	if widget.DominantActivity != "coding" {
		t.Errorf("widget dominant = %q, want coding", widget.DominantActivity)
	}
	if res.PerActivity["coding"] != time.Hour {
		t.Errorf("coding time = %v, want 1h", res.PerActivity["coding"])
	}
}

func TestAggregate_OrderIndependentTotals(t *testing.T) {
	a := []session.Session{
		mkSession(t, "p1", "coding", "2026-03-02T09:00:00Z", 60, 10),
		mkSession(t, "p2", "other", "2026-03-03T10:00:00Z", 30, 4),
		mkSession(t, "p1", "other", "2026-03-04T11:00:00Z", 15, 3),
	}
	b := []session.Session{a[2], a[0], a[1]}

	ra := Aggregate(a, time.UTC, 10)
	rb := Aggregate(b, time.UTC, 10)

	if ra.TotalSessions != rb.TotalSessions || ra.TotalMessages != rb.TotalMessages || ra.TotalDuration != rb.TotalDuration {
		t.Errorf("totals differ by order: %+v vs %+v", ra, rb)
	}
	if ra.MostProductiveDay != rb.MostProductiveDay || ra.PeakHour != rb.PeakHour {
		t.Errorf("peaks differ by order")
	}
	for i := range ra.RecentSessions {
		if ra.RecentSessions[i].StartTime != rb.RecentSessions[i].StartTime {
			t.Errorf("recent ordering differs by input order")
		}
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	sessions := []session.Session{
		mkSession(t, "me/src/widget", "coding", "2026-03-02T09:00:00Z", 60, 10),
		mkSession(t, "me/src/gadget", "other", "2026-03-03T10:00:00Z", 30, 4),
	}

	a := Aggregate(sessions, time.UTC, 10)
	b := Aggregate(sessions, time.UTC, 10)

	if !reflect.DeepEqual(a, b) {
		t.Errorf("two runs over identical input differ:\n%+v\n%+v", a, b)
	}
}

func TestAggregate_RecentSessionsDescendingAndBounded(t *testing.T) {
	var sessions []session.Session
	for i := 0; i < 5; i++ {
		start := time.Date(2026, 3, 2+i, 9, 0, 0, 0, time.UTC).Format(time.RFC3339)
		sessions = append(sessions, mkSession(t, "p", "other", start, 30, 3))
	}

	res := Aggregate(sessions, time.UTC, 3)

	if len(res.RecentSessions) != 3 {
		t.Fatalf("recent = %d, want 3", len(res.RecentSessions))
	}
	for i := 1; i < len(res.RecentSessions); i++ {
		if res.RecentSessions[i].StartTime.After(res.RecentSessions[i-1].StartTime) {
			t.Error("recent sessions not descending by start time")
		}
	}
	if res.RecentSessions[0].StartTime.Day() != 6 {
		t.Errorf("newest session missing from recent list")
	}
}

func TestAggregate_MostProductiveDayTieEarliest(t *testing.T) {
	sessions := []session.Session{
		mkSession(t, "p", "other", "2026-03-03T09:00:00Z", 60, 3),
		mkSession(t, "p", "other", "2026-03-02T09:00:00Z", 60, 3),
	}

	res := Aggregate(sessions, time.UTC, 10)
	if res.MostProductiveDay != "2026-03-02" {
		t.Errorf("most productive day = %q, want 2026-03-02 (earliest on tie)", res.MostProductiveDay)
	}
}

func TestAggregate_PeakHourTieEarliest(t *testing.T) {
	sessions := []session.Session{
		mkSession(t, "p", "other", "2026-03-02T14:00:00Z", 30, 3),
		mkSession(t, "p", "other", "2026-03-03T09:00:00Z", 30, 3),
	}

	res := Aggregate(sessions, time.UTC, 10)
	if res.PeakHour != 9 {
		t.Errorf("peak hour = %d, want 9 (earliest on tie)", res.PeakHour)
	}
}

func TestAggregate_DisplayTimezone(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	// 23:00 UTC on Mar 2 is 08:00 JST on Mar 3.
	sessions := []session.Session{
		mkSession(t, "p", "other", "2026-03-02T23:00:00Z", 30, 3),
	}

	res := Aggregate(sessions, tokyo, 10)
	if res.MostProductiveDay != "2026-03-03" {
		t.Errorf("day = %q, want 2026-03-03 in JST", res.MostProductiveDay)
	}
	if res.PeakHour != 8 {
		t.Errorf("peak hour = %d, want 8 in JST", res.PeakHour)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, "0m"},
		{30 * time.Second, "0m"},
		{45 * time.Minute, "45m"},
		{time.Hour, "1h 0m"},
		{135 * time.Minute, "2h 15m"},
	}
	for _, tc := range cases {
		if got := FormatDuration(tc.d); got != tc.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}
