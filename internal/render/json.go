package render

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"worklens/internal/analyze"
)

// Report is the JSON wire form of an analysis result. Field names are part
// of the output contract; durations are whole minutes, timestamps ISO-8601.
type Report struct {
	GeneratedAt string  `json:"generated_at"`
	From        *string `json:"from,omitempty"`
	To          *string `json:"to,omitempty"`

	Summary struct {
		TotalSessions     int     `json:"total_sessions"`
		TotalMessages     int     `json:"total_messages"`
		TotalMinutes      int     `json:"total_minutes"`
		AvgSessionMinutes float64 `json:"avg_session_minutes"`
		ActiveProjects    int     `json:"active_projects"`
		MostProductiveDay string  `json:"most_productive_day,omitempty"`
		PeakHour          int     `json:"peak_hour"`
	} `json:"summary"`

	Projects   []ProjectReport  `json:"projects"`
	Activities []ActivityReport `json:"activities"`
	Days       []DayReport      `json:"days"`
	Recent     []SessionReport  `json:"recent_sessions"`
	Insights   []string         `json:"insights"`
}

type ProjectReport struct {
	Project          string `json:"project"`
	Sessions         int    `json:"sessions"`
	Messages         int    `json:"messages"`
	Minutes          int    `json:"minutes"`
	DominantActivity string `json:"dominant_activity"`
}

type ActivityReport struct {
	Activity string `json:"activity"`
	Minutes  int    `json:"minutes"`
}

type DayReport struct {
	Date     string `json:"date"`
	Sessions int    `json:"sessions"`
	Messages int    `json:"messages"`
	Minutes  int    `json:"minutes"`
}

type SessionReport struct {
	Project           string   `json:"project"`
	Title             string   `json:"title"`
	Activity          string   `json:"activity"`
	StartTime         string   `json:"start_time"`
	EndTime           string   `json:"end_time"`
	Minutes           int      `json:"minutes"`
	Messages          int      `json:"messages"`
	UserMessages      int      `json:"user_messages"`
	AssistantMessages int      `json:"assistant_messages"`
	Technologies      []string `json:"technologies,omitempty"`
	Topics            []string `json:"topics,omitempty"`
}

// JSON renders the result as indented JSON.
func JSON(res *analyze.Result, loc *time.Location) (string, error) {
	rep := buildReport(res, loc)
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	return string(data) + "\n", nil
}

// ParseReport decodes JSON report output back into its wire form.
func ParseReport(data []byte) (*Report, error) {
	var rep Report
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &rep, nil
}

func buildReport(res *analyze.Result, loc *time.Location) *Report {
	rep := &Report{
		GeneratedAt: now().In(loc).Format(time.RFC3339),
		Projects:    []ProjectReport{},
		Activities:  []ActivityReport{},
		Days:        []DayReport{},
		Recent:      []SessionReport{},
		Insights:    Insights(res),
	}
	if res.From != nil {
		s := res.From.In(loc).Format(time.RFC3339)
		rep.From = &s
	}
	if res.To != nil {
		s := res.To.In(loc).Format(time.RFC3339)
		rep.To = &s
	}

	rep.Summary.TotalSessions = res.TotalSessions
	rep.Summary.TotalMessages = res.TotalMessages
	rep.Summary.TotalMinutes = int(res.TotalDuration.Minutes())
	rep.Summary.AvgSessionMinutes = res.AvgSessionLength.Minutes()
	rep.Summary.ActiveProjects = res.ActiveProjects
	rep.Summary.MostProductiveDay = res.MostProductiveDay
	rep.Summary.PeakHour = res.PeakHour

	for _, ps := range res.PerProject {
		rep.Projects = append(rep.Projects, ProjectReport{
			Project:          ps.Project,
			Sessions:         ps.Sessions,
			Messages:         ps.Messages,
			Minutes:          int(ps.Duration.Minutes()),
			DominantActivity: ps.DominantActivity,
		})
	}
	sort.Slice(rep.Projects, func(i, j int) bool {
		return rep.Projects[i].Project < rep.Projects[j].Project
	})

	for activity, dur := range res.PerActivity {
		rep.Activities = append(rep.Activities, ActivityReport{
			Activity: activity,
			Minutes:  int(dur.Minutes()),
		})
	}
	sort.Slice(rep.Activities, func(i, j int) bool {
		return rep.Activities[i].Activity < rep.Activities[j].Activity
	})

	for _, day := range res.Days {
		rep.Days = append(rep.Days, DayReport{
			Date:     day.Date,
			Sessions: day.Sessions,
			Messages: day.Messages,
			Minutes:  int(day.Duration.Minutes()),
		})
	}

	for _, s := range res.RecentSessions {
		rep.Recent = append(rep.Recent, SessionReport{
			Project:           s.Project,
			Title:             s.Title,
			Activity:          s.Activity,
			StartTime:         s.StartTime.In(loc).Format(time.RFC3339),
			EndTime:           s.EndTime.In(loc).Format(time.RFC3339),
			Minutes:           int(s.Duration.Minutes()),
			Messages:          s.MessageCount,
			UserMessages:      s.UserMessages,
			AssistantMessages: s.AssistantMessages,
			Technologies:      s.Technologies,
			Topics:            s.Topics,
		})
	}

	return rep
}
