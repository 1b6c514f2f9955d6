// Package render turns an analysis result into report output. Markdown and
// JSON are projections of the same result; neither carries information the
// other lacks.
package render

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"worklens/internal/analyze"
	"worklens/internal/classify"
)

// now is the clock used for the generation stamp. The stamp lives at the
// rendering boundary so the Result itself stays reproducible.
var now = time.Now

// Markdown renders the full sectioned report. Timestamps are shown in loc.
func Markdown(res *analyze.Result, loc *time.Location) string {
	var b strings.Builder

	b.WriteString("# Work Report\n\n")
	b.WriteString(fmt.Sprintf("**Period:** %s\n", periodLine(res, loc)))
	b.WriteString(fmt.Sprintf("**Generated:** %s\n\n", now().In(loc).Format("2006-01-02 15:04 MST")))

	b.WriteString("## Executive Summary\n\n")
	writeExecutiveSummary(&b, res)

	b.WriteString("## Project Breakdown\n\n")
	writeProjectBreakdown(&b, res)

	b.WriteString("## Activity Analysis\n\n")
	writeActivityAnalysis(&b, res)

	b.WriteString("## Time Analysis\n\n")
	writeTimeAnalysis(&b, res)

	b.WriteString("## Recent Sessions\n\n")
	writeRecentSessions(&b, res, loc)

	b.WriteString("## Insights\n\n")
	writeInsights(&b, res)

	return b.String()
}

func periodLine(res *analyze.Result, loc *time.Location) string {
	switch {
	case res.From != nil && res.To != nil:
		return fmt.Sprintf("%s to %s", res.From.In(loc).Format("2006-01-02"), res.To.In(loc).Format("2006-01-02"))
	case res.From != nil:
		return "from " + res.From.In(loc).Format("2006-01-02")
	case res.To != nil:
		return "until " + res.To.In(loc).Format("2006-01-02")
	default:
		return "all time"
	}
}

func writeExecutiveSummary(b *strings.Builder, res *analyze.Result) {
	b.WriteString(fmt.Sprintf("- **Sessions:** %d\n", res.TotalSessions))
	b.WriteString(fmt.Sprintf("- **Messages:** %d\n", res.TotalMessages))
	b.WriteString(fmt.Sprintf("- **Total Work Time:** %s\n", analyze.FormatDuration(res.TotalDuration)))
	b.WriteString(fmt.Sprintf("- **Average Session:** %s\n", analyze.FormatDuration(res.AvgSessionLength)))
	b.WriteString(fmt.Sprintf("- **Active Projects:** %d\n\n", res.ActiveProjects))
}

func writeProjectBreakdown(b *strings.Builder, res *analyze.Result) {
	if len(res.PerProject) == 0 {
		b.WriteString("No project activity in this period.\n\n")
		return
	}

	projects := make([]*analyze.ProjectStats, 0, len(res.PerProject))
	for _, ps := range res.PerProject {
		projects = append(projects, ps)
	}
	sort.Slice(projects, func(i, j int) bool {
		if projects[i].Duration != projects[j].Duration {
			return projects[i].Duration > projects[j].Duration
		}
		return projects[i].Project < projects[j].Project
	})

	for _, ps := range projects {
		b.WriteString(fmt.Sprintf("### %s\n\n", ps.Project))
		b.WriteString(fmt.Sprintf("- **Sessions:** %d\n", ps.Sessions))
		b.WriteString(fmt.Sprintf("- **Messages:** %d\n", ps.Messages))
		b.WriteString(fmt.Sprintf("- **Work Time:** %s\n", analyze.FormatDuration(ps.Duration)))
		b.WriteString(fmt.Sprintf("- **Primary Activity:** %s\n\n", ps.DominantActivity))
	}
}

func writeActivityAnalysis(b *strings.Builder, res *analyze.Result) {
	if len(res.PerActivity) == 0 {
		b.WriteString("No activity recorded.\n\n")
		return
	}

	b.WriteString("| Activity | Time | Share |\n")
	b.WriteString("|----------|------|-------|\n")
	for _, label := range classify.Labels {
		dur, ok := res.PerActivity[label]
		if !ok {
			continue
		}
		share := 0.0
		if res.TotalDuration > 0 {
			share = float64(dur) / float64(res.TotalDuration) * 100
		}
		b.WriteString(fmt.Sprintf("| %s | %s | %.0f%% |\n", label, analyze.FormatDuration(dur), share))
	}
	b.WriteString("\n")
}

func writeTimeAnalysis(b *strings.Builder, res *analyze.Result) {
	if res.TotalSessions == 0 {
		b.WriteString("No sessions in this period.\n\n")
		return
	}

	b.WriteString(fmt.Sprintf("- **Most Productive Day:** %s\n", res.MostProductiveDay))
	b.WriteString(fmt.Sprintf("- **Peak Activity Hour:** %02d:00\n\n", res.PeakHour))

	if len(res.Days) > 0 {
		b.WriteString("| Day | Sessions | Messages | Time |\n")
		b.WriteString("|-----|----------|----------|------|\n")
		for _, day := range res.Days {
			b.WriteString(fmt.Sprintf("| %s | %d | %d | %s |\n",
				day.Date, day.Sessions, day.Messages, analyze.FormatDuration(day.Duration)))
		}
		b.WriteString("\n")
	}
}

func writeRecentSessions(b *strings.Builder, res *analyze.Result, loc *time.Location) {
	if len(res.RecentSessions) == 0 {
		b.WriteString("No sessions in this period.\n\n")
		return
	}

	for _, s := range res.RecentSessions {
		b.WriteString(fmt.Sprintf("### %s\n\n", s.Title))
		b.WriteString(fmt.Sprintf("- **Project:** %s\n", s.Project))
		b.WriteString(fmt.Sprintf("- **Time:** %s\n", s.StartTime.In(loc).Format("2006-01-02 15:04")))
		b.WriteString(fmt.Sprintf("- **Duration:** %s\n", analyze.FormatDuration(s.Duration)))
		b.WriteString(fmt.Sprintf("- **Messages:** %d (user %d, assistant %d)\n",
			s.MessageCount, s.UserMessages, s.AssistantMessages))
		b.WriteString(fmt.Sprintf("- **Activity:** %s\n", s.Activity))
		if len(s.Technologies) > 0 {
			b.WriteString(fmt.Sprintf("- **Technologies:** %s\n", strings.Join(s.Technologies, ", ")))
		}
		if len(s.Topics) > 0 {
			b.WriteString(fmt.Sprintf("- **Topics:** %s\n", strings.Join(s.Topics, ", ")))
		}
		b.WriteString("\n")
	}
}

func writeInsights(b *strings.Builder, res *analyze.Result) {
	insights := Insights(res)
	for _, line := range insights {
		b.WriteString("- " + line + "\n")
	}
	b.WriteString("\n")
}

// Insights derives short recommendations from the aggregate numbers alone.
func Insights(res *analyze.Result) []string {
	var out []string

	if res.TotalSessions > 0 {
		avg := res.AvgSessionLength
		if avg < 15*time.Minute {
			out = append(out, "**Short sessions:** consider consolidating related tasks into longer, more focused sessions.")
		} else if avg > 2*time.Hour {
			out = append(out, "**Long sessions:** consider taking breaks during extended sessions to maintain focus.")
		}
	}

	if res.ActiveProjects > 5 {
		out = append(out, "**High project diversity:** batching similar tasks may reduce context-switching overhead.")
	} else if res.ActiveProjects == 1 {
		out = append(out, "**Single project focus:** all activity in one project this period.")
	}

	switch dominantLabel(res) {
	case classify.ActivityDebugging:
		out = append(out, "**Debug-heavy period:** consider adding tests or review practices.")
	case classify.ActivityLearning:
		out = append(out, "**Learning mode:** document what you learned for future reference.")
	case classify.ActivityCoding:
		out = append(out, "**High coding output** this period.")
	}

	if len(out) == 0 {
		out = append(out, "Work patterns look steady this period.")
	}
	return out
}

// dominantLabel returns the activity with the most cumulative time, empty
// when there is none worth calling out.
func dominantLabel(res *analyze.Result) string {
	var best string
	var bestDur time.Duration
	for _, label := range classify.Labels {
		if label == classify.ActivityOther {
			continue
		}
		if dur := res.PerActivity[label]; dur > bestDur {
			best, bestDur = label, dur
		}
	}
	return best
}
