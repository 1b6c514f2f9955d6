package render

import (
	"fmt"
	"strings"
	"time"

	"worklens/internal/analyze"
)

// Condensed renders the short plain-text digest used by the
// summarize_recent server tool: headline numbers plus one line per recent
// session.
func Condensed(res *analyze.Result, days int, loc *time.Location) string {
	var b strings.Builder

	if res.TotalSessions == 0 {
		fmt.Fprintf(&b, "No work sessions in the last %d days.\n", days)
		return b.String()
	}

	fmt.Fprintf(&b, "Last %d days: %d sessions, %d messages, %s across %d projects.\n",
		days, res.TotalSessions, res.TotalMessages,
		analyze.FormatDuration(res.TotalDuration), res.ActiveProjects)

	if res.MostProductiveDay != "" {
		fmt.Fprintf(&b, "Most productive day: %s. Peak hour: %02d:00.\n",
			res.MostProductiveDay, res.PeakHour)
	}

	if len(res.RecentSessions) > 0 {
		b.WriteString("\nRecent sessions:\n")
		for _, s := range res.RecentSessions {
			fmt.Fprintf(&b, "- %s  %s (%s, %s, %d msgs)\n",
				s.StartTime.In(loc).Format("2006-01-02 15:04"),
				s.Title, s.Project, analyze.FormatDuration(s.Duration), s.MessageCount)
		}
	}

	return b.String()
}
