package analyze

import (
	"sort"
	"time"

	"worklens/internal/classify"
	"worklens/internal/session"
)

// Aggregate folds classified sessions into a Result. Totals are
// commutative, so input order does not matter; the ordered views
// (RecentSessions, Days) are sorted here. Identical inputs produce an
// identical Result: nothing here reads the clock or any other ambient
// state, so repeated runs over unchanged logs compare equal.
func Aggregate(sessions []session.Session, loc *time.Location, recentLimit int) *Result {
	res := &Result{
		PeakHour:    -1,
		PerProject:  make(map[string]*ProjectStats),
		PerActivity: make(map[string]time.Duration),
	}
	if len(sessions) == 0 {
		return res
	}

	activityTime := make(map[projectActivity]time.Duration)
	dayTotals := make(map[string]*DaySummary)
	hourCounts := make(map[int]int)

	for i := range sessions {
		s := &sessions[i]
		dur := s.Duration()

		res.TotalSessions++
		res.TotalMessages += s.MessageCount
		res.TotalDuration += dur
		res.PerActivity[s.Activity] += dur

		ps := res.PerProject[s.Project]
		if ps == nil {
			ps = &ProjectStats{Project: s.Project}
			res.PerProject[s.Project] = ps
		}
		ps.Sessions++
		ps.Messages += s.MessageCount
		ps.Duration += dur
		activityTime[projectActivity{s.Project, s.Activity}] += dur

		local := s.StartTime.In(loc)
		date := local.Format("2006-01-02")
		day := dayTotals[date]
		if day == nil {
			day = &DaySummary{Date: date}
			dayTotals[date] = day
		}
		day.Sessions++
		day.Messages += s.MessageCount
		day.Duration += dur

		hourCounts[local.Hour()]++

		res.RecentSessions = append(res.RecentSessions, SessionSummary{
			Project:           s.Project,
			Title:             s.Title(),
			Activity:          s.Activity,
			StartTime:         s.StartTime,
			EndTime:           s.EndTime,
			Duration:          dur,
			MessageCount:      s.MessageCount,
			UserMessages:      s.UserMessages,
			AssistantMessages: s.AssistantMessages,
			Technologies:      s.Technologies,
			Topics:            s.Topics,
		})
	}

	res.ActiveProjects = len(res.PerProject)
	res.AvgSessionLength = res.TotalDuration / time.Duration(res.TotalSessions)

	for project, ps := range res.PerProject {
		ps.DominantActivity = dominantActivity(project, activityTime)
	}

	res.MostProductiveDay = maxDay(dayTotals)
	res.PeakHour = peakHour(hourCounts)

	for _, day := range dayTotals {
		res.Days = append(res.Days, *day)
	}
	sort.Slice(res.Days, func(i, j int) bool {
		return res.Days[i].Date > res.Days[j].Date
	})

	sort.SliceStable(res.RecentSessions, func(i, j int) bool {
		return res.RecentSessions[i].StartTime.After(res.RecentSessions[j].StartTime)
	})
	if recentLimit > 0 && len(res.RecentSessions) > recentLimit {
		res.RecentSessions = res.RecentSessions[:recentLimit]
	}

	return res
}

type projectActivity struct {
	project, activity string
}

// dominantActivity picks the label with the most cumulative time for a
// project. Ties resolve by Labels order, so the result is stable.
func dominantActivity(project string, activityTime map[projectActivity]time.Duration) string {
	var best string
	var bestDur time.Duration = -1
	for _, label := range classify.Labels {
		if dur, ok := activityTime[projectActivity{project, label}]; ok && dur > bestDur {
			best, bestDur = label, dur
		}
	}
	if best == "" {
		return classify.ActivityOther
	}
	return best
}

// maxDay returns the date with the largest cumulative duration, earliest
// date winning ties.
func maxDay(days map[string]*DaySummary) string {
	var best string
	var bestDur time.Duration = -1
	dates := make([]string, 0, len(days))
	for d := range days {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	for _, d := range dates {
		if days[d].Duration > bestDur {
			best, bestDur = d, days[d].Duration
		}
	}
	return best
}

// peakHour returns the hour with the most session starts, earliest hour
// winning ties, -1 when there are none.
func peakHour(counts map[int]int) int {
	best, bestCount := -1, 0
	for h := 0; h < 24; h++ {
		if counts[h] > bestCount {
			best, bestCount = h, counts[h]
		}
	}
	return best
}
