// Package export writes an analysis result to a SQLite file so other
// tooling can query it. The database is a one-shot artifact of a single
// run, never read back by worklens itself.
package export

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"worklens/internal/analyze"
)

// now stamps the export time. The Result carries no timestamp of its own.
var now = time.Now

const schema = `
CREATE TABLE IF NOT EXISTS summary (
	generated_at        TEXT NOT NULL,
	total_sessions      INTEGER NOT NULL,
	total_messages      INTEGER NOT NULL,
	total_minutes       INTEGER NOT NULL,
	avg_session_minutes REAL NOT NULL,
	active_projects     INTEGER NOT NULL,
	most_productive_day TEXT,
	peak_hour           INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS project_stats (
	project           TEXT PRIMARY KEY,
	sessions          INTEGER NOT NULL,
	messages          INTEGER NOT NULL,
	minutes           INTEGER NOT NULL,
	dominant_activity TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS activity_stats (
	activity TEXT PRIMARY KEY,
	minutes  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS day_stats (
	date     TEXT PRIMARY KEY,
	sessions INTEGER NOT NULL,
	messages INTEGER NOT NULL,
	minutes  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	project            TEXT NOT NULL,
	title              TEXT NOT NULL,
	activity           TEXT NOT NULL,
	start_time         TEXT NOT NULL,
	end_time           TEXT NOT NULL,
	minutes            INTEGER NOT NULL,
	messages           INTEGER NOT NULL,
	user_messages      INTEGER NOT NULL,
	assistant_messages INTEGER NOT NULL,
	technologies       TEXT,
	topics             TEXT
);
`

// Write stores the result at path, replacing any previous export in the
// same file.
func Write(path string, res *analyze.Result) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite %s: %w", path, err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin export: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"summary", "project_stats", "activity_stats", "day_stats", "sessions"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if err := writeSummary(tx, res); err != nil {
		return err
	}
	if err := writeProjects(tx, res); err != nil {
		return err
	}
	if err := writeActivities(tx, res); err != nil {
		return err
	}
	if err := writeDays(tx, res); err != nil {
		return err
	}
	if err := writeSessions(tx, res); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit export: %w", err)
	}
	return nil
}

func writeSummary(tx *sql.Tx, res *analyze.Result) error {
	_, err := tx.Exec(`
		INSERT INTO summary (generated_at, total_sessions, total_messages,
			total_minutes, avg_session_minutes, active_projects,
			most_productive_day, peak_hour)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, now().UTC().Format(time.RFC3339), res.TotalSessions, res.TotalMessages,
		int(res.TotalDuration.Minutes()), res.AvgSessionLength.Minutes(),
		res.ActiveProjects, res.MostProductiveDay, res.PeakHour)
	if err != nil {
		return fmt.Errorf("insert summary: %w", err)
	}
	return nil
}

func writeProjects(tx *sql.Tx, res *analyze.Result) error {
	for _, ps := range res.PerProject {
		_, err := tx.Exec(`
			INSERT INTO project_stats (project, sessions, messages, minutes, dominant_activity)
			VALUES (?, ?, ?, ?, ?)
		`, ps.Project, ps.Sessions, ps.Messages, int(ps.Duration.Minutes()), ps.DominantActivity)
		if err != nil {
			return fmt.Errorf("insert project %s: %w", ps.Project, err)
		}
	}
	return nil
}

func writeActivities(tx *sql.Tx, res *analyze.Result) error {
	for activity, dur := range res.PerActivity {
		_, err := tx.Exec(`
			INSERT INTO activity_stats (activity, minutes) VALUES (?, ?)
		`, activity, int(dur.Minutes()))
		if err != nil {
			return fmt.Errorf("insert activity %s: %w", activity, err)
		}
	}
	return nil
}

func writeDays(tx *sql.Tx, res *analyze.Result) error {
	for _, day := range res.Days {
		_, err := tx.Exec(`
			INSERT INTO day_stats (date, sessions, messages, minutes)
			VALUES (?, ?, ?, ?)
		`, day.Date, day.Sessions, day.Messages, int(day.Duration.Minutes()))
		if err != nil {
			return fmt.Errorf("insert day %s: %w", day.Date, err)
		}
	}
	return nil
}

func writeSessions(tx *sql.Tx, res *analyze.Result) error {
	for _, s := range res.RecentSessions {
		_, err := tx.Exec(`
			INSERT INTO sessions (project, title, activity, start_time, end_time,
				minutes, messages, user_messages, assistant_messages, technologies, topics)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, s.Project, s.Title, s.Activity,
			s.StartTime.Format(time.RFC3339), s.EndTime.Format(time.RFC3339),
			int(s.Duration.Minutes()), s.MessageCount, s.UserMessages, s.AssistantMessages,
			strings.Join(s.Technologies, ","), strings.Join(s.Topics, ","))
		if err != nil {
			return fmt.Errorf("insert session %s: %w", s.Title, err)
		}
	}
	return nil
}
