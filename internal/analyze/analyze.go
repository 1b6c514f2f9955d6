package analyze

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"worklens/internal/classify"
	"worklens/internal/config"
	"worklens/internal/discover"
	"worklens/internal/filter"
	"worklens/internal/session"
	"worklens/internal/transcript"
)

// assembleWorkers bounds how many log files are read concurrently.
const assembleWorkers = 4

// Analyzer runs the full pipeline: discover log files, assemble entries,
// segment into sessions, classify, aggregate. One Analyzer is safe for
// repeated Analyze calls; every call re-reads the source tree.
type Analyzer struct {
	cfg        config.Config
	classifier *classify.Classifier
	log        *log.Logger
}

// New builds an analyzer from the given configuration. logger receives
// informational diagnostics (skipped lines, unreadable files); pass nil to
// silence them.
func New(cfg config.Config, logger *log.Logger) *Analyzer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Analyzer{
		cfg:        cfg,
		classifier: classify.New(cfg.Classify.ExtraTechnologies, cfg.Classify.Topics),
		log:        logger,
	}
}

// Analyze runs one analysis over the configured log root, restricted by the
// filter. An unreadable root is fatal; unreadable or malformed individual
// files are logged and skipped. Zero matching sessions is a success.
func (a *Analyzer) Analyze(ctx context.Context, f filter.Filter) (*Result, error) {
	loc, err := a.cfg.Location()
	if err != nil {
		return nil, err
	}

	sources, err := discover.Scan(a.cfg.LogRoot)
	if err != nil {
		return nil, err
	}

	// Files from non-matching projects never need to be read.
	matching := sources[:0]
	for _, src := range sources {
		if f.MatchProject(src.ProjectKey) {
			matching = append(matching, src)
		}
	}

	byProject, err := a.assembleAll(ctx, matching)
	if err != nil {
		return nil, err
	}

	gap := a.cfg.GapThreshold()
	var sessions []session.Session
	for _, entries := range byProject {
		transcript.SortByTime(entries)
		for _, s := range session.Segment(entries, gap, a.cfg.Session.MinMessages) {
			if !f.MatchTime(s.StartTime) {
				continue
			}
			a.classifier.Classify(&s)
			sessions = append(sessions, s)
		}
	}

	res := Aggregate(sessions, loc, a.cfg.RecentSessions)
	res.From, res.To = f.From, f.To
	return res, nil
}

// assembleAll reads the matching sources with a small worker pool and
// returns entries grouped by project key.
func (a *Analyzer) assembleAll(ctx context.Context, sources []discover.Source) (map[string][]transcript.Entry, error) {
	jobs := make(chan discover.Source)

	var mu sync.Mutex
	byProject := make(map[string][]transcript.Entry)

	var wg sync.WaitGroup
	for w := 0; w < assembleWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for src := range jobs {
				entries, diag := a.assembleOne(src)
				mu.Lock()
				if len(entries) > 0 {
					byProject[src.ProjectKey] = append(byProject[src.ProjectKey], entries...)
				}
				mu.Unlock()
				if diag.LinesSkipped > 0 {
					a.log.Print(diag.String())
				}
			}
		}()
	}

	var ctxErr error
feed:
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			ctxErr = err
			break
		}
		select {
		case <-ctx.Done():
			ctxErr = ctx.Err()
			break feed
		case jobs <- src:
		}
	}
	close(jobs)
	wg.Wait()

	if ctxErr != nil {
		return nil, fmt.Errorf("analysis canceled: %w", ctxErr)
	}
	return byProject, nil
}

// assembleOne reads a single log file. Failures here are per-file: the file
// is skipped with a log line and the run continues.
func (a *Analyzer) assembleOne(src discover.Source) ([]transcript.Entry, transcript.Diagnostics) {
	r, err := discover.Open(src)
	if err != nil {
		a.log.Printf("skipping %s: %v", src.Path, err)
		return nil, transcript.Diagnostics{File: src.Path}
	}
	defer r.Close()

	entries, diag, err := transcript.Assemble(r, src.ProjectKey, a.cfg.Parser.MaxLineBytes)
	diag.File = src.Path
	if err != nil {
		a.log.Printf("skipping rest of %s: %v", src.Path, err)
	}
	return entries, diag
}

// LastDays is a convenience wrapper for the trailing-window server queries.
func (a *Analyzer) LastDays(ctx context.Context, days int, project string) (*Result, error) {
	loc, err := a.cfg.Location()
	if err != nil {
		return nil, err
	}
	f := filter.LastDays(days, loc)
	f.Project = project
	return a.Analyze(ctx, f)
}

// FormatDuration renders a duration the way reports display it.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return "0m"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
