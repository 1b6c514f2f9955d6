package transcript

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Skip reasons recorded in Diagnostics.Reasons.
const (
	ReasonMalformed       = "malformed"
	ReasonOversized       = "oversized"
	ReasonSummary         = "summary"
	ReasonUnsupportedType = "unsupported_type"
	ReasonIncomplete      = "incomplete"
)

// Diagnostics describes data-quality issues encountered while assembling one
// file. Skipped lines are never fatal; callers surface these as log lines.
type Diagnostics struct {
	File         string
	LinesTotal   int
	LinesSkipped int
	Reasons      map[string]int
}

func (d Diagnostics) skip(reason string) Diagnostics {
	d.LinesSkipped++
	d.Reasons[reason]++
	return d
}

// String renders diagnostics the way they appear in informational log output.
func (d Diagnostics) String() string {
	if d.LinesSkipped == 0 {
		return fmt.Sprintf("%s: %d lines, all valid", d.File, d.LinesTotal)
	}
	reasons := make([]string, 0, len(d.Reasons))
	for r := range d.Reasons {
		reasons = append(reasons, r)
	}
	sort.Strings(reasons)
	var parts []string
	for _, r := range reasons {
		parts = append(parts, fmt.Sprintf("%d %s", d.Reasons[r], r))
	}
	return fmt.Sprintf("%s: skipped %d of %d lines (%s)", d.File, d.LinesSkipped, d.LinesTotal, strings.Join(parts, ", "))
}

// Assemble reads a JSONL work log and returns its valid conversational
// entries tagged with the given project key, plus per-file diagnostics.
// Malformed, oversized, and non-conversational lines are counted and
// dropped; they never abort the file. Only a failure of the underlying
// reader is an error.
func Assemble(r io.Reader, project string, maxLineBytes int) ([]Entry, Diagnostics, error) {
	diag := Diagnostics{Reasons: make(map[string]int)}
	var entries []Entry

	br := bufio.NewReaderSize(r, 64*1024)
	for {
		line, tooLong, err := readLine(br, maxLineBytes)
		if err == io.EOF {
			break
		}
		if err != nil {
			return entries, diag, fmt.Errorf("read log: %w", err)
		}

		diag.LinesTotal++

		if tooLong {
			diag = diag.skip(ReasonOversized)
			continue
		}

		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		var entry Entry
		if jsonErr := json.Unmarshal(line, &entry); jsonErr != nil {
			diag = diag.skip(ReasonMalformed)
			continue
		}

		switch entry.Type {
		case RoleUser, RoleAssistant:
			// conversational, keep going
		case "summary":
			// upstream summary records are not part of the timeline
			diag = diag.skip(ReasonSummary)
			continue
		default:
			diag = diag.skip(ReasonUnsupportedType)
			continue
		}

		if entry.Timestamp.IsZero() || entry.Message == nil {
			diag = diag.skip(ReasonIncomplete)
			continue
		}

		entry.Timestamp = entry.Timestamp.UTC()
		entry.Project = project
		entries = append(entries, entry)
	}

	return entries, diag, nil
}

// readLine reads one newline-terminated line, consuming but discarding
// anything past maxLineBytes so one pathological record cannot poison the
// rest of the file.
func readLine(br *bufio.Reader, maxLineBytes int) ([]byte, bool, error) {
	var buf []byte
	tooLong := false

	for {
		chunk, isPrefix, err := br.ReadLine()
		if err != nil {
			return buf, tooLong, err
		}
		if !tooLong {
			if len(buf)+len(chunk) > maxLineBytes {
				tooLong = true
				buf = nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if !isPrefix {
			return buf, tooLong, nil
		}
	}
}

// SortByTime stably orders entries by timestamp. Entries from one project
// may span several files, and upstream files occasionally interleave
// out-of-order records; segmentation requires a sorted sequence, so
// out-of-order entries are reordered rather than dropped.
func SortByTime(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
}
