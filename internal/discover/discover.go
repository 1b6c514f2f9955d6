// Package discover enumerates JSONL work-log files under a source root and
// derives a stable project key for each file from its project directory.
package discover

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Source is one discovered work-log file.
type Source struct {
	Path       string
	ProjectKey string // decoded from the project directory name
	SessionID  string // filename stem; an upstream hint only
	Compressed bool   // true for .jsonl.zst archives
}

// Scan walks root and returns every .jsonl and .jsonl.zst file, sorted by
// path for deterministic processing order. A missing or unreadable root is
// an error; unreadable entries inside the root are skipped.
func Scan(root string) ([]Source, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("source root %s: %w", root, err)
	}

	var sources []Source

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip inaccessible entries
		}
		if info.IsDir() {
			return nil
		}

		name := filepath.Base(path)
		var compressed bool
		switch {
		case strings.HasSuffix(name, ".jsonl"):
		case strings.HasSuffix(name, ".jsonl.zst"):
			compressed = true
		default:
			return nil
		}

		sessionID := strings.TrimSuffix(strings.TrimSuffix(name, ".zst"), ".jsonl")

		sources = append(sources, Source{
			Path:       path,
			ProjectKey: ProjectKey(filepath.Dir(path)),
			SessionID:  sessionID,
			Compressed: compressed,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	sort.Slice(sources, func(i, j int) bool {
		return sources[i].Path < sources[j].Path
	})

	return sources, nil
}

// Open returns a reader for the source, transparently decompressing
// zstd-archived logs.
func Open(src Source) (io.ReadCloser, error) {
	f, err := os.Open(src.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", src.Path, err)
	}
	if !src.Compressed {
		return f, nil
	}

	dec, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("zstd reader %s: %w", src.Path, err)
	}
	return &zstdReadCloser{dec: dec, file: f}, nil
}

type zstdReadCloser struct {
	dec  *zstd.Decoder
	file *os.File
}

func (z *zstdReadCloser) Read(p []byte) (int, error) { return z.dec.Read(p) }

func (z *zstdReadCloser) Close() error {
	z.dec.Close()
	return z.file.Close()
}

// ProjectKey decodes a project directory name into a readable key. Upstream
// encodes the working directory by replacing path separators with dashes
// ("-Users-me-src-widget"); the key keeps the last three segments joined
// with "/", or all of them when the path is shorter. Directories that don't
// follow the encoding are used as-is.
func ProjectKey(projectDir string) string {
	name := filepath.Base(projectDir)
	if !strings.HasPrefix(name, "-") {
		return name
	}

	parts := strings.Split(name, "-")
	// Leading dash produces an empty first element; drop empties.
	var segs []string
	for _, p := range parts {
		if p != "" {
			segs = append(segs, p)
		}
	}
	if len(segs) == 0 {
		return name
	}
	if len(segs) > 3 {
		segs = segs[len(segs)-3:]
	}
	return strings.Join(segs, "/")
}
