// Package archive compacts finished JSONL work logs into zstd files. The
// scanner reads both forms transparently, so compaction never changes
// analysis results.
package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
)

// Compress rewrites srcPath as a sibling .jsonl.zst and removes the
// original. Returns the archive path.
func Compress(srcPath string) (string, error) {
	if !strings.HasSuffix(srcPath, ".jsonl") {
		return "", fmt.Errorf("not a plain log file: %s", srcPath)
	}
	destPath := srcPath + ".zst"

	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	dest, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("create archive: %w", err)
	}
	defer dest.Close()

	encoder, err := zstd.NewWriter(dest)
	if err != nil {
		return "", fmt.Errorf("create zstd encoder: %w", err)
	}

	if _, err := io.Copy(encoder, src); err != nil {
		encoder.Close()
		os.Remove(destPath)
		return "", fmt.Errorf("compress: %w", err)
	}
	if err := encoder.Close(); err != nil {
		os.Remove(destPath)
		return "", fmt.Errorf("finalize compression: %w", err)
	}

	if err := os.Remove(srcPath); err != nil {
		return "", fmt.Errorf("remove original: %w", err)
	}
	return destPath, nil
}

// CompressOlderThan compacts every .jsonl under root whose modification
// time is older than age. Returns the archive paths written. Files that
// fail to compress are skipped and reported together at the end.
func CompressOlderThan(root string, age time.Duration) ([]string, error) {
	cutoff := time.Now().Add(-age)

	var archived []string
	var failed []string

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, ".jsonl") || info.ModTime().After(cutoff) {
			return nil
		}
		dest, cerr := Compress(path)
		if cerr != nil {
			failed = append(failed, path)
			return nil
		}
		archived = append(archived, dest)
		return nil
	})
	if err != nil {
		return archived, fmt.Errorf("walk %s: %w", root, err)
	}
	if len(failed) > 0 {
		return archived, fmt.Errorf("failed to compress %d files: %s", len(failed), strings.Join(failed, ", "))
	}
	return archived, nil
}
