package watch

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestWatch_RerunsOnLogWrite(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "-home-me-widget")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	var runs atomic.Int32
	ran := make(chan struct{}, 8)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, root, 50*time.Millisecond, log.New(io.Discard, "", 0), func(context.Context) error {
			runs.Add(1)
			ran <- struct{}{}
			return nil
		})
	}()

	// Give the watcher a moment to arm before writing.
	time.Sleep(200 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "s.jsonl"), []byte("{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-ran:
	case <-ctx.Done():
		t.Fatal("runner was never invoked after a log write")
	}

	cancel()
	<-done

	if runs.Load() < 1 {
		t.Errorf("runs = %d, want at least 1", runs.Load())
	}
}

func TestWatch_IgnoresUnrelatedFiles(t *testing.T) {
	root := t.TempDir()

	var runs atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, root, 50*time.Millisecond, log.New(io.Discard, "", 0), func(context.Context) error {
			runs.Add(1)
			return nil
		})
	}()

	time.Sleep(200 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("ignore"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)

	cancel()
	<-done

	if runs.Load() != 0 {
		t.Errorf("runs = %d, want 0 for unrelated files", runs.Load())
	}
}

func TestWatch_CanceledContextReturns(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Watch(ctx, t.TempDir(), time.Second, log.New(io.Discard, "", 0), func(context.Context) error {
		return nil
	})
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRelevant(t *testing.T) {
	cases := []struct {
		name string
		op   fsnotify.Op
		want bool
	}{
		{"/p/a.jsonl", fsnotify.Write, true},
		{"/p/a.jsonl.zst", fsnotify.Create, true},
		{"/p/a.jsonl", fsnotify.Chmod, false},
		{"/p/notes.txt", fsnotify.Write, false},
	}
	for _, tc := range cases {
		ev := fsnotify.Event{Name: tc.name, Op: tc.op}
		if got := relevant(ev); got != tc.want {
			t.Errorf("relevant(%s, %v) = %v, want %v", tc.name, tc.op, got, tc.want)
		}
	}
}
