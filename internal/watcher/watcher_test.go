package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestDebouncerCollapsesBurst(t *testing.T) {
	var mu sync.Mutex
	var flushes [][]FileEvent

	d := NewDebouncer(50*time.Millisecond, 100, func(events []FileEvent) {
		mu.Lock()
		flushes = append(flushes, events)
		mu.Unlock()
	})

	for i := 0; i < 5; i++ {
		d.Add(FileEvent{Path: "/etc/qed-ssg.toml", Type: EventModify})
	}

	time.Sleep(200 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(flushes) != 1 {
		t.Fatalf("expected 1 flush, got %d", len(flushes))
	}
	if len(flushes[0]) != 1 {
		t.Errorf("expected events for one path to collapse, got %d", len(flushes[0]))
	}
}

func TestDebouncerFlushesAtMaxBatch(t *testing.T) {
	flushed := make(chan int, 1)
	d := NewDebouncer(time.Hour, 2, func(events []FileEvent) {
		flushed <- len(events)
	})

	d.Add(FileEvent{Path: "a"})
	d.Add(FileEvent{Path: "b"})

	select {
	case n := <-flushed:
		if n != 2 {
			t.Errorf("expected 2 events, got %d", n)
		}
	case <-time.After(time.Second):
		t.Fatal("batch was not flushed")
	}
}

func TestDebouncerStopFlushesPending(t *testing.T) {
	count := 0
	d := NewDebouncer(time.Hour, 100, func(events []FileEvent) {
		count += len(events)
	})

	d.Add(FileEvent{Path: "a"})
	d.Stop()
	d.Add(FileEvent{Path: "b"})

	if count != 1 {
		t.Errorf("expected 1 flushed event, got %d", count)
	}
}

func TestWatcherReportsFileChange(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "qed-ssg.toml")
	other := filepath.Join(dir, "other.txt")
	if err := os.WriteFile(target, []byte("a = 1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	changes := make(chan []FileEvent, 4)
	cfg := DefaultConfig()
	cfg.DebounceWindow = 50 * time.Millisecond

	w, err := New(cfg, func(events []FileEvent) { changes <- events })
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := w.AddFile(target); err != nil {
		t.Fatalf("AddFile failed: %v", err)
	}
	w.Start(context.Background())
	defer w.Stop()

	if err := os.WriteFile(other, []byte("ignored"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target, []byte("a = 2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case events := <-changes:
		for _, e := range events {
			if filepath.Base(e.Path) != "qed-ssg.toml" {
				t.Errorf("unexpected event for %s", e.Path)
			}
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}
}
