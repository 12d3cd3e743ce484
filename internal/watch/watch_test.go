package watch

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/wordpace/internal/store"
	"github.com/verte-zerg/wordpace/internal/tracker"
	"github.com/verte-zerg/wordpace/internal/vault"
)

func TestDiffReportsChanges(t *testing.T) {
	t0 := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	prev := map[string]vault.Stamp{
		"a.md": {ModTime: t0, Size: 10},
		"b.md": {ModTime: t0, Size: 10},
		"c.md": {ModTime: t0, Size: 10},
	}
	cur := map[string]vault.Stamp{
		"a.md": {ModTime: t0, Size: 10},
		"b.md": {ModTime: t0.Add(time.Second), Size: 10},
		"d.md": {ModTime: t0.Add(2 * time.Second), Size: 4},
	}
	got := Diff(prev, cur)
	want := []string{"b.md", "c.md", "d.md"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if active := latest(got, cur); active != "d.md" {
		t.Fatalf("expected d.md as active, got %s", active)
	}
	if active := latest([]string{"c.md"}, cur); active != "" {
		t.Fatalf("expected empty path for removed document, got %s", active)
	}
}

func TestRunTracksEdits(t *testing.T) {
	dir := t.TempDir()
	draft := filepath.Join(dir, "draft.md")
	if err := os.WriteFile(draft, []byte("---\ngoal: 10\n---\none two"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	v, err := vault.Open(dir, "goal", nil)
	if err != nil {
		t.Fatalf("open vault: %v", err)
	}
	st, err := store.Open(filepath.Join(t.TempDir(), "wordpace.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer func() { _ = st.Close() }()

	c := tracker.New(st, v, v, tracker.Options{WritebackDelay: 10 * time.Millisecond})
	if err := c.Open(context.Background()); err != nil {
		t.Fatalf("open: %v", err)
	}
	defer c.Close()

	updates := make(chan tracker.Progress, 16)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, c, v, Config{
			Interval: 10 * time.Millisecond,
			Logger:   log.New(io.Discard, "", 0),
			OnUpdate: func(p tracker.Progress) { updates <- p },
		})
	}()

	waitFor := func(global int) {
		t.Helper()
		deadline := time.After(2 * time.Second)
		for {
			select {
			case p := <-updates:
				if p.Global == global {
					return
				}
			case <-deadline:
				t.Fatalf("timed out waiting for global %d", global)
			}
		}
	}
	waitFor(2)

	if err := os.WriteFile(draft, []byte("---\ngoal: 10\n---\none two three four five"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	waitFor(5)

	deadline := time.Now().Add(2 * time.Second)
	for {
		data, err := os.ReadFile(draft)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		props, err := vault.Properties(string(data))
		if err == nil && props["words"] == 5 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected word count write-back, got %q", data)
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("run: %v", err)
	}
}
