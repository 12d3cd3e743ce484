// Package watch polls the vault and feeds document changes to the tracker.
package watch

import (
	"context"
	"errors"
	"log"
	"os"
	"sort"
	"time"

	"github.com/verte-zerg/wordpace/internal/model"
	"github.com/verte-zerg/wordpace/internal/tracker"
	"github.com/verte-zerg/wordpace/internal/vault"
)

// Fingerprinter reports the modification stamps of the vault documents.
type Fingerprinter interface {
	Fingerprint(ctx context.Context) (map[string]vault.Stamp, error)
}

// Config controls the watch loop.
type Config struct {
	Interval time.Duration
	Logger   *log.Logger
	Now      func() time.Time
	// OnUpdate is called after every poll that changed tracked state.
	OnUpdate func(tracker.Progress)
}

// Run polls until ctx is canceled. Each poll that finds changed documents
// dispatches one DocumentChanged for the most recently modified of them.
// Debounced write-backs and day rollovers are handled on the same loop.
func Run(ctx context.Context, c *tracker.Controller, src Fingerprinter, cfg Config) error {
	if cfg.Interval <= 0 {
		cfg.Interval = 2 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(os.Stderr, "wordpace: ", log.LstdFlags)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	prev, err := src.Fingerprint(ctx)
	if err != nil {
		return err
	}
	if err := c.Sync(ctx); err != nil {
		if !errors.Is(err, tracker.ErrPersist) {
			return err
		}
		cfg.Logger.Printf("sync: %v", err)
	}
	day := model.DateKey(cfg.Now())
	notify(cfg, c)

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-c.Writeback():
			wrote, err := c.FlushWriteback(ctx)
			if err != nil {
				cfg.Logger.Printf("write-back: %v", err)
			} else if wrote {
				cfg.Logger.Printf("word count written back")
			}
		case <-ticker.C:
			if today := model.DateKey(cfg.Now()); today != day {
				day = today
				if err := c.Sync(ctx); err != nil {
					cfg.Logger.Printf("day rollover: %v", err)
				}
				notify(cfg, c)
			}
			cur, err := src.Fingerprint(ctx)
			if err != nil {
				cfg.Logger.Printf("poll: %v", err)
				continue
			}
			changed := Diff(prev, cur)
			prev = cur
			if len(changed) == 0 {
				continue
			}
			ev := tracker.DocumentChanged{Path: latest(changed, cur)}
			if err := c.Dispatch(ctx, ev); err != nil {
				cfg.Logger.Printf("update: %v", err)
				continue
			}
			notify(cfg, c)
		}
	}
}

func notify(cfg Config, c *tracker.Controller) {
	if cfg.OnUpdate != nil {
		cfg.OnUpdate(c.Today())
	}
}

// Diff returns the sorted paths that were added, removed or modified.
func Diff(prev, cur map[string]vault.Stamp) []string {
	var out []string
	for path, stamp := range cur {
		old, ok := prev[path]
		if !ok || !old.ModTime.Equal(stamp.ModTime) || old.Size != stamp.Size {
			out = append(out, path)
		}
	}
	for path := range prev {
		if _, ok := cur[path]; !ok {
			out = append(out, path)
		}
	}
	sort.Strings(out)
	return out
}

// latest picks the most recently modified path that still exists. Removed
// documents yield an empty path, which rescans without a write-back.
func latest(paths []string, cur map[string]vault.Stamp) string {
	best := ""
	var bestTime time.Time
	for _, path := range paths {
		stamp, ok := cur[path]
		if !ok {
			continue
		}
		if best == "" || stamp.ModTime.After(bestTime) {
			best = path
			bestTime = stamp.ModTime
		}
	}
	return best
}
