// Package ledger keeps the per-day start/end word counts in date order.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/verte-zerg/wordpace/internal/model"
)

// ErrNoEntry is returned when a date has no ledger entry.
var ErrNoEntry = errors.New("no ledger entry for date")

// Ledger is a date-keyed ordered map of daily stats. Entries are kept in
// ascending date order and adjacent entries chain: next.start == prev.end.
type Ledger struct {
	entries []model.DailyStat
	index   map[string]int
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{index: map[string]int{}}
}

// FromEntries builds a ledger from stored entries, sorting them by date.
// Later duplicates of a date replace earlier ones.
func FromEntries(entries []model.DailyStat) *Ledger {
	l := New()
	for _, e := range entries {
		if e.Date == "" {
			continue
		}
		if i, ok := l.index[e.Date]; ok {
			l.entries[i] = e
			continue
		}
		l.index[e.Date] = len(l.entries)
		l.entries = append(l.entries, e)
	}
	sort.SliceStable(l.entries, func(i, j int) bool {
		return l.entries[i].Date < l.entries[j].Date
	})
	l.reindex()
	return l
}

func (l *Ledger) reindex() {
	l.index = make(map[string]int, len(l.entries))
	for i, e := range l.entries {
		l.index[e.Date] = i
	}
}

// Len returns the number of entries.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the entries in date order.
func (l *Ledger) Entries() []model.DailyStat {
	out := make([]model.DailyStat, len(l.entries))
	copy(out, l.entries)
	return out
}

// Get returns the entry for date.
func (l *Ledger) Get(date string) (model.DailyStat, bool) {
	i, ok := l.index[date]
	if !ok {
		return model.DailyStat{}, false
	}
	return l.entries[i], true
}

// First returns the earliest entry.
func (l *Ledger) First() (model.DailyStat, bool) {
	if len(l.entries) == 0 {
		return model.DailyStat{}, false
	}
	return l.entries[0], true
}

// Last returns the latest entry.
func (l *Ledger) Last() (model.DailyStat, bool) {
	if len(l.entries) == 0 {
		return model.DailyStat{}, false
	}
	return l.entries[len(l.entries)-1], true
}

// Before returns the most recent entry strictly before date.
func (l *Ledger) Before(date string) (model.DailyStat, bool) {
	i := sort.Search(len(l.entries), func(i int) bool {
		return l.entries[i].Date >= date
	})
	if i == 0 {
		return model.DailyStat{}, false
	}
	return l.entries[i-1], true
}

// RecomputeForToday records the global count for today. A new day closes
// the previous last entry at global and opens today's entry from it; the
// first entry ever opens from startingCount. A day older than the last
// entry updates the last entry. It reports whether the ledger changed.
func (l *Ledger) RecomputeForToday(global int, today string, startingCount int) bool {
	n := len(l.entries)
	if n > 0 && today <= l.entries[n-1].Date {
		// Today, or the clock moved backwards: keep counting into the
		// latest day so every start still matches the previous end.
		if int(l.entries[n-1].EndWordCount) == global {
			return false
		}
		l.entries[n-1].EndWordCount = model.Count(global)
		return true
	}
	entry := model.DailyStat{
		Date:           today,
		StartWordCount: model.Count(startingCount),
		EndWordCount:   model.Count(global),
	}
	if n > 0 {
		l.entries[n-1].EndWordCount = model.Count(global)
		entry.StartWordCount = model.Count(global)
	}
	l.index[today] = n
	l.entries = append(l.entries, entry)
	return true
}

// WrittenToday returns the words written today for the given global count.
// With a single entry the starting count rebases the first day.
func (l *Ledger) WrittenToday(global int, today string, startingCount int) int {
	if len(l.entries) == 0 {
		return global - startingCount
	}
	if len(l.entries) == 1 {
		first := l.entries[0]
		if first.Date == today {
			return global - int(first.StartWordCount) - startingCount - int(first.Skip)
		}
	}
	if i, ok := l.index[today]; ok {
		e := l.entries[i]
		return global - int(e.StartWordCount) - int(e.Skip)
	}
	last := l.entries[len(l.entries)-1]
	return global - int(last.EndWordCount)
}

// SetSkip stores a manual correction for date.
func (l *Ledger) SetSkip(date string, skip int) error {
	i, ok := l.index[date]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoEntry, date)
	}
	l.entries[i].Skip = model.Count(skip)
	return nil
}

// Clear removes every entry.
func (l *Ledger) Clear() {
	l.entries = nil
	l.index = map[string]int{}
}

// MarshalJSON encodes the ledger as an array of daily stats.
func (l *Ledger) MarshalJSON() ([]byte, error) {
	if l == nil || l.entries == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.entries)
}

// UnmarshalJSON decodes an array of daily stats.
func (l *Ledger) UnmarshalJSON(data []byte) error {
	var entries []model.DailyStat
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to decode ledger: %w", err)
	}
	*l = *FromEntries(entries)
	return nil
}
