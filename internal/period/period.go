// Package period rebuilds a gap-free per-day table for an ISO week or a
// calendar month from the sparse ledger.
package period

import (
	"fmt"
	"time"

	"github.com/verte-zerg/wordpace/internal/goal"
	"github.com/verte-zerg/wordpace/internal/ledger"
	"github.com/verte-zerg/wordpace/internal/model"
)

// Row is one calendar day of a period.
type Row struct {
	Date       time.Time
	Key        string
	Start      int
	End        int
	Skip       int
	Written    int
	Cumulative int
	Remaining  int
	Tier       model.Tier
	Recorded   bool
	Future     bool
}

// Period is a reconstructed week or month.
type Period struct {
	Kind  model.PeriodKind
	First time.Time
	Last  time.Time
	Rows  []Row

	// RawTotal is last.End - first.Start; Total also subtracts skips.
	RawTotal int
	Total    int
	Skipped  int

	Goal    int
	Tier    model.Tier
	Percent int
	Level   model.Level
}

// Label returns a short title such as "2024-W10" or "March 2024".
func (p Period) Label() string {
	if p.Kind == model.PeriodMonth {
		return p.First.Format("January 2006")
	}
	year, week := p.First.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// Build reconstructs the period containing ref. Days without a ledger entry
// carry the previous day's end count forward, so they show zero written.
// startingCount rebases the ledger's first-ever entry; days before that
// entry sit at the rebased baseline.
func Build(l *ledger.Ledger, startingCount int, kind model.PeriodKind, ref time.Time, goals model.Goals, now time.Time) Period {
	days := Days(kind, ref)
	p := Period{
		Kind:  kind,
		First: days[0],
		Last:  days[len(days)-1],
		Rows:  make([]Row, 0, len(days)),
		Goal:  goals.Weekly,
	}
	if kind == model.PeriodMonth {
		p.Goal = goals.Monthly
	}

	anchor, hasAnchor := l.First()
	carry := startingCount
	if prev, ok := l.Before(model.DateKey(days[0])); ok {
		carry = int(prev.EndWordCount)
	} else if hasAnchor {
		carry = int(anchor.StartWordCount) + startingCount
	}

	todayKey := model.DateKey(now)
	skipped := 0
	for _, d := range days {
		key := model.DateKey(d)
		row := Row{Date: d, Key: key, Start: carry, End: carry, Future: key > todayKey}
		if e, ok := l.Get(key); ok {
			row.Recorded = true
			row.Start = int(e.StartWordCount)
			if hasAnchor && e.Date == anchor.Date {
				row.Start += startingCount
			}
			row.End = int(e.EndWordCount)
			row.Skip = int(e.Skip)
		}
		carry = row.End
		p.Rows = append(p.Rows, row)
	}

	base := p.Rows[0].Start
	for i := range p.Rows {
		row := &p.Rows[i]
		skipped += row.Skip
		row.Written = row.End - row.Start - row.Skip
		row.Cumulative = row.End - base - skipped
		row.Remaining = max(0, goals.Daily-row.Written)
		row.Tier = goal.Classify(row.Written, goals.Daily, row.Date, now)
	}

	p.RawTotal = p.Rows[len(p.Rows)-1].End - base
	p.Skipped = skipped
	p.Total = p.RawTotal - skipped
	p.Tier = goal.Classify(p.Total, p.Goal, p.Last, now)
	p.Percent, p.Level = goal.Progress(p.Total, p.Goal)
	return p
}

// Streak counts consecutive days up to now whose written count met the daily
// goal. Today only extends the streak once it is met.
func Streak(l *ledger.Ledger, startingCount, daily int, now time.Time) int {
	if daily <= 0 {
		return 0
	}
	anchor, ok := l.First()
	if !ok {
		return 0
	}
	streak := 0
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for i := 0; ; i++ {
		key := model.DateKey(day.AddDate(0, 0, -i))
		if key < anchor.Date {
			return streak
		}
		e, ok := l.Get(key)
		written := 0
		if ok {
			written = int(e.EndWordCount) - int(e.StartWordCount) - int(e.Skip)
			if e.Date == anchor.Date {
				written -= startingCount
			}
		}
		if written >= daily {
			streak++
			continue
		}
		if i == 0 {
			continue
		}
		return streak
	}
}

// Days lists the calendar days of the period containing ref: Monday through
// Sunday for a week, day 1 through the last day for a month.
func Days(kind model.PeriodKind, ref time.Time) []time.Time {
	first := Anchor(kind, ref)
	n := 7
	if kind == model.PeriodMonth {
		n = time.Date(first.Year(), first.Month()+1, 0, 0, 0, 0, 0, first.Location()).Day()
	}
	days := make([]time.Time, n)
	for i := range days {
		days[i] = first.AddDate(0, 0, i)
	}
	return days
}

// Anchor returns the first day of the period containing ref.
func Anchor(kind model.PeriodKind, ref time.Time) time.Time {
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	if kind == model.PeriodMonth {
		return day.AddDate(0, 0, 1-day.Day())
	}
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return day.AddDate(0, 0, 1-weekday)
}

// Shift moves ref by n whole periods and returns the new period's anchor.
func Shift(kind model.PeriodKind, ref time.Time, n int) time.Time {
	first := Anchor(kind, ref)
	if kind == model.PeriodMonth {
		return first.AddDate(0, n, 0)
	}
	return first.AddDate(0, 0, 7*n)
}

// Resolve turns a stored selection ("current" or a date key) into a
// reference day.
func Resolve(selected string, now time.Time) (time.Time, error) {
	if selected == "" || selected == model.CurrentAnchor {
		return now, nil
	}
	t, err := model.ParseDateKey(selected)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid period anchor %q: %w", selected, err)
	}
	return t, nil
}
