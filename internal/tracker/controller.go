// Package tracker owns the persisted progress state and applies document,
// period and goal events to it.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/verte-zerg/wordpace/internal/goal"
	"github.com/verte-zerg/wordpace/internal/ledger"
	"github.com/verte-zerg/wordpace/internal/model"
	"github.com/verte-zerg/wordpace/internal/period"
	"github.com/verte-zerg/wordpace/internal/scan"
	"github.com/verte-zerg/wordpace/internal/store"
	"github.com/verte-zerg/wordpace/internal/wordcount"
)

// ErrPersist wraps every failure to save the settings blob.
var ErrPersist = errors.New("failed to persist settings")

// ErrNoDocuments is returned by operations that need a document source
// when none was configured.
var ErrNoDocuments = errors.New("no vault configured")

// Persister loads and saves the settings blob.
type Persister interface {
	Load(ctx context.Context) (store.Blob, error)
	Save(ctx context.Context, data []byte) (int64, error)
}

// PropertyWriter stores a numeric front matter property on a document.
type PropertyWriter interface {
	WriteProperty(path, name string, value int) (bool, error)
}

// Notifier surfaces errors to the user.
type Notifier interface {
	Notify(err error)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(error)

// Notify implements Notifier.
func (f NotifierFunc) Notify(err error) {
	f(err)
}

// Options configures a Controller.
type Options struct {
	Defaults       Settings
	Notifier       Notifier
	WritebackDelay time.Duration
	Now            func() time.Time
}

// Controller owns the settings blob. Every mutation persists the whole blob
// before returning. It is not safe for concurrent use; callers drive it
// from a single loop.
type Controller struct {
	store    Persister
	docs     scan.Source
	writer   PropertyWriter
	notifier Notifier
	now      func() time.Time

	defaults Settings
	settings Settings
	lastScan scan.Result
	scanned  bool

	overlay   scan.Overlay
	pending   string
	debouncer *Debouncer
}

// New builds a controller. docs and writer may be nil for commands that
// only read or edit the stored state.
func New(st Persister, docs scan.Source, writer PropertyWriter, opts Options) *Controller {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Notifier == nil {
		opts.Notifier = NotifierFunc(func(error) {})
	}
	if opts.WritebackDelay <= 0 {
		opts.WritebackDelay = 2 * time.Second
	}
	defaults := opts.Defaults
	if defaults.GoalProperty == "" {
		defaults = DefaultSettings()
	}
	return &Controller{
		store:     st,
		docs:      docs,
		writer:    writer,
		notifier:  opts.Notifier,
		now:       opts.Now,
		defaults:  defaults,
		settings:  cloneSettings(defaults),
		debouncer: NewDebouncer(opts.WritebackDelay),
	}
}

// Open loads the stored blob, falling back to the defaults.
func (c *Controller) Open(ctx context.Context) error {
	blob, err := c.store.Load(ctx)
	if errors.Is(err, store.ErrNotFound) {
		c.settings = cloneSettings(c.defaults)
		return nil
	}
	if err != nil {
		c.notifier.Notify(err)
		return err
	}
	s, err := DecodeSettings(blob.Data, c.defaults)
	if err != nil {
		c.notifier.Notify(err)
		return err
	}
	c.settings = s
	return nil
}

// Close stops pending write-backs.
func (c *Controller) Close() {
	c.debouncer.Stop()
}

// Settings returns a copy of the current blob.
func (c *Controller) Settings() Settings {
	return cloneSettings(c.settings)
}

// LastScan returns the most recent scan result.
func (c *Controller) LastScan() (scan.Result, bool) {
	return c.lastScan, c.scanned
}

// Writeback delivers a value when the debounced write-back is due.
func (c *Controller) Writeback() <-chan struct{} {
	return c.debouncer.C()
}

func (c *Controller) persist(ctx context.Context) error {
	data, err := c.settings.Encode()
	if err == nil {
		_, err = c.store.Save(ctx, data)
	}
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrPersist, err)
		c.notifier.Notify(err)
		return err
	}
	return nil
}

func (c *Controller) rescan(ctx context.Context) (scan.Result, error) {
	if c.docs == nil {
		return scan.Result{}, ErrNoDocuments
	}
	res, err := scan.Global(ctx, c.docs, c.overlay)
	if err != nil {
		return scan.Result{}, err
	}
	c.lastScan = res
	c.scanned = true
	return res, nil
}

// Sync rescans the documents and records today's count. Unlike a document
// change it always runs the day bookkeeping, so a new day gets its entry
// even when the total is unchanged.
func (c *Controller) Sync(ctx context.Context) error {
	res, err := c.rescan(ctx)
	if err != nil {
		return err
	}
	today := model.DateKey(c.now())
	changed := int(c.settings.CurrentGlobalWordCount) != res.Total
	c.settings.CurrentGlobalWordCount = model.Count(res.Total)
	// The starting count is applied when reading, so the first entry opens
	// at zero.
	if c.settings.DailyStats.RecomputeForToday(res.Total, today, 0) {
		changed = true
	}
	if !changed {
		return nil
	}
	return c.persist(ctx)
}

// Dispatch applies one event.
func (c *Controller) Dispatch(ctx context.Context, ev Event) error {
	switch ev := ev.(type) {
	case DocumentChanged:
		return c.documentChanged(ctx, ev)
	case PeriodRequested:
		return c.periodRequested(ctx, ev)
	case GoalChanged:
		return c.goalChanged(ctx, ev)
	default:
		return fmt.Errorf("unknown event %T", ev)
	}
}

func (c *Controller) documentChanged(ctx context.Context, ev DocumentChanged) error {
	switch {
	case ev.Unsaved != nil:
		c.overlay = scan.Overlay{Path: ev.Path, Text: *ev.Unsaved}
	case c.overlay.Path == ev.Path:
		c.overlay = scan.Overlay{}
	}
	res, err := c.rescan(ctx)
	if err != nil {
		return err
	}
	if ev.Path != "" {
		c.pending = ev.Path
		c.debouncer.Schedule()
	}
	if int(c.settings.CurrentGlobalWordCount) == res.Total {
		return nil
	}
	c.settings.CurrentGlobalWordCount = model.Count(res.Total)
	c.settings.DailyStats.RecomputeForToday(res.Total, model.DateKey(c.now()), 0)
	return c.persist(ctx)
}

func (c *Controller) periodRequested(ctx context.Context, ev PeriodRequested) error {
	anchor := ev.Anchor
	if anchor == "" {
		anchor = model.CurrentAnchor
	}
	if _, err := period.Resolve(anchor, c.now()); err != nil {
		return err
	}
	if ev.Kind == model.PeriodMonth {
		c.settings.SelectedMonth = anchor
	} else {
		c.settings.SelectedWeek = anchor
	}
	return c.persist(ctx)
}

func (c *Controller) goalChanged(ctx context.Context, ev GoalChanged) error {
	for _, v := range []*int{ev.Daily, ev.Weekly, ev.Monthly, ev.Session} {
		if v != nil && *v < 0 {
			return fmt.Errorf("goal must be >= 0, got %d", *v)
		}
	}
	if ev.Daily != nil {
		c.settings.DailyGoal = model.Count(*ev.Daily)
	}
	if ev.Weekly != nil {
		c.settings.WeeklyGoal = model.Count(*ev.Weekly)
	}
	if ev.Monthly != nil {
		c.settings.MonthlyGoal = model.Count(*ev.Monthly)
	}
	if ev.Session != nil {
		c.settings.SessionGoal = model.Count(*ev.Session)
	}
	return c.persist(ctx)
}

// FlushWriteback stores the word count of the last changed document in its
// word-count property. Untracked documents are left alone.
func (c *Controller) FlushWriteback(ctx context.Context) (bool, error) {
	path := c.pending
	c.pending = ""
	if path == "" || c.writer == nil {
		return false, nil
	}
	tracked := false
	for _, doc := range c.lastScan.Documents {
		if doc.Path == path {
			tracked = true
			break
		}
	}
	if !tracked {
		return false, nil
	}
	var text string
	if c.overlay.Path == path {
		text = c.overlay.Text
	} else {
		if c.docs == nil {
			return false, ErrNoDocuments
		}
		var err error
		text, err = c.docs.ReadText(ctx, path)
		if err != nil {
			return false, err
		}
	}
	return c.writer.WriteProperty(path, c.settings.WordCountProperty, wordcount.CountWords(text))
}

// SetSkip records a manual correction for date.
func (c *Controller) SetSkip(ctx context.Context, date string, skip int) error {
	if _, err := model.ParseDateKey(date); err != nil {
		return fmt.Errorf("invalid date %q: %w", date, err)
	}
	if err := c.settings.DailyStats.SetSkip(date, skip); err != nil {
		return err
	}
	return c.persist(ctx)
}

// SetStartingCount changes the rebase offset for the first tracked day.
func (c *Controller) SetStartingCount(ctx context.Context, n int) error {
	c.settings.StartingCount = model.Count(n)
	return c.persist(ctx)
}

// SetProperties renames the goal and word-count properties. Empty names
// keep the current value.
func (c *Controller) SetProperties(ctx context.Context, goalProperty, wordCountProperty string) error {
	if goalProperty != "" {
		c.settings.GoalProperty = goalProperty
	}
	if wordCountProperty != "" {
		c.settings.WordCountProperty = wordCountProperty
	}
	return c.persist(ctx)
}

// ClearLedger removes all daily history.
func (c *Controller) ClearLedger(ctx context.Context) error {
	c.settings.DailyStats.Clear()
	return c.persist(ctx)
}

// StartSession begins a writing session at the current global count.
// A goal of zero keeps the stored session goal.
func (c *Controller) StartSession(ctx context.Context, sessionGoal int) error {
	c.settings.SessionActive = true
	c.settings.SessionStartCount = c.settings.CurrentGlobalWordCount
	if sessionGoal > 0 {
		c.settings.SessionGoal = model.Count(sessionGoal)
	}
	return c.persist(ctx)
}

// StopSession ends the writing session.
func (c *Controller) StopSession(ctx context.Context) error {
	c.settings.SessionActive = false
	return c.persist(ctx)
}

// Progress is the state shown on the today view.
type Progress struct {
	Date    time.Time
	Global  int
	Written int
	Goal    int
	Percent int
	Level   model.Level
	Tier    model.Tier
	Streak  int

	SessionActive  bool
	SessionWritten int
	SessionGoal    int
	SessionPercent int
	SessionLevel   model.Level
}

// Today computes today's progress from the stored state.
func (c *Controller) Today() Progress {
	now := c.now()
	s := c.settings
	global := int(s.CurrentGlobalWordCount)
	p := Progress{
		Date:   now,
		Global: global,
		Goal:   int(s.DailyGoal),
	}
	p.Written = s.DailyStats.WrittenToday(global, model.DateKey(now), int(s.StartingCount))
	p.Percent, p.Level = goal.Progress(p.Written, p.Goal)
	p.Tier = goal.Classify(p.Written, p.Goal, now, now)
	p.Streak = period.Streak(s.DailyStats, int(s.StartingCount), p.Goal, now)
	if s.SessionActive {
		p.SessionActive = true
		p.SessionWritten = global - int(s.SessionStartCount)
		p.SessionGoal = int(s.SessionGoal)
		p.SessionPercent, p.SessionLevel = goal.Progress(p.SessionWritten, p.SessionGoal)
	}
	return p
}

// Period rebuilds the selected week or month.
func (c *Controller) Period(kind model.PeriodKind) (period.Period, error) {
	selected := c.settings.SelectedWeek
	if kind == model.PeriodMonth {
		selected = c.settings.SelectedMonth
	}
	ref, err := period.Resolve(selected, c.now())
	if err != nil {
		return period.Period{}, err
	}
	return c.PeriodAt(kind, ref), nil
}

// PeriodAt rebuilds the week or month containing ref.
func (c *Controller) PeriodAt(kind model.PeriodKind, ref time.Time) period.Period {
	s := c.settings
	return period.Build(s.DailyStats, int(s.StartingCount), kind, ref, s.Goals(), c.now())
}

func cloneSettings(s Settings) Settings {
	out := s
	if s.DailyStats != nil {
		out.DailyStats = ledger.FromEntries(s.DailyStats.Entries())
	} else {
		out.DailyStats = ledger.New()
	}
	return out
}
