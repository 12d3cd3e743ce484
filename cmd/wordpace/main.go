// Package main provides the CLI entrypoint for wordpace.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/wordpace/internal/config"
	"github.com/verte-zerg/wordpace/internal/goal"
	"github.com/verte-zerg/wordpace/internal/model"
	"github.com/verte-zerg/wordpace/internal/scan"
	"github.com/verte-zerg/wordpace/internal/stats"
	"github.com/verte-zerg/wordpace/internal/statsui"
	"github.com/verte-zerg/wordpace/internal/store"
	"github.com/verte-zerg/wordpace/internal/tracker"
	"github.com/verte-zerg/wordpace/internal/vault"
	"github.com/verte-zerg/wordpace/internal/watch"
	"github.com/verte-zerg/wordpace/internal/wordcount"
)

const (
	defaultPollInterval   = "2s"
	defaultWritebackDelay = "2s"
	defaultPlotHeight     = 8
)

var (
	vaultDir string

	periodDate   string
	periodSelect bool
	periodChart  bool

	scanActive    string
	scanStdin     bool
	scanWriteback bool

	goalDaily   string
	goalWeekly  string
	goalMonthly string
	goalSession string

	sessionGoal int
	clearYes    bool

	watchInterval string
	watchDelay    string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "wordpace",
		Short:         "Word-count progress tracker for a markdown vault",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runTodayCmd,
	}

	rootCmd.PersistentFlags().StringVar(&vaultDir, "vault", "", "vault directory (default: [vault] dir from config)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newSetupCmd())
	rootCmd.AddCommand(newCountCmd())
	rootCmd.AddCommand(newFileCmd())
	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newPeriodCmd(model.PeriodWeek))
	rootCmd.AddCommand(newPeriodCmd(model.PeriodMonth))
	rootCmd.AddCommand(newGoalCmd())
	rootCmd.AddCommand(newSkipCmd())
	rootCmd.AddCommand(newStartCountCmd())
	rootCmd.AddCommand(newSessionCmd())
	rootCmd.AddCommand(newClearCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

// app bundles the state a command works on.
type app struct {
	cfg   config.FileConfig
	st    *store.Store
	vault *vault.Vault
	ctrl  *tracker.Controller
}

type appOptions struct {
	requireVault bool
	notifier     tracker.Notifier
	// writebackDelay overrides [tracking] writeback-delay when set.
	writebackDelay *string
}

func openApp(cmd *cobra.Command, opts appOptions) (*app, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "vault", &vaultDir, fileCfg.Vault.Dir)

	a := &app{cfg: fileCfg}
	defaults := defaultSettings(fileCfg)
	delayValue := fileCfg.Tracking.WritebackDelay
	if opts.writebackDelay != nil {
		delayValue = opts.writebackDelay
	}
	delay, err := parseDurationConfig(delayValue, defaultWritebackDelay, "writeback-delay")
	if err != nil {
		return nil, err
	}

	var docs scan.Source
	var writer tracker.PropertyWriter
	if vaultDir != "" {
		v, err := vault.Open(expandHome(vaultDir), defaults.GoalProperty, fileCfg.Vault.Exclude)
		if err != nil {
			return nil, err
		}
		a.vault = v
		docs = v
		writer = v
	} else if opts.requireVault {
		return nil, fmt.Errorf("no vault configured; pass --vault or run: wordpace setup")
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	a.st = st

	a.ctrl = tracker.New(st, docs, writer, tracker.Options{
		Defaults:       defaults,
		Notifier:       opts.notifier,
		WritebackDelay: delay,
	})
	if err := a.ctrl.Open(context.Background()); err != nil {
		a.close()
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if a.vault != nil {
		a.vault.SetGoalProperty(a.ctrl.Settings().GoalProperty)
	}
	return a, nil
}

// sync rescans the vault when one is configured.
func (a *app) sync(ctx context.Context) error {
	if a.vault == nil {
		return nil
	}
	return a.ctrl.Sync(ctx)
}

func (a *app) close() {
	if a.ctrl != nil {
		a.ctrl.Close()
	}
	if a.st != nil {
		if cerr := a.st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}
}

// defaultSettings seeds a fresh settings blob from the config file.
func defaultSettings(fileCfg config.FileConfig) tracker.Settings {
	s := tracker.DefaultSettings()
	if v := fileCfg.Goals.Daily; v != nil {
		s.DailyGoal = model.Count(*v)
		s.WeeklyGoal = model.Count(*v * 7)
		s.MonthlyGoal = model.Count(*v * 30)
	}
	if v := fileCfg.Goals.Weekly; v != nil {
		s.WeeklyGoal = model.Count(*v)
	}
	if v := fileCfg.Goals.Monthly; v != nil {
		s.MonthlyGoal = model.Count(*v)
	}
	if v := fileCfg.Goals.Session; v != nil {
		s.SessionGoal = model.Count(*v)
	}
	if v := fileCfg.Properties.Goal; v != nil && *v != "" {
		s.GoalProperty = *v
	}
	if v := fileCfg.Properties.WordCount; v != nil && *v != "" {
		s.WordCountProperty = *v
	}
	if v := fileCfg.Tracking.StartingCount; v != nil {
		s.StartingCount = model.Count(*v)
	}
	return s
}

func runTodayCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd, appOptions{requireVault: true})
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.sync(cmd.Context()); err != nil {
		return err
	}
	return stats.RenderToday(cmd.OutOrStdout(), a.ctrl.Today(), stats.UseColor(os.Stdout))
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newCountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count [FILE]",
		Short: "Count the words of a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCountCmd,
	}
}

func runCountCmd(cmd *cobra.Command, args []string) error {
	var data []byte
	var err error
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), wordcount.CountWords(string(data))); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newFileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "file PATH",
		Short: "Show one document's word count against its goal",
		Args:  cobra.ExactArgs(1),
		RunE:  runFileCmd,
	}
}

func runFileCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, appOptions{requireVault: true})
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	rel, err := a.vault.Rel(args[0])
	if err != nil {
		return err
	}
	text, err := a.vault.ReadText(ctx, rel)
	if err != nil {
		return err
	}
	docs, err := a.vault.Documents(ctx)
	if err != nil {
		return err
	}
	doc := model.Document{Path: rel}
	for _, d := range docs {
		if d.Path == rel {
			doc = d
			break
		}
	}

	out := cmd.OutOrStdout()
	words := wordcount.CountWords(text)
	line := fmt.Sprintf("%s  %s words", doc.Path, stats.FormatNumber(words))
	if doc.Goal > 0 {
		pct, level := goal.Progress(words, doc.Goal)
		line += fmt.Sprintf(" / %s  %s %d%%", stats.FormatNumber(doc.Goal),
			stats.ProgressBar(pct, level, 0, stats.UseColor(os.Stdout)), pct)
	}
	if !doc.Tracked {
		line += "  (not tracked)"
	}
	if _, err := fmt.Fprintln(out, line); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Rescan the vault and record today's count",
		Args:  cobra.NoArgs,
		RunE:  runScanCmd,
	}
	cmd.Flags().StringVar(&scanActive, "active", "", "document being edited")
	cmd.Flags().BoolVar(&scanStdin, "stdin", false, "read the unsaved text of --active from stdin")
	cmd.Flags().BoolVar(&scanWriteback, "writeback", false, "write the word count of --active into its front matter")
	return cmd
}

func runScanCmd(cmd *cobra.Command, _ []string) error {
	if scanStdin && scanActive == "" {
		return fmt.Errorf("--stdin requires --active")
	}
	if scanWriteback && scanActive == "" {
		return fmt.Errorf("--writeback requires --active")
	}
	a, err := openApp(cmd, appOptions{requireVault: true})
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	if scanActive == "" {
		if err := a.ctrl.Sync(ctx); err != nil {
			return err
		}
	} else {
		rel, err := a.vault.Rel(scanActive)
		if err != nil {
			return err
		}
		ev := tracker.DocumentChanged{Path: rel}
		if scanStdin {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			text := string(data)
			ev.Unsaved = &text
		}
		if err := a.ctrl.Dispatch(ctx, ev); err != nil {
			return err
		}
		if scanWriteback {
			wrote, err := a.ctrl.FlushWriteback(ctx)
			if err != nil {
				return err
			}
			if wrote {
				logErrf("Wrote word count to %s\n", rel)
			}
		}
	}

	res, _ := a.ctrl.LastScan()
	return stats.RenderDocuments(cmd.OutOrStdout(), res, stats.UseColor(os.Stdout))
}

func newPeriodCmd(kind model.PeriodKind) *cobra.Command {
	cmd := &cobra.Command{
		Use:   kind.String(),
		Short: fmt.Sprintf("Show the %s's daily progress", kind),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPeriodCmd(cmd, kind)
		},
	}
	cmd.Flags().StringVar(&periodDate, "date", "", "any day inside the period (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&periodSelect, "select", false, "remember the period for the stats view")
	cmd.Flags().BoolVar(&periodChart, "chart", false, "plot the cumulative total")
	return cmd
}

func runPeriodCmd(cmd *cobra.Command, kind model.PeriodKind) error {
	a, err := openApp(cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	if err := a.sync(ctx); err != nil {
		return err
	}

	anchor := model.CurrentAnchor
	if periodDate != "" {
		if _, err := model.ParseDateKey(periodDate); err != nil {
			return fmt.Errorf("invalid --date value: %w", err)
		}
		anchor = periodDate
	}
	if periodSelect {
		if err := a.ctrl.Dispatch(ctx, tracker.PeriodRequested{Kind: kind, Anchor: anchor}); err != nil {
			return err
		}
	}

	p, err := a.ctrl.Period(kind)
	if err != nil {
		return err
	}
	if periodDate != "" && !periodSelect {
		ref, _ := model.ParseDateKey(periodDate)
		p = a.ctrl.PeriodAt(kind, ref)
	}

	out := cmd.OutOrStdout()
	useColor := stats.UseColor(os.Stdout)
	if err := stats.RenderPeriod(out, p, useColor); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if !periodChart {
		return nil
	}
	var buf bytes.Buffer
	if err := stats.PlotChart(&buf, "\nCumulative words", stats.CumulativeSeries(p), 0, defaultPlotHeight, useColor); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	if _, err := out.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newGoalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Show the goals",
		Args:  cobra.NoArgs,
		RunE:  runGoalShowCmd,
	}
	set := &cobra.Command{
		Use:   "set",
		Short: "Change the goals",
		Args:  cobra.NoArgs,
		RunE:  runGoalSetCmd,
	}
	set.Flags().StringVar(&goalDaily, "daily", "", "daily goal")
	set.Flags().StringVar(&goalWeekly, "weekly", "", "weekly goal")
	set.Flags().StringVar(&goalMonthly, "monthly", "", "monthly goal")
	set.Flags().StringVar(&goalSession, "session", "", "session goal")
	cmd.AddCommand(set)
	return cmd
}

func runGoalShowCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.close()
	return printGoals(cmd.OutOrStdout(), a.ctrl.Settings())
}

func runGoalSetCmd(cmd *cobra.Command, _ []string) error {
	var ev tracker.GoalChanged
	ev.Daily = countFlag(cmd, "daily", goalDaily)
	ev.Weekly = countFlag(cmd, "weekly", goalWeekly)
	ev.Monthly = countFlag(cmd, "monthly", goalMonthly)
	ev.Session = countFlag(cmd, "session", goalSession)
	if ev.Daily == nil && ev.Weekly == nil && ev.Monthly == nil && ev.Session == nil {
		return fmt.Errorf("nothing to set; pass --daily, --weekly, --monthly or --session")
	}

	a, err := openApp(cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.close()
	if err := a.ctrl.Dispatch(cmd.Context(), ev); err != nil {
		return err
	}
	return printGoals(cmd.OutOrStdout(), a.ctrl.Settings())
}

// countFlag returns the coerced value of a set flag, or nil. Non-numeric
// text counts as 0.
func countFlag(cmd *cobra.Command, name, value string) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	n := model.ParseCount(value)
	return &n
}

func printGoals(w io.Writer, s tracker.Settings) error {
	_, err := fmt.Fprintf(w, "daily %s\nweekly %s\nmonthly %s\nsession %s\n",
		stats.FormatNumber(int(s.DailyGoal)), stats.FormatNumber(int(s.WeeklyGoal)),
		stats.FormatNumber(int(s.MonthlyGoal)), stats.FormatNumber(int(s.SessionGoal)))
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newSkipCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "skip DATE WORDS",
		Short: "Exclude words from a day's total (pasted or imported text)",
		Args:  cobra.ExactArgs(2),
		RunE:  runSkipCmd,
	}
}

func runSkipCmd(cmd *cobra.Command, args []string) error {
	n := model.ParseCount(args[1])
	a, err := openApp(cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.close()
	return a.ctrl.SetSkip(cmd.Context(), args[0], n)
}

func newStartCountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start-count WORDS",
		Short: "Set the words already written before tracking began",
		Args:  cobra.ExactArgs(1),
		RunE:  runStartCountCmd,
	}
}

func runStartCountCmd(cmd *cobra.Command, args []string) error {
	n := model.ParseCount(args[0])
	a, err := openApp(cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.close()
	return a.ctrl.SetStartingCount(cmd.Context(), n)
}

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Show the writing session",
		Args:  cobra.NoArgs,
		RunE:  runSessionShowCmd,
	}
	start := &cobra.Command{
		Use:   "start",
		Short: "Start a writing session at the current total",
		Args:  cobra.NoArgs,
		RunE:  runSessionStartCmd,
	}
	start.Flags().IntVar(&sessionGoal, "goal", 0, "session goal (default: the stored session goal)")
	stop := &cobra.Command{
		Use:   "stop",
		Short: "Stop the writing session",
		Args:  cobra.NoArgs,
		RunE:  runSessionStopCmd,
	}
	cmd.AddCommand(start, stop)
	return cmd
}

func runSessionShowCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.close()
	if err := a.sync(cmd.Context()); err != nil {
		return err
	}
	p := a.ctrl.Today()
	if !p.SessionActive {
		logErrln("No writing session. Start one with: wordpace session start")
		return nil
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Session %s / %s  %s %d%%\n",
		stats.FormatNumber(p.SessionWritten), stats.FormatNumber(p.SessionGoal),
		stats.ProgressBar(p.SessionPercent, p.SessionLevel, 0, stats.UseColor(os.Stdout)), p.SessionPercent)
	return err
}

func runSessionStartCmd(cmd *cobra.Command, _ []string) error {
	if sessionGoal < 0 {
		return fmt.Errorf("--goal must be >= 0")
	}
	a, err := openApp(cmd, appOptions{requireVault: true})
	if err != nil {
		return err
	}
	defer a.close()
	ctx := cmd.Context()
	if err := a.sync(ctx); err != nil {
		return err
	}
	if err := a.ctrl.StartSession(ctx, sessionGoal); err != nil {
		return err
	}
	logErrf("Session started at %s words\n", stats.FormatNumber(a.ctrl.Today().Global))
	return nil
}

func runSessionStopCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.close()
	return a.ctrl.StopSession(cmd.Context())
}

func newClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all daily history",
		Args:  cobra.NoArgs,
		RunE:  runClearCmd,
	}
	cmd.Flags().BoolVar(&clearYes, "yes", false, "confirm deleting the history")
	return cmd
}

func runClearCmd(cmd *cobra.Command, _ []string) error {
	if !clearYes {
		return fmt.Errorf("refusing to clear the history without --yes")
	}
	a, err := openApp(cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.close()
	if err := a.ctrl.ClearLedger(cmd.Context()); err != nil {
		return err
	}
	logErrln("Daily history cleared")
	return nil
}

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Track the vault until interrupted",
		Args:  cobra.NoArgs,
		RunE:  runWatchCmd,
	}
	cmd.Flags().StringVar(&watchInterval, "interval", defaultPollInterval, "poll interval")
	cmd.Flags().StringVar(&watchDelay, "writeback-delay", defaultWritebackDelay, "quiet period before writing counts back")
	return cmd
}

func runWatchCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "interval", &watchInterval, fileCfg.Tracking.PollInterval)
	applyStringConfig(cmd, "writeback-delay", &watchDelay, fileCfg.Tracking.WritebackDelay)
	interval, err := parseDurationConfig(&watchInterval, defaultPollInterval, "interval")
	if err != nil {
		return err
	}

	logger := log.New(os.Stderr, "wordpace: ", log.LstdFlags)
	a, err := openApp(cmd, appOptions{
		requireVault:   true,
		notifier:       tracker.NotifierFunc(func(err error) { logger.Printf("%v", err) }),
		writebackDelay: &watchDelay,
	})
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Printf("watching %s every %s", a.vault.Root(), interval)
	err = watch.Run(ctx, a.ctrl, a.vault, watch.Config{
		Interval: interval,
		Logger:   logger,
		OnUpdate: func(p tracker.Progress) {
			logger.Printf("today %s / %s words (%d%%) %s, total %s",
				stats.FormatNumber(p.Written), stats.FormatNumber(p.Goal), p.Percent,
				goal.Symbol(p.Tier), stats.FormatNumber(p.Global))
		},
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Browse progress in a TUI",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd, appOptions{requireVault: true})
	if err != nil {
		return err
	}
	defer a.close()
	if err := a.sync(cmd.Context()); err != nil {
		return err
	}

	m := statsui.NewModel(a.ctrl, nil)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func parseDurationConfig(value *string, fallback, name string) (time.Duration, error) {
	raw := fallback
	if value != nil && strings.TrimSpace(*value) != "" {
		raw = strings.TrimSpace(*value)
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be > 0", name)
	}
	return d, nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# wordpace configuration
# Uncomment a value to enable it. CLI flags override config values.
# Goals and property names seed a fresh history; change them later with
# "wordpace goal set" or "wordpace setup".

[vault]
# dir = "~/notes"                 # Directory of markdown documents
# exclude = ["templates"]         # Directory names to skip

[goals]
# daily = %d
# weekly = %d
# monthly = %d
# session = 0

[properties]
# goal = %q                      # Front matter key marking a tracked document
# word-count = %q                # Front matter key receiving the word count

[tracking]
# starting-count = 0              # Words written before tracking began
# writeback-delay = %q           # Quiet period before writing counts back
# poll-interval = %q             # How often watch checks the vault
`,
		tracker.DefaultDailyGoal,
		tracker.DefaultDailyGoal*7,
		tracker.DefaultDailyGoal*30,
		tracker.DefaultGoalProperty,
		tracker.DefaultWordCountProperty,
		defaultWritebackDelay,
		defaultPollInterval,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
