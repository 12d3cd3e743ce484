package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/wordpace/internal/config"
	"github.com/verte-zerg/wordpace/internal/store"
	"github.com/verte-zerg/wordpace/internal/tracker"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(base, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(base, "data"))
	t.Setenv("NO_COLOR", "1")
	dir := filepath.Join(base, "vault")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	doc := "---\ngoal: 100\n---\none two three four\n"
	if err := os.WriteFile(filepath.Join(dir, "draft.md"), []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return dir
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCountCmdReadsStdin(t *testing.T) {
	setupEnv(t)
	out, err := execute(t, "---\nwords: 9\n---\nhello [[Some Link]] world", "count")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if strings.TrimSpace(out) != "2" {
		t.Fatalf("expected 2 words, got %q", out)
	}
}

func TestScanAndTodayCmds(t *testing.T) {
	dir := setupEnv(t)
	out, err := execute(t, "", "--vault", dir, "scan")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !containsAll(out, []string{"draft.md", "Total 4 words in 1 document(s)"}) {
		t.Fatalf("expected document listing, got:\n%s", out)
	}

	out, err = execute(t, "", "--vault", dir)
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	if !containsAll(out, []string{"Written 4 / 500", "Total words 4"}) {
		t.Fatalf("expected today's progress, got:\n%s", out)
	}
}

func TestScanWritebackUsesUnsavedText(t *testing.T) {
	dir := setupEnv(t)
	path := filepath.Join(dir, "draft.md")
	_, err := execute(t, "---\ngoal: 100\n---\none two three four five\n",
		"--vault", dir, "scan", "--active", path, "--stdin", "--writeback")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "words: 5") {
		t.Fatalf("expected word count property, got:\n%s", data)
	}
}

func TestGoalSetPersists(t *testing.T) {
	setupEnv(t)
	if _, err := execute(t, "", "goal", "set", "--daily", "800"); err != nil {
		t.Fatalf("goal set: %v", err)
	}
	out, err := execute(t, "", "goal")
	if err != nil {
		t.Fatalf("goal: %v", err)
	}
	if !containsAll(out, []string{"daily 800", "weekly 3,500"}) {
		t.Fatalf("expected updated daily goal, got:\n%s", out)
	}
}

func TestNonNumericInputCoercesToZero(t *testing.T) {
	setupEnv(t)
	if _, err := execute(t, "", "start-count", "1200"); err != nil {
		t.Fatalf("start-count: %v", err)
	}
	if _, err := execute(t, "", "start-count", "abc"); err != nil {
		t.Fatalf("expected non-numeric count to be accepted, got %v", err)
	}
	if _, err := execute(t, "", "goal", "set", "--daily", "abc", "--weekly", "900"); err != nil {
		t.Fatalf("expected non-numeric goal to be accepted, got %v", err)
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer func() { _ = st.Close() }()
	blob, err := st.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	s, err := tracker.DecodeSettings(blob.Data, tracker.DefaultSettings())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.StartingCount != 0 {
		t.Fatalf("expected starting count 0, got %d", s.StartingCount)
	}
	if s.DailyGoal != 0 || s.WeeklyGoal != 900 {
		t.Fatalf("expected goals 0/900, got %d/%d", s.DailyGoal, s.WeeklyGoal)
	}
}

func TestGoalSetRejectsNegative(t *testing.T) {
	setupEnv(t)
	if _, err := execute(t, "", "goal", "set", "--daily=-10"); err == nil {
		t.Fatalf("expected error for a negative goal")
	}
}

func TestGoalSetRequiresFlag(t *testing.T) {
	setupEnv(t)
	if _, err := execute(t, "", "goal", "set"); err == nil {
		t.Fatalf("expected error without goal flags")
	}
}

func TestSkipUnknownDayFails(t *testing.T) {
	setupEnv(t)
	if _, err := execute(t, "", "skip", "2020-01-01", "50"); err == nil {
		t.Fatalf("expected error for a day without an entry")
	}
	if _, err := execute(t, "", "skip", "not-a-date", "50"); err == nil {
		t.Fatalf("expected error for an invalid date")
	}
}

func TestClearRequiresConfirmation(t *testing.T) {
	setupEnv(t)
	if _, err := execute(t, "", "clear"); err == nil {
		t.Fatalf("expected error without --yes")
	}
	if _, err := execute(t, "", "clear", "--yes"); err != nil {
		t.Fatalf("clear: %v", err)
	}
}

func TestWeekCmdShowsPeriod(t *testing.T) {
	dir := setupEnv(t)
	out, err := execute(t, "", "--vault", dir, "week", "--date", "2024-03-06")
	if err != nil {
		t.Fatalf("week: %v", err)
	}
	if !containsAll(out, []string{"2024-W10", "2024-03-04 .. 2024-03-10", "Cumulative"}) {
		t.Fatalf("expected week table, got:\n%s", out)
	}
	if _, err := execute(t, "", "week", "--date", "03/06/2024"); err == nil {
		t.Fatalf("expected error for bad --date")
	}
}

func TestDefaultSettingsFromConfig(t *testing.T) {
	daily := 300
	monthly := 10000
	prop := "target"
	start := 1200
	s := defaultSettings(config.FileConfig{
		Goals:      config.GoalsConfig{Daily: &daily, Monthly: &monthly},
		Properties: config.PropertiesConfig{Goal: &prop},
		Tracking:   config.TrackingConfig{StartingCount: &start},
	})
	if s.DailyGoal != 300 || s.WeeklyGoal != 2100 || s.MonthlyGoal != 10000 {
		t.Fatalf("expected goals 300/2100/10000, got %d/%d/%d", s.DailyGoal, s.WeeklyGoal, s.MonthlyGoal)
	}
	if s.GoalProperty != "target" || s.WordCountProperty != tracker.DefaultWordCountProperty {
		t.Fatalf("expected properties target/%s, got %s/%s", tracker.DefaultWordCountProperty, s.GoalProperty, s.WordCountProperty)
	}
	if s.StartingCount != 1200 {
		t.Fatalf("expected starting count 1200, got %d", s.StartingCount)
	}
}

func TestParseDurationConfig(t *testing.T) {
	d, err := parseDurationConfig(nil, "2s", "interval")
	if err != nil || d != 2*time.Second {
		t.Fatalf("expected 2s fallback, got %v, %v", d, err)
	}
	v := " 500ms "
	d, err = parseDurationConfig(&v, "2s", "interval")
	if err != nil || d != 500*time.Millisecond {
		t.Fatalf("expected 500ms, got %v, %v", d, err)
	}
	bad := "-1s"
	if _, err := parseDurationConfig(&bad, "2s", "interval"); err == nil {
		t.Fatalf("expected error for a negative duration")
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("expected template to decode, got %v", err)
	}
	if cfg.Vault.Dir != nil || cfg.Goals.Daily != nil {
		t.Fatalf("expected commented template to leave values unset")
	}
}

func TestSetupValuesGoalEvent(t *testing.T) {
	vals := newSetupValues("/notes", tracker.DefaultSettings())
	vals.daily = " 750 "
	vals.monthly = "lots"
	ev := vals.goalEvent()
	if *ev.Daily != 750 || *ev.Weekly != 3500 || *ev.Monthly != 0 {
		t.Fatalf("expected daily 750 weekly 3500 monthly 0, got %d/%d/%d", *ev.Daily, *ev.Weekly, *ev.Monthly)
	}
	cfg := vals.apply(config.FileConfig{}, ev)
	if *cfg.Vault.Dir != "/notes" || *cfg.Properties.Goal != tracker.DefaultGoalProperty || *cfg.Goals.Daily != 750 {
		t.Fatalf("expected answers in config, got %+v", cfg)
	}
	if err := validateGoal("lots"); err != nil {
		t.Fatalf("expected non-numeric goal to be accepted, got %v", err)
	}
	if err := validateGoal("-5"); err == nil {
		t.Fatalf("expected error for a negative goal")
	}
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/writer")
	if got := expandHome("~/notes"); got != filepath.Join("/home/writer", "notes") {
		t.Fatalf("expected expanded path, got %q", got)
	}
	if got := expandHome("/abs/notes"); got != "/abs/notes" {
		t.Fatalf("expected path unchanged, got %q", got)
	}
}

func containsAll(s string, parts []string) bool {
	for _, part := range parts {
		if !strings.Contains(s, part) {
			return false
		}
	}
	return true
}
