package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/wordpace/internal/config"
	"github.com/verte-zerg/wordpace/internal/model"
	"github.com/verte-zerg/wordpace/internal/tracker"
)

func newSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Interactive setup of the vault, goals and properties",
		Args:  cobra.NoArgs,
		RunE:  runSetupCmd,
	}
}

// setupValues holds the form fields as typed text.
type setupValues struct {
	vaultDir          string
	daily             string
	weekly            string
	monthly           string
	session           string
	goalProperty      string
	wordCountProperty string
}

func newSetupValues(dir string, s tracker.Settings) setupValues {
	return setupValues{
		vaultDir:          dir,
		daily:             strconv.Itoa(int(s.DailyGoal)),
		weekly:            strconv.Itoa(int(s.WeeklyGoal)),
		monthly:           strconv.Itoa(int(s.MonthlyGoal)),
		session:           strconv.Itoa(int(s.SessionGoal)),
		goalProperty:      s.GoalProperty,
		wordCountProperty: s.WordCountProperty,
	}
}

func newSetupForm(vals *setupValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Vault directory").
				Description("Directory of markdown documents").
				Value(&vals.vaultDir).
				Validate(requireText),
		),
		huh.NewGroup(
			huh.NewInput().Title("Daily goal").Value(&vals.daily).Validate(validateGoal),
			huh.NewInput().Title("Weekly goal").Value(&vals.weekly).Validate(validateGoal),
			huh.NewInput().Title("Monthly goal").Value(&vals.monthly).Validate(validateGoal),
			huh.NewInput().Title("Session goal").Value(&vals.session).Validate(validateGoal),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Goal property").
				Description("Front matter key that marks a tracked document").
				Value(&vals.goalProperty).
				Validate(requireText),
			huh.NewInput().
				Title("Word count property").
				Description("Front matter key that receives the word count").
				Value(&vals.wordCountProperty).
				Validate(requireText),
		),
	)
}

func requireText(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("must not be empty")
	}
	return nil
}

// validateGoal only rejects negative goals; other text is coerced on save.
func validateGoal(s string) error {
	if model.ParseCount(s) < 0 {
		return errors.New("must be >= 0")
	}
	return nil
}

// goalEvent converts the typed goals into a GoalChanged event. Non-numeric
// text counts as 0.
func (v setupValues) goalEvent() tracker.GoalChanged {
	daily := model.ParseCount(v.daily)
	weekly := model.ParseCount(v.weekly)
	monthly := model.ParseCount(v.monthly)
	session := model.ParseCount(v.session)
	return tracker.GoalChanged{
		Daily:   &daily,
		Weekly:  &weekly,
		Monthly: &monthly,
		Session: &session,
	}
}

// apply writes the answers into the file config.
func (v setupValues) apply(cfg config.FileConfig, ev tracker.GoalChanged) config.FileConfig {
	dir := strings.TrimSpace(v.vaultDir)
	goalProp := strings.TrimSpace(v.goalProperty)
	wordProp := strings.TrimSpace(v.wordCountProperty)
	cfg.Vault.Dir = &dir
	cfg.Goals.Daily = ev.Daily
	cfg.Goals.Weekly = ev.Weekly
	cfg.Goals.Monthly = ev.Monthly
	cfg.Goals.Session = ev.Session
	cfg.Properties.Goal = &goalProp
	cfg.Properties.WordCount = &wordProp
	return cfg
}

func runSetupCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.close()

	vals := newSetupValues(vaultDir, a.ctrl.Settings())
	if err := newSetupForm(&vals).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			logErrln("Setup canceled")
			return nil
		}
		return fmt.Errorf("failed to run setup form: %w", err)
	}

	ev := vals.goalEvent()
	ctx := cmd.Context()
	if err := a.ctrl.Dispatch(ctx, ev); err != nil {
		return err
	}
	if err := a.ctrl.SetProperties(ctx, strings.TrimSpace(vals.goalProperty), strings.TrimSpace(vals.wordCountProperty)); err != nil {
		return err
	}

	path := config.DefaultConfigPath()
	if err := config.SaveConfig(path, vals.apply(a.cfg, ev)); err != nil {
		return err
	}
	logErrf("Saved %s\n", path)
	return nil
}
