package tracker

import (
	"encoding/json"
	"fmt"

	"github.com/verte-zerg/wordpace/internal/ledger"
	"github.com/verte-zerg/wordpace/internal/model"
)

// Default property names and goals for a fresh blob.
const (
	DefaultGoalProperty      = "goal"
	DefaultWordCountProperty = "words"
	DefaultDailyGoal         = 500
)

// Settings is the persisted state: goals, property names, the ledger and
// the session and browsing selections. It is loaded and saved as a whole.
type Settings struct {
	DailyGoal         model.Count `json:"dailyGoal"`
	WeeklyGoal        model.Count `json:"weeklyGoal"`
	MonthlyGoal       model.Count `json:"monthlyGoal"`
	GoalProperty      string      `json:"goalProperty"`
	WordCountProperty string      `json:"wordCountProperty"`

	StartingCount          model.Count    `json:"startingWordCount"`
	CurrentGlobalWordCount model.Count    `json:"currentGlobalWordCount"`
	DailyStats             *ledger.Ledger `json:"dailyStats"`

	SessionActive     bool        `json:"sessionActive"`
	SessionStartCount model.Count `json:"sessionStartWordCount"`
	SessionGoal       model.Count `json:"sessionGoal"`

	SelectedWeek  string `json:"selectedWeek"`
	SelectedMonth string `json:"selectedMonth"`
}

// DefaultSettings returns the blob used before anything was saved.
func DefaultSettings() Settings {
	return Settings{
		DailyGoal:         DefaultDailyGoal,
		WeeklyGoal:        DefaultDailyGoal * 7,
		MonthlyGoal:       DefaultDailyGoal * 30,
		GoalProperty:      DefaultGoalProperty,
		WordCountProperty: DefaultWordCountProperty,
		DailyStats:        ledger.New(),
		SelectedWeek:      model.CurrentAnchor,
		SelectedMonth:     model.CurrentAnchor,
	}
}

// Goals returns the daily, weekly and monthly targets.
func (s Settings) Goals() model.Goals {
	return model.Goals{
		Daily:   int(s.DailyGoal),
		Weekly:  int(s.WeeklyGoal),
		Monthly: int(s.MonthlyGoal),
	}
}

// DecodeSettings parses a stored blob over defaults so missing fields keep
// their default values.
func DecodeSettings(data []byte, defaults Settings) (Settings, error) {
	s := defaults
	s.DailyStats = ledger.New()
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("failed to decode settings: %w", err)
	}
	s.normalize(defaults)
	return s, nil
}

func (s *Settings) normalize(defaults Settings) {
	if s.DailyStats == nil {
		s.DailyStats = ledger.New()
	}
	if s.GoalProperty == "" {
		s.GoalProperty = defaults.GoalProperty
	}
	if s.WordCountProperty == "" {
		s.WordCountProperty = defaults.WordCountProperty
	}
	if s.SelectedWeek == "" {
		s.SelectedWeek = model.CurrentAnchor
	}
	if s.SelectedMonth == "" {
		s.SelectedMonth = model.CurrentAnchor
	}
}

// Encode serialises the blob.
func (s Settings) Encode() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode settings: %w", err)
	}
	return data, nil
}
