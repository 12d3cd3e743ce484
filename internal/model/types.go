// Package model defines shared data structures.
package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar-date key format used by the ledger.
const DateLayout = "2006-01-02"

// DateKey formats t as a local calendar-date key.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDateKey parses a calendar-date key in local time.
func ParseDateKey(key string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, key, time.Local)
}

// Count is a word count that decodes leniently: JSON numbers and numeric
// strings are accepted, anything else becomes zero.
type Count int

// UnmarshalJSON implements json.Unmarshaler.
func (c *Count) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*c = 0
			return nil
		}
		*c = Count(ParseCount(s))
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		*c = 0
		return nil
	}
	*c = Count(int(f))
	return nil
}

// ParseCount coerces user-entered text into a count. Non-numeric input is 0.
func ParseCount(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

// DailyStat is one ledger entry: the global word count at the start and end
// of a calendar day plus a manual skip correction.
type DailyStat struct {
	Date           string `json:"date"`
	StartWordCount Count  `json:"startWordCount"`
	EndWordCount   Count  `json:"endWordCount"`
	Skip           Count  `json:"skip,omitempty"`
}

// Goals holds the configured targets.
type Goals struct {
	Daily   int
	Weekly  int
	Monthly int
}

// Tier is the achievement classification of a day or period.
type Tier int

const (
	TierNone Tier = iota
	TierMissed
	TierPartial
	TierMet
	TierExceeded
)

func (t Tier) String() string {
	switch t {
	case TierMissed:
		return "missed"
	case TierPartial:
		return "partial"
	case TierMet:
		return "met"
	case TierExceeded:
		return "exceeded"
	default:
		return "none"
	}
}

// Level is one of the five visual progress levels.
type Level int

const (
	LevelLow Level = iota
	LevelFair
	LevelGood
	LevelNear
	LevelDone
)

// PeriodKind selects the reconstruction window.
type PeriodKind int

const (
	PeriodWeek PeriodKind = iota
	PeriodMonth
)

func (k PeriodKind) String() string {
	if k == PeriodMonth {
		return "month"
	}
	return "week"
}

// CurrentAnchor marks a selected period that follows today.
const CurrentAnchor = "current"

// Document is a vault document as seen by the scanner.
type Document struct {
	Path    string
	Tracked bool
	Goal    int
}
