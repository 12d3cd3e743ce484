// Package goal classifies written counts against targets.
package goal

import (
	"time"

	"github.com/verte-zerg/wordpace/internal/model"
)

// ExceedFactor is the multiple of the goal that counts as exceeded.
const ExceedFactor = 3

// Classify rates written against goal for day. The first matching rule
// wins: exceeded, met, partial, then missed for past days.
func Classify(written, goal int, day, today time.Time) model.Tier {
	if goal > 0 {
		switch {
		case written >= ExceedFactor*goal:
			return model.TierExceeded
		case written >= goal:
			return model.TierMet
		}
	}
	if written > 0 {
		return model.TierPartial
	}
	if goal > 0 && dayBefore(day, today) {
		return model.TierMissed
	}
	return model.TierNone
}

func dayBefore(day, today time.Time) bool {
	return model.DateKey(day) < model.DateKey(today)
}

// Symbol returns the marker shown next to a classified day.
func Symbol(t model.Tier) string {
	switch t {
	case model.TierExceeded:
		return "★"
	case model.TierMet:
		return "✓"
	case model.TierPartial:
		return "◐"
	case model.TierMissed:
		return "✗"
	default:
		return "·"
	}
}

// Progress returns value as a percentage of max and its visual level.
func Progress(value, max int) (int, model.Level) {
	if max <= 0 {
		return 0, model.LevelLow
	}
	pct := value * 100 / max
	if pct < 0 {
		pct = 0
	}
	return pct, LevelFor(pct)
}

// LevelFor maps a percentage to one of five ordered levels.
func LevelFor(pct int) model.Level {
	switch {
	case pct <= 30:
		return model.LevelLow
	case pct <= 50:
		return model.LevelFair
	case pct <= 80:
		return model.LevelGood
	case pct < 100:
		return model.LevelNear
	default:
		return model.LevelDone
	}
}
