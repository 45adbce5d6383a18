// achievements/engine.go
package achievements

import (
	"time"

	"codex/models"
)

// Evaluate returns the catalog entries whose conditions the record now
// meets and which are not yet in its unlocked set. Pure: it never mutates
// the record or emits notifications — the caller persists the ids, applies
// the XP rewards and notifies.
//
// The time-of-day conditions are judged against now at evaluation time,
// not against when the qualifying level was actually completed. Known
// quirk: an evaluation run long after the completion can under- or
// over-award them.
func Evaluate(rec *models.ProgressRecord, catalog []models.Achievement, now time.Time) []models.Achievement {
	var unlocked []models.Achievement
	for _, a := range catalog {
		if rec.HasAchievement(a.ID) {
			continue
		}
		if conditionMet(a, rec, now) {
			unlocked = append(unlocked, a)
		}
	}
	return unlocked
}

func conditionMet(a models.Achievement, rec *models.ProgressRecord, now time.Time) bool {
	switch a.Type {
	case models.ConditionLevelsCompleted:
		return rec.TotalCompleted() >= a.Requirement
	case models.ConditionLanguageMaster:
		return len(rec.CompletedLevels[a.Language]) >= a.Requirement
	case models.ConditionStreak:
		return rec.CurrentStreak >= a.Requirement
	case models.ConditionXPMilestone:
		return rec.TotalXP >= a.Requirement
	case models.ConditionTimeSpent:
		return rec.TotalTime >= a.Requirement
	case models.ConditionSpecial:
		switch a.ID {
		case "early_bird":
			return now.Hour() < 8
		case "night_owl":
			return now.Hour() >= 22
		}
		return false
	}
	return false
}
