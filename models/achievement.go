// models/achievement.go
package models

import "time"

// Achievement condition types. The Requirement field carries the threshold;
// Language is only meaningful for ConditionLanguageMaster.
const (
	ConditionLevelsCompleted = "levels_completed" // total completions across tracks
	ConditionLanguageMaster  = "language_master"  // completions within one track
	ConditionStreak          = "streak"           // consecutive-day streak
	ConditionXPMilestone     = "xp_milestone"     // total XP
	ConditionTimeSpent       = "time_spent"       // total minutes
	ConditionSpecial         = "special"          // time-of-day rules, keyed by id
)

// Achievement is one entry of the static catalog. The catalog is read-only
// at run time; unlock state lives in the per-account progress record.
type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	XP          int    `json:"xp"`
	Type        string `json:"type"`
	Language    string `json:"language,omitempty"`
	Requirement int    `json:"requirement"`
}

// UnlockedAchievement records when an account unlocked a catalog entry.
// Persisted as a list under userdata/<id>/achievements.json.
type UnlockedAchievement struct {
	ID         string    `json:"id"`
	UnlockedAt time.Time `json:"unlockedAt"`
}
