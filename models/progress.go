// models/progress.go
package models

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// Language tracks. Each track has its own completed-level set.
const (
	LanguageHTML = "html"
	LanguageCSS  = "css"
	LanguageJS   = "js"
)

// Languages lists the tracks in display order.
var Languages = []string{LanguageHTML, LanguageCSS, LanguageJS}

// XPPerLevel is the fixed level step: level = totalXP/100 + 1.
const XPPerLevel = 100

// DateLayout is the calendar-date form used for streak comparison. Streak
// logic compares local dates as strings; the host clock defines the day.
const DateLayout = "2006-01-02"

// ProgressRecord is the mutable gamification state owned by one account.
// Level is always derived from TotalXP, never set independently. TotalXP,
// the completed-level sets and the unlocked-achievement set only grow.
type ProgressRecord struct {
	TotalXP              int              `json:"totalXP"`
	Level                int              `json:"level"`
	CurrentStreak        int              `json:"currentStreak"`
	LastCompleted        string           `json:"lastCompleted,omitempty"`
	TotalTime            int              `json:"totalTime"` // minutes
	CompletedLevels      map[string][]int `json:"completedLevels"`
	UnlockedAchievements []string         `json:"unlockedAchievements"`
	StartedAt            time.Time        `json:"startedAt"`
	LastUpdated          time.Time        `json:"lastUpdated"`
}

// NewProgressRecord returns the zero-valued default record.
func NewProgressRecord(now time.Time) *ProgressRecord {
	return &ProgressRecord{
		TotalXP:       0,
		Level:         1,
		CurrentStreak: 0,
		TotalTime:     0,
		CompletedLevels: map[string][]int{
			LanguageHTML: {},
			LanguageCSS:  {},
			LanguageJS:   {},
		},
		UnlockedAchievements: []string{},
		StartedAt:            now,
		LastUpdated:          now,
	}
}

// LevelForXP derives the level from a total-XP amount. Level numbering
// starts at 1.
func LevelForXP(totalXP int) int {
	return totalXP/XPPerLevel + 1
}

// TotalCompleted sums the completed-set sizes across all tracks.
func (p *ProgressRecord) TotalCompleted() int {
	total := 0
	for _, lang := range Languages {
		total += len(p.CompletedLevels[lang])
	}
	return total
}

// HasCompleted reports whether the level is already in the track's set.
func (p *ProgressRecord) HasCompleted(language string, levelNumber int) bool {
	return slices.Contains(p.CompletedLevels[language], levelNumber)
}

// HasAchievement reports whether the achievement id is already unlocked.
func (p *ProgressRecord) HasAchievement(id string) bool {
	return slices.Contains(p.UnlockedAchievements, id)
}

// DecodeProgress deserializes a stored record, fills missing fields with
// the documented defaults and rejects unrecognized shapes instead of
// silently merging them.
func DecodeProgress(raw []byte, now time.Time) (*ProgressRecord, error) {
	var rec ProgressRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if rec.TotalXP < 0 || rec.CurrentStreak < 0 || rec.TotalTime < 0 {
		return nil, fmt.Errorf("%w: negative counter", ErrInvalidFormat)
	}
	if rec.CompletedLevels == nil {
		rec.CompletedLevels = map[string][]int{}
	}
	for lang, numbers := range rec.CompletedLevels {
		if !slices.Contains(Languages, lang) {
			return nil, fmt.Errorf("%w: unknown language track %q", ErrInvalidFormat, lang)
		}
		seen := make(map[int]bool, len(numbers))
		for _, n := range numbers {
			if seen[n] {
				return nil, fmt.Errorf("%w: duplicate level %d in %s track", ErrInvalidFormat, n, lang)
			}
			seen[n] = true
		}
	}
	for _, lang := range Languages {
		if rec.CompletedLevels[lang] == nil {
			rec.CompletedLevels[lang] = []int{}
		}
	}
	if rec.UnlockedAchievements == nil {
		rec.UnlockedAchievements = []string{}
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = now
	}
	// Level is derived state; recompute so a stale document can never
	// disagree with its own XP total.
	rec.Level = LevelForXP(rec.TotalXP)
	return &rec, nil
}
