// progress/tracker.go - XP, leveling, streak and achievement bookkeeping
package progress

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"codex/achievements"
	"codex/levels"
	"codex/models"
	"codex/notify"
	"codex/storage"
)

// CompletionResult reports a first-time level completion. NewLevel is the
// level reached by the completion XP itself, before any achievement
// bonuses land on top.
type CompletionResult struct {
	XPEarned int `json:"xpEarned"`
	NewLevel int `json:"newLevel"`
	Streak   int `json:"streak"`
}

// LevelProgress is the dashboard summary of where an account sits inside
// its current level.
type LevelProgress struct {
	Level           int              `json:"level"`
	TotalXP         int              `json:"totalXP"`
	XPToNextLevel   int              `json:"xpToNextLevel"`
	XPPercent       float64          `json:"xpPercent"`
	CompletedLevels map[string][]int `json:"completedLevels"`
	CurrentStreak   int              `json:"currentStreak"`
	TotalTime       int              `json:"totalTime"`
}

// Stats is the compact per-account summary used by profile views.
type Stats struct {
	TotalCompleted int `json:"totalCompleted"`
	TotalXP        int `json:"totalXP"`
	Level          int `json:"level"`
	Streak         int `json:"streak"`
}

// Tracker owns progress-record mutation. It is the only writer of
// userdata/<id>/progress.json and userdata/<id>/achievements.json.
type Tracker struct {
	store   storage.Store
	sink    notify.Sink
	catalog []models.Achievement
	now     func() time.Time
}

func NewTracker(store storage.Store, sink notify.Sink, catalog []models.Achievement) *Tracker {
	if sink == nil {
		sink = notify.Nop{}
	}
	return &Tracker{store: store, sink: sink, catalog: catalog, now: time.Now}
}

// WithClock overrides the tracker's clock. Tests use it to pin the
// calendar day and the time-of-day achievement conditions.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}

// Get returns the stored record, creating and persisting the default
// record on first access. Idempotent between mutations.
func (t *Tracker) Get(accountID string) (*models.ProgressRecord, error) {
	raw, ok := t.store.Get(storage.ProgressKey(accountID))
	if !ok {
		rec := models.NewProgressRecord(t.now())
		if err := t.save(accountID, rec); err != nil {
			return nil, err
		}
		return rec, nil
	}
	return models.DecodeProgress([]byte(raw), t.now())
}

// CompleteLevel records a first-time completion: grows the completed set,
// awards XP, advances the streak at most once per calendar day, adds time
// spent, re-derives the level and runs the achievement check. Completing
// an already-completed level is a no-op returning (nil, nil) — a level
// only ever pays out once.
func (t *Tracker) CompleteLevel(accountID, language string, levelNumber, timeSpentMinutes int) (*CompletionResult, error) {
	if !levels.ValidLanguage(language) {
		return nil, fmt.Errorf("%w: unknown language %q", models.ErrValidation, language)
	}
	if !levels.ValidLevel(levelNumber) {
		return nil, fmt.Errorf("%w: level number %d out of range", models.ErrValidation, levelNumber)
	}
	if timeSpentMinutes < 0 {
		return nil, fmt.Errorf("%w: negative time spent", models.ErrValidation)
	}

	rec, err := t.Get(accountID)
	if err != nil {
		return nil, err
	}
	if rec.HasCompleted(language, levelNumber) {
		return nil, nil
	}

	rec.CompletedLevels[language] = append(rec.CompletedLevels[language], levelNumber)

	today := t.now().Format(models.DateLayout)
	if rec.LastCompleted != today {
		rec.CurrentStreak++
		rec.LastCompleted = today
	}

	xpEarned := 10 + levelNumber/10
	rec.TotalXP += xpEarned
	rec.TotalTime += timeSpentMinutes

	newLevel := models.LevelForXP(rec.TotalXP)
	leveledUp := newLevel > rec.Level
	rec.Level = newLevel

	if err := t.save(accountID, rec); err != nil {
		return nil, err
	}

	t.sink.Emit(notify.Event{Type: notify.EventLevelComplete, Language: language, LevelNumber: levelNumber})
	if leveledUp {
		t.sink.Emit(notify.Event{Type: notify.EventLevelUp, NewLevel: newLevel})
	}

	// Per the error contract, a failing achievement pass never fails the
	// completion that triggered it.
	if _, err := t.CheckAchievements(accountID); err != nil {
		log.Printf("progress: achievement check for %s: %v", accountID, err)
	}

	return &CompletionResult{
		XPEarned: xpEarned,
		NewLevel: newLevel,
		Streak:   rec.CurrentStreak,
	}, nil
}

// AddXP awards XP outside of level completion. The level is re-derived
// and a level-up event emitted if it increased.
func (t *Tracker) AddXP(accountID string, amount int) (*models.ProgressRecord, error) {
	if amount < 0 {
		return nil, fmt.Errorf("%w: XP amount must not be negative", models.ErrValidation)
	}
	rec, err := t.Get(accountID)
	if err != nil {
		return nil, err
	}

	rec.TotalXP += amount
	newLevel := models.LevelForXP(rec.TotalXP)
	leveledUp := newLevel > rec.Level
	rec.Level = newLevel

	if err := t.save(accountID, rec); err != nil {
		return nil, err
	}
	if leveledUp {
		t.sink.Emit(notify.Event{Type: notify.EventLevelUp, NewLevel: newLevel})
	}
	return rec, nil
}

// CheckAchievements evaluates the catalog against the current record,
// persists any new unlocks together with their XP rewards and emits one
// achievement-unlocked event per unlock. Returns the newly unlocked
// definitions; re-running immediately yields an empty result.
func (t *Tracker) CheckAchievements(accountID string) ([]models.Achievement, error) {
	rec, err := t.Get(accountID)
	if err != nil {
		return nil, err
	}

	now := t.now()
	unlocked := achievements.Evaluate(rec, t.catalog, now)
	if len(unlocked) == 0 {
		return nil, nil
	}

	history, err := t.unlockHistory(accountID)
	if err != nil {
		return nil, err
	}

	levelBefore := rec.Level
	for _, a := range unlocked {
		rec.UnlockedAchievements = append(rec.UnlockedAchievements, a.ID)
		rec.TotalXP += a.XP
		history = append(history, models.UnlockedAchievement{ID: a.ID, UnlockedAt: now})
	}
	rec.Level = models.LevelForXP(rec.TotalXP)

	if err := t.save(accountID, rec); err != nil {
		return nil, err
	}
	if err := t.saveUnlockHistory(accountID, history); err != nil {
		return nil, err
	}

	for _, a := range unlocked {
		a := a
		t.sink.Emit(notify.Event{Type: notify.EventAchievementUnlocked, Achievement: &a})
	}
	if rec.Level > levelBefore {
		t.sink.Emit(notify.Event{Type: notify.EventLevelUp, NewLevel: rec.Level})
	}
	return unlocked, nil
}

// ResetProgress overwrites the record with defaults. Debug/test operation;
// the unlock history is cleared with it.
func (t *Tracker) ResetProgress(accountID string) error {
	if err := t.save(accountID, models.NewProgressRecord(t.now())); err != nil {
		return err
	}
	return t.saveUnlockHistory(accountID, []models.UnlockedAchievement{})
}

// LevelProgress summarizes the position inside the current level.
func (t *Tracker) LevelProgress(accountID string) (*LevelProgress, error) {
	rec, err := t.Get(accountID)
	if err != nil {
		return nil, err
	}
	into := rec.TotalXP % models.XPPerLevel
	return &LevelProgress{
		Level:           rec.Level,
		TotalXP:         rec.TotalXP,
		XPToNextLevel:   models.XPPerLevel - into,
		XPPercent:       float64(into) / float64(models.XPPerLevel) * 100,
		CompletedLevels: rec.CompletedLevels,
		CurrentStreak:   rec.CurrentStreak,
		TotalTime:       rec.TotalTime,
	}, nil
}

// Stats returns the compact profile summary.
func (t *Tracker) Stats(accountID string) (*Stats, error) {
	rec, err := t.Get(accountID)
	if err != nil {
		return nil, err
	}
	return &Stats{
		TotalCompleted: rec.TotalCompleted(),
		TotalXP:        rec.TotalXP,
		Level:          rec.Level,
		Streak:         rec.CurrentStreak,
	}, nil
}

// UnlockHistory returns the persisted unlock records, oldest first.
func (t *Tracker) UnlockHistory(accountID string) ([]models.UnlockedAchievement, error) {
	return t.unlockHistory(accountID)
}

func (t *Tracker) save(accountID string, rec *models.ProgressRecord) error {
	rec.LastUpdated = t.now()
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return t.store.Set(storage.ProgressKey(accountID), string(raw))
}

func (t *Tracker) unlockHistory(accountID string) ([]models.UnlockedAchievement, error) {
	raw, ok := t.store.Get(storage.AchievementsKey(accountID))
	if !ok || raw == "" {
		return []models.UnlockedAchievement{}, nil
	}
	var history []models.UnlockedAchievement
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		return nil, fmt.Errorf("%w: unlock history: %v", models.ErrInvalidFormat, err)
	}
	return history, nil
}

func (t *Tracker) saveUnlockHistory(accountID string, history []models.UnlockedAchievement) error {
	raw, err := json.Marshal(history)
	if err != nil {
		return err
	}
	return t.store.Set(storage.AchievementsKey(accountID), string(raw))
}
