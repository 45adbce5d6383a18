// notify/notify.go
package notify

import (
	"log"

	"codex/models"
)

// Event kinds emitted by the progress tracker.
const (
	EventLevelUp             = "level-up"
	EventLevelComplete       = "level-complete"
	EventAchievementUnlocked = "achievement-unlocked"
)

// Event carries the fields relevant to its Type; unrelated fields are zero.
type Event struct {
	Type        string
	NewLevel    int
	Language    string
	LevelNumber int
	Achievement *models.Achievement
}

// Sink receives presentation events. Emission is fire-and-forget: the
// tracker calls Emit synchronously, never waits on it, and a failing sink
// must not roll back a persisted mutation — hence no error return.
type Sink interface {
	Emit(event Event)
}

// Func adapts a plain function to the Sink interface.
type Func func(Event)

func (f Func) Emit(event Event) { f(event) }

// Nop discards all events.
type Nop struct{}

func (Nop) Emit(Event) {}

// Log writes events to the process log. The server uses it as its default
// sink; a UI host would install its own.
type Log struct{}

func (Log) Emit(event Event) {
	switch event.Type {
	case EventLevelUp:
		log.Printf("🎉 level up: reached level %d", event.NewLevel)
	case EventLevelComplete:
		log.Printf("✅ level complete: %s level %d", event.Language, event.LevelNumber)
	case EventAchievementUnlocked:
		log.Printf("🏆 achievement unlocked: %s (+%d XP)", event.Achievement.Name, event.Achievement.XP)
	}
}

// Multi fans one event out to several sinks in order.
type Multi []Sink

func (m Multi) Emit(event Event) {
	for _, s := range m {
		s.Emit(event)
	}
}
