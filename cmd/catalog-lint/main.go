// Checks the built-in achievement catalog and level tracks for the
// invariants the runtime assumes. Run in CI before shipping a catalog
// change.
package main

import (
	"fmt"
	"os"

	"codex/achievements"
	"codex/levels"
	"codex/models"
)

var knownConditions = map[string]bool{
	models.ConditionLevelsCompleted: true,
	models.ConditionLanguageMaster:  true,
	models.ConditionStreak:          true,
	models.ConditionXPMilestone:     true,
	models.ConditionTimeSpent:       true,
	models.ConditionSpecial:         true,
}

func main() {
	exitCode := 0
	fail := func(format string, args ...any) {
		fmt.Printf(format+"\n", args...)
		exitCode = 1
	}

	catalog := achievements.Catalog()
	seen := map[string]bool{}
	for _, a := range catalog {
		if a.ID == "" {
			fail("catalog: entry %q has empty id", a.Name)
			continue
		}
		if seen[a.ID] {
			fail("catalog: duplicate id %q", a.ID)
		}
		seen[a.ID] = true

		if a.Name == "" || a.Description == "" {
			fail("catalog: %s: name and description are required", a.ID)
		}
		if a.XP <= 0 {
			fail("catalog: %s: xp reward must be positive, got %d", a.ID, a.XP)
		}
		if !knownConditions[a.Type] {
			fail("catalog: %s: unknown condition type %q", a.ID, a.Type)
		}

		switch a.Type {
		case models.ConditionLanguageMaster:
			if !levels.ValidLanguage(a.Language) {
				fail("catalog: %s: language_master needs a valid language, got %q", a.ID, a.Language)
			}
			if a.Requirement <= 0 {
				fail("catalog: %s: language_master needs a positive requirement", a.ID)
			}
		case models.ConditionLevelsCompleted, models.ConditionStreak,
			models.ConditionXPMilestone, models.ConditionTimeSpent:
			if a.Requirement <= 0 {
				fail("catalog: %s: %s needs a positive requirement", a.ID, a.Type)
			}
		}
	}
	if exitCode == 0 {
		fmt.Printf("catalog: OK (%d entries)\n", len(catalog))
	}

	for _, language := range models.Languages {
		track := levels.Track(language)
		levelSeen := map[int]bool{}
		bad := 0
		for _, lvl := range track {
			if !levels.ValidLevel(lvl.Number) {
				fmt.Printf("levels/%s: level %d outside track range 1-%d\n", language, lvl.Number, levels.TrackSize)
				bad++
			}
			if levelSeen[lvl.Number] {
				fmt.Printf("levels/%s: duplicate level %d\n", language, lvl.Number)
				bad++
			}
			levelSeen[lvl.Number] = true
			if lvl.Title == "" {
				fmt.Printf("levels/%s: level %d has no title\n", language, lvl.Number)
				bad++
			}
		}
		if bad == 0 {
			fmt.Printf("levels/%s: OK (%d authored)\n", language, len(track))
		} else {
			exitCode = 1
		}
	}

	os.Exit(exitCode)
}
