// achievements/catalog.go
package achievements

import "codex/models"

// Catalog returns the static achievement definitions. Read-only at run
// time; unlock state lives in each account's progress record.
func Catalog() []models.Achievement {
	return []models.Achievement{
		{
			ID:          "first_steps",
			Name:        "First Steps",
			Description: "Complete your first coding level",
			Icon:        "🚀",
			XP:          25,
			Type:        models.ConditionLevelsCompleted,
			Requirement: 1,
		},
		{
			ID:          "html_novice",
			Name:        "HTML Novice",
			Description: "Complete 10 HTML levels",
			Icon:        "📄",
			XP:          50,
			Type:        models.ConditionLanguageMaster,
			Language:    models.LanguageHTML,
			Requirement: 10,
		},
		{
			ID:          "css_novice",
			Name:        "CSS Novice",
			Description: "Complete 10 CSS levels",
			Icon:        "🎨",
			XP:          50,
			Type:        models.ConditionLanguageMaster,
			Language:    models.LanguageCSS,
			Requirement: 10,
		},
		{
			ID:          "js_novice",
			Name:        "JavaScript Novice",
			Description: "Complete 10 JavaScript levels",
			Icon:        "⚡",
			XP:          50,
			Type:        models.ConditionLanguageMaster,
			Language:    models.LanguageJS,
			Requirement: 10,
		},
		{
			ID:          "week_warrior",
			Name:        "Week Warrior",
			Description: "Maintain a 7-day streak",
			Icon:        "🔥",
			XP:          100,
			Type:        models.ConditionStreak,
			Requirement: 7,
		},
		{
			ID:          "code_apprentice",
			Name:        "Code Apprentice",
			Description: "Reach 500 XP",
			Icon:        "⭐",
			XP:          150,
			Type:        models.ConditionXPMilestone,
			Requirement: 500,
		},
		{
			ID:          "deep_focus",
			Name:        "Deep Focus",
			Description: "Spend 2 hours coding in total",
			Icon:        "⏱️",
			XP:          75,
			Type:        models.ConditionTimeSpent,
			Requirement: 120,
		},
		{
			ID:          "early_bird",
			Name:        "Early Bird",
			Description: "Complete a level before 8 AM",
			Icon:        "🌅",
			XP:          75,
			Type:        models.ConditionSpecial,
			Requirement: 1,
		},
		{
			ID:          "night_owl",
			Name:        "Night Owl",
			Description: "Complete a level after 10 PM",
			Icon:        "🦉",
			XP:          75,
			Type:        models.ConditionSpecial,
			Requirement: 1,
		},
	}
}
