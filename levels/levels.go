// levels/levels.go - static level-content tables
package levels

import "codex/models"

// TrackSize is the number of levels in every language track.
const TrackSize = 100

// Level is one coding challenge unit. Instructions and starter code drive
// the editor UI; XP here is display metadata only — the tracker awards
// completion XP from the level number, not from this table.
type Level struct {
	Number       int    `json:"number"`
	Title        string `json:"title"`
	Instructions string `json:"instructions"`
	StarterCode  string `json:"starterCode"`
	XP           int    `json:"xp"`
}

// ValidLanguage reports whether the tag names a known track.
func ValidLanguage(language string) bool {
	for _, lang := range models.Languages {
		if lang == language {
			return true
		}
	}
	return false
}

// ValidLevel reports whether the level number falls inside a track.
func ValidLevel(levelNumber int) bool {
	return levelNumber >= 1 && levelNumber <= TrackSize
}

// Track returns the defined level entries for a language. Tracks are
// sparse: only the authored opening levels carry content, the rest of the
// hundred levels exist solely as numbers in the progress sets.
func Track(language string) []Level {
	switch language {
	case models.LanguageHTML:
		return htmlTrack
	case models.LanguageCSS:
		return cssTrack
	case models.LanguageJS:
		return jsTrack
	}
	return nil
}

var htmlTrack = []Level{
	{
		Number:       1,
		Title:        "Your First Heading",
		Instructions: "Create a main heading that says \"Hello, World!\" and a paragraph introducing yourself.",
		StarterCode:  "<!-- Add your heading and paragraph here -->\n",
		XP:           10,
	},
	{
		Number:       2,
		Title:        "Lists and Links",
		Instructions: "Build an unordered list of three favorite websites, each item linking to its site.",
		StarterCode:  "<ul>\n    <!-- Three linked list items -->\n</ul>\n",
		XP:           10,
	},
	{
		Number:       3,
		Title:        "Images and Alt Text",
		Instructions: "Add an image with a descriptive alt attribute inside a figure with a caption.",
		StarterCode:  "<figure>\n    <!-- Image and figcaption -->\n</figure>\n",
		XP:           10,
	},
}

var cssTrack = []Level{
	{
		Number:       1,
		Title:        "Basic Styling",
		Instructions: "Style the heading to be blue and center-aligned. Make paragraphs have a font size of 18px.",
		StarterCode:  "h1 {\n    /* Make heading blue and centered */\n}\n\np {\n    /* Set font size to 18px */\n}\n",
		XP:           10,
	},
	{
		Number:       2,
		Title:        "Colors and Backgrounds",
		Instructions: "Set the page background to light gray (#f0f0f0) and give the container a white background with some padding.",
		StarterCode:  "body {\n    /* Set background color */\n}\n\n.container {\n    /* White background with padding */\n}\n",
		XP:           15,
	},
	{
		Number:       3,
		Title:        "Box Model",
		Instructions: "Create a box with specific dimensions: 200px width, 100px height, 20px padding, 2px border, and 10px margin.",
		StarterCode:  ".box {\n    /* Implement the box model */\n}\n",
		XP:           20,
	},
}

var jsTrack = []Level{
	{
		Number:       1,
		Title:        "Variables and Output",
		Instructions: "Declare a variable holding your name and log a greeting that uses it.",
		StarterCode:  "// Declare the variable and log the greeting\n",
		XP:           10,
	},
	{
		Number:       2,
		Title:        "Functions",
		Instructions: "Write a function add(a, b) that returns the sum of its arguments.",
		StarterCode:  "function add(a, b) {\n    // Return the sum\n}\n",
		XP:           15,
	},
	{
		Number:       3,
		Title:        "Arrays and Loops",
		Instructions: "Loop over an array of numbers and log each value doubled.",
		StarterCode:  "const numbers = [1, 2, 3, 4];\n// Log each value doubled\n",
		XP:           20,
	},
}
