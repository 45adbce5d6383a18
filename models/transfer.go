// models/transfer.go
package models

import "time"

// ExportVersion is the format version stamped on export documents.
const ExportVersion = "1.0"

// ExportDocument is the portable snapshot of one account's full state.
// Progress, Achievements, Code and Settings are all optional on import;
// a missing section leaves the imported account at defaults for it.
// Code is keyed language -> "level-<n>" -> source text.
type ExportDocument struct {
	Version      string                       `json:"version"`
	ExportedAt   time.Time                    `json:"exportedAt"`
	User         Account                      `json:"user"`
	Progress     *ProgressRecord              `json:"progress,omitempty"`
	Achievements []UnlockedAchievement        `json:"achievements,omitempty"`
	Code         map[string]map[string]string `json:"code,omitempty"`
	Settings     *Settings                    `json:"settings,omitempty"`
}
