// models/user.go
package models

import "time"

// Account is a registered user identity. The ID is derived
// deterministically from the normalized email and never changes for the
// lifetime of the account. Credential is an opaque value produced by the
// configured CredentialHasher; it is excluded from export documents by the
// transfer codec, not by the JSON tag, because the account book itself is
// persisted through this same struct.
type Account struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Credential string    `json:"credential,omitempty"`
	Joined     time.Time `json:"joined"`
	LastLogin  time.Time `json:"lastLogin"`
}

// Settings is the per-account preferences document stored under
// userdata/<id>/settings.json.
type Settings struct {
	Theme        string    `json:"theme"`
	SoundEnabled bool      `json:"soundEnabled"`
	AutoSave     bool      `json:"autoSave"`
	FontSize     int       `json:"fontSize"`
	CreatedAt    time.Time `json:"createdAt"`
}

// DefaultSettings returns the settings written at registration.
func DefaultSettings(now time.Time) *Settings {
	return &Settings{
		Theme:        "dark",
		SoundEnabled: true,
		AutoSave:     true,
		FontSize:     14,
		CreatedAt:    now,
	}
}
