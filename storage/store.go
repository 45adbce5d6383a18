// storage/store.go
package storage

import "fmt"

// Store is the persistent key-value collaborator every component writes
// through. Values are serialized JSON documents; keys are namespaced
// strings built by the helpers below. Implementations are single-process
// and synchronous; each public operation of the stores above performs its
// full read-modify-write cycle against one Store without interleaving.
type Store interface {
	// Get returns the value and whether the key exists.
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
	// Keys enumerates every stored key with the given prefix.
	Keys(prefix string) ([]string, error)
}

// Top-level keys shared by all accounts.
const (
	KeyUsers       = "codex-users"
	KeyCurrentUser = "codex-current-user"
)

// Composite key builders for the per-account namespace. All account state
// other than the account book itself lives under userdata/<id>/.

func UserPrefix(accountID string) string {
	return fmt.Sprintf("userdata/%s/", accountID)
}

func ProgressKey(accountID string) string {
	return UserPrefix(accountID) + "progress.json"
}

func AchievementsKey(accountID string) string {
	return UserPrefix(accountID) + "achievements.json"
}

func SettingsKey(accountID string) string {
	return UserPrefix(accountID) + "settings.json"
}

func CodePrefix(accountID string) string {
	return UserPrefix(accountID) + "code/"
}

func CodeKey(accountID, language string, levelNumber int) string {
	return fmt.Sprintf("%s%s/level-%d.js", CodePrefix(accountID), language, levelNumber)
}
