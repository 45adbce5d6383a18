// storage/store_test.go
package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupGormStore(t *testing.T) *Gorm {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	store, err := NewGorm(db)
	require.NoError(t, err)
	return store
}

// Both implementations must behave identically; everything above the
// storage layer is tested against Memory only.
func TestStoreContract(t *testing.T) {
	stores := map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemory() },
		"gorm":   func(t *testing.T) Store { return setupGormStore(t) },
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			t.Run("get missing key", func(t *testing.T) {
				s := newStore(t)
				v, ok := s.Get("nope")
				assert.False(t, ok)
				assert.Empty(t, v)
			})

			t.Run("set then get", func(t *testing.T) {
				s := newStore(t)
				require.NoError(t, s.Set("a", "1"))
				v, ok := s.Get("a")
				assert.True(t, ok)
				assert.Equal(t, "1", v)
			})

			t.Run("set overwrites", func(t *testing.T) {
				s := newStore(t)
				require.NoError(t, s.Set("a", "1"))
				require.NoError(t, s.Set("a", "2"))
				v, _ := s.Get("a")
				assert.Equal(t, "2", v)
			})

			t.Run("empty value is still present", func(t *testing.T) {
				s := newStore(t)
				require.NoError(t, s.Set("a", ""))
				v, ok := s.Get("a")
				assert.True(t, ok)
				assert.Empty(t, v)
			})

			t.Run("remove", func(t *testing.T) {
				s := newStore(t)
				require.NoError(t, s.Set("a", "1"))
				require.NoError(t, s.Remove("a"))
				_, ok := s.Get("a")
				assert.False(t, ok)
			})

			t.Run("remove missing key is a no-op", func(t *testing.T) {
				s := newStore(t)
				assert.NoError(t, s.Remove("nope"))
			})

			t.Run("keys by prefix, sorted", func(t *testing.T) {
				s := newStore(t)
				require.NoError(t, s.Set("userdata/u1/progress.json", "{}"))
				require.NoError(t, s.Set("userdata/u1/code/html/level-1.js", "x"))
				require.NoError(t, s.Set("userdata/u2/progress.json", "{}"))
				require.NoError(t, s.Set("codex-users", "{}"))

				keys, err := s.Keys("userdata/u1/")
				require.NoError(t, err)
				assert.Equal(t, []string{
					"userdata/u1/code/html/level-1.js",
					"userdata/u1/progress.json",
				}, keys)

				all, err := s.Keys("")
				require.NoError(t, err)
				assert.Len(t, all, 4)
			})
		})
	}
}

func TestKeyBuilders(t *testing.T) {
	assert.Equal(t, "userdata/u1/", UserPrefix("u1"))
	assert.Equal(t, "userdata/u1/progress.json", ProgressKey("u1"))
	assert.Equal(t, "userdata/u1/achievements.json", AchievementsKey("u1"))
	assert.Equal(t, "userdata/u1/settings.json", SettingsKey("u1"))
	assert.Equal(t, "userdata/u1/code/", CodePrefix("u1"))
	assert.Equal(t, "userdata/u1/code/css/level-42.js", CodeKey("u1", "css", 42))
}
