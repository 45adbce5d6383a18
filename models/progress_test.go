// models/progress_test.go
package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		totalXP int
		want    int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{199, 2},
		{250, 3},
		{1000, 11},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForXP(tt.totalXP), "totalXP=%d", tt.totalXP)
	}
}

func TestNewProgressRecord_Defaults(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	rec := NewProgressRecord(now)

	assert.Equal(t, 0, rec.TotalXP)
	assert.Equal(t, 1, rec.Level)
	assert.Equal(t, 0, rec.CurrentStreak)
	assert.Equal(t, "", rec.LastCompleted)
	assert.Equal(t, now, rec.StartedAt)
	for _, lang := range Languages {
		require.NotNil(t, rec.CompletedLevels[lang])
		assert.Empty(t, rec.CompletedLevels[lang])
	}
	assert.Empty(t, rec.UnlockedAchievements)
}

func TestDecodeProgress(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		raw     string
		wantErr error
		check   func(t *testing.T, rec *ProgressRecord)
	}{
		{
			name: "fills missing fields with defaults",
			raw:  `{"totalXP":50}`,
			check: func(t *testing.T, rec *ProgressRecord) {
				assert.Equal(t, 50, rec.TotalXP)
				assert.Equal(t, 1, rec.Level)
				for _, lang := range Languages {
					require.NotNil(t, rec.CompletedLevels[lang])
				}
				assert.NotNil(t, rec.UnlockedAchievements)
				assert.Equal(t, now, rec.StartedAt)
			},
		},
		{
			name: "recomputes level from xp",
			raw:  `{"totalXP":250,"level":1}`,
			check: func(t *testing.T, rec *ProgressRecord) {
				assert.Equal(t, 3, rec.Level)
			},
		},
		{
			name:    "rejects malformed json",
			raw:     `{not json`,
			wantErr: ErrInvalidFormat,
		},
		{
			name:    "rejects negative counters",
			raw:     `{"totalXP":-5}`,
			wantErr: ErrInvalidFormat,
		},
		{
			name:    "rejects unknown language tracks",
			raw:     `{"completedLevels":{"python":[1,2]}}`,
			wantErr: ErrInvalidFormat,
		},
		{
			name:    "rejects duplicate levels within a track",
			raw:     `{"completedLevels":{"html":[1,2,1]}}`,
			wantErr: ErrInvalidFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := DecodeProgress([]byte(tt.raw), now)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, rec)
		})
	}
}

func TestProgressRecord_Sets(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	rec := NewProgressRecord(now)
	rec.CompletedLevels[LanguageHTML] = []int{1, 2, 3}
	rec.CompletedLevels[LanguageJS] = []int{1}
	rec.UnlockedAchievements = []string{"first_steps"}

	assert.Equal(t, 4, rec.TotalCompleted())
	assert.True(t, rec.HasCompleted(LanguageHTML, 2))
	assert.False(t, rec.HasCompleted(LanguageHTML, 4))
	assert.False(t, rec.HasCompleted(LanguageCSS, 1))
	assert.True(t, rec.HasAchievement("first_steps"))
	assert.False(t, rec.HasAchievement("week_warrior"))
}
