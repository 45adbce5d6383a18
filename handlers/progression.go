// handlers/progression.go
package handlers

import (
	"codex/middleware"
	"codex/models"
	"codex/progress"

	"github.com/gofiber/fiber/v2"
)

type CompleteLevelRequest struct {
	Language    string `json:"language"`
	LevelNumber int    `json:"level_number"`
	TimeSpent   int    `json:"time_spent"` // minutes
}

type AwardXPRequest struct {
	Amount int    `json:"amount"`
	Reason string `json:"reason"`
}

// ProgressionHandler exposes the progress tracker over HTTP.
type ProgressionHandler struct {
	Tracker *progress.Tracker
	Catalog []models.Achievement
}

func NewProgressionHandler(tracker *progress.Tracker, catalog []models.Achievement) *ProgressionHandler {
	return &ProgressionHandler{Tracker: tracker, Catalog: catalog}
}

// CompleteLevel records a level completion and reports what it paid out.
// Re-completing a level responds with already_completed instead of a
// second payout.
func (h *ProgressionHandler) CompleteLevel(c *fiber.Ctx) error {
	accountID, err := middleware.AccountID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req CompleteLevelRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	result, err := h.Tracker.CompleteLevel(accountID, req.Language, req.LevelNumber, req.TimeSpent)
	if err != nil {
		return respondError(c, err)
	}
	if result == nil {
		return c.JSON(fiber.Map{"success": true, "already_completed": true})
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"xp_earned": result.XPEarned,
		"new_level": result.NewLevel,
		"streak":    result.Streak,
	})
}

// AwardXP grants XP outside of level completion.
func (h *ProgressionHandler) AwardXP(c *fiber.Ctx) error {
	accountID, err := middleware.AccountID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req AwardXPRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if req.Amount <= 0 {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "XP amount must be positive"})
	}

	rec, err := h.Tracker.AddXP(accountID, req.Amount)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"xp_awarded": req.Amount,
		"total_xp":   rec.TotalXP,
		"new_level":  rec.Level,
		"reason":     req.Reason,
	})
}

// GetProgression returns the in-level summary for the dashboard.
func (h *ProgressionHandler) GetProgression(c *fiber.Ctx) error {
	accountID, err := middleware.AccountID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	summary, err := h.Tracker.LevelProgress(accountID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "progression": summary})
}

// GetStats returns the compact profile summary.
func (h *ProgressionHandler) GetStats(c *fiber.Ctx) error {
	accountID, err := middleware.AccountID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	stats, err := h.Tracker.Stats(accountID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "stats": stats})
}

// GetAchievements returns the full catalog annotated with the account's
// unlock state and timestamps.
func (h *ProgressionHandler) GetAchievements(c *fiber.Ctx) error {
	accountID, err := middleware.AccountID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	rec, err := h.Tracker.Get(accountID)
	if err != nil {
		return respondError(c, err)
	}
	history, err := h.Tracker.UnlockHistory(accountID)
	if err != nil {
		return respondError(c, err)
	}

	unlockedAt := make(map[string]models.UnlockedAchievement, len(history))
	for _, u := range history {
		unlockedAt[u.ID] = u
	}

	entries := make([]fiber.Map, 0, len(h.Catalog))
	unlockedCount := 0
	for _, a := range h.Catalog {
		entry := fiber.Map{
			"id":          a.ID,
			"name":        a.Name,
			"description": a.Description,
			"icon":        a.Icon,
			"xp":          a.XP,
			"unlocked":    false,
		}
		if rec.HasAchievement(a.ID) {
			entry["unlocked"] = true
			unlockedCount++
			if u, ok := unlockedAt[a.ID]; ok {
				entry["unlocked_at"] = u.UnlockedAt
			}
		}
		entries = append(entries, entry)
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"achievements": entries,
		"total":        len(h.Catalog),
		"unlocked":     unlockedCount,
	})
}

// Reset overwrites the account's progress with defaults. Debug operation.
func (h *ProgressionHandler) Reset(c *fiber.Ctx) error {
	accountID, err := middleware.AccountID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}
	if err := h.Tracker.ResetProgress(accountID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
