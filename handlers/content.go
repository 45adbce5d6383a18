// handlers/content.go - code artifacts, settings and level tables
package handlers

import (
	"encoding/json"
	"strconv"
	"time"

	"codex/levels"
	"codex/middleware"
	"codex/models"
	"codex/storage"

	"github.com/gofiber/fiber/v2"
)

// ContentHandler serves the per-account code artifacts and settings plus
// the static level catalog.
type ContentHandler struct {
	Store storage.Store
	now   func() time.Time
}

func NewContentHandler(store storage.Store) *ContentHandler {
	return &ContentHandler{Store: store, now: time.Now}
}

// WithClock overrides the handler's clock. Tests use it to pin the
// default-settings timestamp.
func (h *ContentHandler) WithClock(now func() time.Time) *ContentHandler {
	h.now = now
	return h
}

// GetCode returns the saved editor buffer for one level, empty if none
// was ever saved.
func (h *ContentHandler) GetCode(c *fiber.Ctx) error {
	accountID, language, levelNumber, ok := h.codeParams(c)
	if !ok {
		return nil
	}
	source, _ := h.Store.Get(storage.CodeKey(accountID, language, levelNumber))
	return c.JSON(fiber.Map{
		"success":  true,
		"language": language,
		"level":    levelNumber,
		"code":     source,
	})
}

// SaveCode persists the editor buffer for one level.
func (h *ContentHandler) SaveCode(c *fiber.Ctx) error {
	accountID, language, levelNumber, ok := h.codeParams(c)
	if !ok {
		return nil
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	if err := h.Store.Set(storage.CodeKey(accountID, language, levelNumber), req.Code); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// GetSettings returns the account's settings document.
func (h *ContentHandler) GetSettings(c *fiber.Ctx) error {
	accountID, err := middleware.AccountID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	raw, ok := h.Store.Get(storage.SettingsKey(accountID))
	if !ok || raw == "" {
		return c.JSON(fiber.Map{"success": true, "settings": models.DefaultSettings(h.now())})
	}
	var settings models.Settings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return respondError(c, models.ErrInvalidFormat)
	}
	return c.JSON(fiber.Map{"success": true, "settings": settings})
}

// SaveSettings replaces the account's settings document.
func (h *ContentHandler) SaveSettings(c *fiber.Ctx) error {
	accountID, err := middleware.AccountID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var settings models.Settings
	if err := c.BodyParser(&settings); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	raw, err := json.Marshal(&settings)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.Store.Set(storage.SettingsKey(accountID), string(raw)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "settings": settings})
}

// GetLevels returns the authored level entries for one track.
func (h *ContentHandler) GetLevels(c *fiber.Ctx) error {
	language := c.Params("language")
	if !levels.ValidLanguage(language) {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Unknown language track"})
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"language":   language,
		"track_size": levels.TrackSize,
		"levels":     levels.Track(language),
	})
}

// codeParams parses the shared code-route parameters. On failure the
// response is already written and ok is false.
func (h *ContentHandler) codeParams(c *fiber.Ctx) (accountID, language string, levelNumber int, ok bool) {
	accountID, err := middleware.AccountID(c)
	if err != nil {
		_ = c.Status(401).JSON(fiber.Map{"error": err.Error()})
		return "", "", 0, false
	}
	language = c.Params("language")
	if !levels.ValidLanguage(language) {
		_ = c.Status(400).JSON(fiber.Map{"success": false, "error": "Unknown language track"})
		return "", "", 0, false
	}
	levelNumber, convErr := strconv.Atoi(c.Params("level"))
	if convErr != nil || !levels.ValidLevel(levelNumber) {
		_ = c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid level number"})
		return "", "", 0, false
	}
	return accountID, language, levelNumber, true
}
