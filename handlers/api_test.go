// handlers/api_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"codex/achievements"
	"codex/auth"
	"codex/middleware"
	"codex/notify"
	"codex/progress"
	"codex/storage"
	"codex/transfer"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestApp wires the full route surface against an in-memory store, the
// same shape main constructs for the server.
func newTestApp() (*fiber.App, *storage.Memory) {
	store := storage.NewMemory()
	catalog := achievements.Catalog()
	accounts := auth.NewManager(store, auth.LegacyEncoder{})
	tracker := progress.NewTracker(store, notify.Nop{}, catalog).
		WithClock(func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) })
	codec := transfer.NewCodec(store, accounts)

	authHandler := NewAuthHandler(accounts)
	progressionHandler := NewProgressionHandler(tracker, catalog)
	contentHandler := NewContentHandler(store)
	transferHandler := NewTransferHandler(codec, accounts)

	app := fiber.New()
	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", middleware.Auth, authHandler.Logout)
	authGroup.Get("/me", middleware.Auth, authHandler.Me)
	authGroup.Delete("/account", middleware.Auth, authHandler.DeleteAccount)

	progressionGroup := api.Group("/progression")
	progressionGroup.Use(middleware.Auth)
	progressionGroup.Post("/complete", progressionHandler.CompleteLevel)
	progressionGroup.Post("/xp", progressionHandler.AwardXP)
	progressionGroup.Post("/reset", progressionHandler.Reset)
	progressionGroup.Get("/", progressionHandler.GetProgression)
	progressionGroup.Get("/stats", progressionHandler.GetStats)
	progressionGroup.Get("/achievements", progressionHandler.GetAchievements)

	codeGroup := api.Group("/code")
	codeGroup.Use(middleware.Auth)
	codeGroup.Get("/:language/:level", contentHandler.GetCode)
	codeGroup.Put("/:language/:level", contentHandler.SaveCode)

	settingsGroup := api.Group("/settings")
	settingsGroup.Use(middleware.Auth)
	settingsGroup.Get("/", contentHandler.GetSettings)
	settingsGroup.Put("/", contentHandler.SaveSettings)

	api.Get("/levels/:language", contentHandler.GetLevels)
	api.Get("/transfer/export", middleware.Auth, transferHandler.Export)
	api.Post("/transfer/import", transferHandler.Import)

	return app, store
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var parsed map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &parsed), "body: %s", raw)
	}
	return resp, parsed
}

func registerAda(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp, body := doJSON(t, app, "POST", "/api/auth/register", "", fiber.Map{
		"name": "Ada Lovelace", "email": "ada@example.com", "password": "secret1",
	})
	require.Equal(t, 200, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRegisterEndpoint(t *testing.T) {
	app, _ := newTestApp()

	resp, body := doJSON(t, app, "POST", "/api/auth/register", "", fiber.Map{
		"name": "Ada Lovelace", "email": "ada@example.com", "password": "secret1",
	})
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "ada@example.com", user["email"])

	t.Run("duplicate email conflicts", func(t *testing.T) {
		resp, _ := doJSON(t, app, "POST", "/api/auth/register", "", fiber.Map{
			"name": "Other", "email": "ada@example.com", "password": "secret2",
		})
		assert.Equal(t, 409, resp.StatusCode)
	})

	t.Run("validation failure", func(t *testing.T) {
		resp, _ := doJSON(t, app, "POST", "/api/auth/register", "", fiber.Map{
			"name": "A", "email": "ada2@example.com", "password": "secret1",
		})
		assert.Equal(t, 400, resp.StatusCode)
	})
}

func TestLoginEndpoint(t *testing.T) {
	app, _ := newTestApp()
	registerAda(t, app)

	t.Run("success", func(t *testing.T) {
		resp, body := doJSON(t, app, "POST", "/api/auth/login", "", fiber.Map{
			"email": "ada@example.com", "password": "secret1",
		})
		assert.Equal(t, 200, resp.StatusCode)
		assert.NotEmpty(t, body["token"])
	})

	t.Run("wrong password", func(t *testing.T) {
		resp, _ := doJSON(t, app, "POST", "/api/auth/login", "", fiber.Map{
			"email": "ada@example.com", "password": "nope",
		})
		assert.Equal(t, 401, resp.StatusCode)
	})

	t.Run("unknown account", func(t *testing.T) {
		resp, _ := doJSON(t, app, "POST", "/api/auth/login", "", fiber.Map{
			"email": "nobody@example.com", "password": "secret1",
		})
		assert.Equal(t, 404, resp.StatusCode)
	})

	t.Run("missing fields", func(t *testing.T) {
		resp, _ := doJSON(t, app, "POST", "/api/auth/login", "", fiber.Map{})
		assert.Equal(t, 400, resp.StatusCode)
	})
}

func TestAuthRequired(t *testing.T) {
	app, _ := newTestApp()
	paths := []struct{ method, path string }{
		{"GET", "/api/progression/"},
		{"POST", "/api/progression/complete"},
		{"GET", "/api/settings/"},
		{"GET", "/api/transfer/export"},
	}
	for _, p := range paths {
		resp, _ := doJSON(t, app, p.method, p.path, "", nil)
		assert.Equal(t, 401, resp.StatusCode, "%s %s", p.method, p.path)
	}

	t.Run("garbage token", func(t *testing.T) {
		resp, _ := doJSON(t, app, "GET", "/api/progression/", "not-a-token", nil)
		assert.Equal(t, 401, resp.StatusCode)
	})
}

func TestCompleteLevelEndpoint(t *testing.T) {
	app, _ := newTestApp()
	token := registerAda(t, app)

	resp, body := doJSON(t, app, "POST", "/api/progression/complete", token, fiber.Map{
		"language": "html", "level_number": 1, "time_spent": 5,
	})
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, float64(10), body["xp_earned"])
	assert.Equal(t, float64(1), body["streak"])

	t.Run("repeat is already_completed", func(t *testing.T) {
		resp, body := doJSON(t, app, "POST", "/api/progression/complete", token, fiber.Map{
			"language": "html", "level_number": 1, "time_spent": 5,
		})
		require.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, true, body["already_completed"])
	})

	t.Run("bad language", func(t *testing.T) {
		resp, _ := doJSON(t, app, "POST", "/api/progression/complete", token, fiber.Map{
			"language": "python", "level_number": 1,
		})
		assert.Equal(t, 400, resp.StatusCode)
	})

	t.Run("stats reflect the completion", func(t *testing.T) {
		resp, body := doJSON(t, app, "GET", "/api/progression/stats", token, nil)
		require.Equal(t, 200, resp.StatusCode)
		stats := body["stats"].(map[string]any)
		assert.Equal(t, float64(1), stats["totalCompleted"])
		// 10 completion XP + 25 from first_steps.
		assert.Equal(t, float64(35), stats["totalXP"])
	})

	t.Run("achievement list marks the unlock", func(t *testing.T) {
		resp, body := doJSON(t, app, "GET", "/api/progression/achievements", token, nil)
		require.Equal(t, 200, resp.StatusCode)
		assert.GreaterOrEqual(t, body["unlocked"], float64(1))

		found := false
		for _, entry := range body["achievements"].([]any) {
			a := entry.(map[string]any)
			if a["id"] == "first_steps" {
				found = true
				assert.Equal(t, true, a["unlocked"])
				assert.NotEmpty(t, a["unlocked_at"])
			}
		}
		assert.True(t, found)
	})
}

func TestAwardXPEndpoint(t *testing.T) {
	app, _ := newTestApp()
	token := registerAda(t, app)

	resp, body := doJSON(t, app, "POST", "/api/progression/xp", token, fiber.Map{
		"amount": 150, "reason": "bonus",
	})
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, float64(150), body["total_xp"])
	assert.Equal(t, float64(2), body["new_level"])

	resp, _ = doJSON(t, app, "POST", "/api/progression/xp", token, fiber.Map{"amount": -5})
	assert.Equal(t, 400, resp.StatusCode)
}

func TestCodeEndpoints(t *testing.T) {
	app, _ := newTestApp()
	token := registerAda(t, app)

	resp, body := doJSON(t, app, "GET", "/api/code/html/1", token, nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "", body["code"], "unsaved buffer reads back empty")

	resp, _ = doJSON(t, app, "PUT", "/api/code/html/1", token, fiber.Map{"code": "<h1>Hi</h1>"})
	require.Equal(t, 200, resp.StatusCode)

	resp, body = doJSON(t, app, "GET", "/api/code/html/1", token, nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "<h1>Hi</h1>", body["code"])

	t.Run("rejects bad route params", func(t *testing.T) {
		resp, _ := doJSON(t, app, "GET", "/api/code/python/1", token, nil)
		assert.Equal(t, 400, resp.StatusCode)
		resp, _ = doJSON(t, app, "GET", "/api/code/html/0", token, nil)
		assert.Equal(t, 400, resp.StatusCode)
		resp, _ = doJSON(t, app, "GET", "/api/code/html/101", token, nil)
		assert.Equal(t, 400, resp.StatusCode)
	})
}

func TestSettingsEndpoints(t *testing.T) {
	app, _ := newTestApp()
	token := registerAda(t, app)

	resp, body := doJSON(t, app, "GET", "/api/settings/", token, nil)
	require.Equal(t, 200, resp.StatusCode)
	settings := body["settings"].(map[string]any)
	assert.Equal(t, "dark", settings["theme"])
	assert.Equal(t, float64(14), settings["fontSize"])

	resp, _ = doJSON(t, app, "PUT", "/api/settings/", token, fiber.Map{
		"theme": "light", "soundEnabled": false, "autoSave": true, "fontSize": 16,
	})
	require.Equal(t, 200, resp.StatusCode)

	resp, body = doJSON(t, app, "GET", "/api/settings/", token, nil)
	require.Equal(t, 200, resp.StatusCode)
	settings = body["settings"].(map[string]any)
	assert.Equal(t, "light", settings["theme"])
	assert.Equal(t, false, settings["soundEnabled"])
}

func TestGetSettings_DefaultUsesHandlerClock(t *testing.T) {
	store := storage.NewMemory()
	accounts := auth.NewManager(store, auth.LegacyEncoder{})
	account, err := accounts.Register("Ada Lovelace", "ada@example.com", "secret1")
	require.NoError(t, err)
	// Drop the registration-time settings so the default path runs.
	require.NoError(t, store.Remove(storage.SettingsKey(account.ID)))

	fixed := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	handler := NewContentHandler(store).WithClock(func() time.Time { return fixed })

	app := fiber.New()
	app.Get("/api/settings/", middleware.Auth, handler.GetSettings)

	token, err := generateToken(account)
	require.NoError(t, err)

	resp, body := doJSON(t, app, "GET", "/api/settings/", token, nil)
	require.Equal(t, 200, resp.StatusCode)
	settings := body["settings"].(map[string]any)
	assert.Equal(t, "dark", settings["theme"])
	assert.Equal(t, fixed.Format(time.RFC3339), settings["createdAt"])
}

func TestLevelsEndpoint(t *testing.T) {
	app, _ := newTestApp()

	resp, body := doJSON(t, app, "GET", "/api/levels/css", "", nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, float64(100), body["track_size"])
	tracks := body["levels"].([]any)
	assert.NotEmpty(t, tracks)
	first := tracks[0].(map[string]any)
	assert.Equal(t, "Basic Styling", first["title"])

	resp, _ = doJSON(t, app, "GET", "/api/levels/python", "", nil)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestTransferEndpoints(t *testing.T) {
	app, _ := newTestApp()
	token := registerAda(t, app)

	_, _ = doJSON(t, app, "POST", "/api/progression/complete", token, fiber.Map{
		"language": "js", "level_number": 1, "time_spent": 5,
	})

	resp, body := doJSON(t, app, "GET", "/api/transfer/export", token, nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "codex-export.json")
	user := body["user"].(map[string]any)
	assert.Equal(t, "ada@example.com", user["email"])
	_, hasCredential := user["credential"]
	assert.False(t, hasCredential)

	t.Run("import into a fresh install", func(t *testing.T) {
		freshApp, _ := newTestApp()
		resp, importBody := doJSON(t, freshApp, "POST", "/api/transfer/import", "", body)
		require.Equal(t, 201, resp.StatusCode)
		restored := importBody["user"].(map[string]any)
		assert.Equal(t, user["id"], restored["id"])
	})

	t.Run("import rejects malformed documents", func(t *testing.T) {
		freshApp, _ := newTestApp()
		resp, _ := doJSON(t, freshApp, "POST", "/api/transfer/import", "", fiber.Map{"version": "1.0"})
		assert.Equal(t, 422, resp.StatusCode)
	})
}

func TestDeleteAccountEndpoint(t *testing.T) {
	app, _ := newTestApp()
	token := registerAda(t, app)

	t.Run("email confirmation must match", func(t *testing.T) {
		resp, _ := doJSON(t, app, "DELETE", "/api/auth/account", token, fiber.Map{
			"email": "other@example.com",
		})
		assert.Equal(t, 400, resp.StatusCode)
	})

	resp, _ := doJSON(t, app, "DELETE", "/api/auth/account", token, fiber.Map{
		"email": "ada@example.com",
	})
	require.Equal(t, 200, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", "/api/auth/login", "", fiber.Map{
		"email": "ada@example.com", "password": "secret1",
	})
	assert.Equal(t, 404, resp.StatusCode)
}

func TestMeEndpoint(t *testing.T) {
	app, _ := newTestApp()
	token := registerAda(t, app)

	resp, body := doJSON(t, app, "GET", "/api/auth/me", token, nil)
	require.Equal(t, 200, resp.StatusCode)
	user := body["user"].(map[string]any)
	assert.Equal(t, "Ada Lovelace", user["name"])

	resp, _ = doJSON(t, app, "POST", "/api/auth/logout", token, nil)
	assert.Equal(t, 200, resp.StatusCode)
}
