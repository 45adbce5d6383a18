// transfer/codec.go - portable account snapshot export/import
package transfer

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"codex/auth"
	"codex/levels"
	"codex/models"
	"codex/storage"

	"github.com/google/uuid"
)

// Codec assembles and restores the one-document-per-account snapshot. It
// reads the account's whole namespace on export and writes an imported
// document's sections verbatim into a freshly registered account.
type Codec struct {
	store    storage.Store
	accounts *auth.Manager
	now      func() time.Time
}

func NewCodec(store storage.Store, accounts *auth.Manager) *Codec {
	return &Codec{store: store, accounts: accounts, now: time.Now}
}

// WithClock overrides the codec's clock for the export timestamp.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	c.now = now
	return c
}

// Export builds the full snapshot for an account. Pure read: nothing in
// the namespace is touched. The stored credential never leaves the
// account book.
func (c *Codec) Export(account *models.Account) (*models.ExportDocument, error) {
	now := c.now()
	user := *account
	user.Credential = ""

	doc := &models.ExportDocument{
		Version:    models.ExportVersion,
		ExportedAt: now,
		User:       user,
	}

	if raw, ok := c.store.Get(storage.ProgressKey(account.ID)); ok {
		rec, err := models.DecodeProgress([]byte(raw), now)
		if err != nil {
			return nil, err
		}
		doc.Progress = rec
	}

	if raw, ok := c.store.Get(storage.AchievementsKey(account.ID)); ok && raw != "" {
		var history []models.UnlockedAchievement
		if err := json.Unmarshal([]byte(raw), &history); err != nil {
			return nil, fmt.Errorf("%w: unlock history: %v", models.ErrInvalidFormat, err)
		}
		doc.Achievements = history
	}

	if raw, ok := c.store.Get(storage.SettingsKey(account.ID)); ok && raw != "" {
		var settings models.Settings
		if err := json.Unmarshal([]byte(raw), &settings); err != nil {
			return nil, fmt.Errorf("%w: settings: %v", models.ErrInvalidFormat, err)
		}
		doc.Settings = &settings
	}

	code, err := c.collectCode(account.ID)
	if err != nil {
		return nil, err
	}
	if len(code) > 0 {
		doc.Code = code
	}
	return doc, nil
}

// Import validates the document, registers a new account under a random
// placeholder credential and writes the imported sections into its
// namespace. Missing sections leave the account at registration defaults.
// The placeholder credential is never disclosed, so the account cannot log
// in until its credential is reset.
func (c *Codec) Import(doc *models.ExportDocument) (*models.Account, error) {
	rec, err := c.validate(doc)
	if err != nil {
		return nil, err
	}

	placeholder := "imported-" + uuid.NewString()
	account, err := c.accounts.Register(doc.User.Name, doc.User.Email, placeholder)
	if err != nil {
		return nil, err
	}

	if rec != nil {
		raw, err := json.Marshal(rec)
		if err != nil {
			return nil, err
		}
		if err := c.store.Set(storage.ProgressKey(account.ID), string(raw)); err != nil {
			return nil, err
		}
	}
	if doc.Achievements != nil {
		raw, err := json.Marshal(doc.Achievements)
		if err != nil {
			return nil, err
		}
		if err := c.store.Set(storage.AchievementsKey(account.ID), string(raw)); err != nil {
			return nil, err
		}
	}
	if doc.Settings != nil {
		raw, err := json.Marshal(doc.Settings)
		if err != nil {
			return nil, err
		}
		if err := c.store.Set(storage.SettingsKey(account.ID), string(raw)); err != nil {
			return nil, err
		}
	}
	for language, entries := range doc.Code {
		for levelKey, source := range entries {
			n, _ := parseLevelKey(levelKey)
			if err := c.store.Set(storage.CodeKey(account.ID, language, n), source); err != nil {
				return nil, err
			}
		}
	}
	return account, nil
}

// ImportRaw decodes a serialized document and imports it.
func (c *Codec) ImportRaw(raw []byte) (*models.Account, error) {
	var doc models.ExportDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidFormat, err)
	}
	return c.Import(&doc)
}

// ImportFile reads a document from disk and imports it. The read is the
// only operation in the system that can fail on I/O outside the store.
func (c *Codec) ImportFile(path string) (*models.Account, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStorageRead, err)
	}
	return c.ImportRaw(raw)
}

// validate checks the whole document up front so a bad section can never
// leave a half-written account behind. The progress section is run through
// the same schema guard the tracker uses on every read; the normalized
// record is what gets written, so an imported account can always be loaded
// back.
func (c *Codec) validate(doc *models.ExportDocument) (*models.ProgressRecord, error) {
	if doc == nil || doc.User.ID == "" || doc.User.Name == "" || doc.User.Email == "" {
		return nil, fmt.Errorf("%w: document is missing required account fields", models.ErrInvalidFormat)
	}
	for language, entries := range doc.Code {
		if !levels.ValidLanguage(language) {
			return nil, fmt.Errorf("%w: unknown code language %q", models.ErrInvalidFormat, language)
		}
		for levelKey := range entries {
			if _, ok := parseLevelKey(levelKey); !ok {
				return nil, fmt.Errorf("%w: bad code entry key %q", models.ErrInvalidFormat, levelKey)
			}
		}
	}
	if doc.Progress == nil {
		return nil, nil
	}
	raw, err := json.Marshal(doc.Progress)
	if err != nil {
		return nil, err
	}
	rec, err := models.DecodeProgress(raw, c.now())
	if err != nil {
		return nil, fmt.Errorf("progress section: %w", err)
	}
	return rec, nil
}

func (c *Codec) collectCode(accountID string) (map[string]map[string]string, error) {
	prefix := storage.CodePrefix(accountID)
	keys, err := c.store.Keys(prefix)
	if err != nil {
		return nil, err
	}

	code := make(map[string]map[string]string)
	for _, key := range keys {
		// key shape: userdata/<id>/code/<language>/level-<n>.js
		rest := strings.TrimPrefix(key, prefix)
		language, file, found := strings.Cut(rest, "/")
		if !found || !levels.ValidLanguage(language) {
			continue
		}
		levelKey := strings.TrimSuffix(file, ".js")
		if _, ok := parseLevelKey(levelKey); !ok {
			continue
		}
		source, ok := c.store.Get(key)
		if !ok || source == "" {
			continue
		}
		if code[language] == nil {
			code[language] = make(map[string]string)
		}
		code[language][levelKey] = source
	}
	return code, nil
}

// parseLevelKey parses the "level-<n>" form used inside documents.
func parseLevelKey(levelKey string) (int, bool) {
	numPart, found := strings.CutPrefix(levelKey, "level-")
	if !found {
		return 0, false
	}
	n, err := strconv.Atoi(numPart)
	if err != nil || !levels.ValidLevel(n) {
		return 0, false
	}
	return n, true
}
