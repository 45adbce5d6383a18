// auth/manager.go - account registration, login and session state
package auth

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"codex/models"
	"codex/storage"

	"github.com/google/uuid"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// accountNamespace seeds the deterministic account-id derivation. Fixed
// forever: the same normalized email must always map to the same id.
var accountNamespace = uuid.MustParse("9c3f4c2e-7a1b-4e5d-8f60-2d7a31c0b9aa")

// AccountID derives the stable identifier for a normalized email.
func AccountID(email string) string {
	return uuid.NewSHA1(accountNamespace, []byte(email)).String()
}

// Manager owns the account book (codex-users) and the current-session
// pointer (codex-current-user). It is the only component that mutates
// account records.
type Manager struct {
	store  storage.Store
	hasher CredentialHasher
	now    func() time.Time
}

func NewManager(store storage.Store, hasher CredentialHasher) *Manager {
	return &Manager{store: store, hasher: hasher, now: time.Now}
}

// WithClock overrides the manager's clock. Tests use it to pin timestamps.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// NormalizeEmail lower-cases and trims the lookup key form of an email.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register validates the input, creates the account and initializes its
// empty per-account namespace (progress, achievements, settings). The new
// account becomes the current session.
func (m *Manager) Register(name, email, password string) (*models.Account, error) {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return nil, fmt.Errorf("%w: name must be at least 2 characters long", models.ErrValidation)
	}
	email = NormalizeEmail(email)
	if !emailRe.MatchString(email) {
		return nil, fmt.Errorf("%w: please enter a valid email address", models.ErrValidation)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters long", models.ErrValidation)
	}

	users, err := m.loadUsers()
	if err != nil {
		return nil, err
	}
	if _, exists := users[email]; exists {
		return nil, models.ErrDuplicateAccount
	}

	credential, err := m.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := m.now()
	account := models.Account{
		ID:         AccountID(email),
		Name:       name,
		Email:      email,
		Credential: credential,
		Joined:     now,
		LastLogin:  now,
	}

	users[email] = account
	if err := m.saveUsers(users); err != nil {
		return nil, err
	}
	if err := m.initializeNamespace(account.ID, now); err != nil {
		return nil, err
	}
	if err := m.setCurrent(account.ID); err != nil {
		return nil, err
	}
	return &account, nil
}

// Login verifies the credential, stamps last-login and makes the account
// the current session.
func (m *Manager) Login(email, password string) (*models.Account, error) {
	email = NormalizeEmail(email)

	users, err := m.loadUsers()
	if err != nil {
		return nil, err
	}
	account, exists := users[email]
	if !exists {
		return nil, models.ErrNotFound
	}
	if !m.hasher.Verify(password, account.Credential) {
		return nil, models.ErrInvalidCredential
	}

	account.LastLogin = m.now()
	users[email] = account
	if err := m.saveUsers(users); err != nil {
		return nil, err
	}
	if err := m.setCurrent(account.ID); err != nil {
		return nil, err
	}
	return &account, nil
}

// Logout clears the current-session pointer. Stored data is untouched.
func (m *Manager) Logout() error {
	return m.store.Remove(storage.KeyCurrentUser)
}

// CurrentAccount returns the session's active account, if any.
func (m *Manager) CurrentAccount() (*models.Account, bool) {
	id, ok := m.store.Get(storage.KeyCurrentUser)
	if !ok || id == "" {
		return nil, false
	}
	account, err := m.FindByID(id)
	if err != nil {
		return nil, false
	}
	return account, true
}

// FindByID looks an account up by its identifier.
func (m *Manager) FindByID(id string) (*models.Account, error) {
	users, err := m.loadUsers()
	if err != nil {
		return nil, err
	}
	for _, account := range users {
		if account.ID == id {
			return &account, nil
		}
	}
	return nil, models.ErrNotFound
}

// FindByEmail looks an account up by its normalized email.
func (m *Manager) FindByEmail(email string) (*models.Account, error) {
	users, err := m.loadUsers()
	if err != nil {
		return nil, err
	}
	account, exists := users[NormalizeEmail(email)]
	if !exists {
		return nil, models.ErrNotFound
	}
	return &account, nil
}

// DeleteAccount removes the account record and everything under its
// userdata namespace. If the deleted account is the current session, the
// session is logged out.
func (m *Manager) DeleteAccount(email string) error {
	email = NormalizeEmail(email)

	users, err := m.loadUsers()
	if err != nil {
		return err
	}
	account, exists := users[email]
	if !exists {
		return models.ErrNotFound
	}

	keys, err := m.store.Keys(storage.UserPrefix(account.ID))
	if err != nil {
		return fmt.Errorf("failed to enumerate account data: %w", err)
	}
	for _, key := range keys {
		if err := m.store.Remove(key); err != nil {
			return err
		}
	}

	delete(users, email)
	if err := m.saveUsers(users); err != nil {
		return err
	}

	if current, ok := m.store.Get(storage.KeyCurrentUser); ok && current == account.ID {
		return m.Logout()
	}
	return nil
}

func (m *Manager) setCurrent(id string) error {
	return m.store.Set(storage.KeyCurrentUser, id)
}

func (m *Manager) loadUsers() (map[string]models.Account, error) {
	raw, ok := m.store.Get(storage.KeyUsers)
	if !ok || raw == "" {
		return map[string]models.Account{}, nil
	}
	var users map[string]models.Account
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		return nil, fmt.Errorf("%w: account book: %v", models.ErrInvalidFormat, err)
	}
	return users, nil
}

func (m *Manager) saveUsers(users map[string]models.Account) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return err
	}
	return m.store.Set(storage.KeyUsers, string(raw))
}

func (m *Manager) initializeNamespace(id string, now time.Time) error {
	progress, err := json.Marshal(models.NewProgressRecord(now))
	if err != nil {
		return err
	}
	if err := m.store.Set(storage.ProgressKey(id), string(progress)); err != nil {
		return err
	}
	if err := m.store.Set(storage.AchievementsKey(id), "[]"); err != nil {
		return err
	}
	settings, err := json.Marshal(models.DefaultSettings(now))
	if err != nil {
		return err
	}
	return m.store.Set(storage.SettingsKey(id), string(settings))
}
