// handlers/auth.go
package handlers

import (
	"time"

	"codex/auth"
	"codex/middleware"
	"codex/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type DeleteAccountRequest struct {
	Email string `json:"email"`
}

type AuthResponse struct {
	Success bool        `json:"success"`
	Token   string      `json:"token,omitempty"`
	User    AccountInfo `json:"user,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type AccountInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Joined    time.Time `json:"joined"`
	LastLogin time.Time `json:"lastLogin"`
}

// AuthHandler exposes the credential store over HTTP and issues the
// session tokens the other route groups require.
type AuthHandler struct {
	Accounts *auth.Manager
}

func NewAuthHandler(accounts *auth.Manager) *AuthHandler {
	return &AuthHandler{Accounts: accounts}
}

// Register creates a new account.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(AuthResponse{Success: false, Error: "Invalid request body"})
	}

	account, err := h.Accounts.Register(req.Name, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	token, err := generateToken(account)
	if err != nil {
		return c.Status(500).JSON(AuthResponse{Success: false, Error: "Failed to generate token"})
	}
	return c.JSON(AuthResponse{Success: true, Token: token, User: accountInfo(account)})
}

// Login authenticates a registered account.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(AuthResponse{Success: false, Error: "Invalid request body"})
	}
	if req.Email == "" || req.Password == "" {
		return c.Status(400).JSON(AuthResponse{Success: false, Error: "Email and password required"})
	}

	account, err := h.Accounts.Login(req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	token, err := generateToken(account)
	if err != nil {
		return c.Status(500).JSON(AuthResponse{Success: false, Error: "Failed to generate token"})
	}
	return c.JSON(AuthResponse{Success: true, Token: token, User: accountInfo(account)})
}

// Logout clears the current-session pointer. The bearer token itself
// simply expires; there is no server-side token revocation.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.Accounts.Logout(); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// Me returns the authenticated account.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	accountID, err := middleware.AccountID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}
	account, err := h.Accounts.FindByID(accountID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "user": accountInfo(account)})
}

// DeleteAccount removes the authenticated account and all of its data.
// The email in the body must match the token's account as a confirmation
// step.
func (h *AuthHandler) DeleteAccount(c *fiber.Ctx) error {
	accountID, err := middleware.AccountID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req DeleteAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	account, err := h.Accounts.FindByID(accountID)
	if err != nil {
		return respondError(c, err)
	}
	if auth.NormalizeEmail(req.Email) != account.Email {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Email confirmation does not match"})
	}

	if err := h.Accounts.DeleteAccount(account.Email); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func accountInfo(account *models.Account) AccountInfo {
	return AccountInfo{
		ID:        account.ID,
		Name:      account.Name,
		Email:     account.Email,
		Joined:    account.Joined,
		LastLogin: account.LastLogin,
	}
}

func generateToken(account *models.Account) (string, error) {
	claims := jwt.MapClaims{
		"account_id": account.ID,
		"name":       account.Name,
		"exp":        time.Now().Add(time.Hour * 720).Unix(), // 30 days
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(middleware.Secret())
}
