// middleware/auth.go
package middleware

import (
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultJWTSecret is only a development fallback; main refuses to start
// without JWT_SECRET in production.
const DefaultJWTSecret = "codex-secret-change-in-production"

// Secret returns the signing secret for session tokens.
func Secret() []byte {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = DefaultJWTSecret
	}
	return []byte(jwtSecret)
}

// Auth validates the Bearer token and stores the account id and name in
// the request locals.
func Auth(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(401).JSON(fiber.Map{"error": "Missing authorization header"})
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization header format"})
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(401, "Invalid signing method")
		}
		return Secret(), nil
	})
	if err != nil || !token.Valid {
		return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(401).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	exp, ok := claims["exp"].(float64)
	if !ok || time.Unix(int64(exp), 0).Before(time.Now()) {
		return c.Status(401).JSON(fiber.Map{"error": "Token expired"})
	}

	c.Locals("accountId", claims["account_id"])
	c.Locals("accountName", claims["name"])

	return c.Next()
}

// AccountID extracts the authenticated account id set by Auth.
func AccountID(c *fiber.Ctx) (string, error) {
	id := c.Locals("accountId")
	if id == nil {
		return "", fiber.NewError(401, "User not authenticated")
	}
	if s, ok := id.(string); ok && s != "" {
		return s, nil
	}
	return "", fiber.NewError(401, "Invalid account ID format")
}
