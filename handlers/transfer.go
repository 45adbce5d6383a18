// handlers/transfer.go
package handlers

import (
	"codex/auth"
	"codex/middleware"
	"codex/transfer"

	"github.com/gofiber/fiber/v2"
)

// TransferHandler exposes the export/import codec over HTTP.
type TransferHandler struct {
	Codec    *transfer.Codec
	Accounts *auth.Manager
}

func NewTransferHandler(codec *transfer.Codec, accounts *auth.Manager) *TransferHandler {
	return &TransferHandler{Codec: codec, Accounts: accounts}
}

// Export returns the authenticated account's full snapshot document as a
// download.
func (h *TransferHandler) Export(c *fiber.Ctx) error {
	accountID, err := middleware.AccountID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	account, err := h.Accounts.FindByID(accountID)
	if err != nil {
		return respondError(c, err)
	}
	doc, err := h.Codec.Export(account)
	if err != nil {
		return respondError(c, err)
	}

	c.Set("Content-Disposition", `attachment; filename="codex-export.json"`)
	return c.JSON(doc)
}

// Import accepts an export document in the request body and restores it
// into a new account. No authentication: import is how a fresh install
// gets its first account back. The imported account cannot log in until
// its credential is reset.
func (h *TransferHandler) Import(c *fiber.Ctx) error {
	account, err := h.Codec.ImportRaw(c.Body())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"user":    accountInfo(account),
	})
}
