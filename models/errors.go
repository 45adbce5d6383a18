// models/errors.go
package models

import "errors"

// Failure kinds surfaced by the core stores. Callers match with errors.Is;
// the HTTP layer owns the translation to status codes and user messages.
var (
	ErrValidation        = errors.New("validation failed")
	ErrDuplicateAccount  = errors.New("account already exists")
	ErrNotFound          = errors.New("account not found")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrInvalidFormat     = errors.New("invalid document format")
	ErrStorageRead       = errors.New("storage read failed")
)
