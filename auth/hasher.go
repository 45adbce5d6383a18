// auth/hasher.go
package auth

import (
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"
)

// CredentialHasher turns a password into the opaque stored credential and
// checks a login attempt against it. The account manager only ever sees
// this interface, so the stored form can be swapped without touching it.
type CredentialHasher interface {
	Hash(password string) (string, error)
	Verify(password, stored string) bool
}

// Bcrypt is the default hasher.
type Bcrypt struct{}

func (Bcrypt) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (Bcrypt) Verify(password, stored string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

// LegacyEncoder stores credentials as plain base64 with no secret. It
// exists only so data written by older clients can still be verified;
// never use it for new deployments.
type LegacyEncoder struct{}

func (LegacyEncoder) Hash(password string) (string, error) {
	return base64.StdEncoding.EncodeToString([]byte(password)), nil
}

func (LegacyEncoder) Verify(password, stored string) bool {
	return base64.StdEncoding.EncodeToString([]byte(password)) == stored
}
