// Package auth implements the mock account directory and session handling.
// Credential material is isolated behind PasswordHasher so the storage
// format never leaks into callers.
package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/fakeye/internal/common"
)

// PasswordHasher turns a password into its stored form and verifies a
// candidate against a stored form.
type PasswordHasher interface {
	Hash(password []byte) (string, error)

	// Compare returns nil when the password matches the stored form and
	// common.ErrorInvalidCredentials otherwise.
	Compare(stored string, password []byte) error
}

// BcryptHasher is the default strategy.
type BcryptHasher struct {
	Cost int
}

func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{Cost: bcrypt.DefaultCost}
}

func (h *BcryptHasher) Hash(password []byte) (string, error) {
	out, err := bcrypt.GenerateFromPassword(password, h.Cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (h *BcryptHasher) Compare(stored string, password []byte) error {
	if err := bcrypt.CompareHashAndPassword([]byte(stored), password); err != nil {
		return common.ErrorInvalidCredentials
	}
	return nil
}

// PlainHasher stores passwords verbatim. Demo mode only; it is never the
// default.
type PlainHasher struct{}

func (PlainHasher) Hash(password []byte) (string, error) {
	return string(password), nil
}

func (PlainHasher) Compare(stored string, password []byte) error {
	if subtle.ConstantTimeCompare([]byte(stored), password) != 1 {
		return common.ErrorInvalidCredentials
	}
	return nil
}
