// Package auth verifies user credentials against stored bcrypt hashes.
// Verification is a yes/no capability; session handling is left to callers.
package auth

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 4

// User is a stored account. The password hash never leaves the package.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCommand carries the data needed to create a user.
type CreateCommand struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Credentials is the body of a verification request.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Verification is the result of a verification request.
type Verification struct {
	Username string `json:"username"`
	Verified bool   `json:"verified"`
}

func (c CreateCommand) validate() error {
	if strings.TrimSpace(c.Username) == "" {
		return ErrInvalidUser
	}
	if len(c.Password) < minPasswordLength {
		return ErrInvalidUser
	}
	return nil
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash. Errors other than a
// mismatch are returned.
func CheckPassword(hash, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}

var unknownUserHash = sync.OnceValue(func() string {
	hash, _ := HashPassword("unknown-user")
	return hash
})

// rejectUnknown spends one bcrypt comparison on a fixed hash so a missing
// username takes as long as a wrong password. It always reports false.
func rejectUnknown(password string) bool {
	CheckPassword(unknownUserHash(), password)
	return false
}
