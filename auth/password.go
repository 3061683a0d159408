package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// PasswordAuthenticator checks the shared admin password against a bcrypt hash.
type PasswordAuthenticator struct {
	hash []byte
}

func NewPasswordAuthenticator(hash string) *PasswordAuthenticator {
	return &PasswordAuthenticator{hash: []byte(strings.TrimSpace(hash))}
}

func (p *PasswordAuthenticator) Enabled() bool {
	return len(p.hash) > 0
}

func (p *PasswordAuthenticator) Authenticate(email, password string) (Identity, error) {
	if !p.Enabled() {
		return Identity{}, ErrPasswordDisabled
	}
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return Identity{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(p.hash, []byte(password)); err != nil {
		return Identity{}, ErrInvalidCredentials
	}
	return Identity{Email: email, Provider: ProviderPassword}, nil
}

// HashPassword is used by the hash-password command to produce ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
