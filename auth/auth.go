package auth

import (
	"context"
	"errors"
	"strings"
)

type Provider string

const (
	ProviderPassword Provider = "password"
	ProviderGoogle   Provider = "google"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPasswordDisabled   = errors.New("password sign-in is not configured")
	ErrUnverifiedEmail    = errors.New("email address is not verified")
	ErrInvalidToken       = errors.New("invalid token")
)

// Identity is who signed in and how.
type Identity struct {
	Email    string   `json:"email"`
	Provider Provider `json:"provider"`
}

// Authorizer decides whether an identity may use the admin surface.
type Authorizer interface {
	Authorize(ctx context.Context, id Identity) bool
}

type AuthorizerFunc func(ctx context.Context, id Identity) bool

func (f AuthorizerFunc) Authorize(ctx context.Context, id Identity) bool {
	return f(ctx, id)
}

// AllowList authorizes exactly the given addresses, ignoring case and
// surrounding whitespace.
func AllowList(emails ...string) Authorizer {
	allowed := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		if e = normalizeEmail(e); e != "" {
			allowed[e] = struct{}{}
		}
	}
	return AuthorizerFunc(func(_ context.Context, id Identity) bool {
		_, ok := allowed[normalizeEmail(id.Email)]
		return ok
	})
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
