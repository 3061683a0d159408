package auth

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/idtoken"
)

// GoogleVerifier turns a Google ID token into an Identity.
type GoogleVerifier struct {
	clientID string
	validate func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID, validate: idtoken.Validate}
}

func (g *GoogleVerifier) Enabled() bool {
	return g != nil && g.clientID != ""
}

func (g *GoogleVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	if !g.Enabled() {
		return Identity{}, errors.New("google sign-in is not configured")
	}
	payload, err := g.validate(ctx, token, g.clientID)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return Identity{}, fmt.Errorf("%w: no email claim", ErrInvalidToken)
	}
	if verified, _ := payload.Claims["email_verified"].(bool); !verified {
		return Identity{}, ErrUnverifiedEmail
	}
	return Identity{Email: normalizeEmail(email), Provider: ProviderGoogle}, nil
}
