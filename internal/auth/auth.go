package auth

import (
	"context"
	"errors"
)

var (
	ErrInvalidToken    = errors.New("invalid dashboard token")
	ErrAuthUnavailable = errors.New("auth backend unavailable")
	ErrInvalidSecret   = errors.New("invalid ingestion secret")
)

// Session is the verified identity behind a dashboard token. Tokens are
// issued by the external identity provider; this core only verifies them.
type Session struct {
	UserID string
}

// Verifier validates a bearer token from the read path and returns the
// session it belongs to.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Session, error)
}
