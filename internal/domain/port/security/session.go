package security

import (
	"context"
	"time"
)

// Session identifies an authenticated browser
type Session struct {
	ID        string
	UserID    uint64
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// SessionManager issues and checks signed session tokens.
//
// Possible errors:
// - ErrInvalidCredentials: If a token is malformed, expired or revoked
type SessionManager interface {
	// Issue creates a signed token for userID
	Issue(ctx context.Context, userID uint64) (string, Session, error)

	// Verify checks signature, expiry and revocation
	Verify(ctx context.Context, token string) (Session, error)

	// Revoke invalidates a token before it expires. Invalid tokens are ignored.
	Revoke(ctx context.Context, token string) error

	// RevokeUser invalidates every token of userID issued before now
	RevokeUser(ctx context.Context, userID uint64) error
}
