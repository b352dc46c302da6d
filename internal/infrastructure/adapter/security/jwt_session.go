package security

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	errs "github.com/amirhossein-jamali/papertrade/internal/domain/error"
	coreport "github.com/amirhossein-jamali/papertrade/internal/domain/port/core"
	"github.com/amirhossein-jamali/papertrade/internal/domain/port/security"
)

const issuer = "papertrade"

// JWTSessionManager implements security.SessionManager with HS256 tokens
type JWTSessionManager struct {
	secret       []byte
	ttl          time.Duration
	revocations  RevocationStore
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewJWTSessionManager creates a session manager
func NewJWTSessionManager(secret string, ttl time.Duration, revocations RevocationStore, timeProvider coreport.TimeProvider, logger coreport.Logger) *JWTSessionManager {
	return &JWTSessionManager{
		secret:       []byte(secret),
		ttl:          ttl,
		revocations:  revocations,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

func invalidSession() error {
	return errs.InvalidCredentials("session expired, please log in again")
}

// Issue creates a signed token for userID
func (m *JWTSessionManager) Issue(_ context.Context, userID uint64) (string, security.Session, error) {
	now := m.timeProvider.Now()
	session := security.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		IssuedAt:  now.Truncate(time.Second),
		ExpiresAt: now.Add(m.ttl),
	}

	claims := jwt.RegisteredClaims{
		ID:        session.ID,
		Issuer:    issuer,
		Subject:   strconv.FormatUint(userID, 10),
		IssuedAt:  jwt.NewNumericDate(session.IssuedAt),
		ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", security.Session{}, errors.Join(errs.ErrInternalServer, err)
	}
	return token, session, nil
}

func (m *JWTSessionManager) parse(token string) (security.Session, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.timeProvider.Now),
	)
	if err != nil {
		return security.Session{}, err
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || claims.ID == "" || claims.IssuedAt == nil {
		return security.Session{}, errors.New("malformed claims")
	}
	return security.Session{
		ID:        claims.ID,
		UserID:    userID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Verify checks signature, expiry and revocation. A revocation store
// failure rejects the session.
func (m *JWTSessionManager) Verify(ctx context.Context, token string) (security.Session, error) {
	if token == "" {
		return security.Session{}, invalidSession()
	}
	session, err := m.parse(token)
	if err != nil {
		m.logger.Debug("Rejected session token", map[string]any{"error": err.Error()})
		return security.Session{}, invalidSession()
	}

	revoked, err := m.revocations.IsRevoked(ctx, session.ID)
	if err != nil {
		m.logger.Error("Session revocation check failed", map[string]any{
			"session_id": session.ID,
			"error":      err.Error(),
		})
		return security.Session{}, invalidSession()
	}
	if revoked {
		return security.Session{}, invalidSession()
	}

	cutoff, err := m.revocations.UserCutoff(ctx, session.UserID)
	if err != nil {
		m.logger.Error("Session cutoff check failed", map[string]any{
			"user_id": session.UserID,
			"error":   err.Error(),
		})
		return security.Session{}, invalidSession()
	}
	if session.IssuedAt.Before(cutoff) {
		return security.Session{}, invalidSession()
	}
	return session, nil
}

// Revoke invalidates a token before it expires
func (m *JWTSessionManager) Revoke(ctx context.Context, token string) error {
	session, err := m.parse(token)
	if err != nil {
		return nil
	}
	if err := m.revocations.Revoke(ctx, session.ID, session.ExpiresAt); err != nil {
		m.logger.Warn("Failed to revoke session", map[string]any{
			"session_id": session.ID,
			"user_id":    session.UserID,
			"error":      err.Error(),
		})
		return errs.NewPersistenceError("revoke session", err)
	}
	return nil
}

// RevokeUser invalidates every token of userID issued before the current
// second. Tokens carry second precision, so a token issued later in the same
// second stays valid.
func (m *JWTSessionManager) RevokeUser(ctx context.Context, userID uint64) error {
	now := m.timeProvider.Now()
	cutoff := now.Truncate(time.Second)
	if err := m.revocations.RevokeUserBefore(ctx, userID, cutoff, now.Add(m.ttl)); err != nil {
		m.logger.Warn("Failed to revoke user sessions", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		return errs.NewPersistenceError("revoke user sessions", err)
	}
	return nil
}
