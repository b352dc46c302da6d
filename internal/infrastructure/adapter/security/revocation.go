package security

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore remembers revoked session ids until their tokens expire,
// and per-user cutoffs before which every token of the user is revoked
type RevocationStore interface {
	Revoke(ctx context.Context, sessionID string, until time.Time) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)

	// RevokeUserBefore revokes tokens of userID issued before cutoff. The
	// cutoff is kept until the last such token has expired.
	RevokeUserBefore(ctx context.Context, userID uint64, cutoff, until time.Time) error
	// UserCutoff returns the cutoff of userID, zero when there is none
	UserCutoff(ctx context.Context, userID uint64) (time.Time, error)
}

const (
	revokedKeyPrefix = "session:revoked:"
	cutoffKeyPrefix  = "session:cutoff:"
)

// RedisRevocationStore keeps revocations in Redis with a TTL equal to the
// remaining token lifetime
type RedisRevocationStore struct {
	client redis.Cmdable
	now    func() time.Time
}

// NewRedisRevocationStore creates a Redis backed store
func NewRedisRevocationStore(client redis.Cmdable, now func() time.Time) *RedisRevocationStore {
	return &RedisRevocationStore{client: client, now: now}
}

// Revoke marks sessionID as revoked until the given instant
func (s *RedisRevocationStore) Revoke(ctx context.Context, sessionID string, until time.Time) error {
	ttl := until.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, revokedKeyPrefix+sessionID, 1, ttl).Err()
}

// IsRevoked reports whether sessionID was revoked
func (s *RedisRevocationStore) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedKeyPrefix+sessionID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RevokeUserBefore stores the cutoff as unix seconds until the given instant
func (s *RedisRevocationStore) RevokeUserBefore(ctx context.Context, userID uint64, cutoff, until time.Time) error {
	ttl := until.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, cutoffKey(userID), cutoff.Unix(), ttl).Err()
}

// UserCutoff returns the stored cutoff of userID
func (s *RedisRevocationStore) UserCutoff(ctx context.Context, userID uint64) (time.Time, error) {
	secs, err := s.client.Get(ctx, cutoffKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(secs, 0), nil
}

func cutoffKey(userID uint64) string {
	return cutoffKeyPrefix + strconv.FormatUint(userID, 10)
}

// MemoryRevocationStore is the single-process store used when Redis is not configured
type MemoryRevocationStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	cutoffs map[uint64]userCutoff
	now     func() time.Time
}

type userCutoff struct {
	at    time.Time
	until time.Time
}

// NewMemoryRevocationStore creates an in-process store
func NewMemoryRevocationStore(now func() time.Time) *MemoryRevocationStore {
	return &MemoryRevocationStore{
		revoked: make(map[string]time.Time),
		cutoffs: make(map[uint64]userCutoff),
		now:     now,
	}
}

// Revoke marks sessionID as revoked until the given instant and drops expired entries
func (s *MemoryRevocationStore) Revoke(_ context.Context, sessionID string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, exp := range s.revoked {
		if !exp.After(now) {
			delete(s.revoked, id)
		}
	}
	if until.After(now) {
		s.revoked[sessionID] = until
	}
	return nil
}

// IsRevoked reports whether sessionID was revoked and is not yet expired
func (s *MemoryRevocationStore) IsRevoked(_ context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.revoked[sessionID]
	return ok && exp.After(s.now()), nil
}

// RevokeUserBefore records the cutoff of userID until the given instant
func (s *MemoryRevocationStore) RevokeUserBefore(_ context.Context, userID uint64, cutoff, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if until.After(s.now()) {
		s.cutoffs[userID] = userCutoff{at: cutoff, until: until}
	}
	return nil
}

// UserCutoff returns the cutoff of userID while it is still relevant
func (s *MemoryRevocationStore) UserCutoff(_ context.Context, userID uint64) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cutoffs[userID]
	if !ok {
		return time.Time{}, nil
	}
	if !c.until.After(s.now()) {
		delete(s.cutoffs, userID)
		return time.Time{}, nil
	}
	return c.at, nil
}
