package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	errs "github.com/amirhossein-jamali/papertrade/internal/domain/error"
	"github.com/amirhossein-jamali/papertrade/internal/infrastructure/adapter/logger"
)

func fastRetry(n int) RetryConfig {
	return RetryConfig{MaxRetries: n, RetryInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond}
}

func TestRetryOnTransientError(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNoopLogger()

	t.Run("Succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := RetryOnTransientError(ctx, fastRetry(3), func() error {
			calls++
			if calls < 3 {
				return errors.New("dial tcp: connection refused")
			}
			return nil
		}, log)

		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("Permanent error stops immediately", func(t *testing.T) {
		calls := 0
		err := RetryOnTransientError(ctx, fastRetry(5), func() error {
			calls++
			return errors.New("password authentication failed")
		}, log)

		assert.EqualError(t, err, "password authentication failed")
		assert.Equal(t, 1, calls)
	})

	t.Run("Gives up after max retries", func(t *testing.T) {
		calls := 0
		err := RetryOnTransientError(ctx, fastRetry(2), func() error {
			calls++
			return errors.New("connection reset by peer")
		}, log)

		assert.Error(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("Canceled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		slow := RetryConfig{MaxRetries: 3, RetryInterval: time.Hour}

		err := RetryOnTransientError(cctx, slow, func() error { return errors.New("timeout") }, log)

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestBackoffIsCapped(t *testing.T) {
	cfg := RetryConfig{RetryInterval: 100 * time.Millisecond, MaxInterval: 300 * time.Millisecond}

	assert.Equal(t, 100*time.Millisecond, calculateBackoffWithJitter(0, cfg))
	assert.Equal(t, 200*time.Millisecond, calculateBackoffWithJitter(1, cfg))
	assert.Equal(t, 300*time.Millisecond, calculateBackoffWithJitter(5, cfg))
}

func TestErrorMapper(t *testing.T) {
	m := NewErrorMapper()

	assert.NoError(t, m.MapError(nil, "op"))

	err := m.MapError(errors.New("dial tcp: connection refused"), "connect")
	assert.ErrorIs(t, err, errs.ErrPersistence)
	assert.ErrorIs(t, err, errs.ErrDatabaseConnection)

	err = m.MapError(context.DeadlineExceeded, "ping")
	assert.ErrorIs(t, err, errs.ErrDatabaseConnection)

	err = m.MapError(errors.New("syntax error"), "commit transaction")
	assert.ErrorIs(t, err, errs.ErrPersistence)
	assert.NotErrorIs(t, err, errs.ErrDatabaseConnection)
}
