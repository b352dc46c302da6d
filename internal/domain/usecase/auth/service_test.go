package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/amirhossein-jamali/papertrade/internal/domain/error"
	"github.com/amirhossein-jamali/papertrade/internal/infrastructure/adapter/logger"
	clock "github.com/amirhossein-jamali/papertrade/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/papertrade/mocks/memstore"
	mocksecurity "github.com/amirhossein-jamali/papertrade/mocks/port/security"
)

var fixedNow = time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)

func newService(store *memstore.Store) *Service {
	return NewService(
		store.Users(),
		mocksecurity.PlainHasher{},
		decimal.NewFromInt(10000),
		clock.FixedTimeProvider{At: fixedNow},
		logger.NewNoopLogger(),
	)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates user with starting cash", func(t *testing.T) {
		store := memstore.New()
		svc := newService(store)

		user, err := svc.Register(ctx, " alice ", "pw", "pw")

		require.NoError(t, err)
		assert.NotZero(t, user.ID)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "hash:pw", user.PasswordHash)
		assert.Equal(t, "10000.00", store.Cash(user.ID).StringFixed(2))
		assert.Equal(t, fixedNow, user.CreatedAt)
	})

	t.Run("Duplicate username", func(t *testing.T) {
		store := memstore.New()
		store.AddUser("alice", decimal.Zero)
		svc := newService(store)

		_, err := svc.Register(ctx, "alice", "pw", "pw")

		assert.ErrorIs(t, err, errs.ErrDuplicateUsername)
		assert.Equal(t, "username already exists", errs.PublicMessage(err))
		assert.Equal(t, 1, store.UserCount())
	})

	t.Run("Insert race maps to duplicate", func(t *testing.T) {
		store := memstore.New()
		store.CreateErr = errs.ErrDuplicateUsername
		svc := newService(store)

		_, err := svc.Register(ctx, "bob", "pw", "pw")

		assert.ErrorIs(t, err, errs.ErrDuplicateUsername)
		assert.Equal(t, 0, store.UserCount())
	})

	tests := []struct {
		name         string
		username     string
		password     string
		confirmation string
		message      string
	}{
		{"Blank username", "  ", "pw", "pw", "must provide username"},
		{"Blank password", "carol", "", "", "must provide password"},
		{"Confirmation mismatch", "carol", "pw", "pW", "passwords do not match"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memstore.New()
			svc := newService(store)

			_, err := svc.Register(ctx, tt.username, tt.password, tt.confirmation)

			assert.ErrorIs(t, err, errs.ErrValidation)
			assert.Equal(t, tt.message, errs.PublicMessage(err))
			assert.Equal(t, 0, store.UserCount())
		})
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	svc := newService(store)
	registered, err := svc.Register(ctx, "alice", "secret", "secret")
	require.NoError(t, err)

	t.Run("Valid credentials", func(t *testing.T) {
		user, err := svc.Login(ctx, "alice", "secret")

		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
	})

	t.Run("Unknown user and wrong password look the same", func(t *testing.T) {
		_, unknownErr := svc.Login(ctx, "mallory", "secret")
		_, wrongErr := svc.Login(ctx, "alice", "guess")

		assert.ErrorIs(t, unknownErr, errs.ErrInvalidCredentials)
		assert.ErrorIs(t, wrongErr, errs.ErrInvalidCredentials)
		assert.Equal(t, errs.PublicMessage(unknownErr), errs.PublicMessage(wrongErr))
		assert.Equal(t, "invalid username and/or password", errs.PublicMessage(wrongErr))
	})

	t.Run("Blank fields", func(t *testing.T) {
		_, err := svc.Login(ctx, "", "secret")
		assert.Equal(t, "must provide username", errs.PublicMessage(err))

		_, err = svc.Login(ctx, "alice", "")
		assert.Equal(t, "must provide password", errs.PublicMessage(err))
		assert.ErrorIs(t, err, errs.ErrValidation)
	})
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*Service, uint64) {
		svc := newService(memstore.New())
		user, err := svc.Register(ctx, "alice", "old", "old")
		require.NoError(t, err)
		return svc, user.ID
	}

	t.Run("Rotates the hash", func(t *testing.T) {
		svc, id := setup(t)

		require.NoError(t, svc.ChangePassword(ctx, id, "old", "new", "new"))

		_, err := svc.Login(ctx, "alice", "old")
		assert.ErrorIs(t, err, errs.ErrInvalidCredentials)
		_, err = svc.Login(ctx, "alice", "new")
		assert.NoError(t, err)
	})

	tests := []struct {
		name         string
		old          string
		new          string
		confirmation string
		wantErr      error
		message      string
	}{
		{"Blank old", "", "new", "new", errs.ErrValidation, "please provide your old password"},
		{"Blank new", "old", "", "new", errs.ErrValidation, "please provide your new password"},
		{"Blank confirmation", "old", "new", "", errs.ErrValidation, "please confirm your new password"},
		{"Wrong old", "nope", "new", "new", errs.ErrInvalidCredentials, "incorrect old password"},
		{"Same as old", "old", "old", "old", errs.ErrValidation, "old password and new password are the same"},
		{"Mismatch", "old", "new", "other", errs.ErrValidation, "new password does not match confirmation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, id := setup(t)

			err := svc.ChangePassword(ctx, id, tt.old, tt.new, tt.confirmation)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.message, errs.PublicMessage(err))
			_, loginErr := svc.Login(ctx, "alice", "old")
			assert.NoError(t, loginErr)
		})
	}

	t.Run("Unknown user", func(t *testing.T) {
		svc, _ := setup(t)

		err := svc.ChangePassword(ctx, 42, "old", "new", "new")
		assert.True(t, errors.Is(err, errs.ErrUserNotFound))
	})
}

func TestCurrentUser(t *testing.T) {
	store := memstore.New()
	id := store.AddUser("dave", decimal.NewFromInt(5))
	svc := newService(store)

	user, err := svc.CurrentUser(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, "dave", user.Username)
	assert.Equal(t, "5", user.Cash().String())
}
