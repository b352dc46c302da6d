// Package memstore is an in-memory implementation of the persistence ports
// for use case tests. Units of work stage their writes and apply them on
// commit; GetForUpdate holds a per-user lock until the unit of work ends.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/amirhossein-jamali/papertrade/internal/domain/entity"
	errs "github.com/amirhossein-jamali/papertrade/internal/domain/error"
	"github.com/amirhossein-jamali/papertrade/internal/domain/port/persistence"
)

type txKey struct{}

// Store holds users, ledger rows and watchlist entries
type Store struct {
	mu          sync.Mutex
	users       map[uint64]*entity.User
	txs         []*entity.Transaction
	watchlist   map[uint64]*entity.WatchlistEntry
	rowLocks    map[uint64]*sync.Mutex
	nextUserID  uint64
	nextTxID    uint64
	nextWatchID uint64

	// Failure injection
	AppendErr error
	CommitErr error
	CreateErr error
}

// New creates an empty store
func New() *Store {
	return &Store{
		users:     make(map[uint64]*entity.User),
		watchlist: make(map[uint64]*entity.WatchlistEntry),
		rowLocks:  make(map[uint64]*sync.Mutex),
	}
}

// AddUser inserts a user directly and returns its ID
func (s *Store) AddUser(username string, cash decimal.Decimal) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextUserID++
	s.users[s.nextUserID] = entity.RestoreUser(s.nextUserID, username, "hash:"+username, cash, time.Time{})
	return s.nextUserID
}

// Cash returns the committed cash of a user
func (s *Store) Cash(userID uint64) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[userID].Cash()
}

// Transactions returns a copy of the committed ledger
func (s *Store) Transactions() []entity.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Transaction, 0, len(s.txs))
	for _, tx := range s.txs {
		out = append(out, *tx)
	}
	return out
}

// UserCount returns the number of stored users
func (s *Store) UserCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// Users returns a repository outside any unit of work
func (s *Store) Users() persistence.UserRepository { return &userRepo{s: s} }

// Ledger returns a ledger repository outside any unit of work
func (s *Store) Ledger() persistence.TransactionRepository { return &txRepo{s: s} }

// Watchlist returns the watchlist repository
func (s *Store) Watchlist() persistence.WatchlistRepository { return &watchRepo{s: s} }

// UnitOfWork returns the unit of work over this store
func (s *Store) UnitOfWork() persistence.UnitOfWork { return &unitOfWork{s: s} }

func (s *Store) rowLock(id uint64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.rowLocks[id]
	if !ok {
		l = &sync.Mutex{}
		s.rowLocks[id] = l
	}
	return l
}

// unit of work

type txState struct {
	cash     map[uint64]decimal.Decimal
	hashes   map[uint64]string
	appended []*entity.Transaction
	locked   []*sync.Mutex
	done     bool
}

func stateFrom(ctx context.Context) *txState {
	st, _ := ctx.Value(txKey{}).(*txState)
	return st
}

type unitOfWork struct{ s *Store }

func (u *unitOfWork) Begin(ctx context.Context) (context.Context, error) {
	return context.WithValue(ctx, txKey{}, &txState{
		cash:   make(map[uint64]decimal.Decimal),
		hashes: make(map[uint64]string),
	}), nil
}

func (u *unitOfWork) Commit(ctx context.Context) error {
	st := stateFrom(ctx)
	if st == nil || st.done {
		return nil
	}
	if u.s.CommitErr != nil {
		return u.s.CommitErr
	}
	u.s.mu.Lock()
	for id, cash := range st.cash {
		user := u.s.users[id]
		u.s.users[id] = entity.RestoreUser(id, user.Username, user.PasswordHash, cash, user.CreatedAt)
	}
	for id, hash := range st.hashes {
		user := u.s.users[id]
		u.s.users[id] = entity.RestoreUser(id, user.Username, hash, user.Cash(), user.CreatedAt)
	}
	for _, tx := range st.appended {
		u.s.nextTxID++
		tx.ID = u.s.nextTxID
		u.s.txs = append(u.s.txs, tx)
	}
	u.s.mu.Unlock()
	u.release(st)
	return nil
}

func (u *unitOfWork) Rollback(ctx context.Context) error {
	st := stateFrom(ctx)
	if st == nil || st.done {
		return nil
	}
	u.release(st)
	return nil
}

func (u *unitOfWork) release(st *txState) {
	st.done = true
	for _, l := range st.locked {
		l.Unlock()
	}
	st.locked = nil
}

func (u *unitOfWork) GetUserRepository(context.Context) persistence.UserRepository {
	return &userRepo{s: u.s}
}

func (u *unitOfWork) GetTransactionRepository(context.Context) persistence.TransactionRepository {
	return &txRepo{s: u.s}
}

// users

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.CreateErr != nil {
		return r.s.CreateErr
	}
	for _, existing := range r.s.users {
		if existing.Username == user.Username {
			return errs.ErrDuplicateUsername
		}
	}
	r.s.nextUserID++
	user.ID = r.s.nextUserID
	r.s.users[user.ID] = entity.RestoreUser(user.ID, user.Username, user.PasswordHash, user.Cash(), user.CreatedAt)
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id uint64) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, errs.ErrUserNotFound
	}
	cash, hash := user.Cash(), user.PasswordHash
	if st := stateFrom(ctx); st != nil {
		if staged, ok := st.cash[id]; ok {
			cash = staged
		}
		if staged, ok := st.hashes[id]; ok {
			hash = staged
		}
	}
	return entity.RestoreUser(id, user.Username, hash, cash, user.CreatedAt), nil
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, user := range r.s.users {
		if user.Username == username {
			return entity.RestoreUser(user.ID, user.Username, user.PasswordHash, user.Cash(), user.CreatedAt), nil
		}
	}
	return nil, errs.ErrUserNotFound
}

func (r *userRepo) GetForUpdate(ctx context.Context, id uint64) (*entity.User, error) {
	if st := stateFrom(ctx); st != nil {
		l := r.s.rowLock(id)
		l.Lock()
		st.locked = append(st.locked, l)
	}
	return r.GetByID(ctx, id)
}

func (r *userRepo) UpdateCash(ctx context.Context, id uint64, cash decimal.Decimal) error {
	if st := stateFrom(ctx); st != nil {
		st.cash[id] = cash
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return errs.ErrUserNotFound
	}
	r.s.users[id] = entity.RestoreUser(id, user.Username, user.PasswordHash, cash, user.CreatedAt)
	return nil
}

func (r *userRepo) UpdatePasswordHash(ctx context.Context, id uint64, hash string) error {
	if st := stateFrom(ctx); st != nil {
		st.hashes[id] = hash
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return errs.ErrUserNotFound
	}
	r.s.users[id] = entity.RestoreUser(id, user.Username, hash, user.Cash(), user.CreatedAt)
	return nil
}

// ledger

type txRepo struct{ s *Store }

func (r *txRepo) Append(ctx context.Context, tx *entity.Transaction) error {
	if r.s.AppendErr != nil {
		return r.s.AppendErr
	}
	if st := stateFrom(ctx); st != nil {
		st.appended = append(st.appended, tx)
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextTxID++
	tx.ID = r.s.nextTxID
	r.s.txs = append(r.s.txs, tx)
	return nil
}

func (r *txRepo) ListByUser(ctx context.Context, userID uint64) ([]*entity.Transaction, error) {
	r.s.mu.Lock()
	var out []*entity.Transaction
	for _, tx := range r.s.txs {
		if tx.UserID == userID {
			copied := *tx
			out = append(out, &copied)
		}
	}
	r.s.mu.Unlock()
	if st := stateFrom(ctx); st != nil {
		for _, tx := range st.appended {
			if tx.UserID == userID {
				copied := *tx
				out = append(out, &copied)
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *txRepo) Positions(ctx context.Context, userID uint64) ([]entity.Position, error) {
	txs, err := r.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return entity.AggregatePositions(txs), nil
}

// watchlist

type watchRepo struct{ s *Store }

func (r *watchRepo) Create(_ context.Context, entry *entity.WatchlistEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextWatchID++
	entry.ID = r.s.nextWatchID
	copied := *entry
	r.s.watchlist[entry.ID] = &copied
	return nil
}

func (r *watchRepo) ListByUser(_ context.Context, userID uint64) ([]*entity.WatchlistEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.WatchlistEntry
	for _, entry := range r.s.watchlist {
		if entry.UserID == userID {
			copied := *entry
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *watchRepo) Get(_ context.Context, userID, id uint64) (*entity.WatchlistEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entry, ok := r.s.watchlist[id]
	if !ok || entry.UserID != userID {
		return nil, errs.ErrNotFound
	}
	copied := *entry
	return &copied, nil
}

func (r *watchRepo) Update(_ context.Context, entry *entity.WatchlistEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.watchlist[entry.ID]
	if !ok || existing.UserID != entry.UserID {
		return errs.ErrNotFound
	}
	existing.TargetPrice = entry.TargetPrice
	existing.Direction = entity.Direction(strings.ToLower(string(entry.Direction)))
	return nil
}

func (r *watchRepo) Delete(_ context.Context, userID, id uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entry, ok := r.s.watchlist[id]
	if !ok || entry.UserID != userID {
		return errs.ErrNotFound
	}
	delete(r.s.watchlist, id)
	return nil
}
