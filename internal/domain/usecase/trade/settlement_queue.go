package trade

import (
	"context"
	"sync"
	"time"

	errs "github.com/amirhossein-jamali/papertrade/internal/domain/error"
	coreport "github.com/amirhossein-jamali/papertrade/internal/domain/port/core"
)

const (
	// defaultQueueSize bounds pending settlements per user
	defaultQueueSize = 32

	// defaultIdleTimeout is how long a user's worker waits for work before it exits
	defaultIdleTimeout = 5 * time.Minute

	// defaultRunTimeout bounds a single settlement once it has started
	defaultRunTimeout = 30 * time.Second
)

// SettlementFunc performs one settlement for a user
type SettlementFunc func(ctx context.Context) error

// SettlementQueue runs settlements of the same user one at a time, in
// submission order. Settlements of different users run concurrently.
// The database row lock remains the guarantee across processes.
//
// A settlement that has started always runs to completion and its result is
// reported to the caller, even when the caller's context is canceled.
type SettlementQueue struct {
	logger coreport.Logger

	// mu guards closed; Submit holds the read lock for its whole call so
	// Shutdown only closes queues nobody is sending to
	mu     sync.RWMutex
	closed bool

	workersMu sync.Mutex
	users     map[uint64]*userWorker
	workers   sync.WaitGroup

	queueSize   int
	idleTimeout time.Duration
	runTimeout  time.Duration
}

type userWorker struct {
	queue chan *settlementRequest
	// pending counts requests submitted but not yet finished, guarded by workersMu
	pending int
}

type settlementRequest struct {
	ctx    context.Context
	fn     SettlementFunc
	result chan error
}

// NewSettlementQueue creates a queue; queueSize <= 0 uses the default
func NewSettlementQueue(logger coreport.Logger, queueSize int) *SettlementQueue {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &SettlementQueue{
		logger:      logger,
		users:       make(map[uint64]*userWorker),
		queueSize:   queueSize,
		idleTimeout: defaultIdleTimeout,
		runTimeout:  defaultRunTimeout,
	}
}

// Submit enqueues fn behind any pending settlements of userID and waits for
// its outcome. A request whose context is done before it starts is not run
// and reports the context error.
func (q *SettlementQueue) Submit(ctx context.Context, userID uint64, fn SettlementFunc) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return errs.ErrInternalServer
	}

	w := q.acquire(userID)
	req := &settlementRequest{ctx: ctx, fn: fn, result: make(chan error, 1)}

	select {
	case w.queue <- req:
	case <-ctx.Done():
		q.release(w)
		q.logger.Warn("Context canceled while queueing settlement", map[string]any{
			"user_id": userID,
			"error":   ctx.Err().Error(),
		})
		return ctx.Err()
	}

	return <-req.result
}

// acquire returns the worker of userID, starting one if needed, and counts a
// pending request on it
func (q *SettlementQueue) acquire(userID uint64) *userWorker {
	q.workersMu.Lock()
	defer q.workersMu.Unlock()

	w, ok := q.users[userID]
	if !ok {
		w = &userWorker{queue: make(chan *settlementRequest, q.queueSize)}
		q.users[userID] = w
		q.logger.Debug("Starting settlement worker", map[string]any{"user_id": userID})
		q.workers.Add(1)
		go q.work(userID, w)
	}
	w.pending++
	return w
}

func (q *SettlementQueue) release(w *userWorker) {
	q.workersMu.Lock()
	w.pending--
	q.workersMu.Unlock()
}

// retire removes an idle worker; it fails when a request is on its way
func (q *SettlementQueue) retire(userID uint64, w *userWorker) bool {
	q.workersMu.Lock()
	defer q.workersMu.Unlock()

	if w.pending > 0 {
		return false
	}
	if q.users[userID] == w {
		delete(q.users, userID)
	}
	return true
}

func (q *SettlementQueue) work(userID uint64, w *userWorker) {
	defer q.workers.Done()

	idle := time.NewTimer(q.idleTimeout)
	defer idle.Stop()

	for {
		select {
		case req, ok := <-w.queue:
			if !ok {
				q.logger.Debug("Settlement worker stopped", map[string]any{"user_id": userID})
				return
			}
			req.result <- q.run(req)
			q.release(w)
		case <-idle.C:
			if q.retire(userID, w) {
				q.logger.Debug("Settlement worker idle, stopping", map[string]any{"user_id": userID})
				return
			}
		}
		idle.Reset(q.idleTimeout)
	}
}

// run starts a settlement unless its caller already gave up. Once started it
// is detached from the caller's cancellation so the reported result is the
// one that was committed or rolled back.
func (q *SettlementQueue) run(req *settlementRequest) error {
	if err := req.ctx.Err(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(req.ctx), q.runTimeout)
	defer cancel()
	return req.fn(ctx)
}

// Shutdown stops accepting work, drains pending settlements and waits for the workers
func (q *SettlementQueue) Shutdown() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.mu.Unlock()

	q.logger.Info("Shutting down settlement queue", nil)
	q.workersMu.Lock()
	for userID, w := range q.users {
		close(w.queue)
		delete(q.users, userID)
	}
	q.workersMu.Unlock()
	q.workers.Wait()
}
