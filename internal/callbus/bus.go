// Package callbus routes contract-to-contract calls. A synchronous call
// runs the target endpoint inside one database transaction, so a failed
// endpoint rolls back every transfer it received. An asynchronous
// dispatch persists a continuation record first, invokes the target,
// then runs the caller's callback exactly once with the recorded
// outcome; a sweeper finishes callbacks a crash left behind.
package callbus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"crafting_arena/internal/domain"
	"crafting_arena/internal/logger"
	"crafting_arena/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUnknownContract = errors.New("unknown contract address")
	ErrUnknownEndpoint = errors.New("unknown endpoint")
)

// Call is what a target endpoint receives.
type Call struct {
	Caller    string
	Transfers []domain.TokenPayment
	Args      map[string]any
}

// Result carries tokens the endpoint sends back to the caller.
// AfterCommit hooks run only once the invocation transaction has
// committed, so endpoints can announce state that is durably recorded.
type Result struct {
	BackTransfers []domain.TokenPayment
	AfterCommit   []func()
}

// EndpointFunc runs inside the invocation transaction.
type EndpointFunc func(ctx context.Context, tx pgx.Tx, call *Call) (*Result, error)

// Contract exposes named endpoints.
type Contract interface {
	Endpoints() map[string]EndpointFunc
}

// CallbackFunc reconciles the caller's state after a dispatched call.
// It runs in its own transaction and must be idempotent, the sweeper
// may deliver it again after a crash.
type CallbackFunc func(ctx context.Context, tx pgx.Tx, pc *domain.PendingCall) error

// TokenMover moves token payments between accounts inside an existing
// transaction.
type TokenMover interface {
	TransferWithTx(ctx context.Context, tx pgx.Tx, from, to string, payments []domain.TokenPayment, txType string) error
}

type Bus struct {
	db        *pgxpool.Pool
	mover     TokenMover
	calls     *repository.PendingCallRepository
	mu        sync.RWMutex
	contracts map[string]Contract
	callbacks map[string]CallbackFunc
}

func New(db *pgxpool.Pool, mover TokenMover) *Bus {
	return &Bus{
		db:        db,
		mover:     mover,
		calls:     repository.NewPendingCallRepository(db),
		contracts: make(map[string]Contract),
		callbacks: make(map[string]CallbackFunc),
	}
}

// Register binds a contract to its address
func (b *Bus) Register(address string, c Contract) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.contracts[address] = c
}

// RegisterCallback binds a reconciliation callback by name
func (b *Bus) RegisterCallback(name string, cb CallbackFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.callbacks[name] = cb
}

func (b *Bus) endpoint(target, name string) (EndpointFunc, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	c, ok := b.contracts[target]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownContract, target)
	}
	ep, ok := c.Endpoints()[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownEndpoint, target, name)
	}
	return ep, nil
}

// Execute runs a synchronous call. Transfers move to the target first,
// the endpoint body runs, then back-transfers return to the caller;
// any error rolls the whole invocation back.
func (b *Bus) Execute(ctx context.Context, caller, target, endpoint string, transfers []domain.TokenPayment, args map[string]any) (*Result, error) {
	ep, err := b.endpoint(target, endpoint)
	if err != nil {
		return nil, err
	}

	tx, err := b.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	res, err := b.invokeWithTx(ctx, tx, ep, caller, target, endpoint, transfers, args)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	for _, hook := range res.AfterCommit {
		hook()
	}
	return res, nil
}

// Dispatch runs an asynchronous call with a persisted continuation.
// The callback named in pc runs exactly once whatever the invocation
// outcome; the returned error reflects the invocation, not the
// callback.
func (b *Bus) Dispatch(ctx context.Context, pc *domain.PendingCall) error {
	ep, err := b.endpoint(pc.Target, pc.Endpoint)
	if err != nil {
		return err
	}

	if err := b.calls.Create(ctx, pc); err != nil {
		return err
	}
	CallsDispatched.WithLabelValues(pc.Endpoint).Inc()

	invokeErr := b.invoke(ctx, ep, pc)
	if invokeErr != nil {
		CallsFailed.WithLabelValues(pc.Endpoint).Inc()
		pc.Outcome = domain.CallOutcomeErr
		pc.Error = invokeErr.Error()
		if err := b.calls.SetOutcome(ctx, pc.ID, pc.Outcome, pc.Error); err != nil {
			return err
		}
	} else {
		CallsSucceeded.WithLabelValues(pc.Endpoint).Inc()
	}

	if err := b.runCallback(ctx, pc); err != nil {
		logger.Error("callback failed", "call_id", pc.ID, "callback", pc.Callback, "error", err)
		return err
	}
	return invokeErr
}

// invoke runs the dispatched endpoint and records the outcome in the
// same transaction, so the outcome commits atomically with the target's
// state changes.
func (b *Bus) invoke(ctx context.Context, ep EndpointFunc, pc *domain.PendingCall) error {
	tx, err := b.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	res, err := b.invokeWithTx(ctx, tx, ep, pc.Caller, pc.Target, pc.Endpoint, pc.Transfers, pc.Args)
	if err != nil {
		return err
	}

	pc.Outcome = domain.CallOutcomeOK
	pc.BackTransfers = res.BackTransfers
	if err := b.calls.SetOutcomeWithTx(ctx, tx, pc.ID, pc.Outcome, "", pc.BackTransfers); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	for _, hook := range res.AfterCommit {
		hook()
	}
	return nil
}

func (b *Bus) invokeWithTx(ctx context.Context, tx pgx.Tx, ep EndpointFunc, caller, target, endpoint string, transfers []domain.TokenPayment, args map[string]any) (*Result, error) {
	if len(transfers) > 0 {
		if err := b.mover.TransferWithTx(ctx, tx, caller, target, transfers, "call:"+endpoint); err != nil {
			return nil, err
		}
	}

	res, err := ep(ctx, tx, &Call{Caller: caller, Transfers: transfers, Args: args})
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = &Result{}
	}

	if len(res.BackTransfers) > 0 {
		if err := b.mover.TransferWithTx(ctx, tx, target, caller, res.BackTransfers, "callback:"+endpoint); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (b *Bus) runCallback(ctx context.Context, pc *domain.PendingCall) error {
	b.mu.RLock()
	cb := b.callbacks[pc.Callback]
	b.mu.RUnlock()

	tx, err := b.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if cb != nil {
		if err := cb(ctx, tx, pc); err != nil {
			return err
		}
	}

	if err := b.calls.MarkCompletedWithTx(ctx, tx, pc.ID); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	pc.Status = domain.CallStatusCompleted
	return nil
}

// maxCallbackAttempts bounds sweeper redeliveries. A callback that
// keeps failing marks the row failed instead of retrying forever.
const maxCallbackAttempts = 5

// StartSweeper finishes callbacks for dispatched calls a crash left
// behind. A stale row without a recorded outcome means the invocation
// transaction never committed, so it is completed as failed.
func (b *Bus) StartSweeper(ctx context.Context, interval, staleAfter time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				b.sweep(ctx, staleAfter)
			}
		}
	}()
}

func (b *Bus) sweep(ctx context.Context, staleAfter time.Duration) {
	stale, err := b.calls.ListStale(ctx, time.Now().Add(-staleAfter), 50)
	if err != nil {
		logger.Error("sweep pending calls", "error", err)
		return
	}

	for _, pc := range stale {
		if pc.Attempts >= maxCallbackAttempts {
			if err := b.calls.MarkFailed(ctx, pc.ID); err != nil {
				logger.Error("mark call failed", "call_id", pc.ID, "error", err)
				continue
			}
			logger.Error("gave up on stale call", "call_id", pc.ID, "endpoint", pc.Endpoint, "attempts", pc.Attempts)
			continue
		}
		if err := b.calls.IncrementAttempts(ctx, pc.ID); err != nil {
			logger.Error("count sweep attempt", "call_id", pc.ID, "error", err)
			continue
		}
		if pc.Outcome == domain.CallOutcomeNone {
			pc.Outcome = domain.CallOutcomeErr
			pc.Error = "invocation did not complete"
			if err := b.calls.SetOutcome(ctx, pc.ID, pc.Outcome, pc.Error); err != nil {
				logger.Error("record stale outcome", "call_id", pc.ID, "error", err)
				continue
			}
			CallsFailed.WithLabelValues(pc.Endpoint).Inc()
		}
		if err := b.runCallback(ctx, pc); err != nil {
			logger.Error("sweep callback", "call_id", pc.ID, "callback", pc.Callback, "error", err)
			continue
		}
		logger.Info("completed stale call", "call_id", pc.ID, "endpoint", pc.Endpoint, "outcome", pc.Outcome)
	}
}
