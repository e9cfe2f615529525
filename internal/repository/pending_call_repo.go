package repository

import (
	"context"
	"encoding/json"
	"time"

	"crafting_arena/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PendingCallRepository struct {
	db *pgxpool.Pool
}

func NewPendingCallRepository(db *pgxpool.Pool) *PendingCallRepository {
	return &PendingCallRepository{db: db}
}

// Create persists the continuation record before the call runs
func (r *PendingCallRepository) Create(ctx context.Context, pc *domain.PendingCall) error {
	transfers, _ := json.Marshal(pc.Transfers)
	args, _ := json.Marshal(pc.Args)
	callCtx, _ := json.Marshal(pc.Context)

	return r.db.QueryRow(ctx, `
		INSERT INTO pending_calls (caller, target, endpoint, transfers, args, callback, context)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, status, created_at
	`, pc.Caller, pc.Target, pc.Endpoint, transfers, args, pc.Callback, callCtx).
		Scan(&pc.ID, &pc.Status, &pc.CreatedAt)
}

// SetOutcomeWithTx records the invocation result inside the invocation
// transaction itself, so the outcome commits atomically with the
// target's mutations.
func (r *PendingCallRepository) SetOutcomeWithTx(ctx context.Context, tx pgx.Tx, id int64, outcome domain.CallOutcome, callErr string, back []domain.TokenPayment) error {
	backJSON, _ := json.Marshal(back)
	_, err := tx.Exec(ctx, `
		UPDATE pending_calls SET outcome = $2, error = $3, back_transfers = $4
		WHERE id = $1
	`, id, outcome, callErr, backJSON)
	return err
}

// SetOutcome records a failed invocation outside any transaction
func (r *PendingCallRepository) SetOutcome(ctx context.Context, id int64, outcome domain.CallOutcome, callErr string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE pending_calls SET outcome = $2, error = $3
		WHERE id = $1
	`, id, outcome, callErr)
	return err
}

// MarkCompletedWithTx closes the record after the callback ran
func (r *PendingCallRepository) MarkCompletedWithTx(ctx context.Context, tx pgx.Tx, id int64) error {
	_, err := tx.Exec(ctx, `
		UPDATE pending_calls SET status = $2, completed_at = now()
		WHERE id = $1
	`, id, domain.CallStatusCompleted)
	return err
}

// IncrementAttempts counts one sweeper delivery of the callback
func (r *PendingCallRepository) IncrementAttempts(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE pending_calls SET attempts = attempts + 1
		WHERE id = $1
	`, id)
	return err
}

// MarkFailed parks a row whose callback keeps failing so the sweeper
// stops re-selecting it.
func (r *PendingCallRepository) MarkFailed(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE pending_calls SET status = $2, completed_at = now()
		WHERE id = $1
	`, id, domain.CallStatusFailed)
	return err
}

// ListStale returns dispatched calls older than the cutoff whose
// callback never completed, oldest first.
func (r *PendingCallRepository) ListStale(ctx context.Context, olderThan time.Time, limit int) ([]*domain.PendingCall, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, caller, target, endpoint, transfers, args, callback, context,
		       status, outcome, error, back_transfers, attempts, created_at, completed_at
		FROM pending_calls
		WHERE status = $1 AND created_at < $2
		ORDER BY created_at
		LIMIT $3
	`, domain.CallStatusDispatched, olderThan, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.PendingCall
	for rows.Next() {
		var (
			pc                     domain.PendingCall
			transfers, args        []byte
			callCtx, backTransfers []byte
		)
		if err := rows.Scan(&pc.ID, &pc.Caller, &pc.Target, &pc.Endpoint, &transfers, &args,
			&pc.Callback, &callCtx, &pc.Status, &pc.Outcome, &pc.Error, &backTransfers,
			&pc.Attempts, &pc.CreatedAt, &pc.CompletedAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal(transfers, &pc.Transfers)
		_ = json.Unmarshal(args, &pc.Args)
		_ = json.Unmarshal(callCtx, &pc.Context)
		_ = json.Unmarshal(backTransfers, &pc.BackTransfers)
		result = append(result, &pc)
	}
	return result, rows.Err()
}
