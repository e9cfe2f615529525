package repository

import (
	"context"
	"time"

	"crafting_arena/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MintQueueRepository struct {
	db *pgxpool.Pool
}

func NewMintQueueRepository(db *pgxpool.Pool) *MintQueueRepository {
	return &MintQueueRepository{db: db}
}

// CreateWithTx enqueues a timed mint inside an existing transaction
func (r *MintQueueRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, address string, kind domain.AssetKind, startedAt time.Time) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO mint_queue (address, kind, started_at)
		VALUES ($1, $2, $3)
	`, address, kind, startedAt)
	return err
}

// ListForUpdateWithTx locks and returns a user's pending entries of one
// kind, oldest first.
func (r *MintQueueRepository) ListForUpdateWithTx(ctx context.Context, tx pgx.Tx, address string, kind domain.AssetKind) ([]*domain.MintQueueEntry, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, address, kind, started_at
		FROM mint_queue
		WHERE address = $1 AND kind = $2
		ORDER BY started_at
		FOR UPDATE
	`, address, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.MintQueueEntry
	for rows.Next() {
		var e domain.MintQueueEntry
		if err := rows.Scan(&e.ID, &e.Address, &e.Kind, &e.StartedAt); err != nil {
			return nil, err
		}
		result = append(result, &e)
	}
	return result, rows.Err()
}

// CountByAddress returns pending entry counts per kind for a user
func (r *MintQueueRepository) CountByAddress(ctx context.Context, address string) (map[domain.AssetKind]int, error) {
	rows, err := r.db.Query(ctx, `
		SELECT kind, COUNT(*)
		FROM mint_queue
		WHERE address = $1
		GROUP BY kind
	`, address)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.AssetKind]int)
	for rows.Next() {
		var kind domain.AssetKind
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}

// DeleteWithTx removes a claimed entry
func (r *MintQueueRepository) DeleteWithTx(ctx context.Context, tx pgx.Tx, id int64) error {
	_, err := tx.Exec(ctx, `DELETE FROM mint_queue WHERE id = $1`, id)
	return err
}
