package repository

import (
	"context"

	"crafting_arena/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type StakeRepository struct {
	db *pgxpool.Pool
}

func NewStakeRepository(db *pgxpool.Pool) *StakeRepository {
	return &StakeRepository{db: db}
}

// ListByAddress returns all staking positions for a user
func (r *StakeRepository) ListByAddress(ctx context.Context, address string) ([]*domain.Stake, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, address, resource, amount, accrued, last_round_ts, updated_at
		FROM stakes
		WHERE address = $1
		ORDER BY resource
	`, address)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Stake
	for rows.Next() {
		var s domain.Stake
		if err := rows.Scan(&s.ID, &s.Address, &s.Resource, &s.Amount, &s.Accrued, &s.LastRoundTs, &s.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &s)
	}
	return result, rows.Err()
}

// GetForUpdateWithTx locks and returns one staking position
func (r *StakeRepository) GetForUpdateWithTx(ctx context.Context, tx pgx.Tx, address, resource string) (*domain.Stake, error) {
	row := tx.QueryRow(ctx, `
		SELECT id, address, resource, amount, accrued, last_round_ts, updated_at
		FROM stakes
		WHERE address = $1 AND resource = $2
		FOR UPDATE
	`, address, resource)

	var s domain.Stake
	if err := row.Scan(&s.ID, &s.Address, &s.Resource, &s.Amount, &s.Accrued, &s.LastRoundTs, &s.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// UpsertWithTx writes a staking position back
func (r *StakeRepository) UpsertWithTx(ctx context.Context, tx pgx.Tx, s *domain.Stake) error {
	return tx.QueryRow(ctx, `
		INSERT INTO stakes (address, resource, amount, accrued, last_round_ts)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (address, resource)
		DO UPDATE SET amount = $3, accrued = $4, last_round_ts = $5, updated_at = now()
		RETURNING id
	`, s.Address, s.Resource, s.Amount, s.Accrued, s.LastRoundTs).Scan(&s.ID)
}
