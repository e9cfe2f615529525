package repository

import (
	"context"

	"crafting_arena/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BalanceRepository struct {
	db *pgxpool.Pool
}

func NewBalanceRepository(db *pgxpool.Pool) *BalanceRepository {
	return &BalanceRepository{db: db}
}

// Get retrieves a single balance row
func (r *BalanceRepository) Get(ctx context.Context, address, token string, nonce uint64) (*domain.Balance, error) {
	row := r.db.QueryRow(ctx, `
		SELECT address, token, nonce, amount
		FROM balances
		WHERE address = $1 AND token = $2 AND nonce = $3
	`, address, token, nonce)

	var b domain.Balance
	if err := row.Scan(&b.Address, &b.Token, &b.Nonce, &b.Amount); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

// ListByAddress returns all non-empty holdings of an account
func (r *BalanceRepository) ListByAddress(ctx context.Context, address string) ([]*domain.Balance, error) {
	rows, err := r.db.Query(ctx, `
		SELECT address, token, nonce, amount
		FROM balances
		WHERE address = $1 AND amount > 0
		ORDER BY token, nonce
	`, address)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Balance
	for rows.Next() {
		var b domain.Balance
		if err := rows.Scan(&b.Address, &b.Token, &b.Nonce, &b.Amount); err != nil {
			return nil, err
		}
		result = append(result, &b)
	}
	return result, rows.Err()
}

// AddWithTx credits a holding inside an existing transaction
func (r *BalanceRepository) AddWithTx(ctx context.Context, tx pgx.Tx, address, token string, nonce uint64, amount int64) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO balances (address, token, nonce, amount)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (address, token, nonce) DO UPDATE SET amount = balances.amount + $4
	`, address, token, nonce, amount)
	return err
}

// SubWithTx debits a holding inside an existing transaction. Returns
// false without mutating anything when the holding is too small.
func (r *BalanceRepository) SubWithTx(ctx context.Context, tx pgx.Tx, address, token string, nonce uint64, amount int64) (bool, error) {
	tag, err := tx.Exec(ctx, `
		UPDATE balances SET amount = amount - $4
		WHERE address = $1 AND token = $2 AND nonce = $3 AND amount >= $4
	`, address, token, nonce, amount)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
