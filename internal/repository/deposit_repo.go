package repository

import (
	"context"

	"crafting_arena/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DepositRepository struct {
	db *pgxpool.Pool
}

func NewDepositRepository(db *pgxpool.Pool) *DepositRepository {
	return &DepositRepository{db: db}
}

// ListByAddress returns all deposit ledger rows for a user
func (r *DepositRepository) ListByAddress(ctx context.Context, address string) ([]*domain.Deposit, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, address, token, nonce, balance, updated_at
		FROM deposits
		WHERE address = $1
		ORDER BY token, nonce
	`, address)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanDeposits(rows)
}

// IncreaseWithTx credits a ledger row, creating it when absent
func (r *DepositRepository) IncreaseWithTx(ctx context.Context, tx pgx.Tx, address, token string, nonce uint64, amount int64) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO deposits (address, token, nonce, balance)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (address, token, nonce)
		DO UPDATE SET balance = deposits.balance + $4, updated_at = now()
	`, address, token, nonce, amount)
	return err
}

// DecreaseWithTx debits a ledger row. Returns false without touching
// the row when the balance is below the requested amount; a fungible
// row is kept at balance zero rather than deleted.
func (r *DepositRepository) DecreaseWithTx(ctx context.Context, tx pgx.Tx, address, token string, nonce uint64, amount int64) (bool, error) {
	tag, err := tx.Exec(ctx, `
		UPDATE deposits SET balance = balance - $4, updated_at = now()
		WHERE address = $1 AND token = $2 AND nonce = $3 AND balance >= $4
	`, address, token, nonce, amount)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// DeleteWithTx removes a ledger row, used when an NFT deposit is consumed
func (r *DepositRepository) DeleteWithTx(ctx context.Context, tx pgx.Tx, address, token string, nonce uint64) error {
	_, err := tx.Exec(ctx, `
		DELETE FROM deposits WHERE address = $1 AND token = $2 AND nonce = $3
	`, address, token, nonce)
	return err
}

func scanDeposits(rows pgx.Rows) ([]*domain.Deposit, error) {
	var result []*domain.Deposit
	for rows.Next() {
		var d domain.Deposit
		if err := rows.Scan(&d.ID, &d.Address, &d.Token, &d.Nonce, &d.Balance, &d.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &d)
	}
	return result, rows.Err()
}
