package repository

import (
	"context"

	"crafting_arena/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AccountRepository struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

// GetByAddress retrieves an account by address
func (r *AccountRepository) GetByAddress(ctx context.Context, address string) (*domain.Account, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, address, is_contract, created_at
		FROM accounts
		WHERE address = $1
	`, address)

	var a domain.Account
	if err := row.Scan(&a.ID, &a.Address, &a.IsContract, &a.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// Create inserts a new account
func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO accounts (address, is_contract)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, a.Address, a.IsContract).Scan(&a.ID, &a.CreatedAt)
}

// Ensure creates the account if it does not exist yet
func (r *AccountRepository) Ensure(ctx context.Context, address string, isContract bool) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO accounts (address, is_contract)
		VALUES ($1, $2)
		ON CONFLICT (address) DO NOTHING
	`, address, isContract)
	return err
}
