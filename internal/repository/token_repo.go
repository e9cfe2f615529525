package repository

import (
	"context"

	"crafting_arena/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TokenRepository struct {
	db *pgxpool.Pool
}

func NewTokenRepository(db *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{db: db}
}

// Get retrieves a token by its full identifier
func (r *TokenRepository) Get(ctx context.Context, id string) (*domain.Token, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, type, name, supply, last_nonce, created_at
		FROM tokens
		WHERE id = $1
	`, id)

	var t domain.Token
	if err := row.Scan(&t.ID, &t.Type, &t.Name, &t.Supply, &t.LastNonce, &t.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// GetByTicker retrieves the token whose identifier starts with the ticker prefix
func (r *TokenRepository) GetByTicker(ctx context.Context, ticker string) (*domain.Token, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, type, name, supply, last_nonce, created_at
		FROM tokens
		WHERE id LIKE $1 || '%'
		ORDER BY created_at
		LIMIT 1
	`, ticker)

	var t domain.Token
	if err := row.Scan(&t.ID, &t.Type, &t.Name, &t.Supply, &t.LastNonce, &t.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// List returns all registered tokens
func (r *TokenRepository) List(ctx context.Context) ([]*domain.Token, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, type, name, supply, last_nonce, created_at
		FROM tokens
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Token
	for rows.Next() {
		var t domain.Token
		if err := rows.Scan(&t.ID, &t.Type, &t.Name, &t.Supply, &t.LastNonce, &t.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &t)
	}
	return result, rows.Err()
}

// Create registers a new token
func (r *TokenRepository) Create(ctx context.Context, t *domain.Token) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO tokens (id, type, name)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, t.ID, t.Type, t.Name).Scan(&t.CreatedAt)
}

// AddSupplyWithTx adjusts total supply inside an existing transaction.
// Delta may be negative for burns.
func (r *TokenRepository) AddSupplyWithTx(ctx context.Context, tx pgx.Tx, id string, delta int64) error {
	_, err := tx.Exec(ctx, `UPDATE tokens SET supply = supply + $2 WHERE id = $1`, id, delta)
	return err
}

// NextNonceWithTx reserves the next NFT nonce for a collection
func (r *TokenRepository) NextNonceWithTx(ctx context.Context, tx pgx.Tx, id string) (uint64, error) {
	var nonce uint64
	err := tx.QueryRow(ctx, `
		UPDATE tokens SET last_nonce = last_nonce + 1 WHERE id = $1 RETURNING last_nonce
	`, id).Scan(&nonce)
	return nonce, err
}
