package repository

import (
	"context"

	"crafting_arena/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NFTRepository struct {
	db *pgxpool.Pool
}

func NewNFTRepository(db *pgxpool.Pool) *NFTRepository {
	return &NFTRepository{db: db}
}

// Get retrieves an NFT instance by collection and nonce
func (r *NFTRepository) Get(ctx context.Context, collection string, nonce uint64) (*domain.NFT, error) {
	row := r.db.QueryRow(ctx, `
		SELECT collection, nonce, name, royalties, attributes, attributes_hash, uris, created_at
		FROM nfts
		WHERE collection = $1 AND nonce = $2
	`, collection, nonce)
	return scanNFT(row)
}

// GetWithTx retrieves an NFT instance inside an existing transaction
func (r *NFTRepository) GetWithTx(ctx context.Context, tx pgx.Tx, collection string, nonce uint64) (*domain.NFT, error) {
	row := tx.QueryRow(ctx, `
		SELECT collection, nonce, name, royalties, attributes, attributes_hash, uris, created_at
		FROM nfts
		WHERE collection = $1 AND nonce = $2
	`, collection, nonce)
	return scanNFT(row)
}

// CreateWithTx records a freshly minted NFT instance
func (r *NFTRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, n *domain.NFT) error {
	return tx.QueryRow(ctx, `
		INSERT INTO nfts (collection, nonce, name, royalties, attributes, attributes_hash, uris)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, n.Collection, n.Nonce, n.Name, n.Royalties, n.Attributes, n.AttributesHash, n.URIs).Scan(&n.CreatedAt)
}

// RecreateWithTx replaces name, attributes, hash and URIs in place
func (r *NFTRepository) RecreateWithTx(ctx context.Context, tx pgx.Tx, n *domain.NFT) error {
	_, err := tx.Exec(ctx, `
		UPDATE nfts
		SET name = $3, royalties = $4, attributes = $5, attributes_hash = $6, uris = $7
		WHERE collection = $1 AND nonce = $2
	`, n.Collection, n.Nonce, n.Name, n.Royalties, n.Attributes, n.AttributesHash, n.URIs)
	return err
}

func scanNFT(row pgx.Row) (*domain.NFT, error) {
	var n domain.NFT
	if err := row.Scan(&n.Collection, &n.Nonce, &n.Name, &n.Royalties,
		&n.Attributes, &n.AttributesHash, &n.URIs, &n.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}
