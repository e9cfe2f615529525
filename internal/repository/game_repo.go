package repository

import (
	"context"

	"crafting_arena/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GameRepository struct {
	db *pgxpool.Pool
}

func NewGameRepository(db *pgxpool.Pool) *GameRepository {
	return &GameRepository{db: db}
}

// Get retrieves a game by id
func (r *GameRepository) Get(ctx context.Context, id int64) (*domain.Game, error) {
	row := r.db.QueryRow(ctx, gameSelect+` WHERE id = $1`, id)
	return scanGame(row)
}

// GetForUpdateWithTx locks and returns a game inside an existing transaction
func (r *GameRepository) GetForUpdateWithTx(ctx context.Context, tx pgx.Tx, id int64) (*domain.Game, error) {
	row := tx.QueryRow(ctx, gameSelect+` WHERE id = $1 FOR UPDATE`, id)
	return scanGame(row)
}

// ListByStatus returns games in one lifecycle state, newest first
func (r *GameRepository) ListByStatus(ctx context.Context, status domain.GameStatus, limit int) ([]*domain.Game, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx, gameSelect+`
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, g)
	}
	return result, rows.Err()
}

// CreateWithTx stores a freshly opened game
func (r *GameRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, g *domain.Game) error {
	return tx.QueryRow(ctx, `
		INSERT INTO games (status, initiator, fee_token, fee_amount, initiator_soldier_nonce)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, g.Status, g.Initiator, g.FeeToken, g.FeeAmount, g.InitiatorSoldierNonce).Scan(&g.ID, &g.CreatedAt)
}

// CompleteWithTx records the accepted duel and its outcome
func (r *GameRepository) CompleteWithTx(ctx context.Context, tx pgx.Tx, g *domain.Game) error {
	return tx.QueryRow(ctx, `
		UPDATE games
		SET status = $2, competitor = $3, competitor_soldier_nonce = $4,
		    winner_soldier_nonce = $5, winner = $6, completed_at = now()
		WHERE id = $1
		RETURNING completed_at
	`, g.ID, g.Status, g.Competitor, g.CompetitorSoldierNonce,
		g.WinnerSoldierNonce, g.Winner).Scan(&g.CompletedAt)
}

const gameSelect = `
	SELECT id, status, initiator, competitor, fee_token, fee_amount,
	       initiator_soldier_nonce, competitor_soldier_nonce,
	       winner_soldier_nonce, winner, created_at, completed_at
	FROM games`

func scanGame(row pgx.Row) (*domain.Game, error) {
	var g domain.Game
	if err := row.Scan(&g.ID, &g.Status, &g.Initiator, &g.Competitor, &g.FeeToken,
		&g.FeeAmount, &g.InitiatorSoldierNonce, &g.CompetitorSoldierNonce,
		&g.WinnerSoldierNonce, &g.Winner, &g.CreatedAt, &g.CompletedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}
