package domain

import "time"

// GameStatus - arena game lifecycle
type GameStatus string

const (
	GameStatusOpen      GameStatus = "open"
	GameStatusCompleted GameStatus = "completed"
)

// Game - an arena duel. Open games hold the initiator's soldier and
// fee; completion records the competitor and the winning soldier.
type Game struct {
	ID                     int64      `db:"id" json:"id"`
	Status                 GameStatus `db:"status" json:"status"`
	Initiator              string     `db:"initiator" json:"initiator"`
	Competitor             *string    `db:"competitor" json:"competitor,omitempty"`
	FeeToken               string     `db:"fee_token" json:"fee_token"`
	FeeAmount              int64      `db:"fee_amount" json:"fee_amount"`
	InitiatorSoldierNonce  uint64     `db:"initiator_soldier_nonce" json:"initiator_soldier_nonce"`
	CompetitorSoldierNonce uint64     `db:"competitor_soldier_nonce" json:"competitor_soldier_nonce,omitempty"`
	WinnerSoldierNonce     uint64     `db:"winner_soldier_nonce" json:"winner_soldier_nonce,omitempty"`
	Winner                 *string    `db:"winner" json:"winner,omitempty"`
	CreatedAt              time.Time  `db:"created_at" json:"created_at"`
	CompletedAt            *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}
