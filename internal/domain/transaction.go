package domain

import "time"

// Transaction - audit row written for every balance mutation
type Transaction struct {
	ID        int64                  `db:"id" json:"id"`
	Address   string                 `db:"address" json:"address"`
	Type      string                 `db:"type" json:"type"`
	Token     string                 `db:"token" json:"token"`
	Nonce     uint64                 `db:"nonce" json:"nonce"`
	Amount    int64                  `db:"amount" json:"amount"`
	Meta      map[string]interface{} `db:"meta" json:"meta,omitempty"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
}
