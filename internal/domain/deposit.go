package domain

import "time"

// Deposit - one ledger row of the interface contract's internal
// deposit store, keyed (address, token, nonce). Fungible rows persist
// at balance zero, NFT rows are removed when consumed.
type Deposit struct {
	ID        int64     `db:"id" json:"id"`
	Address   string    `db:"address" json:"address"`
	Token     string    `db:"token" json:"token"`
	Nonce     uint64    `db:"nonce" json:"nonce"`
	Balance   int64     `db:"balance" json:"balance"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
