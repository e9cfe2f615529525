package domain

import "time"

// AssetKind - what a mint queue entry will produce
type AssetKind string

const (
	AssetCitizen AssetKind = "citizen"
	AssetShield  AssetKind = "shield"
	AssetSword   AssetKind = "sword"
)

// MintQueueEntry - a pending timed mint for a user. The entry matures
// once the configured minting period has elapsed since StartedAt.
type MintQueueEntry struct {
	ID        int64     `db:"id" json:"id"`
	Address   string    `db:"address" json:"address"`
	Kind      AssetKind `db:"kind" json:"kind"`
	StartedAt time.Time `db:"started_at" json:"started_at"`
}

// Matured reports whether the minting period is over at now.
func (e MintQueueEntry) Matured(now time.Time, periodSeconds int64) bool {
	return now.Unix()-e.StartedAt.Unix() >= periodSeconds
}

// Stake - resource mint staking position for one account
type Stake struct {
	ID          int64     `db:"id" json:"id"`
	Address     string    `db:"address" json:"address"`
	Resource    string    `db:"resource" json:"resource"` // ticker prefix, e.g. WOOD-
	Amount      int64     `db:"amount" json:"amount"`
	Accrued     int64     `db:"accrued" json:"accrued"`
	LastRoundTs int64     `db:"last_round_ts" json:"last_round_ts"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
