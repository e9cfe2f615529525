package domain

import "time"

// Account - a platform account. Users and contracts both have one,
// keyed by address.
type Account struct {
	ID         int64     `db:"id" json:"id"`
	Address    string    `db:"address" json:"address"`
	IsContract bool      `db:"is_contract" json:"is_contract"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
