package domain

import "time"

// NFT - a minted non-fungible token instance. Recreate replaces name,
// attributes, hash and URIs in place keyed by (collection, nonce).
type NFT struct {
	Collection     string    `db:"collection" json:"collection"`
	Nonce          uint64    `db:"nonce" json:"nonce"`
	Name           string    `db:"name" json:"name"`
	Royalties      int       `db:"royalties" json:"royalties"`
	Attributes     string    `db:"attributes" json:"attributes"`
	AttributesHash string    `db:"attributes_hash" json:"attributes_hash"`
	URIs           []string  `db:"uris" json:"uris"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
