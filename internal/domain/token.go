package domain

import (
	"strings"
	"time"
)

// TokenType - kind of registered token
type TokenType string

const (
	TokenTypeFungible TokenType = "fungible"
	TokenTypeNFT      TokenType = "nft"
)

// Token - a registered token identifier
type Token struct {
	ID        string    `db:"id" json:"id"` // full identifier, e.g. WOOD-a1b2c3
	Type      TokenType `db:"type" json:"type"`
	Name      string    `db:"name" json:"name"`
	Supply    int64     `db:"supply" json:"supply"`
	LastNonce uint64    `db:"last_nonce" json:"last_nonce,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// TokenPayment - a single token transfer leg. Nonce is zero for
// fungible tokens and the instance nonce for NFTs.
type TokenPayment struct {
	Token  string `json:"token"`
	Nonce  uint64 `json:"nonce"`
	Amount int64  `json:"amount"`
}

// IsRequiredToken reports whether the identifier starts with the given
// ticker prefix.
func IsRequiredToken(tokenID, ticker string) bool {
	return strings.HasPrefix(tokenID, ticker)
}

// Balance - on-platform holding of a token by an account
type Balance struct {
	Address string `db:"address" json:"address"`
	Token   string `db:"token" json:"token"`
	Nonce   uint64 `db:"nonce" json:"nonce"`
	Amount  int64  `db:"amount" json:"amount"`
}
