package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"crafting_arena/internal/domain"
	"crafting_arena/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrUnknownToken        = errors.New("unknown token")
)

// TokenService owns all balance mutations. Every move writes audit
// rows, transfers between accounts always happen inside a database
// transaction.
type TokenService struct {
	db              *pgxpool.Pool
	tokens          *repository.TokenRepository
	balances        *repository.BalanceRepository
	transactionRepo *repository.TransactionRepository
}

func NewTokenService(db *pgxpool.Pool) *TokenService {
	return &TokenService{
		db:              db,
		tokens:          repository.NewTokenRepository(db),
		balances:        repository.NewBalanceRepository(db),
		transactionRepo: repository.NewTransactionRepository(db),
	}
}

// IssueFungible registers a fungible token under ticker plus a random
// suffix, e.g. WOOD-a1b2c3.
func (s *TokenService) IssueFungible(ctx context.Context, ticker, name string) (*domain.Token, error) {
	t := &domain.Token{
		ID:   ticker + randomSuffix(),
		Type: domain.TokenTypeFungible,
		Name: name,
	}
	if err := s.tokens.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// IssueCollection registers an NFT collection, e.g. CHARACTER-a1b2c3.
func (s *TokenService) IssueCollection(ctx context.Context, ticker, name string) (*domain.Token, error) {
	t := &domain.Token{
		ID:   ticker + "-" + randomSuffix(),
		Type: domain.TokenTypeNFT,
		Name: name,
	}
	if err := s.tokens.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Mint credits freshly minted tokens to an account
func (s *TokenService) Mint(ctx context.Context, to, token string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.MintWithTx(ctx, tx, to, token, 0, amount, "mint"); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// MintWithTx credits freshly minted tokens inside an existing transaction
func (s *TokenService) MintWithTx(ctx context.Context, tx pgx.Tx, to, token string, nonce uint64, amount int64, txType string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if err := s.balances.AddWithTx(ctx, tx, to, token, nonce, amount); err != nil {
		return err
	}
	if err := s.tokens.AddSupplyWithTx(ctx, tx, token, amount); err != nil {
		return err
	}
	return s.transactionRepo.CreateWithTx(ctx, tx, &domain.Transaction{
		Address: to, Type: txType, Token: token, Nonce: nonce, Amount: amount,
	})
}

// BurnWithTx destroys tokens held by an account inside an existing transaction
func (s *TokenService) BurnWithTx(ctx context.Context, tx pgx.Tx, from, token string, nonce uint64, amount int64, txType string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	ok, err := s.balances.SubWithTx(ctx, tx, from, token, nonce, amount)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrInsufficientBalance, token)
	}
	if err := s.tokens.AddSupplyWithTx(ctx, tx, token, -amount); err != nil {
		return err
	}
	return s.transactionRepo.CreateWithTx(ctx, tx, &domain.Transaction{
		Address: from, Type: txType, Token: token, Nonce: nonce, Amount: -amount,
	})
}

// TransferWithTx moves token payments between two accounts inside an
// existing transaction. Implements the call bus mover.
func (s *TokenService) TransferWithTx(ctx context.Context, tx pgx.Tx, from, to string, payments []domain.TokenPayment, txType string) error {
	for _, p := range payments {
		if p.Amount <= 0 {
			return ErrInvalidAmount
		}

		ok, err := s.balances.SubWithTx(ctx, tx, from, p.Token, p.Nonce, p.Amount)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrInsufficientBalance, p.Token)
		}
		if err := s.balances.AddWithTx(ctx, tx, to, p.Token, p.Nonce, p.Amount); err != nil {
			return err
		}

		meta := map[string]interface{}{"counterparty": to}
		if err := s.transactionRepo.CreateWithTx(ctx, tx, &domain.Transaction{
			Address: from, Type: txType, Token: p.Token, Nonce: p.Nonce, Amount: -p.Amount, Meta: meta,
		}); err != nil {
			return err
		}
		meta = map[string]interface{}{"counterparty": from}
		if err := s.transactionRepo.CreateWithTx(ctx, tx, &domain.Transaction{
			Address: to, Type: txType, Token: p.Token, Nonce: p.Nonce, Amount: p.Amount, Meta: meta,
		}); err != nil {
			return err
		}
	}
	return nil
}

// Transfer moves token payments in its own transaction
func (s *TokenService) Transfer(ctx context.Context, from, to string, payments []domain.TokenPayment, txType string) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.TransferWithTx(ctx, tx, from, to, payments, txType); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Balances returns all non-empty holdings of an account
func (s *TokenService) Balances(ctx context.Context, address string) ([]*domain.Balance, error) {
	return s.balances.ListByAddress(ctx, address)
}

// History returns recent audit rows for an account
func (s *TokenService) History(ctx context.Context, address string, limit int) ([]*domain.Transaction, error) {
	return s.transactionRepo.GetByAddress(ctx, address, limit)
}

func randomSuffix() string {
	b := make([]byte, 3)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
