package service

import (
	"context"
	"errors"
	"fmt"

	"crafting_arena/internal/callbus"
	"crafting_arena/internal/domain"
	"crafting_arena/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransformService is the resource transform contract: it burns stone
// and mints ore at a fixed rate, returning the ore to the caller.
type TransformService struct {
	address   string
	tokens    *TokenService
	tokenRepo *repository.TokenRepository
}

func NewTransformService(db *pgxpool.Pool, address string, tokens *TokenService) *TransformService {
	return &TransformService{
		address:   address,
		tokens:    tokens,
		tokenRepo: repository.NewTokenRepository(db),
	}
}

func (s *TransformService) Endpoints() map[string]callbus.EndpointFunc {
	return map[string]callbus.EndpointFunc{
		domain.EndpointCreateOre: s.createOre,
	}
}

// createOre burns the received stone and sends back one ore per twenty
// stone. The caller sends a multiple of twenty, any remainder is burned
// with the rest.
func (s *TransformService) createOre(ctx context.Context, tx pgx.Tx, call *callbus.Call) (*callbus.Result, error) {
	if len(call.Transfers) != 1 {
		return nil, errors.New("Endpoint requires 1 payment token, Stone.")
	}
	p := call.Transfers[0]
	if !domain.IsRequiredToken(p.Token, domain.StoneTicker) {
		return nil, fmt.Errorf("Invalid token %s. Expected %s.", p.Token, domain.StoneTicker)
	}
	if p.Amount < domain.StoneAmountForOre {
		return nil, fmt.Errorf("Stone amount must be equal or greater than %d.", domain.StoneAmountForOre)
	}

	oreToken, err := s.tokenRepo.GetByTicker(ctx, domain.OreTicker)
	if err != nil {
		return nil, err
	}
	if oreToken == nil {
		return nil, errors.New("Ore token not issued.")
	}

	if err := s.tokens.BurnWithTx(ctx, tx, s.address, p.Token, 0, p.Amount, "burn:create_ore"); err != nil {
		return nil, err
	}

	oreAmount := p.Amount / domain.StoneAmountForOre
	if err := s.tokens.MintWithTx(ctx, tx, s.address, oreToken.ID, 0, oreAmount, "mint:create_ore"); err != nil {
		return nil, err
	}

	return &callbus.Result{BackTransfers: []domain.TokenPayment{
		{Token: oreToken.ID, Amount: oreAmount},
	}}, nil
}
