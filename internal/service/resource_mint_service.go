package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crafting_arena/internal/callbus"
	"crafting_arena/internal/domain"
	"crafting_arena/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// baseResourceTickers are the resources the mint contract can accrue.
var baseResourceTickers = []string{
	domain.WoodTicker,
	domain.FoodTicker,
	domain.StoneTicker,
	domain.GoldTicker,
}

// ResourceMintService is the resource mint contract. Users stake base
// resource tokens; every elapsed interval each full stake threshold
// accrues one unit of the same resource, claimable as newly minted
// tokens.
type ResourceMintService struct {
	address   string
	tokens    *TokenService
	tokenRepo *repository.TokenRepository
	stakes    *repository.StakeRepository

	roundsInterval int64
	stakeThreshold int64

	now func() time.Time
}

func NewResourceMintService(db *pgxpool.Pool, address string, tokens *TokenService, roundsInterval, stakeThreshold int64) *ResourceMintService {
	return &ResourceMintService{
		address:        address,
		tokens:         tokens,
		tokenRepo:      repository.NewTokenRepository(db),
		stakes:         repository.NewStakeRepository(db),
		roundsInterval: roundsInterval,
		stakeThreshold: stakeThreshold,
		now:            time.Now,
	}
}

func (s *ResourceMintService) Endpoints() map[string]callbus.EndpointFunc {
	return map[string]callbus.EndpointFunc{
		"stake":                       s.stake,
		domain.EndpointMintResources:  s.mintResources,
		domain.EndpointClaimResources: s.claimResources,
	}
}

// stake locks a base resource payment into the caller's staking
// position for that resource.
func (s *ResourceMintService) stake(ctx context.Context, tx pgx.Tx, call *callbus.Call) (*callbus.Result, error) {
	if len(call.Transfers) != 1 {
		return nil, errors.New("Endpoint requires 1 payment token.")
	}
	p := call.Transfers[0]

	resource := baseResourceTicker(p.Token)
	if resource == "" {
		return nil, fmt.Errorf("Invalid token %s. Expected a base resource.", p.Token)
	}

	user := argString(call.Args, "user")
	if user == "" {
		user = call.Caller
	}

	st, err := s.stakes.GetForUpdateWithTx(ctx, tx, user, resource)
	if err != nil {
		return nil, err
	}
	if st == nil {
		st = &domain.Stake{Address: user, Resource: resource, LastRoundTs: s.now().Unix()}
	} else {
		s.accrue(st)
	}
	st.Amount += p.Amount

	return nil, s.stakes.UpsertWithTx(ctx, tx, st)
}

// mintResources rolls accrual forward for all of the user's positions.
func (s *ResourceMintService) mintResources(ctx context.Context, tx pgx.Tx, call *callbus.Call) (*callbus.Result, error) {
	user := argString(call.Args, "user")
	if user == "" {
		user = call.Caller
	}

	for _, ticker := range baseResourceTickers {
		st, err := s.stakes.GetForUpdateWithTx(ctx, tx, user, ticker)
		if err != nil {
			return nil, err
		}
		if st == nil {
			continue
		}
		s.accrue(st)
		if err := s.stakes.UpsertWithTx(ctx, tx, st); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// claimResources mints all accrued units straight to the user.
func (s *ResourceMintService) claimResources(ctx context.Context, tx pgx.Tx, call *callbus.Call) (*callbus.Result, error) {
	user := argString(call.Args, "user")
	if user == "" {
		user = call.Caller
	}

	claimed := int64(0)
	for _, ticker := range baseResourceTickers {
		st, err := s.stakes.GetForUpdateWithTx(ctx, tx, user, ticker)
		if err != nil {
			return nil, err
		}
		if st == nil {
			continue
		}
		s.accrue(st)
		if st.Accrued == 0 {
			if err := s.stakes.UpsertWithTx(ctx, tx, st); err != nil {
				return nil, err
			}
			continue
		}

		token, err := s.tokenRepo.GetByTicker(ctx, ticker)
		if err != nil {
			return nil, err
		}
		if token == nil {
			return nil, fmt.Errorf("%s token not issued.", ticker)
		}

		if err := s.tokens.MintWithTx(ctx, tx, user, token.ID, 0, st.Accrued, "mint:resources"); err != nil {
			return nil, err
		}
		claimed += st.Accrued
		st.Accrued = 0
		if err := s.stakes.UpsertWithTx(ctx, tx, st); err != nil {
			return nil, err
		}
	}

	if claimed == 0 {
		return nil, errors.New("No resources to claim.")
	}
	return nil, nil
}

// accrue advances a position to the current time. Accrual is linear:
// one unit per full stake threshold per elapsed interval. The remainder
// of the last partial interval is kept for the next roll.
func (s *ResourceMintService) accrue(st *domain.Stake) {
	now := s.now().Unix()
	elapsed := now - st.LastRoundTs
	if elapsed < s.roundsInterval {
		return
	}
	intervals := elapsed / s.roundsInterval
	st.Accrued += intervals * (st.Amount / s.stakeThreshold)
	st.LastRoundTs += intervals * s.roundsInterval
}

func baseResourceTicker(tokenID string) string {
	for _, t := range baseResourceTickers {
		if domain.IsRequiredToken(tokenID, t) {
			return t
		}
	}
	return ""
}
