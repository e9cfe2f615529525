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

// ToolsService is the tools contract. Shields and swords follow the
// same timed mint queue as citizens.
type ToolsService struct {
	address  string
	tokens   *TokenService
	nfts     *NFTService
	queue    *repository.MintQueueRepository
	settings *repository.SettingsRepository
}

func NewToolsService(db *pgxpool.Pool, address string, tokens *TokenService, nfts *NFTService) *ToolsService {
	return &ToolsService{
		address:  address,
		tokens:   tokens,
		nfts:     nfts,
		queue:    repository.NewMintQueueRepository(db),
		settings: repository.NewSettingsRepository(db),
	}
}

func (s *ToolsService) Endpoints() map[string]callbus.EndpointFunc {
	return map[string]callbus.EndpointFunc{
		domain.EndpointMintShield:  s.mintShield,
		domain.EndpointMintSword:   s.mintSword,
		domain.EndpointClaimShield: s.claimShield,
		domain.EndpointClaimSword:  s.claimSword,
	}
}

func (s *ToolsService) mintShield(ctx context.Context, tx pgx.Tx, call *callbus.Call) (*callbus.Result, error) {
	if len(call.Transfers) != 1 {
		return nil, errors.New("Endpoint requires 1 payment token, Ore.")
	}
	p := call.Transfers[0]
	if !domain.IsRequiredToken(p.Token, domain.OreTicker) {
		return nil, fmt.Errorf("Invalid token %s. Expected %s.", p.Token, domain.OreTicker)
	}
	if p.Amount != domain.MintShieldOreQuantity {
		return nil, fmt.Errorf("Ore amount sent must be %d.", domain.MintShieldOreQuantity)
	}

	if err := s.tokens.BurnWithTx(ctx, tx, s.address, p.Token, p.Nonce, p.Amount, "burn:mint_shield"); err != nil {
		return nil, err
	}

	return nil, s.enqueue(ctx, tx, call, domain.AssetShield)
}

func (s *ToolsService) mintSword(ctx context.Context, tx pgx.Tx, call *callbus.Call) (*callbus.Result, error) {
	if len(call.Transfers) != 2 {
		return nil, errors.New("Endpoint requires 2 payment tokens, Gold and Ore.")
	}

	var goldAmount, oreAmount int64
	for _, p := range call.Transfers {
		switch {
		case domain.IsRequiredToken(p.Token, domain.GoldTicker):
			goldAmount = p.Amount
		case domain.IsRequiredToken(p.Token, domain.OreTicker):
			oreAmount = p.Amount
		}
	}
	if goldAmount != domain.MintSwordGoldQuantity {
		return nil, fmt.Errorf("Gold amount sent must be %d.", domain.MintSwordGoldQuantity)
	}
	if oreAmount != domain.MintSwordOreQuantity {
		return nil, fmt.Errorf("Ore amount sent must be %d.", domain.MintSwordOreQuantity)
	}

	for _, p := range call.Transfers {
		if err := s.tokens.BurnWithTx(ctx, tx, s.address, p.Token, p.Nonce, p.Amount, "burn:mint_sword"); err != nil {
			return nil, err
		}
	}

	return nil, s.enqueue(ctx, tx, call, domain.AssetSword)
}

func (s *ToolsService) claimShield(ctx context.Context, tx pgx.Tx, call *callbus.Call) (*callbus.Result, error) {
	return s.claim(ctx, tx, call, domain.AssetShield, SettingMintShieldSeconds, domain.MintShieldSecondsDefault)
}

func (s *ToolsService) claimSword(ctx context.Context, tx pgx.Tx, call *callbus.Call) (*callbus.Result, error) {
	return s.claim(ctx, tx, call, domain.AssetSword, SettingMintSwordSeconds, domain.MintSwordSecondsDefault)
}

func (s *ToolsService) enqueue(ctx context.Context, tx pgx.Tx, call *callbus.Call, kind domain.AssetKind) error {
	user := argString(call.Args, "user")
	if user == "" {
		user = call.Caller
	}
	return s.queue.CreateWithTx(ctx, tx, user, kind, time.Now())
}

// claim mints every matured queue entry of one kind as a tool NFT sent
// straight to the user.
func (s *ToolsService) claim(ctx context.Context, tx pgx.Tx, call *callbus.Call, kind domain.AssetKind, periodKey string, periodDefault int64) (*callbus.Result, error) {
	collection, err := s.settings.Get(ctx, SettingToolsCollection)
	if err != nil {
		return nil, err
	}
	if collection == "" {
		return nil, errors.New("Tools collection id not set.")
	}

	user := argString(call.Args, "user")
	if user == "" {
		user = call.Caller
	}

	entries, err := s.queue.ListForUpdateWithTx(ctx, tx, user, kind)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("No %ss pending to be minted.", kind)
	}

	period, err := s.settings.GetInt64(ctx, periodKey, periodDefault)
	if err != nil {
		return nil, err
	}

	tool := domain.NewShield()
	if kind == domain.AssetSword {
		tool = domain.NewSword()
	}

	now := time.Now()
	minted := 0
	for _, e := range entries {
		if !e.Matured(now, period) {
			continue
		}
		if _, err := s.nfts.CreateToolWithTx(ctx, tx, collection, user, tool); err != nil {
			return nil, err
		}
		if err := s.queue.DeleteWithTx(ctx, tx, e.ID); err != nil {
			return nil, err
		}
		minted++
	}
	if minted == 0 {
		return nil, fmt.Errorf("%d %s(s) still in the minting period.", len(entries), kind)
	}
	return nil, nil
}
