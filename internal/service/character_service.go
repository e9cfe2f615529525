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

// CharacterService is the character contract. It mints citizens into a
// timed queue, claims matured citizens as NFTs, and upgrades them by
// recreating the NFT metadata in place.
type CharacterService struct {
	address  string
	tokens   *TokenService
	nfts     *NFTService
	queue    *repository.MintQueueRepository
	settings *repository.SettingsRepository
}

func NewCharacterService(db *pgxpool.Pool, address string, tokens *TokenService, nfts *NFTService) *CharacterService {
	return &CharacterService{
		address:  address,
		tokens:   tokens,
		nfts:     nfts,
		queue:    repository.NewMintQueueRepository(db),
		settings: repository.NewSettingsRepository(db),
	}
}

func (s *CharacterService) Endpoints() map[string]callbus.EndpointFunc {
	return map[string]callbus.EndpointFunc{
		domain.EndpointMintCitizen:             s.mintCitizen,
		domain.EndpointClaimCitizen:            s.claimCitizen,
		domain.EndpointUpgradeCitizenToSoldier: s.upgradeCitizenToSoldier,
		domain.EndpointUpgradeSoldier:          s.upgradeSoldier,
	}
}

// mintCitizen burns the exact wood and food payment and enqueues a
// timed citizen mint for the user.
func (s *CharacterService) mintCitizen(ctx context.Context, tx pgx.Tx, call *callbus.Call) (*callbus.Result, error) {
	if len(call.Transfers) != 2 {
		return nil, errors.New("Endpoint requires 2 payment tokens, Wood and Food.")
	}

	var woodAmount, foodAmount int64
	for _, p := range call.Transfers {
		switch {
		case domain.IsRequiredToken(p.Token, domain.WoodTicker):
			woodAmount = p.Amount
		case domain.IsRequiredToken(p.Token, domain.FoodTicker):
			foodAmount = p.Amount
		}
	}
	if woodAmount != domain.MintCitizenWoodQuantity {
		return nil, fmt.Errorf("Wood amount sent must be %d.", domain.MintCitizenWoodQuantity)
	}
	if foodAmount != domain.MintCitizenFoodQuantity {
		return nil, fmt.Errorf("Food amount sent must be %d.", domain.MintCitizenFoodQuantity)
	}

	for _, p := range call.Transfers {
		if err := s.tokens.BurnWithTx(ctx, tx, s.address, p.Token, p.Nonce, p.Amount, "burn:mint_citizen"); err != nil {
			return nil, err
		}
	}

	user := argString(call.Args, "user")
	if user == "" {
		user = call.Caller
	}
	if err := s.queue.CreateWithTx(ctx, tx, user, domain.AssetCitizen, time.Now()); err != nil {
		return nil, err
	}
	return nil, nil
}

// claimCitizen mints every matured queue entry as a citizen NFT sent
// straight to the user.
func (s *CharacterService) claimCitizen(ctx context.Context, tx pgx.Tx, call *callbus.Call) (*callbus.Result, error) {
	collection, err := s.settings.Get(ctx, SettingCharacterCollection)
	if err != nil {
		return nil, err
	}
	if collection == "" {
		return nil, errors.New("Character collection id not set.")
	}

	user := argString(call.Args, "user")
	if user == "" {
		user = call.Caller
	}

	entries, err := s.queue.ListForUpdateWithTx(ctx, tx, user, domain.AssetCitizen)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, errors.New("No citizens pending to be minted.")
	}

	period, err := s.settings.GetInt64(ctx, SettingMintCitizenSeconds, domain.MintCitizenSecondsDefault)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	minted := 0
	for _, e := range entries {
		if !e.Matured(now, period) {
			continue
		}
		if _, err := s.nfts.CreateCharacterWithTx(ctx, tx, collection, user, domain.NewCitizen()); err != nil {
			return nil, err
		}
		if err := s.queue.DeleteWithTx(ctx, tx, e.ID); err != nil {
			return nil, err
		}
		minted++
	}
	if minted == 0 {
		return nil, fmt.Errorf("No citizen to mint. %d citizen(s) still in the minting period.", len(entries))
	}
	return nil, nil
}

// upgradeCitizenToSoldier burns the exact gold and ore payment and
// recreates the citizen NFT as a rank-one soldier.
func (s *CharacterService) upgradeCitizenToSoldier(ctx context.Context, tx pgx.Tx, call *callbus.Call) (*callbus.Result, error) {
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
	if goldAmount != domain.UpgradeSoldierGoldAmount {
		return nil, fmt.Errorf("Gold amount must be %d.", domain.UpgradeSoldierGoldAmount)
	}
	if oreAmount != domain.UpgradeSoldierOreAmount {
		return nil, fmt.Errorf("Ore amount must be %d.", domain.UpgradeSoldierOreAmount)
	}

	collection, err := s.settings.Get(ctx, SettingCharacterCollection)
	if err != nil {
		return nil, err
	}
	if collection == "" {
		return nil, errors.New("Character collection id not set.")
	}

	nonce := argUint64(call.Args, "nonce")
	character, err := s.nfts.GetCharacterWithTx(ctx, tx, collection, nonce)
	if err != nil {
		return nil, err
	}
	if !character.IsCitizen() {
		return nil, errors.New("Character is not a citizen")
	}

	for _, p := range call.Transfers {
		if err := s.tokens.BurnWithTx(ctx, tx, s.address, p.Token, p.Nonce, p.Amount, "burn:upgrade_citizen"); err != nil {
			return nil, err
		}
	}

	if err := s.nfts.RecreateCharacterWithTx(ctx, tx, collection, nonce, character.ToSoldier()); err != nil {
		return nil, err
	}
	return nil, nil
}

// upgradeSoldier consumes a tool NFT, adds its stats to the soldier and
// returns the soldier to the caller.
func (s *CharacterService) upgradeSoldier(ctx context.Context, tx pgx.Tx, call *callbus.Call) (*callbus.Result, error) {
	if len(call.Transfers) != 2 {
		return nil, errors.New("Endpoint requires 2 transfers, a Character NFT and a Tool NFT.")
	}

	characterCollection, err := s.settings.Get(ctx, SettingCharacterCollection)
	if err != nil {
		return nil, err
	}
	if characterCollection == "" {
		return nil, errors.New("Character collection id not set.")
	}
	toolsCollection, err := s.settings.Get(ctx, SettingToolsCollection)
	if err != nil {
		return nil, err
	}
	if toolsCollection == "" {
		return nil, errors.New("Tools collection id not set.")
	}

	var characterPayment, toolPayment *domain.TokenPayment
	for i := range call.Transfers {
		p := &call.Transfers[i]
		switch p.Token {
		case characterCollection:
			characterPayment = p
		case toolsCollection:
			toolPayment = p
		}
	}
	if characterPayment == nil {
		return nil, errors.New("No Soldier NFT received.")
	}
	if toolPayment == nil {
		return nil, errors.New("No Tool NFT received.")
	}

	character, err := s.nfts.GetCharacterWithTx(ctx, tx, characterCollection, characterPayment.Nonce)
	if err != nil {
		return nil, err
	}
	if !character.IsSoldier() {
		return nil, errors.New("Character is not a soldier")
	}

	tool, err := s.nfts.GetToolWithTx(ctx, tx, toolsCollection, toolPayment.Nonce)
	if err != nil {
		return nil, err
	}

	// The tool is consumed by the upgrade.
	if err := s.tokens.BurnWithTx(ctx, tx, s.address, toolPayment.Token, toolPayment.Nonce, 1, "burn:upgrade_soldier"); err != nil {
		return nil, err
	}

	if err := s.nfts.RecreateCharacterWithTx(ctx, tx, characterCollection, characterPayment.Nonce, character.ApplyTool(tool)); err != nil {
		return nil, err
	}

	return &callbus.Result{BackTransfers: []domain.TokenPayment{*characterPayment}}, nil
}
