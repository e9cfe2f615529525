package service

import (
	"context"
	"errors"
	"fmt"

	"crafting_arena/internal/callbus"
	"crafting_arena/internal/combat"
	"crafting_arena/internal/domain"
	"crafting_arena/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GamePublisher receives arena lifecycle events for the live feed.
type GamePublisher interface {
	PublishGameEvent(event string, game *domain.Game)
}

// ArenaService is the arena contract. A game locks the initiator's
// soldier and fee; accepting resolves the duel immediately and pays the
// winner twice the fee plus their own soldier back. The loser's soldier
// stays locked in the arena.
type ArenaService struct {
	address  string
	tokens   *TokenService
	nfts     *NFTService
	games    *repository.GameRepository
	settings *repository.SettingsRepository
	resolver *combat.Resolver
	pub      GamePublisher
}

func NewArenaService(db *pgxpool.Pool, address string, tokens *TokenService, nfts *NFTService, resolver *combat.Resolver) *ArenaService {
	return &ArenaService{
		address:  address,
		tokens:   tokens,
		nfts:     nfts,
		games:    repository.NewGameRepository(db),
		settings: repository.NewSettingsRepository(db),
		resolver: resolver,
	}
}

// SetPublisher wires the live event feed, optional.
func (s *ArenaService) SetPublisher(pub GamePublisher) {
	s.pub = pub
}

func (s *ArenaService) Endpoints() map[string]callbus.EndpointFunc {
	return map[string]callbus.EndpointFunc{
		domain.EndpointCreateGame: s.createGame,
		domain.EndpointAcceptGame: s.acceptGame,
	}
}

func (s *ArenaService) createGame(ctx context.Context, tx pgx.Tx, call *callbus.Call) (*callbus.Result, error) {
	collection, err := s.requireCharacterCollection(ctx)
	if err != nil {
		return nil, err
	}

	soldierNonce, feeToken, feeAmount, err := s.splitGameTransfers(ctx, tx, collection, call.Transfers)
	if err != nil {
		return nil, err
	}

	initiator := argString(call.Args, "user")
	if initiator == "" {
		initiator = call.Caller
	}

	game := &domain.Game{
		Status:                domain.GameStatusOpen,
		Initiator:             initiator,
		FeeToken:              feeToken,
		FeeAmount:             feeAmount,
		InitiatorSoldierNonce: soldierNonce,
	}
	if err := s.games.CreateWithTx(ctx, tx, game); err != nil {
		return nil, err
	}

	return &callbus.Result{AfterCommit: s.publishHook("game_created", game)}, nil
}

func (s *ArenaService) acceptGame(ctx context.Context, tx pgx.Tx, call *callbus.Call) (*callbus.Result, error) {
	collection, err := s.requireCharacterCollection(ctx)
	if err != nil {
		return nil, err
	}

	gameID := argInt64(call.Args, "game_id")
	game, err := s.games.GetForUpdateWithTx(ctx, tx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, fmt.Errorf("Invalid game id %d.", gameID)
	}
	if game.Status == domain.GameStatusCompleted {
		return nil, fmt.Errorf("Game %d has already been completed.", gameID)
	}

	soldierNonce, feeToken, feeAmount, err := s.splitGameTransfers(ctx, tx, collection, call.Transfers)
	if err != nil {
		return nil, err
	}
	if feeToken != game.FeeToken || feeAmount != game.FeeAmount {
		return nil, errors.New("Game requires the same fee token and amount.")
	}

	competitor := argString(call.Args, "user")
	if competitor == "" {
		competitor = call.Caller
	}

	initiatorSoldier, err := s.nfts.GetCharacterWithTx(ctx, tx, collection, game.InitiatorSoldierNonce)
	if err != nil {
		return nil, err
	}
	competitorSoldier, err := s.nfts.GetCharacterWithTx(ctx, tx, collection, soldierNonce)
	if err != nil {
		return nil, err
	}

	winner := game.Initiator
	winnerSoldier := game.InitiatorSoldierNonce
	if s.resolver.CompetitorWins(initiatorSoldier, competitorSoldier) {
		winner = competitor
		winnerSoldier = soldierNonce
	}

	game.Status = domain.GameStatusCompleted
	game.Competitor = &competitor
	game.CompetitorSoldierNonce = soldierNonce
	game.WinnerSoldierNonce = winnerSoldier
	game.Winner = &winner
	if err := s.games.CompleteWithTx(ctx, tx, game); err != nil {
		return nil, err
	}

	// Both fees go to the winner, along with their own soldier.
	prize := []domain.TokenPayment{
		{Token: game.FeeToken, Amount: game.FeeAmount * 2},
		{Token: collection, Nonce: winnerSoldier, Amount: 1},
	}
	if err := s.tokens.TransferWithTx(ctx, tx, s.address, winner, prize, "arena_prize"); err != nil {
		return nil, err
	}

	return &callbus.Result{AfterCommit: s.publishHook("game_completed", game)}, nil
}

// publishHook defers the feed event until the invocation transaction
// has committed; a rolled back game must not be announced.
func (s *ArenaService) publishHook(event string, game *domain.Game) []func() {
	if s.pub == nil {
		return nil
	}
	return []func(){func() { s.pub.PublishGameEvent(event, game) }}
}

// splitGameTransfers validates the soldier NFT plus fee token pair every
// game entry requires.
func (s *ArenaService) splitGameTransfers(ctx context.Context, tx pgx.Tx, collection string, transfers []domain.TokenPayment) (uint64, string, int64, error) {
	if len(transfers) != 2 {
		return 0, "", 0, errors.New("Game requires 2 transfers, a Soldier NFT and the fee token amount.")
	}

	var (
		soldierNonce uint64
		soldierSeen  bool
		feeToken     string
		feeAmount    int64
	)
	for _, p := range transfers {
		if p.Token == collection {
			character, err := s.nfts.GetCharacterWithTx(ctx, tx, collection, p.Nonce)
			if err != nil {
				return 0, "", 0, err
			}
			if !character.IsSoldier() {
				return 0, "", 0, errors.New("Character NFT is not a soldier.")
			}
			if !character.IsUpgradedSoldier() {
				return 0, "", 0, errors.New("Soldier NFT is not an upgraded soldier.")
			}
			soldierNonce = p.Nonce
			soldierSeen = true
			continue
		}
		feeToken = p.Token
		feeAmount = p.Amount
	}

	if !soldierSeen {
		return 0, "", 0, errors.New("Game requires a Soldier NFT.")
	}
	if feeToken == "" {
		return 0, "", 0, errors.New("Game requires a game fee token.")
	}
	if feeAmount <= 0 {
		return 0, "", 0, errors.New("Game requires a game fee amount.")
	}
	return soldierNonce, feeToken, feeAmount, nil
}

func (s *ArenaService) requireCharacterCollection(ctx context.Context) (string, error) {
	collection, err := s.settings.Get(ctx, SettingCharacterCollection)
	if err != nil {
		return "", err
	}
	if collection == "" {
		return "", errors.New("Character NFT collection is not set.")
	}
	return collection, nil
}

// OpenGames returns currently open games, newest first
func (s *ArenaService) OpenGames(ctx context.Context, limit int) ([]*domain.Game, error) {
	return s.games.ListByStatus(ctx, domain.GameStatusOpen, limit)
}

// CompletedGames returns finished games, newest first
func (s *ArenaService) CompletedGames(ctx context.Context, limit int) ([]*domain.Game, error) {
	return s.games.ListByStatus(ctx, domain.GameStatusCompleted, limit)
}
