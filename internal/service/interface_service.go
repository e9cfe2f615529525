package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"crafting_arena/internal/callbus"
	"crafting_arena/internal/domain"
	"crafting_arena/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReconcileCallback is the callback name every dispatched action uses.
const ReconcileCallback = "reconcile"

// InterfaceService is the user-facing orchestrator contract. Users park
// tokens in its deposit ledger, then trigger actions; the service plans
// the transfer legs out of the ledger, dispatches the target contract
// through the bus and reconciles the ledger from the recorded outcome.
type InterfaceService struct {
	address  string
	bus      *callbus.Bus
	db       *pgxpool.Pool
	tokens   *TokenService
	deposits *repository.DepositRepository
	games    *repository.GameRepository
	settings *repository.SettingsRepository

	// one mutex per user, see lockUser
	locks sync.Map
}

func NewInterfaceService(db *pgxpool.Pool, address string, bus *callbus.Bus, tokens *TokenService) *InterfaceService {
	return &InterfaceService{
		address:  address,
		bus:      bus,
		db:       db,
		tokens:   tokens,
		deposits: repository.NewDepositRepository(db),
		games:    repository.NewGameRepository(db),
		settings: repository.NewSettingsRepository(db),
	}
}

func (s *InterfaceService) Address() string { return s.address }

// lockUser serializes actions per user. Validation reads the ledger in
// one transaction and the reconcile debit runs in another, so two
// concurrent actions from the same user could both validate against the
// same deposit; holding the user's mutex across plan, dispatch and
// reconcile closes that window. Different users never contend.
func (s *InterfaceService) lockUser(user string) func() {
	v, _ := s.locks.LoadOrStore(user, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Endpoints lets the interface itself be addressed on the bus, so other
// contracts can return tokens to it.
func (s *InterfaceService) Endpoints() map[string]callbus.EndpointFunc {
	return map[string]callbus.EndpointFunc{}
}

// DepositResources moves the user's tokens into the orchestrator and
// credits the deposit ledger, atomically.
func (s *InterfaceService) DepositResources(ctx context.Context, user string, payments []domain.TokenPayment) error {
	if len(payments) == 0 {
		return errors.New("No tokens received.")
	}
	unlock := s.lockUser(user)
	defer unlock()

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.tokens.TransferWithTx(ctx, tx, user, s.address, payments, "deposit"); err != nil {
		return err
	}
	for _, p := range payments {
		if err := s.deposits.IncreaseWithTx(ctx, tx, user, p.Token, p.Nonce, p.Amount); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// Deposits lists the user's ledger rows.
func (s *InterfaceService) Deposits(ctx context.Context, user string) ([]*domain.Deposit, error) {
	return s.deposits.ListByAddress(ctx, user)
}

func (s *InterfaceService) MintCitizen(ctx context.Context, user string) (*domain.PendingCall, error) {
	unlock := s.lockUser(user)
	defer unlock()

	target, err := s.requireBinding(ctx, SettingCharacterContract, "Character")
	if err != nil {
		return nil, err
	}
	deposits, err := s.deposits.ListByAddress(ctx, user)
	if err != nil {
		return nil, err
	}
	legs, err := planMintCitizen(deposits)
	if err != nil {
		return nil, err
	}
	return s.dispatch(ctx, user, target, domain.EndpointMintCitizen, legs, nil)
}

func (s *InterfaceService) ClaimCitizen(ctx context.Context, user string) (*domain.PendingCall, error) {
	unlock := s.lockUser(user)
	defer unlock()

	target, err := s.requireBinding(ctx, SettingCharacterContract, "Character")
	if err != nil {
		return nil, err
	}
	return s.dispatch(ctx, user, target, domain.EndpointClaimCitizen, nil, nil)
}

func (s *InterfaceService) UpgradeCitizen(ctx context.Context, user string, nonce uint64) (*domain.PendingCall, error) {
	unlock := s.lockUser(user)
	defer unlock()

	target, err := s.requireBinding(ctx, SettingCharacterContract, "Character")
	if err != nil {
		return nil, err
	}
	deposits, err := s.deposits.ListByAddress(ctx, user)
	if err != nil {
		return nil, err
	}
	legs, err := planUpgradeCitizen(deposits)
	if err != nil {
		return nil, err
	}
	return s.dispatch(ctx, user, target, domain.EndpointUpgradeCitizenToSoldier, legs, map[string]any{"nonce": nonce})
}

// UpgradeSoldier sends the soldier and tool NFTs from the ledger; the
// soldier comes back through the call's back-transfers.
func (s *InterfaceService) UpgradeSoldier(ctx context.Context, user string, soldierNonce, toolNonce uint64) (*domain.PendingCall, error) {
	unlock := s.lockUser(user)
	defer unlock()

	target, err := s.requireBinding(ctx, SettingCharacterContract, "Character")
	if err != nil {
		return nil, err
	}
	characterCollection, err := s.requireSetting(ctx, SettingCharacterCollection, "Character collection id not set.")
	if err != nil {
		return nil, err
	}
	toolsCollection, err := s.requireSetting(ctx, SettingToolsCollection, "Tools collection id not set.")
	if err != nil {
		return nil, err
	}

	deposits, err := s.deposits.ListByAddress(ctx, user)
	if err != nil {
		return nil, err
	}
	if findNFTDeposit(deposits, characterCollection, soldierNonce) == nil {
		return nil, fmt.Errorf("No character NFT deposited with nonce %d.", soldierNonce)
	}
	if findNFTDeposit(deposits, toolsCollection, toolNonce) == nil {
		return nil, fmt.Errorf("No tool NFT deposited with nonce %d.", toolNonce)
	}

	legs := []domain.TokenPayment{
		{Token: characterCollection, Nonce: soldierNonce, Amount: 1},
		{Token: toolsCollection, Nonce: toolNonce, Amount: 1},
	}
	return s.dispatch(ctx, user, target, domain.EndpointUpgradeSoldier, legs, nil)
}

func (s *InterfaceService) MintShield(ctx context.Context, user string) (*domain.PendingCall, error) {
	unlock := s.lockUser(user)
	defer unlock()

	target, err := s.requireBinding(ctx, SettingToolsContract, "Tools")
	if err != nil {
		return nil, err
	}
	deposits, err := s.deposits.ListByAddress(ctx, user)
	if err != nil {
		return nil, err
	}
	legs, err := planMintShield(deposits)
	if err != nil {
		return nil, err
	}
	return s.dispatch(ctx, user, target, domain.EndpointMintShield, legs, nil)
}

func (s *InterfaceService) MintSword(ctx context.Context, user string) (*domain.PendingCall, error) {
	unlock := s.lockUser(user)
	defer unlock()

	target, err := s.requireBinding(ctx, SettingToolsContract, "Tools")
	if err != nil {
		return nil, err
	}
	deposits, err := s.deposits.ListByAddress(ctx, user)
	if err != nil {
		return nil, err
	}
	legs, err := planMintSword(deposits)
	if err != nil {
		return nil, err
	}
	return s.dispatch(ctx, user, target, domain.EndpointMintSword, legs, nil)
}

func (s *InterfaceService) ClaimShield(ctx context.Context, user string) (*domain.PendingCall, error) {
	unlock := s.lockUser(user)
	defer unlock()

	target, err := s.requireBinding(ctx, SettingToolsContract, "Tools")
	if err != nil {
		return nil, err
	}
	return s.dispatch(ctx, user, target, domain.EndpointClaimShield, nil, nil)
}

func (s *InterfaceService) ClaimSword(ctx context.Context, user string) (*domain.PendingCall, error) {
	unlock := s.lockUser(user)
	defer unlock()

	target, err := s.requireBinding(ctx, SettingToolsContract, "Tools")
	if err != nil {
		return nil, err
	}
	return s.dispatch(ctx, user, target, domain.EndpointClaimSword, nil, nil)
}

// CreateOre converts deposited stone. oreUnits picks how many units to
// convert; zero means as many as the deposit covers.
func (s *InterfaceService) CreateOre(ctx context.Context, user string, oreUnits int64) (*domain.PendingCall, error) {
	unlock := s.lockUser(user)
	defer unlock()

	target, err := s.requireBinding(ctx, SettingResourceTransformContract, "Resource transform")
	if err != nil {
		return nil, err
	}
	deposits, err := s.deposits.ListByAddress(ctx, user)
	if err != nil {
		return nil, err
	}
	legs, err := planCreateOre(deposits, oreUnits)
	if err != nil {
		return nil, err
	}
	return s.dispatch(ctx, user, target, domain.EndpointCreateOre, legs, nil)
}

func (s *InterfaceService) CreateGame(ctx context.Context, user string, soldierNonce uint64, feeToken string, feeAmount int64) (*domain.PendingCall, error) {
	unlock := s.lockUser(user)
	defer unlock()

	target, err := s.requireBinding(ctx, SettingArenaContract, "Game arena")
	if err != nil {
		return nil, err
	}
	collection, err := s.requireSetting(ctx, SettingCharacterCollection, "Character collection id not set.")
	if err != nil {
		return nil, err
	}

	deposits, err := s.deposits.ListByAddress(ctx, user)
	if err != nil {
		return nil, err
	}
	legs, err := planCreateGame(deposits, collection, soldierNonce, feeToken, feeAmount)
	if err != nil {
		return nil, err
	}
	return s.dispatch(ctx, user, target, domain.EndpointCreateGame, legs, nil)
}

// AcceptGame reads the open game's fee terms and sends a matching entry.
func (s *InterfaceService) AcceptGame(ctx context.Context, user string, gameID int64, soldierNonce uint64) (*domain.PendingCall, error) {
	unlock := s.lockUser(user)
	defer unlock()

	target, err := s.requireBinding(ctx, SettingArenaContract, "Game arena")
	if err != nil {
		return nil, err
	}
	collection, err := s.requireSetting(ctx, SettingCharacterCollection, "Character collection id not set.")
	if err != nil {
		return nil, err
	}

	game, err := s.games.Get(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, fmt.Errorf("Invalid game id %d.", gameID)
	}
	if game.Status == domain.GameStatusCompleted {
		return nil, fmt.Errorf("Game %d has already been completed.", gameID)
	}

	deposits, err := s.deposits.ListByAddress(ctx, user)
	if err != nil {
		return nil, err
	}
	legs, err := planAcceptGame(deposits, collection, soldierNonce, game.FeeToken, game.FeeAmount)
	if err != nil {
		return nil, err
	}
	return s.dispatch(ctx, user, target, domain.EndpointAcceptGame, legs, map[string]any{"game_id": gameID})
}

// StakeResources stakes the user's full deposit of one base resource.
func (s *InterfaceService) StakeResources(ctx context.Context, user, ticker string) (*domain.PendingCall, error) {
	unlock := s.lockUser(user)
	defer unlock()

	target, err := s.requireBinding(ctx, SettingResourceMintContract, "Resource mint")
	if err != nil {
		return nil, err
	}
	deposits, err := s.deposits.ListByAddress(ctx, user)
	if err != nil {
		return nil, err
	}
	legs, err := planStake(deposits, ticker)
	if err != nil {
		return nil, err
	}
	return s.dispatch(ctx, user, target, "stake", legs, nil)
}

// MintResources rolls staking accrual forward, synchronously.
func (s *InterfaceService) MintResources(ctx context.Context, user string) error {
	target, err := s.requireBinding(ctx, SettingResourceMintContract, "Resource mint")
	if err != nil {
		return err
	}
	_, err = s.bus.Execute(ctx, s.address, target, domain.EndpointMintResources, nil, map[string]any{"user": user})
	return err
}

// ClaimResources mints accrued resources straight to the user's wallet,
// synchronously.
func (s *InterfaceService) ClaimResources(ctx context.Context, user string) error {
	target, err := s.requireBinding(ctx, SettingResourceMintContract, "Resource mint")
	if err != nil {
		return err
	}
	_, err = s.bus.Execute(ctx, s.address, target, domain.EndpointClaimResources, nil, map[string]any{"user": user})
	return err
}

// dispatch sends an asynchronous call with the reconcile continuation.
// The returned pending call carries the recorded outcome; a failed
// invocation is reported as a plain error with the ledger untouched.
func (s *InterfaceService) dispatch(ctx context.Context, user, target, endpoint string, legs []domain.TokenPayment, args map[string]any) (*domain.PendingCall, error) {
	if args == nil {
		args = map[string]any{}
	}
	args["user"] = user

	pc := &domain.PendingCall{
		Caller:    s.address,
		Target:    target,
		Endpoint:  endpoint,
		Transfers: legs,
		Args:      args,
		Callback:  ReconcileCallback,
		Context:   map[string]any{"user": user},
	}
	err := s.bus.Dispatch(ctx, pc)
	if pc.ID == 0 {
		return nil, err
	}
	return pc, err
}

// Reconcile is the dispatch continuation. On a successful call it
// settles the deposit ledger: consumed legs are debited, NFT rows are
// dropped, and back-transfers are credited to the user. A failed call
// leaves the ledger as it was, the invocation rolled back.
func (s *InterfaceService) Reconcile(ctx context.Context, tx pgx.Tx, pc *domain.PendingCall) error {
	if pc.Outcome != domain.CallOutcomeOK {
		return nil
	}

	user := argString(pc.Context, "user")
	if user == "" {
		return fmt.Errorf("reconcile call %d: missing user", pc.ID)
	}

	for _, leg := range pc.Transfers {
		if leg.Nonce > 0 {
			if err := s.deposits.DeleteWithTx(ctx, tx, user, leg.Token, leg.Nonce); err != nil {
				return err
			}
			continue
		}
		ok, err := s.deposits.DecreaseWithTx(ctx, tx, user, leg.Token, leg.Nonce, leg.Amount)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("reconcile call %d: deposit %s below %d for %s", pc.ID, leg.Token, leg.Amount, user)
		}
	}

	for _, bt := range pc.BackTransfers {
		if err := s.deposits.IncreaseWithTx(ctx, tx, user, bt.Token, bt.Nonce, bt.Amount); err != nil {
			return err
		}
	}
	return nil
}

func (s *InterfaceService) requireBinding(ctx context.Context, key, label string) (string, error) {
	addr, err := s.settings.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if addr == "" {
		return "", fmt.Errorf("%s contract address not set.", label)
	}
	return addr, nil
}

func (s *InterfaceService) requireSetting(ctx context.Context, key, message string) (string, error) {
	v, err := s.settings.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", errors.New(message)
	}
	return v, nil
}
