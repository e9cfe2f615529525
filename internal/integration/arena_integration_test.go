package integration

import (
	"context"
	"sync"
	"testing"

	"crafting_arena/internal/callbus"
	"crafting_arena/internal/combat"
	"crafting_arena/internal/domain"
	"crafting_arena/internal/repository"
	"crafting_arena/internal/service"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func mintCharacter(t *testing.T, pool *pgxpool.Pool, nfts *service.NFTService, collection, owner string, ch domain.Character) uint64 {
	t.Helper()
	ctx := context.Background()

	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	nonce, err := nfts.CreateCharacterWithTx(ctx, tx, collection, owner, ch)
	if err != nil {
		t.Fatalf("create character: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}
	return nonce
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) PublishGameEvent(event string, game *domain.Game) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) snapshot() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

// A dispatched call whose target fails must leave the deposit ledger
// exactly as it was, and retrying must fail the same way.
func TestFailedActionLeavesLedgerUntouched(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()

	accounts := repository.NewAccountRepository(pool)
	settings := repository.NewSettingsRepository(pool)
	tokens := service.NewTokenService(pool)
	nfts := service.NewNFTService(pool, tokens)
	bus := callbus.New(pool, tokens)

	ifaceAddr := randomAddress(t, "sc:iface-")
	characterAddr := randomAddress(t, "sc:char-")
	user := randomAddress(t, "user-")
	for _, addr := range []string{ifaceAddr, characterAddr, user} {
		if err := accounts.Ensure(ctx, addr, addr != user); err != nil {
			t.Fatalf("ensure account: %v", err)
		}
	}
	// the character contract is bound, the collection deliberately is not
	if err := settings.Set(ctx, service.SettingCharacterContract, characterAddr); err != nil {
		t.Fatalf("bind character contract: %v", err)
	}
	if err := settings.Set(ctx, service.SettingCharacterCollection, ""); err != nil {
		t.Fatalf("unset collection: %v", err)
	}

	gold, err := tokens.IssueFungible(ctx, domain.GoldTicker, "Gold")
	if err != nil {
		t.Fatalf("issue gold: %v", err)
	}
	ore, err := tokens.IssueFungible(ctx, domain.OreTicker, "Ore")
	if err != nil {
		t.Fatalf("issue ore: %v", err)
	}
	for _, m := range []string{gold.ID, ore.ID} {
		if err := tokens.Mint(ctx, user, m, 10); err != nil {
			t.Fatalf("mint: %v", err)
		}
	}

	iface := service.NewInterfaceService(pool, ifaceAddr, bus, tokens)
	character := service.NewCharacterService(pool, characterAddr, tokens, nfts)
	bus.Register(ifaceAddr, iface)
	bus.Register(characterAddr, character)
	bus.RegisterCallback(service.ReconcileCallback, iface.Reconcile)

	payments := []domain.TokenPayment{
		{Token: gold.ID, Amount: 10},
		{Token: ore.ID, Amount: 10},
	}
	if err := iface.DepositResources(ctx, user, payments); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	before, err := iface.Deposits(ctx, user)
	if err != nil {
		t.Fatalf("list deposits: %v", err)
	}

	for _, attempt := range []string{"first", "retry"} {
		pc, err := iface.UpgradeCitizen(ctx, user, 1)
		if err == nil || err.Error() != "Character collection id not set." {
			t.Fatalf("%s attempt: unexpected error: %v", attempt, err)
		}
		if pc.Outcome != domain.CallOutcomeErr {
			t.Fatalf("%s attempt: expected err outcome, got %q", attempt, pc.Outcome)
		}
		if pc.Status != domain.CallStatusCompleted {
			t.Fatalf("%s attempt: callback did not complete, status %q", attempt, pc.Status)
		}

		after, err := iface.Deposits(ctx, user)
		if err != nil {
			t.Fatalf("list deposits: %v", err)
		}
		if len(after) != len(before) {
			t.Fatalf("%s attempt: ledger row count changed: %d != %d", attempt, len(after), len(before))
		}
		for i := range before {
			if after[i].Token != before[i].Token || after[i].Nonce != before[i].Nonce ||
				after[i].Balance != before[i].Balance || !after[i].UpdatedAt.Equal(before[i].UpdatedAt) {
				t.Fatalf("%s attempt: ledger row changed: %+v != %+v", attempt, after[i], before[i])
			}
		}
	}
}

type arenaFixture struct {
	pool       *pgxpool.Pool
	bus        *callbus.Bus
	iface      *service.InterfaceService
	arena      *service.ArenaService
	nfts       *service.NFTService
	tokens     *service.TokenService
	pub        *recordingPublisher
	ifaceAddr  string
	arenaAddr  string
	collection string
}

func setupArena(t *testing.T) *arenaFixture {
	t.Helper()
	pool := setupPool(t)
	ctx := context.Background()

	accounts := repository.NewAccountRepository(pool)
	settings := repository.NewSettingsRepository(pool)
	tokens := service.NewTokenService(pool)
	nfts := service.NewNFTService(pool, tokens)
	bus := callbus.New(pool, tokens)

	ifaceAddr := randomAddress(t, "sc:iface-")
	arenaAddr := randomAddress(t, "sc:arena-")
	for _, addr := range []string{ifaceAddr, arenaAddr} {
		if err := accounts.Ensure(ctx, addr, true); err != nil {
			t.Fatalf("ensure account: %v", err)
		}
	}
	if err := settings.Set(ctx, service.SettingArenaContract, arenaAddr); err != nil {
		t.Fatalf("bind arena contract: %v", err)
	}

	collection, err := tokens.IssueCollection(ctx, domain.CharacterCollectionTicker, domain.CharacterCollectionName)
	if err != nil {
		t.Fatalf("issue collection: %v", err)
	}
	if err := settings.Set(ctx, service.SettingCharacterCollection, collection.ID); err != nil {
		t.Fatalf("bind collection: %v", err)
	}

	iface := service.NewInterfaceService(pool, ifaceAddr, bus, tokens)
	arena := service.NewArenaService(pool, arenaAddr, tokens, nfts, combat.New())
	pub := &recordingPublisher{}
	arena.SetPublisher(pub)
	bus.Register(ifaceAddr, iface)
	bus.Register(arenaAddr, arena)
	bus.RegisterCallback(service.ReconcileCallback, iface.Reconcile)

	return &arenaFixture{
		pool:       pool,
		bus:        bus,
		iface:      iface,
		arena:      arena,
		nfts:       nfts,
		tokens:     tokens,
		pub:        pub,
		ifaceAddr:  ifaceAddr,
		arenaAddr:  arenaAddr,
		collection: collection.ID,
	}
}

func (f *arenaFixture) newUser(t *testing.T) string {
	t.Helper()
	user := randomAddress(t, "user-")
	if err := repository.NewAccountRepository(f.pool).Ensure(context.Background(), user, false); err != nil {
		t.Fatalf("ensure account: %v", err)
	}
	return user
}

// A soldier that was never upgraded has no combat stats and cannot
// enter the arena; the rejection must leave the deposits untouched.
func TestCreateGameRejectsFreshSoldier(t *testing.T) {
	f := setupArena(t)
	ctx := context.Background()
	user := f.newUser(t)

	gold, err := f.tokens.IssueFungible(ctx, domain.GoldTicker, "Gold")
	if err != nil {
		t.Fatalf("issue gold: %v", err)
	}
	if err := f.tokens.Mint(ctx, user, gold.ID, 25); err != nil {
		t.Fatalf("mint gold: %v", err)
	}

	nonce := mintCharacter(t, f.pool, f.nfts, f.collection, user, domain.Character{Rank: domain.RankSoldier})

	payments := []domain.TokenPayment{
		{Token: f.collection, Nonce: nonce, Amount: 1},
		{Token: gold.ID, Amount: 25},
	}
	if err := f.iface.DepositResources(ctx, user, payments); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	pc, err := f.iface.CreateGame(ctx, user, nonce, gold.ID, 25)
	if err == nil || err.Error() != "Soldier NFT is not an upgraded soldier." {
		t.Fatalf("unexpected error: %v", err)
	}
	if pc.Outcome != domain.CallOutcomeErr {
		t.Fatalf("expected err outcome, got %q", pc.Outcome)
	}

	// soldier and fee are still on deposit
	deposits, err := f.iface.Deposits(ctx, user)
	if err != nil {
		t.Fatalf("list deposits: %v", err)
	}
	byKey := map[string]int64{}
	for _, d := range deposits {
		byKey[d.Token] += d.Balance
	}
	if byKey[f.collection] != 1 || byKey[gold.ID] != 25 {
		t.Fatalf("deposits changed: %+v", deposits)
	}

	// nothing was announced for the rolled back game
	if events := f.pub.snapshot(); len(events) != 0 {
		t.Fatalf("unexpected events: %v", events)
	}
}

// Accepting a game with a different fee token must fail and leave the
// game open for the next challenger.
func TestAcceptGameRequiresMatchingFee(t *testing.T) {
	f := setupArena(t)
	ctx := context.Background()
	initiator := f.newUser(t)
	competitor := f.newUser(t)

	gold, err := f.tokens.IssueFungible(ctx, domain.GoldTicker, "Gold")
	if err != nil {
		t.Fatalf("issue gold: %v", err)
	}
	stone, err := f.tokens.IssueFungible(ctx, domain.StoneTicker, "Stone")
	if err != nil {
		t.Fatalf("issue stone: %v", err)
	}
	if err := f.tokens.Mint(ctx, initiator, gold.ID, 25); err != nil {
		t.Fatalf("mint gold: %v", err)
	}
	if err := f.tokens.Mint(ctx, competitor, stone.ID, 25); err != nil {
		t.Fatalf("mint stone: %v", err)
	}

	initiatorSoldier := mintCharacter(t, f.pool, f.nfts, f.collection, initiator,
		domain.Character{Rank: domain.RankSoldier, Attack: 1})
	competitorSoldier := mintCharacter(t, f.pool, f.nfts, f.collection, competitor,
		domain.Character{Rank: domain.RankSoldier, Defence: 1})

	payments := []domain.TokenPayment{
		{Token: f.collection, Nonce: initiatorSoldier, Amount: 1},
		{Token: gold.ID, Amount: 25},
	}
	if err := f.iface.DepositResources(ctx, initiator, payments); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	pc, err := f.iface.CreateGame(ctx, initiator, initiatorSoldier, gold.ID, 25)
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	if pc.Outcome != domain.CallOutcomeOK {
		t.Fatalf("expected ok outcome, got %q (%s)", pc.Outcome, pc.Error)
	}
	if events := f.pub.snapshot(); len(events) != 1 || events[0] != "game_created" {
		t.Fatalf("unexpected events after create: %v", events)
	}

	open, err := f.arena.OpenGames(ctx, 1)
	if err != nil {
		t.Fatalf("open games: %v", err)
	}
	if len(open) != 1 || open[0].Initiator != initiator {
		t.Fatalf("created game not found: %+v", open)
	}
	game := open[0]

	// competitor enters straight from the wallet with the wrong token
	entry := []domain.TokenPayment{
		{Token: f.collection, Nonce: competitorSoldier, Amount: 1},
		{Token: stone.ID, Amount: 25},
	}
	_, err = f.bus.Execute(ctx, competitor, f.arenaAddr, domain.EndpointAcceptGame, entry,
		map[string]any{"game_id": game.ID, "user": competitor})
	if err == nil || err.Error() != "Game requires the same fee token and amount." {
		t.Fatalf("unexpected error: %v", err)
	}

	reloaded, err := repository.NewGameRepository(f.pool).Get(ctx, game.ID)
	if err != nil {
		t.Fatalf("reload game: %v", err)
	}
	if reloaded == nil || reloaded.Status != domain.GameStatusOpen {
		t.Fatalf("game left open state: %+v", reloaded)
	}
	if reloaded.Competitor != nil || reloaded.Winner != nil {
		t.Fatalf("rolled back entry was recorded: %+v", reloaded)
	}

	// the failed entry announced nothing
	if events := f.pub.snapshot(); len(events) != 1 {
		t.Fatalf("unexpected events after failed accept: %v", events)
	}
}
