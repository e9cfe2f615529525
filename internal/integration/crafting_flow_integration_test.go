package integration

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"crafting_arena/internal/callbus"
	"crafting_arena/internal/domain"
	"crafting_arena/internal/repository"
	"crafting_arena/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Integration tests run only against a real database, set DATABASE_URL
// to enable them. Migrations are idempotent and applied on setup.

func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	migDir := filepath.Join("..", "migrations")
	files, err := os.ReadDir(migDir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(migDir, f.Name()))
		if err != nil {
			t.Fatalf("read migration %s: %v", f.Name(), err)
		}
		if _, err := pool.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", f.Name(), err)
		}
	}
	return pool
}

func randomAddress(t *testing.T, prefix string) string {
	t.Helper()
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		t.Fatalf("rand: %v", err)
	}
	return prefix + hex.EncodeToString(b)
}

func TestDepositLedgerRoundTrip(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()

	accounts := repository.NewAccountRepository(pool)
	tokens := service.NewTokenService(pool)
	bus := callbus.New(pool, tokens)

	ifaceAddr := randomAddress(t, "sc:iface-")
	user := randomAddress(t, "user-")
	for _, addr := range []string{ifaceAddr, user} {
		if err := accounts.Ensure(ctx, addr, addr == ifaceAddr); err != nil {
			t.Fatalf("ensure account: %v", err)
		}
	}

	wood, err := tokens.IssueFungible(ctx, domain.WoodTicker, "Wood")
	if err != nil {
		t.Fatalf("issue wood: %v", err)
	}
	if err := tokens.Mint(ctx, user, wood.ID, 100); err != nil {
		t.Fatalf("mint wood: %v", err)
	}

	iface := service.NewInterfaceService(pool, ifaceAddr, bus, tokens)

	if err := iface.DepositResources(ctx, user, nil); err == nil || err.Error() != "No tokens received." {
		t.Fatalf("expected empty deposit rejection, got %v", err)
	}

	if err := iface.DepositResources(ctx, user, []domain.TokenPayment{{Token: wood.ID, Amount: 40}}); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	deposits, err := iface.Deposits(ctx, user)
	if err != nil {
		t.Fatalf("list deposits: %v", err)
	}
	if len(deposits) != 1 || deposits[0].Balance != 40 {
		t.Fatalf("unexpected ledger: %+v", deposits)
	}

	// wallet balance dropped by the deposited amount
	balances, err := tokens.Balances(ctx, user)
	if err != nil {
		t.Fatalf("balances: %v", err)
	}
	var walletWood int64
	for _, b := range balances {
		if b.Token == wood.ID {
			walletWood = b.Amount
		}
	}
	if walletWood != 60 {
		t.Fatalf("expected 60 wood left in wallet, got %d", walletWood)
	}
}

func TestMintCitizenDispatchReconciles(t *testing.T) {
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
	if err := settings.Set(ctx, service.SettingCharacterContract, characterAddr); err != nil {
		t.Fatalf("bind character contract: %v", err)
	}

	collection, err := tokens.IssueCollection(ctx, domain.CharacterCollectionTicker, domain.CharacterCollectionName)
	if err != nil {
		t.Fatalf("issue collection: %v", err)
	}
	if err := settings.Set(ctx, service.SettingCharacterCollection, collection.ID); err != nil {
		t.Fatalf("bind collection: %v", err)
	}

	wood, err := tokens.IssueFungible(ctx, domain.WoodTicker, "Wood")
	if err != nil {
		t.Fatalf("issue wood: %v", err)
	}
	food, err := tokens.IssueFungible(ctx, domain.FoodTicker, "Food")
	if err != nil {
		t.Fatalf("issue food: %v", err)
	}
	for _, m := range []struct {
		token  string
		amount int64
	}{{wood.ID, 50}, {food.ID, 50}} {
		if err := tokens.Mint(ctx, user, m.token, m.amount); err != nil {
			t.Fatalf("mint: %v", err)
		}
	}

	iface := service.NewInterfaceService(pool, ifaceAddr, bus, tokens)
	character := service.NewCharacterService(pool, characterAddr, tokens, nfts)
	bus.Register(ifaceAddr, iface)
	bus.Register(characterAddr, character)
	bus.RegisterCallback(service.ReconcileCallback, iface.Reconcile)

	payments := []domain.TokenPayment{
		{Token: wood.ID, Amount: 30},
		{Token: food.ID, Amount: 30},
	}
	if err := iface.DepositResources(ctx, user, payments); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	pc, err := iface.MintCitizen(ctx, user)
	if err != nil {
		t.Fatalf("mint citizen: %v", err)
	}
	if pc.Outcome != domain.CallOutcomeOK {
		t.Fatalf("expected ok outcome, got %q (%s)", pc.Outcome, pc.Error)
	}
	if pc.Status != domain.CallStatusCompleted {
		t.Fatalf("expected completed call, got %q", pc.Status)
	}

	// ledger debited by the exact crafting cost
	deposits, err := iface.Deposits(ctx, user)
	if err != nil {
		t.Fatalf("list deposits: %v", err)
	}
	byToken := map[string]int64{}
	for _, d := range deposits {
		byToken[d.Token] = d.Balance
	}
	if byToken[wood.ID] != 30-domain.MintCitizenWoodQuantity {
		t.Fatalf("wood ledger: %d", byToken[wood.ID])
	}
	if byToken[food.ID] != 30-domain.MintCitizenFoodQuantity {
		t.Fatalf("food ledger: %d", byToken[food.ID])
	}

	// a citizen is waiting in the mint queue
	queue := repository.NewMintQueueRepository(pool)
	counts, err := queue.CountByAddress(ctx, user)
	if err != nil {
		t.Fatalf("queue counts: %v", err)
	}
	if counts[domain.AssetCitizen] != 1 {
		t.Fatalf("expected 1 queued citizen, got %d", counts[domain.AssetCitizen])
	}

	// claiming before the minting period reports the wait
	_, err = iface.ClaimCitizen(ctx, user)
	if err == nil || err.Error() != "No citizen to mint. 1 citizen(s) still in the minting period." {
		t.Fatalf("unexpected claim error: %v", err)
	}
}
