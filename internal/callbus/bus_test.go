package callbus

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"crafting_arena/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Bus tests run only against a real database, set DATABASE_URL to
// enable them. Migrations are idempotent and applied on setup.

func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping bus test")
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

type nopMover struct{}

func (nopMover) TransferWithTx(ctx context.Context, tx pgx.Tx, from, to string, payments []domain.TokenPayment, txType string) error {
	return nil
}

type staticContract map[string]EndpointFunc

func (c staticContract) Endpoints() map[string]EndpointFunc { return c }

// A callback that keeps failing must not be redelivered forever: after
// maxCallbackAttempts sweeps the row is parked as failed and the
// sweeper stops selecting it.
func TestSweepParksRepeatedlyFailingCallback(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()

	b := New(pool, nopMover{})
	b.Register("sc:noop-target", staticContract{
		"noop": func(ctx context.Context, tx pgx.Tx, call *Call) (*Result, error) {
			return nil, nil
		},
	})
	b.RegisterCallback("always-fails", func(ctx context.Context, tx pgx.Tx, pc *domain.PendingCall) error {
		return errors.New("callback refused")
	})

	pc := &domain.PendingCall{
		Caller:   "sc:noop-caller",
		Target:   "sc:noop-target",
		Endpoint: "noop",
		Callback: "always-fails",
	}
	if err := b.Dispatch(ctx, pc); err == nil {
		t.Fatal("expected dispatch to report the callback failure")
	}
	if pc.Outcome != domain.CallOutcomeOK {
		t.Fatalf("expected ok invocation outcome, got %q", pc.Outcome)
	}

	// each sweep redelivers once, the last one gives up
	for i := 0; i <= maxCallbackAttempts; i++ {
		b.sweep(ctx, -time.Second)
	}

	var status domain.CallStatus
	var attempts int
	if err := pool.QueryRow(ctx, `
		SELECT status, attempts FROM pending_calls WHERE id = $1
	`, pc.ID).Scan(&status, &attempts); err != nil {
		t.Fatalf("load call: %v", err)
	}
	if status != domain.CallStatusFailed {
		t.Fatalf("expected failed status, got %q", status)
	}
	if attempts != maxCallbackAttempts {
		t.Fatalf("expected %d attempts, got %d", maxCallbackAttempts, attempts)
	}

	stale, err := b.calls.ListStale(ctx, time.Now().Add(time.Second), 50)
	if err != nil {
		t.Fatalf("list stale: %v", err)
	}
	for _, s := range stale {
		if s.ID == pc.ID {
			t.Fatal("parked call is still selected by the sweeper")
		}
	}
}
