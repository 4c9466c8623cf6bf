package postgres

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/finledger/internal/domain"
	infrapg "github.com/iho/finledger/internal/infrastructure/postgres"
	"github.com/iho/finledger/internal/usecase"
)

// openIntegrationDB connects to DATABASE_URL, applies migrations and
// truncates the ledger tables.
func openIntegrationDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	if err := infrapg.NewMigrator(dbURL, "../../../infrastructure/postgres/migrations", zerolog.Nop()).Up(); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := infrapg.NewPoolWithConfig(ctx, infrapg.PoolConfig{DatabaseURL: dbURL, MaxConns: 20})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	t.Cleanup(pool.Close)

	if _, err := pool.Exec(ctx, `TRUNCATE TABLE statements, users CASCADE`); err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}

	return pool
}

func createUser(t *testing.T, pool *pgxpool.Pool, name string) string {
	t.Helper()

	id := uuid.NewString()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO users (id, name, email) VALUES ($1, $2, $3)`,
		id, name, name+"-"+id[:8]+"@example.com")
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return id
}

func newIntegrationUseCase(pool *pgxpool.Pool) *usecase.StatementUseCase {
	return usecase.NewStatementUseCase(
		NewTxManager(pool),
		NewAccountDirectory(pool),
		NewStatementRepository(pool),
		NewULIDGenerator(),
		usecase.WithRetrier(NewRetrier(zerolog.Nop())),
	)
}

func TestIntegrationStatementLifecycle(t *testing.T) {
	pool := openIntegrationDB(t)
	ctx := context.Background()
	uc := newIntegrationUseCase(pool)

	a := createUser(t, pool, "alice")
	b := createUser(t, pool, "bob")

	if _, err := uc.CreateDeposit(ctx, a, decimal.NewFromInt(100), "salary"); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	transfer, err := uc.CreateTransfer(ctx, a, b, decimal.RequireFromString("20.25"), "lunch")
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}

	got, err := uc.GetStatement(ctx, b, transfer.ID)
	if err != nil {
		t.Fatalf("get statement: %v", err)
	}
	if got.SenderID() != a {
		t.Fatalf("expected sender %s, got %s", a, got.SenderID())
	}

	balanceA, _ := uc.GetBalance(ctx, a)
	balanceB, _ := uc.GetBalance(ctx, b)
	if !balanceA.Equal(decimal.RequireFromString("79.75")) || !balanceB.Equal(decimal.RequireFromString("20.25")) {
		t.Fatalf("unexpected balances a=%s b=%s", balanceA, balanceB)
	}

	if _, err := uc.CreateWithdrawal(ctx, b, decimal.NewFromInt(21), ""); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if _, err := uc.CreateDeposit(ctx, uuid.NewString(), decimal.NewFromInt(1), ""); !errors.Is(err, domain.ErrActorNotFound) {
		t.Fatalf("expected ErrActorNotFound, got %v", err)
	}

	report, err := usecase.NewLedgerUseCase(NewLedgerRepository(pool)).CheckConsistency(ctx)
	if err != nil || !report.Consistent {
		t.Fatalf("expected consistent ledger, got %+v %v", report, err)
	}
}

func TestIntegrationConcurrentWithdrawals(t *testing.T) {
	pool := openIntegrationDB(t)
	ctx := context.Background()
	uc := newIntegrationUseCase(pool)

	a := createUser(t, pool, "carol")
	if _, err := uc.CreateDeposit(ctx, a, decimal.NewFromInt(50), ""); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	const workers = 10

	var (
		wg           sync.WaitGroup
		successes    atomic.Int32
		insufficient atomic.Int32
	)

	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()

			_, err := uc.CreateWithdrawal(ctx, a, decimal.NewFromInt(50), "")
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, domain.ErrInsufficientFunds):
				insufficient.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successes.Load() != 1 || insufficient.Load() != workers-1 {
		t.Fatalf("expected 1 success and %d rejections, got %d and %d", workers-1, successes.Load(), insufficient.Load())
	}

	balance, err := uc.GetBalance(ctx, a)
	if err != nil || !balance.IsZero() {
		t.Fatalf("expected zero balance, got %s %v", balance, err)
	}
}

func TestIntegrationOpposingTransfers(t *testing.T) {
	pool := openIntegrationDB(t)
	ctx := context.Background()
	uc := newIntegrationUseCase(pool)

	a := createUser(t, pool, "dave")
	b := createUser(t, pool, "erin")
	for _, id := range []string{a, b} {
		if _, err := uc.CreateDeposit(ctx, id, decimal.NewFromInt(100), ""); err != nil {
			t.Fatalf("deposit: %v", err)
		}
	}

	const rounds = 20

	var (
		wg        sync.WaitGroup
		successes atomic.Int32
	)

	transfer := func(from, to string) {
		defer wg.Done()

		_, err := uc.CreateTransfer(ctx, from, to, decimal.NewFromInt(3), "")
		switch {
		case err == nil:
			successes.Add(1)
		case errors.Is(err, domain.ErrInsufficientFunds):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	wg.Add(2 * rounds)
	for range rounds {
		go transfer(a, b)
		go transfer(b, a)
	}
	wg.Wait()

	// Each side sends at most 60, so every transfer must succeed.
	if successes.Load() != 2*rounds {
		t.Fatalf("expected %d successful transfers, got %d", 2*rounds, successes.Load())
	}

	balanceA, _ := uc.GetBalance(ctx, a)
	balanceB, _ := uc.GetBalance(ctx, b)
	if !balanceA.Equal(decimal.NewFromInt(100)) || !balanceB.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("unexpected balances a=%s b=%s", balanceA, balanceB)
	}
}
