package store

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/polyfocus/polyfocus-bot/internal/database"
)

// TestPostgres runs the store contract against a live database named by
// POLYBOT_TEST_DATABASE_URL. Tables are truncated before every subtest.
func TestPostgres(t *testing.T) {
	dsn := os.Getenv("POLYBOT_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("POLYBOT_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	testStoreContract(t, func(t *testing.T) Store {
		_, err := pool.Exec(ctx,
			`TRUNCATE rewarded_trades, referral_rewards, price_updates, users RESTART IDENTITY CASCADE`)
		if err != nil {
			t.Fatalf("truncate: %v", err)
		}
		return NewPostgres(pool, nil)
	})
}
