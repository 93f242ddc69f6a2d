package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"swiftbites.app/storefront/pkg/global"
	"swiftbites.app/storefront/pkg/logger"
	"swiftbites.app/storefront/pkg/models"
)

// These tests run the real SQL against TEST_DATABASE_URL and are skipped
// without it.
func integrationStore(t *testing.T) (*OrderStore, *pgxpool.Pool) {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := Connect(ctx, url, logger.Discard())
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := Migrate(ctx, pool, logger.Discard()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return NewOrderStore(pool), pool
}

func insertTestOrder(t *testing.T, store *OrderStore, pool *pgxpool.Pool, token string) int64 {
	t.Helper()
	order := testOrder()
	order.Token = token
	id, err := store.Insert(context.Background(), order)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	t.Cleanup(func() {
		pool.Exec(context.Background(), "DELETE FROM orders WHERE id = $1", id)
	})
	return id
}

func uniqueToken(t *testing.T) string {
	t.Helper()
	token, err := models.GenerateToken()
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestIntegration_DuplicateToken(t *testing.T) {
	store, pool := integrationStore(t)
	token := uniqueToken(t)
	insertTestOrder(t, store, pool, token)

	order := testOrder()
	order.Token = token
	if _, err := store.Insert(context.Background(), order); !errors.Is(err, models.ErrDuplicateToken) {
		t.Errorf("second Insert() error = %v, want ErrDuplicateToken", err)
	}
}

func TestIntegration_AdvanceIsOneWay(t *testing.T) {
	store, pool := integrationStore(t)
	id := insertTestOrder(t, store, pool, uniqueToken(t))
	ctx := context.Background()

	steps := []struct {
		to          models.OrderStatus
		wantStatus  models.OrderStatus
		wantChanged bool
	}{
		{models.StatusPrepared, models.StatusPrepared, true},
		{models.StatusPrepared, models.StatusPrepared, false},
		{models.StatusPickedUp, models.StatusPickedUp, true},
		{models.StatusPrepared, models.StatusPickedUp, false},
		{models.StatusPending, models.StatusPickedUp, false},
	}
	for i, step := range steps {
		order, changed, err := store.Advance(ctx, id, step.to)
		if err != nil {
			t.Fatalf("step %d: Advance(%s) error = %v", i, step.to, err)
		}
		if order.Status != step.wantStatus || changed != step.wantChanged {
			t.Errorf("step %d: Advance(%s) = %s, changed %v; want %s, %v",
				i, step.to, order.Status, changed, step.wantStatus, step.wantChanged)
		}
	}

	if _, _, err := store.Advance(ctx, 1<<62, models.StatusPrepared); !errors.Is(err, global.ErrNotFound) {
		t.Errorf("Advance(missing) error = %v, want not found", err)
	}
}
