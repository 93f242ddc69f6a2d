package redis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"

	"swiftbites.app/storefront/pkg/global"
	"swiftbites.app/storefront/pkg/models"
)

const testTTL = 30 * time.Minute

func newTestStore(t *testing.T) (*CartStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := NewClient(mr.Addr(), "")
	t.Cleanup(func() { client.Close() })
	return NewCartStore(client, testTTL), mr
}

func burger() models.MenuItem {
	return models.MenuItem{ID: bson.NewObjectID(), Name: "Veg Burger", Price: decimal.NewFromInt(149)}
}

func addBurger(cart models.Cart) (models.Cart, error) {
	return cart.AddItem(burger()), nil
}

func TestCreateAndGet(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	id, cart, err := store.Create(ctx)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if id == "" || !cart.IsEmpty() {
		t.Fatalf("Create() = %q, %+v; want a new empty cart", id, cart)
	}
	if ttl := mr.TTL(cartKey(id)); ttl != testTTL {
		t.Errorf("ttl = %v, want %v", ttl, testTTL)
	}

	got, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !got.IsEmpty() || got.PriorityFee != models.PriorityFeeNone {
		t.Errorf("Get() = %+v, want empty cart", got)
	}
}

func TestMissingSession(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{"get", func() error { _, err := store.Get(ctx, "missing"); return err }},
		{"update", func() error { _, err := store.Update(ctx, "missing", addBurger); return err }},
		{"delete", func() error { return store.Delete(ctx, "missing") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, global.ErrNotFound) {
				t.Errorf("error = %v, want not found", err)
			}
		})
	}
}

func TestUpdate_Persists(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	id, _, err := store.Create(ctx)
	if err != nil {
		t.Fatal(err)
	}

	mr.FastForward(10 * time.Minute)
	updated, err := store.Update(ctx, id, addBurger)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.ItemCount() != 1 {
		t.Errorf("Update() item count = %d, want 1", updated.ItemCount())
	}
	if ttl := mr.TTL(cartKey(id)); ttl != testTTL {
		t.Errorf("ttl after update = %v, want refreshed %v", ttl, testTTL)
	}

	got, err := store.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Items) != 1 || got.Items[0].Name != "Veg Burger" || !got.Total().Equal(decimal.NewFromInt(149)) {
		t.Errorf("stored cart = %+v", got)
	}
}

func TestUpdate_InvalidFeeLeavesCartUnchanged(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	id, _, err := store.Create(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Update(ctx, id, addBurger); err != nil {
		t.Fatal(err)
	}

	_, err = store.Update(ctx, id, func(cart models.Cart) (models.Cart, error) {
		return cart.SetPriorityFee(models.PriorityFee(20))
	})
	if !errors.Is(err, models.ErrInvalidPriorityFee) {
		t.Fatalf("Update() error = %v, want ErrInvalidPriorityFee", err)
	}

	got, err := store.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if got.PriorityFee != models.PriorityFeeNone || got.ItemCount() != 1 {
		t.Errorf("stored cart = %+v, want it unchanged", got)
	}
}

func TestUpdate_RetriesOnConcurrentWrite(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	id, _, err := store.Create(ctx)
	if err != nil {
		t.Fatal(err)
	}

	calls := 0
	got, err := store.Update(ctx, id, func(cart models.Cart) (models.Cart, error) {
		calls++
		if calls == 1 {
			// Another request sets the fee between the read and the write.
			other, _ := models.Cart{}.Clear().SetPriorityFee(models.PriorityFeeMedium)
			payload, _ := json.Marshal(other)
			if err := store.client.Set(ctx, cartKey(id), payload, testTTL).Err(); err != nil {
				t.Fatal(err)
			}
		}
		return cart.AddItem(burger()), nil
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("fn called %d times, want 2", calls)
	}
	if got.PriorityFee != models.PriorityFeeMedium || got.ItemCount() != 1 {
		t.Errorf("Update() = %+v, want both writes applied", got)
	}
}

func TestDelete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	id, _, err := store.Create(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get(ctx, id); !errors.Is(err, global.ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want not found", err)
	}
	if err := store.Delete(ctx, id); !errors.Is(err, global.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want not found", err)
	}
}

func TestSessionExpires(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	id, _, err := store.Create(ctx)
	if err != nil {
		t.Fatal(err)
	}

	mr.FastForward(testTTL + time.Second)
	if _, err := store.Get(ctx, id); !errors.Is(err, global.ErrNotFound) {
		t.Errorf("Get() after ttl error = %v, want not found", err)
	}
}
