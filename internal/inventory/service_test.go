package inventory

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"

	"swiftbites.app/storefront/pkg/ai"
	"swiftbites.app/storefront/pkg/global"
	"swiftbites.app/storefront/pkg/logger"
	"swiftbites.app/storefront/pkg/models"
	"swiftbites.app/storefront/pkg/mongo"
)

type fakeStore struct {
	items   map[bson.ObjectID]models.InventoryItem
	summary *mongo.StockSummary
}

func (f *fakeStore) List(context.Context) ([]models.InventoryItem, error) {
	var out []models.InventoryItem
	for _, item := range f.items {
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeStore) Create(_ context.Context, item *models.InventoryItem) error {
	for _, existing := range f.items {
		if existing.Name == item.Name {
			return fmt.Errorf("inventory item %q: %w", item.Name, mongo.ErrDuplicateName)
		}
	}
	item.ID = bson.NewObjectID()
	item.StockStatus = models.StockLabel(item.Quantity)
	f.items[item.ID] = *item
	return nil
}

func (f *fakeStore) Update(_ context.Context, id bson.ObjectID, req models.UpdateInventoryRequest) (*models.InventoryItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, fmt.Errorf("inventory item %s: %w", id.Hex(), global.ErrNotFound)
	}
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	item.StockStatus = models.StockLabel(item.Quantity)
	f.items[id] = item
	return &item, nil
}

func (f *fakeStore) Delete(_ context.Context, id bson.ObjectID) error {
	if _, ok := f.items[id]; !ok {
		return fmt.Errorf("inventory item %s: %w", id.Hex(), global.ErrNotFound)
	}
	delete(f.items, id)
	return nil
}

func (f *fakeStore) StockSummary(context.Context) (*mongo.StockSummary, error) {
	return f.summary, nil
}

func newTestService(store *fakeStore) *Service {
	log := logger.Discard()
	return NewService(store, ai.NewClient("", "", "", log), log)
}

func ptr[T any](v T) *T { return &v }

func TestCreateAndUpdate(t *testing.T) {
	store := &fakeStore{items: map[bson.ObjectID]models.InventoryItem{}}
	s := newTestService(store)

	item, err := s.Create(context.Background(), models.CreateInventoryRequest{
		Name: " Buns ", Price: ptr(decimal.NewFromInt(5)), Quantity: ptr(40),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if item.Name != "Buns" || item.StockStatus != "In Stock" {
		t.Errorf("unexpected item %+v", item)
	}

	updated, err := s.Update(context.Background(), item.ID, models.UpdateInventoryRequest{Quantity: ptr(3)})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Quantity != 3 || updated.StockStatus != "Low Stock" || updated.Name != "Buns" {
		t.Errorf("unexpected update %+v", updated)
	}
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  models.CreateInventoryRequest
	}{
		{"blank name", models.CreateInventoryRequest{Name: " ", Price: ptr(decimal.NewFromInt(1)), Quantity: ptr(1)}},
		{"missing price", models.CreateInventoryRequest{Name: "Buns", Quantity: ptr(1)}},
		{"negative quantity", models.CreateInventoryRequest{Name: "Buns", Price: ptr(decimal.NewFromInt(1)), Quantity: ptr(-1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{items: map[bson.ObjectID]models.InventoryItem{}}
			if _, err := newTestService(store).Create(context.Background(), tt.req); !errors.Is(err, global.ErrValidation) {
				t.Errorf("Create() error = %v, want validation error", err)
			}
			if len(store.items) != 0 {
				t.Error("invalid item was stored")
			}
		})
	}
}

func TestCreate_DuplicateName(t *testing.T) {
	id := bson.NewObjectID()
	store := &fakeStore{items: map[bson.ObjectID]models.InventoryItem{id: {ID: id, Name: "Buns"}}}

	_, err := newTestService(store).Create(context.Background(), models.CreateInventoryRequest{
		Name: "Buns", Price: ptr(decimal.NewFromInt(5)), Quantity: ptr(1),
	})
	if !errors.Is(err, global.ErrValidation) {
		t.Errorf("Create() error = %v, want validation error", err)
	}
}

func TestUpdateAndDelete_NotFound(t *testing.T) {
	s := newTestService(&fakeStore{items: map[bson.ObjectID]models.InventoryItem{}})

	if _, err := s.Update(context.Background(), bson.NewObjectID(), models.UpdateInventoryRequest{Quantity: ptr(1)}); !errors.Is(err, global.ErrNotFound) {
		t.Errorf("Update() error = %v, want not found", err)
	}
	if err := s.Delete(context.Background(), bson.NewObjectID()); !errors.Is(err, global.ErrNotFound) {
		t.Errorf("Delete() error = %v, want not found", err)
	}
	if _, err := s.Update(context.Background(), bson.NewObjectID(), models.UpdateInventoryRequest{}); !errors.Is(err, global.ErrValidation) {
		t.Errorf("empty Update() error = %v, want validation error", err)
	}
}

func TestReport_WithoutAI(t *testing.T) {
	summary := &mongo.StockSummary{
		Buckets:    []mongo.StockBucket{{Status: "Low Stock", ItemCount: 1, Units: 3, Items: []string{"Buns"}}},
		TotalItems: 1,
	}
	s := newTestService(&fakeStore{summary: summary})

	report, err := s.Report(context.Background())
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if report.AIEnabled || report.Data.RawData != summary {
		t.Errorf("unexpected report %+v", report)
	}
}
