package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"

	"swiftbites.app/storefront/pkg/ai"
	"swiftbites.app/storefront/pkg/global"
	"swiftbites.app/storefront/pkg/models"
	"swiftbites.app/storefront/pkg/mongo"
)

type Store interface {
	List(ctx context.Context) ([]models.InventoryItem, error)
	Create(ctx context.Context, item *models.InventoryItem) error
	Update(ctx context.Context, id bson.ObjectID, req models.UpdateInventoryRequest) (*models.InventoryItem, error)
	Delete(ctx context.Context, id bson.ObjectID) error
	StockSummary(ctx context.Context) (*mongo.StockSummary, error)
}

type Service struct {
	store Store
	ai    *ai.Client
	log   *slog.Logger
}

func NewService(store Store, aiClient *ai.Client, log *slog.Logger) *Service {
	return &Service{store: store, ai: aiClient, log: log}
}

func (s *Service) List(ctx context.Context) ([]models.InventoryItem, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		s.log.Error("failed to list inventory", "error", err)
		return nil, global.Persistence("Failed to fetch inventory", err)
	}
	return items, nil
}

func (s *Service) Create(ctx context.Context, req models.CreateInventoryRequest) (*models.InventoryItem, error) {
	name := strings.TrimSpace(req.Name)
	if fields := validate(&name, req.Price, req.Quantity, true); len(fields) > 0 {
		return nil, global.Validation("Invalid inventory item", fields...)
	}

	item := &models.InventoryItem{Name: name, Price: *req.Price, Quantity: *req.Quantity}
	if err := s.store.Create(ctx, item); err != nil {
		return nil, s.storeError("Failed to add item", err)
	}
	s.log.Info("inventory item created", "id", item.ID.Hex(), "name", item.Name)
	return item, nil
}

func (s *Service) Update(ctx context.Context, id bson.ObjectID, req models.UpdateInventoryRequest) (*models.InventoryItem, error) {
	if req.Empty() {
		return nil, global.Validation("No fields to update")
	}
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
	}
	if fields := validate(req.Name, req.Price, req.Quantity, false); len(fields) > 0 {
		return nil, global.Validation("Invalid inventory item", fields...)
	}

	item, err := s.store.Update(ctx, id, req)
	if err != nil {
		return nil, s.storeError("Failed to update item", err)
	}
	s.log.Info("inventory item updated", "id", id.Hex())
	return item, nil
}

func (s *Service) Delete(ctx context.Context, id bson.ObjectID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return s.storeError("Failed to delete item", err)
	}
	s.log.Info("inventory item deleted", "id", id.Hex())
	return nil
}

// Report summarizes stock levels, with AI commentary when available.
func (s *Service) Report(ctx context.Context) (*ai.ReportResponse, error) {
	summary, err := s.store.StockSummary(ctx)
	if err != nil {
		s.log.Error("failed to summarize inventory", "error", err)
		return nil, global.Persistence("Failed to summarize inventory", err)
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return nil, global.Persistence("Failed to summarize inventory", err)
	}
	prompt := "Current stock levels grouped by status:\n\n" + string(data)
	return s.ai.Annotate(ctx, ai.InventoryReportSystemPrompt, prompt, summary), nil
}

func (s *Service) storeError(message string, err error) error {
	switch {
	case errors.Is(err, global.ErrNotFound):
		return global.NotFound("Item not found")
	case errors.Is(err, mongo.ErrDuplicateName):
		return global.Validation("An item with this name already exists",
			global.ValidationError{Field: "name", Message: "name already exists", Code: "unique"})
	}
	s.log.Error(message, "error", err)
	return global.Persistence(message, err)
}

// validate checks the supplied fields; with required set, nil fields are errors too.
func validate(name *string, price *decimal.Decimal, quantity *int, required bool) []global.ValidationError {
	var fields []global.ValidationError

	switch {
	case name == nil && required, name != nil && *name == "":
		fields = append(fields, global.Required("name"))
	}
	switch {
	case price == nil && required:
		fields = append(fields, global.Required("price"))
	case price != nil && price.IsNegative():
		fields = append(fields, global.ValidationError{Field: "price", Message: "price cannot be negative", Code: "min"})
	}
	switch {
	case quantity == nil && required:
		fields = append(fields, global.Required("quantity"))
	case quantity != nil && *quantity < 0:
		fields = append(fields, global.ValidationError{Field: "quantity", Message: "quantity cannot be negative", Code: "min"})
	}
	return fields
}
