package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const LowStockThreshold = 5

type InventoryItem struct {
	ID          bson.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name        string          `json:"name" bson:"name"`
	Price       decimal.Decimal `json:"price" bson:"price"`
	Quantity    int             `json:"quantity" bson:"quantity"`
	StockStatus string          `json:"stock_status" bson:"-"`
	CreatedAt   time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" bson:"updated_at"`
}

func (i *InventoryItem) SetTimestamps() {
	now := time.Now()
	if i.CreatedAt.IsZero() {
		i.CreatedAt = now
	}
	i.UpdatedAt = now
}

// StockLabel describes the stock level shown on the inventory board.
func StockLabel(quantity int) string {
	switch {
	case quantity <= 0:
		return "Out of Stock"
	case quantity <= LowStockThreshold:
		return "Low Stock"
	default:
		return "In Stock"
	}
}

type CreateInventoryRequest struct {
	Name     string           `json:"name" binding:"required"`
	Price    *decimal.Decimal `json:"price" binding:"required"`
	Quantity *int             `json:"quantity" binding:"required"`
}

// UpdateInventoryRequest is a partial update; nil fields are left untouched.
type UpdateInventoryRequest struct {
	Name     *string          `json:"name"`
	Price    *decimal.Decimal `json:"price"`
	Quantity *int             `json:"quantity"`
}

func (r *UpdateInventoryRequest) Empty() bool {
	return r.Name == nil && r.Price == nil && r.Quantity == nil
}
