package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// MenuItem is a purchasable item and the source of truth for its price.
type MenuItem struct {
	ID        bson.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name      string          `json:"name" bson:"name"`
	Price     decimal.Decimal `json:"price" bson:"price"`
	Image     string          `json:"image,omitempty" bson:"image,omitempty"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" bson:"updated_at"`
}

func (m *MenuItem) SetTimestamps() {
	now := time.Now()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
}

// MenuItemForm is the multipart form used by the admin menu editor.
type MenuItemForm struct {
	Name       string `form:"name" binding:"required"`
	Price      string `form:"price" binding:"required"`
	ClearImage bool   `form:"clearImage"`
}
