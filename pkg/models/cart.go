package models

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Cart models. A Cart is a value: every operation returns a new Cart and
// leaves the receiver untouched, so callers own their state explicitly.

var (
	ErrCartItemNotFound   = errors.New("item is not in the cart")
	ErrInvalidPriorityFee = errors.New("priority fee must be one of 0, 10, 30, 50")
)

// PriorityFee is the optional surcharge a customer pays to have the order prepared first.
type PriorityFee int

const (
	PriorityFeeNone   PriorityFee = 0
	PriorityFeeMedium PriorityFee = 10
	PriorityFeeHigh   PriorityFee = 30
	PriorityFeeUrgent PriorityFee = 50
)

var PriorityFees = []PriorityFee{PriorityFeeNone, PriorityFeeMedium, PriorityFeeHigh, PriorityFeeUrgent}

func (f PriorityFee) Valid() bool {
	for _, fee := range PriorityFees {
		if f == fee {
			return true
		}
	}
	return false
}

func (f PriorityFee) Amount() decimal.Decimal {
	return decimal.NewFromInt(int64(f))
}

// Level returns the priority level recorded on the order for this fee tier.
func (f PriorityFee) Level() PriorityLevel {
	switch f {
	case PriorityFeeMedium:
		return PriorityMedium
	case PriorityFeeHigh:
		return PriorityHigh
	case PriorityFeeUrgent:
		return PriorityUrgent
	default:
		return PriorityNormal
	}
}

type CartItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

func (ci CartItem) Subtotal() decimal.Decimal {
	return ci.Price.Mul(decimal.NewFromInt(int64(ci.Quantity)))
}

type Cart struct {
	Items       []CartItem  `json:"items"`
	PriorityFee PriorityFee `json:"priority_fee"`
}

// CartSummary is the Cart plus its derived totals, as returned to clients.
type CartSummary struct {
	SessionID   string          `json:"session_id,omitempty"`
	Items       []CartItem      `json:"items"`
	PriorityFee PriorityFee     `json:"priority_fee"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Total       decimal.Decimal `json:"total"`
	ItemCount   int             `json:"item_count"`
}

func (c Cart) clone() Cart {
	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items, PriorityFee: c.PriorityFee}
}

// AddItem adds one unit of the menu item. Lines are keyed by product name, so
// adding the same product again increments the existing line.
func (c Cart) AddItem(item MenuItem) Cart {
	next := c.clone()
	for i := range next.Items {
		if next.Items[i].Name == item.Name {
			next.Items[i].Quantity++
			return next
		}
	}
	next.Items = append(next.Items, CartItem{
		ID:       item.ID.Hex(),
		Name:     item.Name,
		Price:    item.Price,
		Quantity: 1,
	})
	return next
}

// SetQuantity adds delta to the line's quantity. A line that drops to zero or
// below is removed.
func (c Cart) SetQuantity(id string, delta int) (Cart, error) {
	next := c.clone()
	for i := range next.Items {
		if next.Items[i].ID != id {
			continue
		}
		next.Items[i].Quantity += delta
		if next.Items[i].Quantity <= 0 {
			next.Items = append(next.Items[:i], next.Items[i+1:]...)
		}
		return next, nil
	}
	return c, ErrCartItemNotFound
}

func (c Cart) RemoveItem(id string) Cart {
	next := Cart{PriorityFee: c.PriorityFee, Items: make([]CartItem, 0, len(c.Items))}
	for _, item := range c.Items {
		if item.ID != id {
			next.Items = append(next.Items, item)
		}
	}
	return next
}

// SetPriorityFee replaces the selected tier. Tiers are mutually exclusive.
func (c Cart) SetPriorityFee(fee PriorityFee) (Cart, error) {
	if !fee.Valid() {
		return c, ErrInvalidPriorityFee
	}
	next := c.clone()
	next.PriorityFee = fee
	return next, nil
}

func (c Cart) Clear() Cart {
	return Cart{Items: []CartItem{}}
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

func (c Cart) Subtotal() decimal.Decimal {
	return ItemsTotal(c.Items)
}

// Total is the amount charged at checkout: priority fee plus every line.
func (c Cart) Total() decimal.Decimal {
	return c.PriorityFee.Amount().Add(c.Subtotal())
}

func (c Cart) Summary(sessionID string) CartSummary {
	items := c.Items
	if items == nil {
		items = []CartItem{}
	}
	return CartSummary{
		SessionID:   sessionID,
		Items:       items,
		PriorityFee: c.PriorityFee,
		Subtotal:    c.Subtotal(),
		Total:       c.Total(),
		ItemCount:   c.ItemCount(),
	}
}

func ItemsTotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

type AddToCartRequest struct {
	MenuItemID string `json:"menu_item_id" binding:"required"`
}

type UpdateCartItemRequest struct {
	Delta int `json:"delta" binding:"required"`
}

type SetPriorityRequest struct {
	PriorityFee *PriorityFee `json:"priority_fee" binding:"required"`
}
