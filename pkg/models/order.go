package models

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrDuplicateToken is returned by an order store when the pickup token is already taken.
var ErrDuplicateToken = errors.New("order token already exists")

type OrderStatus string

const (
	StatusPending  OrderStatus = "pending"
	StatusPrepared OrderStatus = "prepared"
	StatusPickedUp OrderStatus = "pickedup"
)

// Rank orders statuses along the workflow; transitions only move to a higher rank.
func (s OrderStatus) Rank() int {
	switch s {
	case StatusPrepared:
		return 1
	case StatusPickedUp:
		return 2
	default:
		return 0
	}
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

type PriorityLevel string

const (
	PriorityNormal PriorityLevel = "normal"
	PriorityMedium PriorityLevel = "medium"
	PriorityHigh   PriorityLevel = "high"
	PriorityUrgent PriorityLevel = "urgent"
)

func (p PriorityLevel) Valid() bool {
	switch p {
	case PriorityNormal, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Rank is the queue sort key. Unknown levels rank with normal.
func (p PriorityLevel) Rank() int {
	switch p {
	case PriorityMedium:
		return 1
	case PriorityHigh:
		return 2
	case PriorityUrgent:
		return 3
	default:
		return 0
	}
}

func (p PriorityLevel) Fee() PriorityFee {
	switch p {
	case PriorityMedium:
		return PriorityFeeMedium
	case PriorityHigh:
		return PriorityFeeHigh
	case PriorityUrgent:
		return PriorityFeeUrgent
	default:
		return PriorityFeeNone
	}
}

// Order mirrors a row of the orders table; JSON names match the column names.
type Order struct {
	ID            int64           `json:"id"`
	Item          string          `json:"item"`
	Phone         string          `json:"phone"`
	Amount        decimal.Decimal `json:"amount"`
	Date          string          `json:"date"`
	Time          string          `json:"time"`
	Status        OrderStatus     `json:"status"`
	Token         string          `json:"token"`
	PaymentID     string          `json:"payment_id"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	PriorityLevel PriorityLevel   `json:"priority_level"`
}

type PlaceOrderRequest struct {
	Cart          []CartItem    `json:"cart"`
	Phone         string        `json:"phone"`
	PaymentID     string        `json:"payment_id"`
	PriorityLevel PriorityLevel `json:"priority_level"`
}

type OrderReceipt struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	OrderID int64  `json:"orderId"`
	Message string `json:"message"`
}

// SummarizeItems renders the cart as "<name> X <quantity>" lines in cart order.
func SummarizeItems(items []CartItem) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = fmt.Sprintf("%s X %d", item.Name, item.Quantity)
	}
	return strings.Join(lines, "\n")
}

// QueueLess reports whether a is served before b: pending orders first, then
// higher priority, then the older order.
func QueueLess(a, b Order) bool {
	aPending, bPending := a.Status == StatusPending, b.Status == StatusPending
	if aPending != bPending {
		return aPending
	}
	if ar, br := a.PriorityLevel.Rank(), b.PriorityLevel.Rank(); ar != br {
		return ar > br
	}
	return a.ID < b.ID
}

func SortQueue(orders []Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return QueueLess(orders[i], orders[j])
	})
}

// GenerateToken returns a 6 character uppercase hex pickup code.
func GenerateToken() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(b)), nil
}

var indiaStandardTime = time.FixedZone("IST", 5*60*60+30*60)

// StampDate formats the order date and time the way the counter staff read them.
func StampDate(t time.Time) (date, clock string) {
	local := t.In(indiaStandardTime)
	return local.Format("02/01/2006"), local.Format("3:04 pm")
}
