package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/shopspring/decimal"

	"swiftbites.app/storefront/pkg/global"
	"swiftbites.app/storefront/pkg/models"
	"swiftbites.app/storefront/pkg/payment"
)

var (
	ErrInvalidPhone       = errors.New("please enter a valid 10-digit phone number")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrPaymentFailed      = errors.New("payment failed or was cancelled")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrOrderFailed        = errors.New("payment received but the order could not be placed")
)

var phonePattern = regexp.MustCompile(`^\d{10}$`)

// State is everything the customer has entered before paying.
type State struct {
	Cart  models.Cart
	Phone string
}

type Confirmation struct {
	OrderID   int64           `json:"order_id"`
	Token     string          `json:"token"`
	PaymentID string          `json:"payment_id"`
	Amount    decimal.Decimal `json:"amount"`
	Message   string          `json:"message"`
}

// Quote is the validated charge for a cart, ready to hand to a gateway.
type Quote struct {
	Amount        decimal.Decimal      `json:"amount"`
	AmountPaise   int64                `json:"amount_paise"`
	Currency      string               `json:"currency"`
	Contact       string               `json:"contact"`
	PriorityLevel models.PriorityLevel `json:"priority_level"`
	ItemCount     int                  `json:"item_count"`
}

// Gateway collects a payment and returns its id once the customer has paid.
// Cancellation wraps payment.ErrCancelled, an unreachable gateway wraps
// payment.ErrUnavailable.
type Gateway interface {
	Open(ctx context.Context, req payment.Request) (string, error)
}

type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req models.PlaceOrderRequest) (*models.OrderReceipt, error)
}

type Config struct {
	Currency    string
	CountryCode string
}

type Orchestrator struct {
	gateway Gateway
	orders  OrderPlacer
	cfg     Config
	log     *slog.Logger
}

func NewOrchestrator(gateway Gateway, orders OrderPlacer, cfg Config, log *slog.Logger) *Orchestrator {
	if cfg.Currency == "" {
		cfg.Currency = "INR"
	}
	if cfg.CountryCode == "" {
		cfg.CountryCode = "+91"
	}
	return &Orchestrator{gateway: gateway, orders: orders, cfg: cfg, log: log}
}

func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// CanCheckout reports whether the pay button should be enabled.
func CanCheckout(cart models.Cart, phone string) bool {
	return !cart.IsEmpty() && ValidPhone(phone)
}

func BuildQuote(state State, cfg Config) (*Quote, error) {
	var fields []global.ValidationError
	var cause error

	if state.Cart.IsEmpty() {
		fields = append(fields, global.ValidationError{Field: "cart", Message: ErrEmptyCart.Error(), Code: "required"})
		cause = ErrEmptyCart
	}
	if !ValidPhone(state.Phone) {
		fields = append(fields, global.ValidationError{Field: "phone", Message: ErrInvalidPhone.Error(), Code: "format"})
		cause = errors.Join(cause, ErrInvalidPhone)
	}
	if len(fields) > 0 {
		return nil, &global.Error{Kind: global.ErrValidation, Message: "Cannot check out", Fields: fields, Cause: cause}
	}

	amount := state.Cart.Total()
	return &Quote{
		Amount:        amount,
		AmountPaise:   payment.Paise(amount),
		Currency:      cfg.Currency,
		Contact:       cfg.CountryCode + state.Phone,
		PriorityLevel: state.Cart.PriorityFee.Level(),
		ItemCount:     state.Cart.ItemCount(),
	}, nil
}

func (o *Orchestrator) Quote(state State) (*Quote, error) {
	return BuildQuote(state, o.cfg)
}

// Submit charges the customer for the cart and places the order. On success
// the returned State is empty; on any failure the input state is returned
// unchanged so the customer can retry.
func (o *Orchestrator) Submit(ctx context.Context, state State) (State, *Confirmation, error) {
	quote, err := o.Quote(state)
	if err != nil {
		return state, nil, err
	}

	paymentID, err := o.gateway.Open(ctx, payment.Request{
		Amount:      quote.Amount,
		Currency:    quote.Currency,
		Contact:     quote.Contact,
		Description: fmt.Sprintf("SwiftBites order (%d items)", quote.ItemCount),
	})
	if err != nil {
		if errors.Is(err, payment.ErrUnavailable) {
			o.log.Error("payment gateway unavailable", "error", err)
			return state, nil, fmt.Errorf("%w: %w", ErrGatewayUnavailable, err)
		}
		o.log.Warn("payment not completed", "error", err)
		return state, nil, fmt.Errorf("%w: %w", ErrPaymentFailed, err)
	}

	receipt, err := o.orders.PlaceOrder(ctx, models.PlaceOrderRequest{
		Cart:          state.Cart.Items,
		Phone:         state.Phone,
		PaymentID:     paymentID,
		PriorityLevel: quote.PriorityLevel,
	})
	if err != nil {
		o.log.Error("order submission failed after payment", "payment_id", paymentID, "error", err)
		return state, nil, fmt.Errorf("%w: %w", ErrOrderFailed, err)
	}

	o.log.Info("checkout complete", "order_id", receipt.OrderID, "token", receipt.Token, "payment_id", paymentID)
	return State{Cart: state.Cart.Clear()}, &Confirmation{
		OrderID:   receipt.OrderID,
		Token:     receipt.Token,
		PaymentID: paymentID,
		Amount:    quote.Amount,
		Message:   receipt.Message,
	}, nil
}
