package checkout

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"

	"swiftbites.app/storefront/pkg/global"
	"swiftbites.app/storefront/pkg/logger"
	"swiftbites.app/storefront/pkg/models"
	"swiftbites.app/storefront/pkg/payment"
)

type fakeGateway struct {
	paymentID string
	err       error
	requests  []payment.Request
}

func (f *fakeGateway) Open(_ context.Context, req payment.Request) (string, error) {
	f.requests = append(f.requests, req)
	return f.paymentID, f.err
}

type fakePlacer struct {
	err      error
	requests []models.PlaceOrderRequest
}

func (f *fakePlacer) PlaceOrder(_ context.Context, req models.PlaceOrderRequest) (*models.OrderReceipt, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &models.OrderReceipt{Success: true, Token: "C0FFEE", OrderID: 42, Message: "Payment verified and order confirmed!"}, nil
}

func testState(t *testing.T) State {
	t.Helper()
	cart := models.Cart{}.
		AddItem(models.MenuItem{ID: bson.NewObjectID(), Name: "Veg Burger", Price: decimal.NewFromInt(99)}).
		AddItem(models.MenuItem{ID: bson.NewObjectID(), Name: "Fries", Price: decimal.NewFromInt(50)})
	cart, err := cart.SetPriorityFee(models.PriorityFeeUrgent)
	if err != nil {
		t.Fatal(err)
	}
	return State{Cart: cart, Phone: "9876543210"}
}

func newTestOrchestrator(gw Gateway, placer OrderPlacer) *Orchestrator {
	return NewOrchestrator(gw, placer, Config{}, logger.Discard())
}

func TestSubmit_Success(t *testing.T) {
	gw := &fakeGateway{paymentID: "pay_123"}
	placer := &fakePlacer{}
	state := testState(t)

	next, conf, err := newTestOrchestrator(gw, placer).Submit(context.Background(), state)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if !next.Cart.IsEmpty() || next.Phone != "" {
		t.Errorf("state after success = %+v, want empty", next)
	}
	if conf.Token != "C0FFEE" || conf.OrderID != 42 || conf.PaymentID != "pay_123" {
		t.Errorf("unexpected confirmation %+v", conf)
	}

	req := gw.requests[0]
	if !req.Amount.Equal(decimal.NewFromInt(199)) || req.Currency != "INR" || req.Contact != "+919876543210" {
		t.Errorf("gateway request = %+v", req)
	}

	placed := placer.requests[0]
	if placed.PaymentID != "pay_123" || placed.Phone != "9876543210" || placed.PriorityLevel != models.PriorityUrgent {
		t.Errorf("order request = %+v", placed)
	}
	if !reflect.DeepEqual(placed.Cart, state.Cart.Items) {
		t.Errorf("order cart = %+v, want %+v", placed.Cart, state.Cart.Items)
	}
}

func TestSubmit_Failures(t *testing.T) {
	tests := []struct {
		name        string
		gatewayErr  error
		orderErr    error
		want        error
		wantOrdered bool
	}{
		{"cancelled", fmt.Errorf("%w: link expired", payment.ErrCancelled), nil, ErrPaymentFailed, false},
		{"declined", fmt.Errorf("%w: card declined", payment.ErrFailed), nil, ErrPaymentFailed, false},
		{"gateway unreachable", fmt.Errorf("%w: dial tcp", payment.ErrUnavailable), nil, ErrGatewayUnavailable, false},
		{"order rejected", nil, global.Persistence("Failed to save order", errors.New("db down")), ErrOrderFailed, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeGateway{paymentID: "pay_123", err: tt.gatewayErr}
			placer := &fakePlacer{err: tt.orderErr}
			state := testState(t)

			next, conf, err := newTestOrchestrator(gw, placer).Submit(context.Background(), state)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Submit() error = %v, want %v", err, tt.want)
			}
			if conf != nil {
				t.Errorf("confirmation = %+v, want nil", conf)
			}
			if !reflect.DeepEqual(next, state) {
				t.Errorf("state changed on failure: %+v", next)
			}
			if got := len(placer.requests) > 0; got != tt.wantOrdered {
				t.Errorf("order attempted = %v, want %v", got, tt.wantOrdered)
			}
		})
	}
}

func TestSubmit_RejectsBeforePayment(t *testing.T) {
	tests := []struct {
		name  string
		state func(State) State
		want  error
	}{
		{"short phone", func(s State) State { s.Phone = "98765"; return s }, ErrInvalidPhone},
		{"phone with country code", func(s State) State { s.Phone = "+919876543210"; return s }, ErrInvalidPhone},
		{"empty cart", func(s State) State { s.Cart = s.Cart.Clear(); return s }, ErrEmptyCart},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeGateway{paymentID: "pay_123"}
			state := tt.state(testState(t))

			_, _, err := newTestOrchestrator(gw, &fakePlacer{}).Submit(context.Background(), state)
			if !errors.Is(err, tt.want) || !errors.Is(err, global.ErrValidation) {
				t.Errorf("Submit() error = %v, want %v", err, tt.want)
			}
			if len(gw.requests) != 0 {
				t.Error("gateway must not be opened for an invalid checkout")
			}
		})
	}
}

func TestCanCheckout(t *testing.T) {
	full := testState(t).Cart
	tests := []struct {
		name  string
		cart  models.Cart
		phone string
		want  bool
	}{
		{"ready", full, "9876543210", true},
		{"empty cart", models.Cart{}, "9876543210", false},
		{"nine digits", full, "987654321", false},
		{"letters", full, "98765abcde", false},
		{"no phone", full, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanCheckout(tt.cart, tt.phone); got != tt.want {
				t.Errorf("CanCheckout() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQuote(t *testing.T) {
	o := NewOrchestrator(nil, nil, Config{Currency: "INR", CountryCode: "+91"}, logger.Discard())

	q, err := o.Quote(testState(t))
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	if !q.Amount.Equal(decimal.NewFromInt(199)) || q.AmountPaise != 19900 {
		t.Errorf("amount = %s (%d paise)", q.Amount, q.AmountPaise)
	}
	if q.Contact != "+919876543210" || q.PriorityLevel != models.PriorityUrgent || q.ItemCount != 2 {
		t.Errorf("unexpected quote %+v", q)
	}
}
