package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"swiftbites.app/storefront/pkg/global"
	"swiftbites.app/storefront/pkg/models"
	"swiftbites.app/storefront/pkg/notify"
)

const (
	maxTokenAttempts     = 5
	defaultNotifyTimeout = 15 * time.Second
	confirmedMessage     = "Payment verified and order confirmed!"
)

// Store persists orders. Implementations report a missing order with an
// error wrapping global.ErrNotFound and a token collision with
// models.ErrDuplicateToken.
type Store interface {
	Insert(ctx context.Context, order *models.Order) (int64, error)
	List(ctx context.Context) ([]models.Order, error)
	Advance(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, bool, error)
}

// Notifier delivers a text message to a customer phone.
type Notifier interface {
	Send(ctx context.Context, phone, text string) error
}

type Service struct {
	store         Store
	notifier      Notifier
	log           *slog.Logger
	now           func() time.Time
	newToken      func() (string, error)
	notifyTimeout time.Duration

	inflight sync.WaitGroup
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithTokenGenerator(gen func() (string, error)) Option {
	return func(s *Service) { s.newToken = gen }
}

func WithNotifyTimeout(d time.Duration) Option {
	return func(s *Service) { s.notifyTimeout = d }
}

// NewService wires the order workflow. notifier may be nil.
func NewService(store Store, notifier Notifier, log *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:         store,
		notifier:      notifier,
		log:           log,
		now:           time.Now,
		newToken:      models.GenerateToken,
		notifyTimeout: defaultNotifyTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceOrder records a paid order and returns its pickup receipt. Line
// prices are taken from the submission as-is.
func (s *Service) PlaceOrder(ctx context.Context, req models.PlaceOrderRequest) (*models.OrderReceipt, error) {
	if verr := validatePlaceOrder(&req); verr != nil {
		return nil, verr
	}

	level := req.PriorityLevel
	if level == "" {
		level = models.PriorityNormal
	}

	date, clock := models.StampDate(s.now())
	order := &models.Order{
		Item:          models.SummarizeItems(req.Cart),
		Phone:         req.Phone,
		Amount:        models.ItemsTotal(req.Cart).Add(level.Fee().Amount()),
		Date:          date,
		Time:          clock,
		Status:        models.StatusPending,
		PaymentID:     req.PaymentID,
		PaymentStatus: models.PaymentPaid,
		PriorityLevel: level,
	}

	if err := s.insert(ctx, order); err != nil {
		return nil, err
	}

	s.log.Info("order placed",
		"order_id", order.ID,
		"token", order.Token,
		"amount", order.Amount.StringFixed(2),
		"priority_level", order.PriorityLevel,
	)
	s.notify(ctx, order, notify.OrderConfirmation(order.Token))

	return &models.OrderReceipt{
		Success: true,
		Token:   order.Token,
		OrderID: order.ID,
		Message: confirmedMessage,
	}, nil
}

// insert stores order under a fresh token, retrying on collisions.
func (s *Service) insert(ctx context.Context, order *models.Order) error {
	for attempt := 1; attempt <= maxTokenAttempts; attempt++ {
		token, err := s.newToken()
		if err != nil {
			return global.Persistence("Failed to save order", err)
		}
		order.Token = token

		id, err := s.store.Insert(ctx, order)
		if errors.Is(err, models.ErrDuplicateToken) {
			s.log.Warn("order token collision, retrying", "attempt", attempt)
			continue
		}
		if err != nil {
			s.log.Error("failed to insert order", "error", err)
			return global.Persistence("Failed to save order", err)
		}
		order.ID = id
		return nil
	}
	return global.Persistence("Failed to save order",
		fmt.Errorf("no unique token after %d attempts", maxTokenAttempts))
}

// notify sends text in the background. Delivery problems are logged only.
func (s *Service) notify(ctx context.Context, order *models.Order, text string) {
	if s.notifier == nil {
		return
	}

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()

		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
		defer cancel()

		err := s.notifier.Send(sendCtx, order.Phone, text)
		switch {
		case err == nil:
			s.log.Info("sms sent", "order_id", order.ID)
		case errors.Is(err, notify.ErrDisabled):
			s.log.Debug("sms skipped", "order_id", order.ID, "reason", err)
		default:
			s.log.Warn("failed to send sms", "order_id", order.ID, "error", err)
		}
	}()
}

// Drain blocks until background notifications finish or ctx ends.
func (s *Service) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
