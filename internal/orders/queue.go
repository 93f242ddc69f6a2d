package orders

import (
	"context"
	"errors"
	"fmt"

	"swiftbites.app/storefront/pkg/global"
	"swiftbites.app/storefront/pkg/models"
	"swiftbites.app/storefront/pkg/notify"
)

// List returns every order in kitchen queue order.
func (s *Service) List(ctx context.Context) ([]models.Order, error) {
	orders, err := s.store.List(ctx)
	if err != nil {
		s.log.Error("failed to list orders", "error", err)
		return nil, global.Persistence("Failed to fetch orders", err)
	}
	models.SortQueue(orders)
	return orders, nil
}

// MarkPrepared moves a pending order to prepared and tells the customer it
// is ready. Orders already prepared or picked up are returned unchanged.
func (s *Service) MarkPrepared(ctx context.Context, id int64) (*models.Order, error) {
	order, changed, err := s.advance(ctx, id, models.StatusPrepared)
	if err != nil {
		return nil, err
	}
	if changed {
		s.notify(ctx, order, notify.ReadyForPickup(order.Token))
	}
	return order, nil
}

func (s *Service) MarkPickedUp(ctx context.Context, id int64) (*models.Order, error) {
	order, _, err := s.advance(ctx, id, models.StatusPickedUp)
	return order, err
}

func (s *Service) advance(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, bool, error) {
	order, changed, err := s.store.Advance(ctx, id, status)
	if errors.Is(err, global.ErrNotFound) {
		return nil, false, global.NotFound(fmt.Sprintf("Order %d not found", id))
	}
	if err != nil {
		s.log.Error("failed to update order status", "order_id", id, "status", status, "error", err)
		return nil, false, global.Persistence("Failed to update order", err)
	}

	if changed {
		s.log.Info("order status changed", "order_id", id, "status", status)
	}
	return order, changed, nil
}
