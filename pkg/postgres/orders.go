package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"swiftbites.app/storefront/pkg/global"
	"swiftbites.app/storefront/pkg/models"
)

const (
	uniqueViolation   = "23505"
	tokenConstraint   = "orders_token_key"
	orderSelectFields = `id, COALESCE(item, ''), COALESCE(phone, ''), COALESCE(amount, 0)::text,
		COALESCE(date, ''), COALESCE(time, ''), COALESCE(status, 'pending'), COALESCE(token, ''),
		COALESCE(payment_id, ''), COALESCE(payment_status, 'pending'), COALESCE(priority_level, 'normal')`
)

// Querier is the subset of *pgxpool.Pool the order store uses.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// OrderStore is the system of record for orders.
type OrderStore struct {
	pool Querier
}

func NewOrderStore(pool Querier) *OrderStore {
	return &OrderStore{pool: pool}
}

func (s *OrderStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Insert writes a new order row and returns its id. A token collision is
// reported as models.ErrDuplicateToken so the caller can retry with a new token.
func (s *OrderStore) Insert(ctx context.Context, order *models.Order) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO orders (item, phone, amount, date, time, status, token, payment_id, payment_status, priority_level)
		VALUES ($1, $2, $3::numeric, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		order.Item,
		order.Phone,
		order.Amount.StringFixed(2),
		order.Date,
		order.Time,
		string(order.Status),
		order.Token,
		order.PaymentID,
		string(order.PaymentStatus),
		string(order.PriorityLevel),
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == tokenConstraint {
			return 0, models.ErrDuplicateToken
		}
		return 0, fmt.Errorf("failed to insert order: %w", err)
	}
	return id, nil
}

func (s *OrderStore) List(ctx context.Context) ([]models.Order, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+orderSelectFields+" FROM orders ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}
	return orders, nil
}

func (s *OrderStore) Get(ctx context.Context, id int64) (*models.Order, error) {
	order, err := scanOrder(s.pool.QueryRow(ctx, "SELECT "+orderSelectFields+" FROM orders WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("order %d: %w", id, global.ErrNotFound)
	}
	return order, err
}

// Advance moves the order to status only when that is a step forward in the
// workflow. It returns the order as stored and whether the row changed.
func (s *OrderStore) Advance(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, bool, error) {
	order, err := scanOrder(s.pool.QueryRow(ctx, `
		UPDATE orders SET status = $2
		WHERE id = $1
		  AND (CASE COALESCE(status, 'pending') WHEN 'prepared' THEN 1 WHEN 'pickedup' THEN 2 ELSE 0 END) < $3
		RETURNING `+orderSelectFields,
		id, string(status), status.Rank()))
	if err == nil {
		return order, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return current, false, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var (
		order  models.Order
		amount string
	)
	err := row.Scan(
		&order.ID,
		&order.Item,
		&order.Phone,
		&amount,
		&order.Date,
		&order.Time,
		&order.Status,
		&order.Token,
		&order.PaymentID,
		&order.PaymentStatus,
		&order.PriorityLevel,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}
	if order.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("order %d has invalid amount %q: %w", order.ID, amount, err)
	}
	return &order, nil
}
