package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"sebodigital/internal/domain"
)

// postgresRepository implements Repository on top of postgres.
type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates the postgres-backed orders repository.
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	order := &Order{}
	err := r.db.GetContext(ctx, order, `
		SELECT id, external_id, customer_name, shipping_address, status, shipping_deadline, tracking_code, created_at, updated_at
		FROM marketplace_orders WHERE id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "order", Key: id.String()}
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *postgresRepository) loadItems(ctx context.Context, order *Order) error {
	err := r.db.SelectContext(ctx, &order.Items, `
		SELECT id, order_id, book_id, title, quantity, unit_price
		FROM marketplace_order_items WHERE order_id = $1 ORDER BY id
	`, order.ID)
	if err != nil {
		return fmt.Errorf("load order items: %w", err)
	}
	return nil
}

func (r *postgresRepository) UpsertImported(ctx context.Context, order *Order) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Local status and tracking code win over the imported snapshot.
	var inserted bool
	err = tx.QueryRowContext(ctx, `
		INSERT INTO marketplace_orders (id, external_id, customer_name, shipping_address, status, shipping_deadline, tracking_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (external_id) DO UPDATE
		SET customer_name = EXCLUDED.customer_name,
		    shipping_address = EXCLUDED.shipping_address,
		    shipping_deadline = EXCLUDED.shipping_deadline,
		    updated_at = NOW()
		RETURNING (xmax = 0)
	`, order.ID, order.ExternalID, order.CustomerName, order.ShippingAddress,
		order.Status, order.ShippingDeadline, order.TrackingCode).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("upsert order: %w", err)
	}

	if inserted {
		for _, item := range order.Items {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO marketplace_order_items (order_id, book_id, title, quantity, unit_price)
				VALUES ($1, $2, $3, $4, $5)
			`, order.ID, item.BookID, item.Title, item.Quantity, item.UnitPrice)
			if err != nil {
				return false, fmt.Errorf("insert order item: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit transaction: %w", err)
	}
	return inserted, nil
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status, trackingCode string) (*Order, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE marketplace_orders
		SET status = $1, tracking_code = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`, to, trackingCode, id, from)
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Either the order vanished or someone advanced it concurrently.
		current, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, &domain.InvalidTransitionError{From: string(current.Status), To: string(to)}
	}
	return r.Get(ctx, id)
}

func (r *postgresRepository) List(ctx context.Context, filter ListFilter) ([]*Order, error) {
	query := `
		SELECT id, external_id, customer_name, shipping_address, status, shipping_deadline, tracking_code, created_at, updated_at
		FROM marketplace_orders
	`
	args := []interface{}{}
	if filter.Status != "" {
		query += " WHERE status = $1"
		args = append(args, filter.Status)
	}
	query += " ORDER BY shipping_deadline NULLS LAST, created_at"

	var list []*Order
	if err := r.db.SelectContext(ctx, &list, query, args...); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	for _, order := range list {
		if err := r.loadItems(ctx, order); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *postgresRepository) ListOverdue(ctx context.Context, now time.Time) ([]*Order, error) {
	var list []*Order
	err := r.db.SelectContext(ctx, &list, `
		SELECT id, external_id, customer_name, shipping_address, status, shipping_deadline, tracking_code, created_at, updated_at
		FROM marketplace_orders
		WHERE status = $1 AND shipping_deadline IS NOT NULL AND shipping_deadline < $2
		ORDER BY shipping_deadline
	`, StatusPending, now)
	if err != nil {
		return nil, fmt.Errorf("list overdue orders: %w", err)
	}
	for _, order := range list {
		if err := r.loadItems(ctx, order); err != nil {
			return nil, err
		}
	}
	return list, nil
}
