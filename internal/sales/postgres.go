package sales

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"sebodigital/internal/domain"
)

// postgresRepository implements Repository on top of postgres.
type postgresRepository struct {
	db     *sqlx.DB
	tracer trace.Tracer
}

// NewPostgresRepository creates the postgres-backed sales repository.
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{
		db:     db,
		tracer: otel.Tracer("sebodigital/sales"),
	}
}

// CreateSale decrements every line's stock and inserts the sale in one
// transaction. The guarded UPDATE keeps quantity from ever going negative
// even under concurrent checkouts of the same book.
func (r *postgresRepository) CreateSale(ctx context.Context, sale *Sale) error {
	ctx, span := r.tracer.Start(ctx, "sales.create",
		trace.WithAttributes(
			attribute.String("sale.id", sale.ID.String()),
			attribute.Int("sale.lines", len(sale.Items)),
		),
	)
	defer span.End()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, item := range sale.Items {
		res, err := tx.ExecContext(ctx, `
			UPDATE inventory
			SET quantity = quantity - $1, updated_at = NOW()
			WHERE book_id = $2 AND quantity >= $1
		`, item.Quantity, item.BookID)
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			var available int
			err := tx.QueryRowContext(ctx, `SELECT quantity FROM inventory WHERE book_id = $1`, item.BookID).Scan(&available)
			if errors.Is(err, sql.ErrNoRows) {
				return &domain.NotFoundError{Entity: "inventory record", Key: item.BookID.String()}
			}
			if err != nil {
				return fmt.Errorf("read stock: %w", err)
			}
			return &domain.InsufficientStockError{
				BookID:    item.BookID.String(),
				Requested: item.Quantity,
				Available: available,
			}
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sales (id, payment_method, customer_name, customer_contact, total_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, sale.ID, sale.PaymentMethod, sale.CustomerName, sale.CustomerContact, sale.TotalAmount, sale.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}

	for _, item := range sale.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO sale_items (sale_id, book_id, position, quantity, unit_price, line_total)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, item.SaleID, item.BookID, item.Position, item.Quantity, item.UnitPrice, item.LineTotal)
		if err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	span.SetAttributes(attribute.String("sale.total", sale.TotalAmount.String()))
	return nil
}

func (r *postgresRepository) GetSale(ctx context.Context, id uuid.UUID) (*Sale, error) {
	sale := &Sale{}
	err := r.db.GetContext(ctx, sale, `
		SELECT id, payment_method, customer_name, customer_contact, total_amount, created_at
		FROM sales WHERE id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "sale", Key: id.String()}
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}

	err = r.db.SelectContext(ctx, &sale.Items, `
		SELECT sale_id, book_id, position, quantity, unit_price, line_total
		FROM sale_items WHERE sale_id = $1 ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get sale items: %w", err)
	}
	return sale, nil
}

func (r *postgresRepository) ListSales(ctx context.Context, filter ListFilter) ([]*Sale, error) {
	query := `
		SELECT id, payment_method, customer_name, customer_contact, total_amount, created_at
		FROM sales WHERE 1=1
	`
	args := []interface{}{}
	n := 0

	if filter.PaymentMethod != "" {
		n++
		query += fmt.Sprintf(" AND payment_method = $%d", n)
		args = append(args, filter.PaymentMethod)
	}
	if !filter.From.IsZero() {
		n++
		query += fmt.Sprintf(" AND created_at >= $%d", n)
		args = append(args, filter.From)
	}
	if !filter.To.IsZero() {
		n++
		query += fmt.Sprintf(" AND created_at < $%d", n)
		args = append(args, filter.To)
	}
	query += " ORDER BY created_at DESC"

	var sales []*Sale
	if err := r.db.SelectContext(ctx, &sales, query, args...); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}

	for _, sale := range sales {
		err := r.db.SelectContext(ctx, &sale.Items, `
			SELECT sale_id, book_id, position, quantity, unit_price, line_total
			FROM sale_items WHERE sale_id = $1 ORDER BY position
		`, sale.ID)
		if err != nil {
			return nil, fmt.Errorf("list sale items: %w", err)
		}
	}
	return sales, nil
}
