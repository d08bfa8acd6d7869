package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"sebodigital/internal/domain"
)

// postgresRepository implements Repository on top of postgres. Transfer
// writes lock the stock row so concurrent moves of the same book serialize.
type postgresRepository struct {
	db     *sqlx.DB
	tracer trace.Tracer
}

// NewPostgresRepository creates the postgres-backed inventory repository.
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{
		db:     db,
		tracer: otel.Tracer("sebodigital/inventory"),
	}
}

func (r *postgresRepository) GetRecord(ctx context.Context, bookID uuid.UUID) (*Record, error) {
	record := &Record{}
	err := r.db.GetContext(ctx, record, `
		SELECT book_id, shelf_id, quantity, listed_on_marketplace, marketplace_synced_at, updated_at
		FROM inventory WHERE book_id = $1
	`, bookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "inventory record", Key: bookID.String()}
		}
		return nil, fmt.Errorf("get inventory record: %w", err)
	}
	return record, nil
}

// ApplyTransfer moves the record and appends the log entry in one
// transaction. The log is append-only; entries are never updated.
func (r *postgresRepository) ApplyTransfer(ctx context.Context, event *TransferEvent) error {
	ctx, span := r.tracer.Start(ctx, "inventory.apply_transfer",
		trace.WithAttributes(
			attribute.String("book.id", event.BookID.String()),
			attribute.String("shelf.to", event.ToShelf),
			attribute.String("shelf.from", event.FromShelf),
		),
	)
	defer span.End()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Lock the row so a concurrent transfer of the same book waits.
	var currentShelf uuid.NullUUID
	err = tx.QueryRowContext(ctx, `
		SELECT shelf_id FROM inventory WHERE book_id = $1 FOR UPDATE
	`, event.BookID).Scan(&currentShelf)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.NotFoundError{Entity: "inventory record", Key: event.BookID.String()}
		}
		return fmt.Errorf("lock inventory record: %w", err)
	}
	if currentShelf.Valid && currentShelf.UUID == event.ToShelfID {
		return &domain.ValidationError{Field: "to_shelf_id", Reason: "book is already on that shelf"}
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE inventory SET shelf_id = $1, updated_at = NOW() WHERE book_id = $2
	`, event.ToShelfID, event.BookID)
	if err != nil {
		return fmt.Errorf("update shelf: %w", err)
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO transfer_events (book_id, from_shelf_id, from_shelf, to_shelf_id, to_shelf, reason, actor, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, event.BookID, event.FromShelfID, event.FromShelf, event.ToShelfID, event.ToShelf,
		event.Reason, event.Actor, event.CreatedAt).Scan(&event.ID)
	if err != nil {
		return fmt.Errorf("append transfer event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	span.SetAttributes(attribute.Int64("event.id", event.ID))
	return nil
}

func (r *postgresRepository) ListTransfers(ctx context.Context, bookID uuid.UUID) ([]*TransferEvent, error) {
	ctx, span := r.tracer.Start(ctx, "inventory.list_transfers",
		trace.WithAttributes(attribute.String("book.id", bookID.String())),
	)
	defer span.End()

	var events []*TransferEvent
	err := r.db.SelectContext(ctx, &events, `
		SELECT id, book_id, from_shelf_id, from_shelf, to_shelf_id, to_shelf, reason, actor, created_at
		FROM transfer_events
		WHERE book_id = $1
		ORDER BY id DESC
	`, bookID)
	if err != nil {
		return nil, fmt.Errorf("list transfer events: %w", err)
	}

	span.SetAttributes(attribute.Int("events.loaded", len(events)))
	return events, nil
}

func (r *postgresRepository) AddStock(ctx context.Context, bookID uuid.UUID, qty int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE inventory SET quantity = quantity + $1, updated_at = NOW() WHERE book_id = $2
	`, qty, bookID)
	if err != nil {
		return fmt.Errorf("add stock: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.NotFoundError{Entity: "inventory record", Key: bookID.String()}
	}
	return nil
}

func (r *postgresRepository) SetListed(ctx context.Context, bookID uuid.UUID, listed bool, syncedAt time.Time) (*Record, error) {
	record := &Record{}
	err := r.db.GetContext(ctx, record, `
		UPDATE inventory
		SET listed_on_marketplace = $1, marketplace_synced_at = $2, updated_at = NOW()
		WHERE book_id = $3
		RETURNING book_id, shelf_id, quantity, listed_on_marketplace, marketplace_synced_at, updated_at
	`, listed, syncedAt, bookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "inventory record", Key: bookID.String()}
		}
		return nil, fmt.Errorf("set listed flag: %w", err)
	}
	return record, nil
}
