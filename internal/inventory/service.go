package inventory

import (
	"context"

	"github.com/google/uuid"

	"sebodigital/internal/catalog"
)

// Service defines the interface for the inventory service.
type Service interface {
	// Transfer moves a book to another shelf and appends a log entry.
	Transfer(ctx context.Context, bookID, toShelfID uuid.UUID, reason, actor string) (*TransferEvent, error)
	// CurrentShelf returns the shelf a book sits on, or nil when unshelved.
	CurrentShelf(ctx context.Context, bookID uuid.UUID) (*catalog.Shelf, error)
	GetRecord(ctx context.Context, bookID uuid.UUID) (*Record, error)
	ListTransfers(ctx context.Context, bookID uuid.UUID) ([]*TransferEvent, error)
	// Restock records received copies.
	Restock(ctx context.Context, bookID uuid.UUID, qty int) error
	// SetListed toggles the marketplace listing flag, pushing the listing
	// when turning it on.
	SetListed(ctx context.Context, bookID uuid.UUID, listed bool) (*Record, error)
}
