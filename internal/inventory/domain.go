package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sebodigital/internal/catalog"
)

// Record tracks the current stock state of one book. There is exactly one
// record per book, created alongside it.
type Record struct {
	BookID              uuid.UUID     `json:"book_id" db:"book_id"`
	ShelfID             uuid.NullUUID `json:"shelf_id" db:"shelf_id"`
	Quantity            int           `json:"quantity" db:"quantity"`
	ListedOnMarketplace bool          `json:"listed_on_marketplace" db:"listed_on_marketplace"`
	MarketplaceSyncedAt *time.Time    `json:"marketplace_synced_at,omitempty" db:"marketplace_synced_at"`
	UpdatedAt           time.Time     `json:"updated_at" db:"updated_at"`
}

// TransferEvent is one append-only entry in the movement log. Shelf names
// are snapshotted so history stays readable after a shelf is removed.
type TransferEvent struct {
	ID          int64         `json:"id" db:"id"`
	BookID      uuid.UUID     `json:"book_id" db:"book_id"`
	FromShelfID uuid.NullUUID `json:"from_shelf_id" db:"from_shelf_id"`
	FromShelf   string        `json:"from_shelf,omitempty" db:"from_shelf"`
	ToShelfID   uuid.UUID     `json:"to_shelf_id" db:"to_shelf_id"`
	ToShelf     string        `json:"to_shelf" db:"to_shelf"`
	Reason      string        `json:"reason" db:"reason"`
	Actor       string        `json:"actor" db:"actor"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
}

// Listing is the payload pushed to the marketplace when a book is listed.
type Listing struct {
	Code      string          `json:"code"`
	Title     string          `json:"title"`
	Author    string          `json:"author,omitempty"`
	Condition string          `json:"condition"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Repository persists stock records and the transfer log.
type Repository interface {
	GetRecord(ctx context.Context, bookID uuid.UUID) (*Record, error)
	// ApplyTransfer atomically points the record at event.ToShelfID and
	// appends the event to the log.
	ApplyTransfer(ctx context.Context, event *TransferEvent) error
	ListTransfers(ctx context.Context, bookID uuid.UUID) ([]*TransferEvent, error)
	// AddStock increments quantity by qty (qty > 0).
	AddStock(ctx context.Context, bookID uuid.UUID, qty int) error
	SetListed(ctx context.Context, bookID uuid.UUID, listed bool, syncedAt time.Time) (*Record, error)
}

// ShelfDirectory is the slice of the catalog the transfer path needs.
type ShelfDirectory interface {
	GetShelf(ctx context.Context, id uuid.UUID) (*catalog.Shelf, error)
}

// BookDirectory resolves book data for marketplace listings.
type BookDirectory interface {
	GetBook(ctx context.Context, id uuid.UUID) (*catalog.Book, error)
}

// ListingPublisher pushes listings to the marketplace.
type ListingPublisher interface {
	PublishListing(ctx context.Context, listing Listing) error
}
