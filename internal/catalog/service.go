package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NewBook carries the fields needed to catalog a title.
type NewBook struct {
	Code          string          `json:"code"`
	ISBN          string          `json:"isbn"`
	Title         string          `json:"title"`
	Author        string          `json:"author"`
	Category      string          `json:"category"`
	Price         decimal.Decimal `json:"price"`
	Condition     string          `json:"condition"`
	Pages         int             `json:"pages"`
	PublishedYear int             `json:"published_year"`
	Quantity      int             `json:"quantity"`
	ShelfID       uuid.NullUUID   `json:"shelf_id"`
}

// BookUpdate carries the descriptive fields that may change after creation.
type BookUpdate struct {
	Title     *string          `json:"title"`
	Author    *string          `json:"author"`
	Category  *string          `json:"category"`
	Price     *decimal.Decimal `json:"price"`
	Condition *string          `json:"condition"`
}

// Service defines the interface for the catalog service.
type Service interface {
	AddBook(ctx context.Context, in NewBook) (*Book, error)
	GetBook(ctx context.Context, id uuid.UUID) (*Book, error)
	GetBookByCode(ctx context.Context, code string) (*Book, error)
	UpdateBook(ctx context.Context, id uuid.UUID, in BookUpdate) (*Book, error)
	RemoveBook(ctx context.Context, id uuid.UUID) error
	ListBooks(ctx context.Context, query string) ([]*Book, error)
	LookupISBN(ctx context.Context, isbn string) (*Metadata, error)

	CreateShelf(ctx context.Context, name string, capacity int) (*Shelf, error)
	ListShelves(ctx context.Context) ([]*Shelf, error)
	RemoveShelf(ctx context.Context, id uuid.UUID) error
}
