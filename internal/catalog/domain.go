package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrCodeTaken is returned when a book code already exists.
	ErrCodeTaken = errors.New("book code already in use")
	// ErrShelfNameTaken is returned when a shelf name already exists.
	ErrShelfNameTaken = errors.New("shelf name already in use")
	// ErrBookReferenced is returned when a delete would orphan inventory
	// or sale rows.
	ErrBookReferenced = errors.New("book is referenced by inventory or sales")
	// ErrShelfInUse is returned when inventory still points at the shelf.
	ErrShelfInUse = errors.New("shelf still holds inventory")
)

// Book is one catalogued title in the store.
type Book struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	Code          string          `json:"code" db:"code"`
	ISBN          string          `json:"isbn,omitempty" db:"isbn"`
	Title         string          `json:"title" db:"title"`
	Author        string          `json:"author,omitempty" db:"author"`
	Category      string          `json:"category,omitempty" db:"category"`
	Price         decimal.Decimal `json:"price" db:"price"`
	Condition     string          `json:"condition" db:"condition"`
	Pages         int             `json:"pages,omitempty" db:"pages"`
	PublishedYear int             `json:"published_year,omitempty" db:"published_year"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// Shelf is a physical location books are stored on. Capacity is advisory.
type Shelf struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Capacity  int       `json:"capacity,omitempty" db:"capacity"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Metadata is the result of an external ISBN lookup.
type Metadata struct {
	ISBN          string `json:"isbn"`
	Title         string `json:"title"`
	Author        string `json:"author,omitempty"`
	Publisher     string `json:"publisher,omitempty"`
	PublishedYear int    `json:"published_year,omitempty"`
	Pages         int    `json:"pages,omitempty"`
}

// MetadataLookup resolves ISBNs against an external catalog.
type MetadataLookup interface {
	Lookup(ctx context.Context, isbn string) (*Metadata, error)
}

// Repository persists books and shelves.
type Repository interface {
	// CreateBook inserts the book and its inventory record (quantity,
	// optional starting shelf) in one transaction.
	CreateBook(ctx context.Context, book *Book, quantity int, shelfID uuid.NullUUID) error
	GetBook(ctx context.Context, id uuid.UUID) (*Book, error)
	GetBookByCode(ctx context.Context, code string) (*Book, error)
	UpdateBook(ctx context.Context, book *Book) error
	// DeleteBook removes the book; ErrBookReferenced if inventory stock
	// or sale items still reference it.
	DeleteBook(ctx context.Context, id uuid.UUID) error
	ListBooks(ctx context.Context, query string) ([]*Book, error)

	CreateShelf(ctx context.Context, shelf *Shelf) error
	GetShelf(ctx context.Context, id uuid.UUID) (*Shelf, error)
	ListShelves(ctx context.Context) ([]*Shelf, error)
	// DeleteShelf removes the shelf; ErrShelfInUse if inventory records
	// still point at it.
	DeleteShelf(ctx context.Context, id uuid.UUID) error
}
