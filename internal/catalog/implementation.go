package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"sebodigital/internal/domain"
)

// service implements the Service interface.
type service struct {
	repo   Repository
	lookup MetadataLookup
}

// NewService creates a new catalog service instance.
func NewService(repo Repository, lookup MetadataLookup) Service {
	return &service{repo: repo, lookup: lookup}
}

// AddBook catalogs a title and opens its inventory record.
func (s *service) AddBook(ctx context.Context, in NewBook) (*Book, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, &domain.ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if in.Price.IsNegative() {
		return nil, &domain.ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if in.Quantity < 0 {
		return nil, &domain.ValidationError{Field: "quantity", Reason: "must not be negative"}
	}

	if in.ShelfID.Valid {
		if _, err := s.repo.GetShelf(ctx, in.ShelfID.UUID); err != nil {
			return nil, err
		}
	}

	id := uuid.New()
	code := strings.TrimSpace(in.Code)
	if code == "" {
		code = generateCode(id)
	}
	condition := in.Condition
	if condition == "" {
		condition = "usado"
	}

	now := time.Now().UTC()
	book := &Book{
		ID:            id,
		Code:          code,
		ISBN:          strings.TrimSpace(in.ISBN),
		Title:         strings.TrimSpace(in.Title),
		Author:        strings.TrimSpace(in.Author),
		Category:      in.Category,
		Price:         in.Price,
		Condition:     condition,
		Pages:         in.Pages,
		PublishedYear: in.PublishedYear,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.CreateBook(ctx, book, in.Quantity, in.ShelfID); err != nil {
		if errors.Is(err, ErrCodeTaken) {
			return nil, &domain.ValidationError{Field: "code", Reason: "already in use"}
		}
		return nil, fmt.Errorf("create book: %w", err)
	}

	return book, nil
}

// generateCode derives a short human-readable code from the book id.
func generateCode(id uuid.UUID) string {
	return "LV-" + strings.ToUpper(id.String()[:8])
}

func (s *service) GetBook(ctx context.Context, id uuid.UUID) (*Book, error) {
	return s.repo.GetBook(ctx, id)
}

func (s *service) GetBookByCode(ctx context.Context, code string) (*Book, error) {
	return s.repo.GetBookByCode(ctx, code)
}

// UpdateBook changes descriptive fields only; identity fields (code, ISBN)
// are immutable after creation.
func (s *service) UpdateBook(ctx context.Context, id uuid.UUID, in BookUpdate) (*Book, error) {
	book, err := s.repo.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, &domain.ValidationError{Field: "title", Reason: "must not be empty"}
		}
		book.Title = strings.TrimSpace(*in.Title)
	}
	if in.Author != nil {
		book.Author = strings.TrimSpace(*in.Author)
	}
	if in.Category != nil {
		book.Category = *in.Category
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, &domain.ValidationError{Field: "price", Reason: "must not be negative"}
		}
		book.Price = *in.Price
	}
	if in.Condition != nil {
		book.Condition = *in.Condition
	}
	book.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}
	return book, nil
}

func (s *service) RemoveBook(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteBook(ctx, id); err != nil {
		if errors.Is(err, ErrBookReferenced) {
			return &domain.ValidationError{Field: "id", Reason: "book still has stock or sale history"}
		}
		return err
	}
	return nil
}

func (s *service) ListBooks(ctx context.Context, query string) ([]*Book, error) {
	return s.repo.ListBooks(ctx, strings.TrimSpace(query))
}

// LookupISBN queries the external catalog; it never touches the store.
func (s *service) LookupISBN(ctx context.Context, isbn string) (*Metadata, error) {
	isbn = strings.ReplaceAll(strings.TrimSpace(isbn), "-", "")
	if isbn == "" {
		return nil, &domain.ValidationError{Field: "isbn", Reason: "must not be empty"}
	}
	meta, err := s.lookup.Lookup(ctx, isbn)
	if err != nil {
		return nil, fmt.Errorf("isbn lookup: %w", err)
	}
	return meta, nil
}

func (s *service) CreateShelf(ctx context.Context, name string, capacity int) (*Shelf, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &domain.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if capacity < 0 {
		return nil, &domain.ValidationError{Field: "capacity", Reason: "must not be negative"}
	}

	shelf := &Shelf{
		ID:        uuid.New(),
		Name:      name,
		Capacity:  capacity,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateShelf(ctx, shelf); err != nil {
		if errors.Is(err, ErrShelfNameTaken) {
			return nil, &domain.ValidationError{Field: "name", Reason: "already in use"}
		}
		return nil, fmt.Errorf("create shelf: %w", err)
	}
	return shelf, nil
}

func (s *service) ListShelves(ctx context.Context) ([]*Shelf, error) {
	return s.repo.ListShelves(ctx)
}

func (s *service) RemoveShelf(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteShelf(ctx, id); err != nil {
		if errors.Is(err, ErrShelfInUse) {
			return &domain.ValidationError{Field: "id", Reason: "shelf still holds inventory"}
		}
		return err
	}
	return nil
}
