package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sebodigital/internal/domain"
)

func setup() (Service, *mockRepository) {
	repo := newMockRepository()
	svc := NewService(repo, nil)
	return svc, repo
}

func TestAddBook(t *testing.T) {
	svc, repo := setup()
	ctx := context.Background()

	book, err := svc.AddBook(ctx, NewBook{
		Title:    "Grande Sertão: Veredas",
		Author:   "João Guimarães Rosa",
		Price:    decimal.RequireFromString("45.50"),
		Quantity: 3,
	})
	require.NoError(t, err)
	require.NotNil(t, book)

	assert.Equal(t, "Grande Sertão: Veredas", book.Title)
	assert.True(t, decimal.RequireFromString("45.50").Equal(book.Price))
	assert.Equal(t, "usado", book.Condition, "condition defaults for a used bookstore")
	assert.NotEmpty(t, book.Code, "a code is generated when none is given")

	saved, err := repo.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, book.Code, saved.Code)
	assert.Equal(t, 3, repo.quantities[book.ID])
}

func TestAddBookValidation(t *testing.T) {
	svc, _ := setup()
	ctx := context.Background()

	var validation *domain.ValidationError

	_, err := svc.AddBook(ctx, NewBook{Price: decimal.NewFromInt(10)})
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "title", validation.Field)

	_, err = svc.AddBook(ctx, NewBook{Title: "x", Price: decimal.NewFromInt(-1)})
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "price", validation.Field)

	_, err = svc.AddBook(ctx, NewBook{Title: "x", Quantity: -2})
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "quantity", validation.Field)
}

func TestAddBookDuplicateCode(t *testing.T) {
	svc, _ := setup()
	ctx := context.Background()

	_, err := svc.AddBook(ctx, NewBook{Code: "LV-1", Title: "a", Price: decimal.NewFromInt(1)})
	require.NoError(t, err)

	_, err = svc.AddBook(ctx, NewBook{Code: "LV-1", Title: "b", Price: decimal.NewFromInt(1)})
	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "code", validation.Field)
}

func TestUpdateBookDescriptiveFieldsOnly(t *testing.T) {
	svc, _ := setup()
	ctx := context.Background()

	book, err := svc.AddBook(ctx, NewBook{Title: "Vidas Secas", Price: decimal.NewFromInt(20)})
	require.NoError(t, err)

	newTitle := "Vidas Secas (2a ed.)"
	newPrice := decimal.RequireFromString("25.00")
	updated, err := svc.UpdateBook(ctx, book.ID, BookUpdate{Title: &newTitle, Price: &newPrice})
	require.NoError(t, err)

	assert.Equal(t, newTitle, updated.Title)
	assert.True(t, newPrice.Equal(updated.Price))
	assert.Equal(t, book.Code, updated.Code, "code never changes")
	assert.Equal(t, book.ID, updated.ID)
}

func TestRemoveBookStillReferenced(t *testing.T) {
	svc, repo := setup()
	ctx := context.Background()

	book, err := svc.AddBook(ctx, NewBook{Title: "x", Price: decimal.NewFromInt(1), Quantity: 2})
	require.NoError(t, err)

	err = svc.RemoveBook(ctx, book.ID)
	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)

	_, err = repo.GetBook(ctx, book.ID)
	assert.NoError(t, err, "a rejected delete leaves the book in place")
}

func TestShelfLifecycle(t *testing.T) {
	svc, repo := setup()
	ctx := context.Background()

	shelf, err := svc.CreateShelf(ctx, "A1", 50)
	require.NoError(t, err)
	assert.Equal(t, "A1", shelf.Name)

	_, err = svc.CreateShelf(ctx, "A1", 10)
	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "name", validation.Field)

	// a shelf holding inventory cannot be removed
	repo.shelfRefs[shelf.ID] = 1
	err = svc.RemoveShelf(ctx, shelf.ID)
	require.ErrorAs(t, err, &validation)

	repo.shelfRefs[shelf.ID] = 0
	require.NoError(t, svc.RemoveShelf(ctx, shelf.ID))

	_, err = repo.GetShelf(ctx, shelf.ID)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

type mockRepository struct {
	books      map[uuid.UUID]*Book
	codes      map[string]uuid.UUID
	shelves    map[uuid.UUID]*Shelf
	shelfNames map[string]uuid.UUID
	quantities map[uuid.UUID]int
	shelfRefs  map[uuid.UUID]int
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		books:      make(map[uuid.UUID]*Book),
		codes:      make(map[string]uuid.UUID),
		shelves:    make(map[uuid.UUID]*Shelf),
		shelfNames: make(map[string]uuid.UUID),
		quantities: make(map[uuid.UUID]int),
		shelfRefs:  make(map[uuid.UUID]int),
	}
}

func (m *mockRepository) CreateBook(_ context.Context, book *Book, quantity int, _ uuid.NullUUID) error {
	if _, taken := m.codes[book.Code]; taken {
		return ErrCodeTaken
	}
	clone := *book
	m.books[book.ID] = &clone
	m.codes[book.Code] = book.ID
	m.quantities[book.ID] = quantity
	return nil
}

func (m *mockRepository) GetBook(_ context.Context, id uuid.UUID) (*Book, error) {
	if b, ok := m.books[id]; ok {
		clone := *b
		return &clone, nil
	}
	return nil, &domain.NotFoundError{Entity: "book", Key: id.String()}
}

func (m *mockRepository) GetBookByCode(_ context.Context, code string) (*Book, error) {
	if id, ok := m.codes[code]; ok {
		return m.GetBook(context.Background(), id)
	}
	return nil, &domain.NotFoundError{Entity: "book", Key: code}
}

func (m *mockRepository) UpdateBook(_ context.Context, book *Book) error {
	if _, ok := m.books[book.ID]; !ok {
		return &domain.NotFoundError{Entity: "book", Key: book.ID.String()}
	}
	clone := *book
	m.books[book.ID] = &clone
	return nil
}

func (m *mockRepository) DeleteBook(_ context.Context, id uuid.UUID) error {
	b, ok := m.books[id]
	if !ok {
		return &domain.NotFoundError{Entity: "book", Key: id.String()}
	}
	if m.quantities[id] > 0 {
		return ErrBookReferenced
	}
	delete(m.codes, b.Code)
	delete(m.books, id)
	delete(m.quantities, id)
	return nil
}

func (m *mockRepository) ListBooks(_ context.Context, _ string) ([]*Book, error) {
	list := make([]*Book, 0, len(m.books))
	for _, b := range m.books {
		clone := *b
		list = append(list, &clone)
	}
	return list, nil
}

func (m *mockRepository) CreateShelf(_ context.Context, shelf *Shelf) error {
	if _, taken := m.shelfNames[shelf.Name]; taken {
		return ErrShelfNameTaken
	}
	clone := *shelf
	m.shelves[shelf.ID] = &clone
	m.shelfNames[shelf.Name] = shelf.ID
	return nil
}

func (m *mockRepository) GetShelf(_ context.Context, id uuid.UUID) (*Shelf, error) {
	if s, ok := m.shelves[id]; ok {
		clone := *s
		return &clone, nil
	}
	return nil, &domain.NotFoundError{Entity: "shelf", Key: id.String()}
}

func (m *mockRepository) ListShelves(_ context.Context) ([]*Shelf, error) {
	list := make([]*Shelf, 0, len(m.shelves))
	for _, s := range m.shelves {
		clone := *s
		list = append(list, &clone)
	}
	return list, nil
}

func (m *mockRepository) DeleteShelf(_ context.Context, id uuid.UUID) error {
	s, ok := m.shelves[id]
	if !ok {
		return &domain.NotFoundError{Entity: "shelf", Key: id.String()}
	}
	if m.shelfRefs[id] > 0 {
		return ErrShelfInUse
	}
	delete(m.shelfNames, s.Name)
	delete(m.shelves, id)
	return nil
}
