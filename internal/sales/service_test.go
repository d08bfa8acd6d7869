package sales

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sebodigital/internal/catalog"
	"sebodigital/internal/domain"
	"sebodigital/internal/inventory"
)

type fixture struct {
	svc   Service
	repo  *mockRepository
	books *mockBooks
	stock *mockStock
}

func setup() *fixture {
	books := &mockBooks{books: make(map[uuid.UUID]*catalog.Book)}
	stock := &mockStock{records: make(map[uuid.UUID]*inventory.Record)}
	repo := &mockRepository{stock: stock, sales: make(map[uuid.UUID]*Sale)}
	return &fixture{
		svc:   NewService(repo, books, stock),
		repo:  repo,
		books: books,
		stock: stock,
	}
}

func (f *fixture) addBook(price string, qty int) uuid.UUID {
	id := uuid.New()
	f.books.books[id] = &catalog.Book{ID: id, Title: "t", Price: decimal.RequireFromString(price)}
	f.stock.records[id] = &inventory.Record{BookID: id, Quantity: qty}
	return id
}

func TestCreateSale(t *testing.T) {
	f := setup()
	ctx := context.Background()
	book := f.addBook("10.00", 5)

	sale, err := f.svc.CreateSale(ctx, SaleInput{
		Items:         []CartItem{{BookID: book, Quantity: 2}},
		PaymentMethod: PaymentCash,
	})
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("20.00").Equal(sale.TotalAmount))
	require.Len(t, sale.Items, 1)
	assert.True(t, decimal.RequireFromString("10.00").Equal(sale.Items[0].UnitPrice))
	assert.True(t, decimal.RequireFromString("20.00").Equal(sale.Items[0].LineTotal))
	assert.Equal(t, 3, f.stock.records[book].Quantity, "stock decremented by the sold quantity")

	stored, err := f.svc.GetSale(ctx, sale.ID)
	require.NoError(t, err)
	assert.True(t, stored.TotalAmount.Equal(sale.TotalAmount))
}

func TestCreateSaleMultipleLines(t *testing.T) {
	f := setup()
	bookA := f.addBook("12.50", 4)
	bookB := f.addBook("7.25", 10)

	sale, err := f.svc.CreateSale(context.Background(), SaleInput{
		Items: []CartItem{
			{BookID: bookA, Quantity: 2},
			{BookID: bookB, Quantity: 3},
		},
		PaymentMethod: PaymentPix,
	})
	require.NoError(t, err)

	// 2*12.50 + 3*7.25 = 46.75
	assert.True(t, decimal.RequireFromString("46.75").Equal(sale.TotalAmount))

	sum := decimal.Zero
	for _, item := range sale.Items {
		sum = sum.Add(item.LineTotal)
	}
	assert.True(t, sum.Equal(sale.TotalAmount), "total always equals the sum of line totals")
	assert.Equal(t, 2, f.stock.records[bookA].Quantity)
	assert.Equal(t, 7, f.stock.records[bookB].Quantity)
}

func TestCreateSaleInsufficientStockIsAllOrNothing(t *testing.T) {
	f := setup()
	bookA := f.addBook("10.00", 5)
	bookB := f.addBook("5.00", 1)

	_, err := f.svc.CreateSale(context.Background(), SaleInput{
		Items: []CartItem{
			{BookID: bookA, Quantity: 2},
			{BookID: bookB, Quantity: 3},
		},
		PaymentMethod: PaymentCard,
	})

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 3, insufficient.Requested)
	assert.Equal(t, 1, insufficient.Available)

	assert.Equal(t, 5, f.stock.records[bookA].Quantity, "no partial decrement")
	assert.Equal(t, 1, f.stock.records[bookB].Quantity)
	assert.Empty(t, f.repo.sales, "no sale persisted")
}

func TestCreateSaleValidation(t *testing.T) {
	f := setup()
	ctx := context.Background()
	book := f.addBook("10.00", 5)

	var validation *domain.ValidationError

	_, err := f.svc.CreateSale(ctx, SaleInput{PaymentMethod: PaymentCash})
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "items", validation.Field)

	_, err = f.svc.CreateSale(ctx, SaleInput{
		Items:         []CartItem{{BookID: book, Quantity: 0}},
		PaymentMethod: PaymentCash,
	})
	require.ErrorAs(t, err, &validation)

	_, err = f.svc.CreateSale(ctx, SaleInput{
		Items:         []CartItem{{BookID: book, Quantity: 1}},
		PaymentMethod: "check",
	})
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "payment_method", validation.Field)

	_, err = f.svc.CreateSale(ctx, SaleInput{
		Items: []CartItem{
			{BookID: book, Quantity: 1},
			{BookID: book, Quantity: 1},
		},
		PaymentMethod: PaymentCash,
	})
	require.ErrorAs(t, err, &validation, "the same book may not appear twice in a cart")

	assert.Equal(t, 5, f.stock.records[book].Quantity, "failed sales never touch stock")
}

func TestCreateSaleUnknownBook(t *testing.T) {
	f := setup()

	_, err := f.svc.CreateSale(context.Background(), SaleInput{
		Items:         []CartItem{{BookID: uuid.New(), Quantity: 1}},
		PaymentMethod: PaymentCash,
	})
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestListSalesFilterValidation(t *testing.T) {
	f := setup()
	_, err := f.svc.ListSales(context.Background(), ListFilter{PaymentMethod: "barter"})
	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)
}

type mockBooks struct {
	books map[uuid.UUID]*catalog.Book
}

func (m *mockBooks) GetBook(_ context.Context, id uuid.UUID) (*catalog.Book, error) {
	if b, ok := m.books[id]; ok {
		return b, nil
	}
	return nil, &domain.NotFoundError{Entity: "book", Key: id.String()}
}

type mockStock struct {
	records map[uuid.UUID]*inventory.Record
}

func (m *mockStock) GetRecord(_ context.Context, bookID uuid.UUID) (*inventory.Record, error) {
	if r, ok := m.records[bookID]; ok {
		clone := *r
		return &clone, nil
	}
	return nil, &domain.NotFoundError{Entity: "inventory record", Key: bookID.String()}
}

// mockRepository mimics the transactional postgres repository: it checks
// every line before decrementing anything.
type mockRepository struct {
	stock *mockStock
	sales map[uuid.UUID]*Sale
}

func (m *mockRepository) CreateSale(_ context.Context, sale *Sale) error {
	for _, item := range sale.Items {
		record, ok := m.stock.records[item.BookID]
		if !ok {
			return &domain.NotFoundError{Entity: "inventory record", Key: item.BookID.String()}
		}
		if record.Quantity < item.Quantity {
			return &domain.InsufficientStockError{
				BookID:    item.BookID.String(),
				Requested: item.Quantity,
				Available: record.Quantity,
			}
		}
	}
	for _, item := range sale.Items {
		m.stock.records[item.BookID].Quantity -= item.Quantity
	}
	m.sales[sale.ID] = sale
	return nil
}

func (m *mockRepository) GetSale(_ context.Context, id uuid.UUID) (*Sale, error) {
	if s, ok := m.sales[id]; ok {
		return s, nil
	}
	return nil, &domain.NotFoundError{Entity: "sale", Key: id.String()}
}

func (m *mockRepository) ListSales(_ context.Context, filter ListFilter) ([]*Sale, error) {
	list := make([]*Sale, 0, len(m.sales))
	for _, s := range m.sales {
		if filter.PaymentMethod != "" && s.PaymentMethod != filter.PaymentMethod {
			continue
		}
		list = append(list, s)
	}
	return list, nil
}
