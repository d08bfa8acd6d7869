package sales

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"sebodigital/internal/domain"
)

// service implements the Service interface.
type service struct {
	repo  Repository
	books BookDirectory
	stock StockDirectory

	salesCreated metric.Int64Counter
}

// NewService creates a new sales service instance.
func NewService(repo Repository, books BookDirectory, stock StockDirectory) Service {
	meter := otel.Meter("sebodigital/sales")
	created, _ := meter.Int64Counter("sales.created",
		metric.WithDescription("Completed point-of-sale transactions"))

	return &service{
		repo:         repo,
		books:        books,
		stock:        stock,
		salesCreated: created,
	}
}

// CreateSale checks the whole cart, prices every line at the book's
// current price and commits sale plus stock decrements as one unit. A
// single short line fails the entire sale; nothing is decremented.
func (s *service) CreateSale(ctx context.Context, in SaleInput) (*Sale, error) {
	if len(in.Items) == 0 {
		return nil, &domain.ValidationError{Field: "items", Reason: "cart must not be empty"}
	}
	if !in.PaymentMethod.Valid() {
		return nil, &domain.ValidationError{Field: "payment_method", Reason: "must be one of cash, card, pix"}
	}

	seen := make(map[uuid.UUID]bool, len(in.Items))
	lines := make([]SaleItem, 0, len(in.Items))
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, &domain.ValidationError{Field: "items", Reason: "quantity must be positive"}
		}
		if seen[item.BookID] {
			return nil, &domain.ValidationError{Field: "items", Reason: fmt.Sprintf("book %s appears more than once", item.BookID)}
		}
		seen[item.BookID] = true

		book, err := s.books.GetBook(ctx, item.BookID)
		if err != nil {
			return nil, err
		}
		record, err := s.stock.GetRecord(ctx, item.BookID)
		if err != nil {
			return nil, err
		}
		if record.Quantity < item.Quantity {
			return nil, &domain.InsufficientStockError{
				BookID:    item.BookID.String(),
				Requested: item.Quantity,
				Available: record.Quantity,
			}
		}

		lines = append(lines, SaleItem{
			BookID:    item.BookID,
			Quantity:  item.Quantity,
			UnitPrice: book.Price,
		})
	}

	sale := newSale(in.PaymentMethod, in.CustomerName, in.CustomerContact, lines)

	// The repository re-checks quantities under lock; the pre-check above
	// only exists to fail fast with precise numbers.
	if err := s.repo.CreateSale(ctx, sale); err != nil {
		return nil, err
	}

	s.salesCreated.Add(ctx, 1)
	return sale, nil
}

func (s *service) GetSale(ctx context.Context, id uuid.UUID) (*Sale, error) {
	return s.repo.GetSale(ctx, id)
}

func (s *service) ListSales(ctx context.Context, filter ListFilter) ([]*Sale, error) {
	if filter.PaymentMethod != "" && !filter.PaymentMethod.Valid() {
		return nil, &domain.ValidationError{Field: "payment_method", Reason: "must be one of cash, card, pix"}
	}
	return s.repo.ListSales(ctx, filter)
}
