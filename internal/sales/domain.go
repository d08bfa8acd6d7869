package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sebodigital/internal/catalog"
	"sebodigital/internal/inventory"
)

// PaymentMethod is how the customer paid at the counter.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
	PaymentPix  PaymentMethod = "pix"
)

// Valid reports whether m is one of the accepted payment methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentPix:
		return true
	}
	return false
}

// Sale is one completed point-of-sale transaction. It is immutable after
// creation; TotalAmount is always derived from the items, never set by
// callers.
type Sale struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	PaymentMethod   PaymentMethod   `json:"payment_method" db:"payment_method"`
	CustomerName    string          `json:"customer_name,omitempty" db:"customer_name"`
	CustomerContact string          `json:"customer_contact,omitempty" db:"customer_contact"`
	TotalAmount     decimal.Decimal `json:"total_amount" db:"total_amount"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	Items           []SaleItem      `json:"items"`
}

// SaleItem is one line of a sale, priced at the book's price at sale time.
type SaleItem struct {
	SaleID    uuid.UUID       `json:"-" db:"sale_id"`
	BookID    uuid.UUID       `json:"book_id" db:"book_id"`
	Position  int             `json:"position" db:"position"`
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price" db:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total" db:"line_total"`
}

// newSale assembles a sale from priced lines, deriving every line total
// and the grand total.
func newSale(method PaymentMethod, customerName, customerContact string, lines []SaleItem) *Sale {
	sale := &Sale{
		ID:              uuid.New(),
		PaymentMethod:   method,
		CustomerName:    customerName,
		CustomerContact: customerContact,
		TotalAmount:     decimal.Zero,
		CreatedAt:       time.Now().UTC(),
	}
	for i := range lines {
		lines[i].SaleID = sale.ID
		lines[i].Position = i
		lines[i].LineTotal = lines[i].UnitPrice.Mul(decimal.NewFromInt(int64(lines[i].Quantity)))
		sale.TotalAmount = sale.TotalAmount.Add(lines[i].LineTotal)
	}
	sale.Items = lines
	return sale
}

// ListFilter narrows ListSales. Zero values leave the dimension open.
type ListFilter struct {
	PaymentMethod PaymentMethod
	From          time.Time
	To            time.Time
}

// Repository persists sales. CreateSale decrements inventory and inserts
// the sale in one transaction; if any line would take stock negative the
// whole operation fails with InsufficientStockError.
type Repository interface {
	CreateSale(ctx context.Context, sale *Sale) error
	GetSale(ctx context.Context, id uuid.UUID) (*Sale, error)
	ListSales(ctx context.Context, filter ListFilter) ([]*Sale, error)
}

// BookDirectory resolves current prices.
type BookDirectory interface {
	GetBook(ctx context.Context, id uuid.UUID) (*catalog.Book, error)
}

// StockDirectory exposes current quantities for the pre-check.
type StockDirectory interface {
	GetRecord(ctx context.Context, bookID uuid.UUID) (*inventory.Record, error)
}
