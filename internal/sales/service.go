package sales

import (
	"context"

	"github.com/google/uuid"
)

// CartItem is one requested line at checkout.
type CartItem struct {
	BookID   uuid.UUID `json:"book_id"`
	Quantity int       `json:"quantity"`
}

// SaleInput is the checkout request. Prices and totals are intentionally
// absent: they come from the catalog at sale time.
type SaleInput struct {
	Items           []CartItem    `json:"items"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	CustomerName    string        `json:"customer_name"`
	CustomerContact string        `json:"customer_contact"`
}

// Service defines the interface for the sales service.
type Service interface {
	CreateSale(ctx context.Context, in SaleInput) (*Sale, error)
	GetSale(ctx context.Context, id uuid.UUID) (*Sale, error)
	ListSales(ctx context.Context, filter ListFilter) ([]*Sale, error)
}
