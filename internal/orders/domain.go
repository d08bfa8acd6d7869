package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the fulfillment state of a marketplace order. Transitions only
// move forward: pending -> shipped -> delivered.
type Status string

const (
	StatusPending   Status = "pending"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusShipped, StatusDelivered:
		return true
	}
	return false
}

// CanTransitionTo reports whether next is the single allowed forward step.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusShipped
	case StatusShipped:
		return next == StatusDelivered
	}
	return false
}

// Order is one order imported from the marketplace.
type Order struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	ExternalID       string     `json:"external_id" db:"external_id"`
	CustomerName     string     `json:"customer_name" db:"customer_name"`
	ShippingAddress  string     `json:"shipping_address,omitempty" db:"shipping_address"`
	Status           Status     `json:"status" db:"status"`
	ShippingDeadline *time.Time `json:"shipping_deadline,omitempty" db:"shipping_deadline"`
	TrackingCode     string     `json:"tracking_code,omitempty" db:"tracking_code"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
	Items            []Item     `json:"items"`
}

// Item is one line of a marketplace order. BookID is set when the listing
// could be matched back to a catalogued book.
type Item struct {
	ID        int64           `json:"id" db:"id"`
	OrderID   uuid.UUID       `json:"-" db:"order_id"`
	BookID    uuid.NullUUID   `json:"book_id" db:"book_id"`
	Title     string          `json:"title" db:"title"`
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price" db:"unit_price"`
}

// ListFilter narrows List. A zero Status leaves it open.
type ListFilter struct {
	Status Status
}

// Repository persists marketplace orders.
type Repository interface {
	Get(ctx context.Context, id uuid.UUID) (*Order, error)
	// UpsertImported inserts the order or, when the external id already
	// exists, refreshes customer and deadline fields while keeping the
	// local status and tracking code. Reports whether a row was created.
	UpsertImported(ctx context.Context, order *Order) (bool, error)
	// UpdateStatus sets status (and tracking code) only if the stored
	// status still equals from; domain.InvalidTransitionError otherwise.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status, trackingCode string) (*Order, error)
	List(ctx context.Context, filter ListFilter) ([]*Order, error)
	// ListOverdue returns pending orders whose deadline is before now.
	ListOverdue(ctx context.Context, now time.Time) ([]*Order, error)
}

// MarketplaceSource pulls open orders from the marketplace.
type MarketplaceSource interface {
	OpenOrders(ctx context.Context) ([]*Order, error)
}

// TrackingPusher reports tracking codes back to the marketplace.
type TrackingPusher interface {
	PushTracking(ctx context.Context, externalID, trackingCode string) error
}
