package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ImportResult summarizes one marketplace import run.
type ImportResult struct {
	Fetched int `json:"fetched"`
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// Service defines the interface for the order fulfillment service.
type Service interface {
	// UpdateStatus advances an order one step forward; any other change is
	// rejected. The tracking code is stored (and pushed to the
	// marketplace) when moving to shipped.
	UpdateStatus(ctx context.Context, id uuid.UUID, newStatus Status, trackingCode string) (*Order, error)
	Get(ctx context.Context, id uuid.UUID) (*Order, error)
	List(ctx context.Context, filter ListFilter) ([]*Order, error)
	ListOverdue(ctx context.Context, now time.Time) ([]*Order, error)
	// ImportOrders pulls open orders from the marketplace and upserts them
	// by external id. Existing orders keep their local status.
	ImportOrders(ctx context.Context) (*ImportResult, error)
}
