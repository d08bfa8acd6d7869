package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"sebodigital/internal/domain"
)

// service implements the Service interface.
type service struct {
	repo        Repository
	marketplace MarketplaceSource
	tracking    TrackingPusher
}

// NewService creates a new order fulfillment service instance.
func NewService(repo Repository, marketplace MarketplaceSource, tracking TrackingPusher) Service {
	return &service{repo: repo, marketplace: marketplace, tracking: tracking}
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus Status, trackingCode string) (*Order, error) {
	if !newStatus.Valid() {
		return nil, &domain.ValidationError{Field: "status", Reason: "must be one of pending, shipped, delivered"}
	}

	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(newStatus) {
		return nil, &domain.InvalidTransitionError{From: string(order.Status), To: string(newStatus)}
	}

	if newStatus != StatusShipped {
		trackingCode = order.TrackingCode
	}

	updated, err := s.repo.UpdateStatus(ctx, id, order.Status, newStatus, trackingCode)
	if err != nil {
		return nil, err
	}

	// Telling the marketplace about the tracking code is best-effort: the
	// local transition already happened and must not be rolled back.
	if newStatus == StatusShipped && trackingCode != "" {
		if err := s.tracking.PushTracking(ctx, updated.ExternalID, trackingCode); err != nil {
			log.Warn().Err(err).Str("external_id", updated.ExternalID).Msg("failed to push tracking code")
		}
	}

	return updated, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	return s.repo.Get(ctx, id)
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]*Order, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, &domain.ValidationError{Field: "status", Reason: "must be one of pending, shipped, delivered"}
	}
	return s.repo.List(ctx, filter)
}

func (s *service) ListOverdue(ctx context.Context, now time.Time) ([]*Order, error) {
	return s.repo.ListOverdue(ctx, now)
}

func (s *service) ImportOrders(ctx context.Context) (*ImportResult, error) {
	fetched, err := s.marketplace.OpenOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch marketplace orders: %w", err)
	}

	result := &ImportResult{Fetched: len(fetched)}
	for _, order := range fetched {
		if order.ID == uuid.Nil {
			order.ID = uuid.New()
		}
		if order.Status == "" {
			order.Status = StatusPending
		}
		created, err := s.repo.UpsertImported(ctx, order)
		if err != nil {
			return nil, fmt.Errorf("upsert order %s: %w", order.ExternalID, err)
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	log.Info().Int("fetched", result.Fetched).Int("created", result.Created).
		Int("updated", result.Updated).Msg("marketplace import finished")
	return result, nil
}
