package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"sebodigital/internal/catalog"
	"sebodigital/internal/domain"
)

const (
	defaultReason = "manual transfer"
	defaultActor  = "system"
)

// service implements the Service interface.
type service struct {
	repo      Repository
	shelves   ShelfDirectory
	books     BookDirectory
	publisher ListingPublisher

	transfers metric.Int64Counter
}

// NewService creates a new inventory service instance.
func NewService(repo Repository, shelves ShelfDirectory, books BookDirectory, publisher ListingPublisher) Service {
	meter := otel.Meter("sebodigital/inventory")
	transfers, _ := meter.Int64Counter("inventory.transfers",
		metric.WithDescription("Completed shelf transfers"))

	return &service{
		repo:      repo,
		shelves:   shelves,
		books:     books,
		publisher: publisher,
		transfers: transfers,
	}
}

// Transfer validates the move and applies it atomically. The record ends
// up pointing at exactly one shelf and the log grows by exactly one entry.
func (s *service) Transfer(ctx context.Context, bookID, toShelfID uuid.UUID, reason, actor string) (*TransferEvent, error) {
	if toShelfID == uuid.Nil {
		return nil, &domain.ValidationError{Field: "to_shelf_id", Reason: "destination shelf is required"}
	}

	record, err := s.repo.GetRecord(ctx, bookID)
	if err != nil {
		return nil, err
	}

	dest, err := s.shelves.GetShelf(ctx, toShelfID)
	if err != nil {
		return nil, err
	}

	if record.ShelfID.Valid && record.ShelfID.UUID == toShelfID {
		return nil, &domain.ValidationError{Field: "to_shelf_id", Reason: "book is already on that shelf"}
	}

	if reason == "" {
		reason = defaultReason
	}
	if actor == "" {
		actor = defaultActor
	}

	event := &TransferEvent{
		BookID:      bookID,
		FromShelfID: record.ShelfID,
		ToShelfID:   dest.ID,
		ToShelf:     dest.Name,
		Reason:      reason,
		Actor:       actor,
		CreatedAt:   time.Now().UTC(),
	}
	if record.ShelfID.Valid {
		from, err := s.shelves.GetShelf(ctx, record.ShelfID.UUID)
		if err != nil {
			return nil, fmt.Errorf("resolve current shelf: %w", err)
		}
		event.FromShelf = from.Name
	}

	if err := s.repo.ApplyTransfer(ctx, event); err != nil {
		return nil, fmt.Errorf("apply transfer: %w", err)
	}

	s.transfers.Add(ctx, 1)
	return event, nil
}

func (s *service) CurrentShelf(ctx context.Context, bookID uuid.UUID) (*catalog.Shelf, error) {
	record, err := s.repo.GetRecord(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !record.ShelfID.Valid {
		return nil, nil
	}
	return s.shelves.GetShelf(ctx, record.ShelfID.UUID)
}

func (s *service) GetRecord(ctx context.Context, bookID uuid.UUID) (*Record, error) {
	return s.repo.GetRecord(ctx, bookID)
}

func (s *service) ListTransfers(ctx context.Context, bookID uuid.UUID) ([]*TransferEvent, error) {
	if _, err := s.repo.GetRecord(ctx, bookID); err != nil {
		return nil, err
	}
	return s.repo.ListTransfers(ctx, bookID)
}

func (s *service) Restock(ctx context.Context, bookID uuid.UUID, qty int) error {
	if qty <= 0 {
		return &domain.ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	if _, err := s.repo.GetRecord(ctx, bookID); err != nil {
		return err
	}
	return s.repo.AddStock(ctx, bookID, qty)
}

func (s *service) SetListed(ctx context.Context, bookID uuid.UUID, listed bool) (*Record, error) {
	record, err := s.repo.GetRecord(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if listed {
		book, err := s.books.GetBook(ctx, bookID)
		if err != nil {
			return nil, err
		}
		err = s.publisher.PublishListing(ctx, Listing{
			Code:      book.Code,
			Title:     book.Title,
			Author:    book.Author,
			Condition: book.Condition,
			Price:     book.Price,
			Quantity:  record.Quantity,
		})
		if err != nil {
			return nil, fmt.Errorf("publish listing: %w", err)
		}
	}

	return s.repo.SetListed(ctx, bookID, listed, time.Now().UTC())
}
