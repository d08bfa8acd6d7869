package inventory

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sebodigital/internal/config"
	"sebodigital/internal/database"
)

// openTestDB connects to the postgres instance described by POSTGRES_*
// env vars and skips the test when none is reachable.
func openTestDB(t *testing.T) *database.DB {
	t.Helper()

	cfg := config.Config{
		DBHost:     envOr("POSTGRES_HOST", "localhost"),
		DBPort:     envIntOr("POSTGRES_PORT", 5432),
		DBUser:     envOr("POSTGRES_USER", "postgres"),
		DBPassword: envOr("POSTGRES_PASSWORD", "password"),
		DBName:     envOr("POSTGRES_DB", "testdb"),
		DBSSLMode:  "disable",
	}

	db, err := database.New(cfg)
	if err != nil {
		t.Skipf("skipping: could not connect to postgres: %v", err)
	}
	if err := db.SQL.Ping(); err != nil {
		t.Skipf("skipping: could not ping postgres: %v", err)
	}
	require.NoError(t, db.Migrate())
	t.Cleanup(db.Close)
	return db
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func seedBook(t *testing.T, db *database.DB, shelfID uuid.NullUUID) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	bookID := uuid.New()

	_, err := db.SQL.ExecContext(ctx, `
		INSERT INTO books (id, code, title, price, condition)
		VALUES ($1, $2, 'Dom Casmurro', 25.00, 'usado')
	`, bookID, "LV-"+bookID.String()[:8])
	require.NoError(t, err)

	_, err = db.SQL.ExecContext(ctx, `
		INSERT INTO inventory (book_id, shelf_id, quantity) VALUES ($1, $2, 3)
	`, bookID, shelfID)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.SQL.ExecContext(ctx, `DELETE FROM transfer_events WHERE book_id = $1`, bookID)
		db.SQL.ExecContext(ctx, `DELETE FROM inventory WHERE book_id = $1`, bookID)
		db.SQL.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, bookID)
	})
	return bookID
}

func seedShelf(t *testing.T, db *database.DB, name string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := db.SQL.ExecContext(context.Background(), `
		INSERT INTO shelves (id, name) VALUES ($1, $2)
	`, id, name+"-"+id.String()[:8])
	require.NoError(t, err)
	t.Cleanup(func() {
		db.SQL.ExecContext(context.Background(), `DELETE FROM shelves WHERE id = $1`, id)
	})
	return id
}

func TestPostgresApplyTransfer(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostgresRepository(db.SQL)
	ctx := context.Background()

	from := seedShelf(t, db, "A1")
	to := seedShelf(t, db, "B2")
	bookID := seedBook(t, db, uuid.NullUUID{UUID: from, Valid: true})

	event := &TransferEvent{
		BookID:      bookID,
		FromShelfID: uuid.NullUUID{UUID: from, Valid: true},
		FromShelf:   "A1",
		ToShelfID:   to,
		ToShelf:     "B2",
		Reason:      "reorganization",
		Actor:       "marina",
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, repo.ApplyTransfer(ctx, event))
	assert.Positive(t, event.ID)

	record, err := repo.GetRecord(ctx, bookID)
	require.NoError(t, err)
	assert.Equal(t, to, record.ShelfID.UUID)
	assert.Equal(t, 3, record.Quantity, "transfers never change quantity")

	// Moving to the shelf the book is already on is rejected and logs nothing.
	err = repo.ApplyTransfer(ctx, &TransferEvent{
		BookID:    bookID,
		ToShelfID: to,
		ToShelf:   "B2",
		CreatedAt: time.Now().UTC(),
	})
	require.Error(t, err)

	log, err := repo.ListTransfers(ctx, bookID)
	require.NoError(t, err)
	require.Len(t, log, 1)
	assert.Equal(t, "A1", log[0].FromShelf)
	assert.Equal(t, "B2", log[0].ToShelf)
	assert.Equal(t, "reorganization", log[0].Reason)
}

func TestPostgresAddStockAndListing(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostgresRepository(db.SQL)
	ctx := context.Background()

	bookID := seedBook(t, db, uuid.NullUUID{})

	require.NoError(t, repo.AddStock(ctx, bookID, 2))
	record, err := repo.GetRecord(ctx, bookID)
	require.NoError(t, err)
	assert.Equal(t, 5, record.Quantity)

	listed, err := repo.SetListed(ctx, bookID, true, time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, listed.ListedOnMarketplace)
	require.NotNil(t, listed.MarketplaceSyncedAt)
}
