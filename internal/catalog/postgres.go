package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"sebodigital/internal/domain"
)

const pqUniqueViolation = "23505"

// postgresRepository implements Repository on top of postgres.
type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates the postgres-backed catalog repository.
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateBook(ctx context.Context, book *Book, quantity int, shelfID uuid.NullUUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO books (id, code, isbn, title, author, category, price, condition, pages, published_year, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, book.ID, book.Code, book.ISBN, book.Title, book.Author, book.Category,
		book.Price, book.Condition, book.Pages, book.PublishedYear, book.CreatedAt, book.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == pqUniqueViolation {
			return ErrCodeTaken
		}
		return fmt.Errorf("insert book: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO inventory (book_id, shelf_id, quantity)
		VALUES ($1, $2, $3)
	`, book.ID, shelfID, quantity)
	if err != nil {
		return fmt.Errorf("insert inventory record: %w", err)
	}

	return tx.Commit()
}

func (r *postgresRepository) GetBook(ctx context.Context, id uuid.UUID) (*Book, error) {
	book := &Book{}
	err := r.db.GetContext(ctx, book, `
		SELECT id, code, isbn, title, author, category, price, condition, pages, published_year, created_at, updated_at
		FROM books WHERE id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "book", Key: id.String()}
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return book, nil
}

func (r *postgresRepository) GetBookByCode(ctx context.Context, code string) (*Book, error) {
	book := &Book{}
	err := r.db.GetContext(ctx, book, `
		SELECT id, code, isbn, title, author, category, price, condition, pages, published_year, created_at, updated_at
		FROM books WHERE code = $1
	`, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "book", Key: code}
		}
		return nil, fmt.Errorf("get book by code: %w", err)
	}
	return book, nil
}

func (r *postgresRepository) UpdateBook(ctx context.Context, book *Book) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE books
		SET title = $1, author = $2, category = $3, price = $4, condition = $5, updated_at = $6
		WHERE id = $7
	`, book.Title, book.Author, book.Category, book.Price, book.Condition, book.UpdatedAt, book.ID)
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.NotFoundError{Entity: "book", Key: book.ID.String()}
	}
	return nil
}

func (r *postgresRepository) DeleteBook(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var refs int
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE((SELECT quantity FROM inventory WHERE book_id = $1), 0)
		     + (SELECT COUNT(*) FROM sale_items WHERE book_id = $1)
		     + (SELECT COUNT(*) FROM transfer_events WHERE book_id = $1)
	`, id).Scan(&refs)
	if err != nil {
		return fmt.Errorf("count references: %w", err)
	}
	if refs > 0 {
		return ErrBookReferenced
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM inventory WHERE book_id = $1`, id); err != nil {
		return fmt.Errorf("delete inventory record: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.NotFoundError{Entity: "book", Key: id.String()}
	}

	return tx.Commit()
}

func (r *postgresRepository) ListBooks(ctx context.Context, query string) ([]*Book, error) {
	var (
		books []*Book
		err   error
	)
	if query == "" {
		err = r.db.SelectContext(ctx, &books, `
			SELECT id, code, isbn, title, author, category, price, condition, pages, published_year, created_at, updated_at
			FROM books ORDER BY title
		`)
	} else {
		pattern := "%" + query + "%"
		err = r.db.SelectContext(ctx, &books, `
			SELECT id, code, isbn, title, author, category, price, condition, pages, published_year, created_at, updated_at
			FROM books
			WHERE title ILIKE $1 OR author ILIKE $1 OR code ILIKE $1 OR isbn = $2
			ORDER BY title
		`, pattern, query)
	}
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

func (r *postgresRepository) CreateShelf(ctx context.Context, shelf *Shelf) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO shelves (id, name, capacity, created_at)
		VALUES ($1, $2, $3, $4)
	`, shelf.ID, shelf.Name, shelf.Capacity, shelf.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == pqUniqueViolation {
			return ErrShelfNameTaken
		}
		return fmt.Errorf("insert shelf: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetShelf(ctx context.Context, id uuid.UUID) (*Shelf, error) {
	shelf := &Shelf{}
	err := r.db.GetContext(ctx, shelf, `
		SELECT id, name, capacity, created_at FROM shelves WHERE id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "shelf", Key: id.String()}
		}
		return nil, fmt.Errorf("get shelf: %w", err)
	}
	return shelf, nil
}

func (r *postgresRepository) ListShelves(ctx context.Context) ([]*Shelf, error) {
	var shelves []*Shelf
	err := r.db.SelectContext(ctx, &shelves, `
		SELECT id, name, capacity, created_at FROM shelves ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list shelves: %w", err)
	}
	return shelves, nil
}

func (r *postgresRepository) DeleteShelf(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var refs int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM inventory WHERE shelf_id = $1`, id).Scan(&refs); err != nil {
		return fmt.Errorf("count shelf references: %w", err)
	}
	if refs > 0 {
		return ErrShelfInUse
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM shelves WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete shelf: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.NotFoundError{Entity: "shelf", Key: id.String()}
	}

	return tx.Commit()
}
