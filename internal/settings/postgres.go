package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"sebodigital/internal/domain"
)

const pqUniqueViolation = "23505"

// postgresRepository implements Repository on top of postgres.
type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates the postgres-backed settings repository.
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetSetting(ctx context.Context, key string) (*Setting, error) {
	setting := &Setting{}
	err := r.db.GetContext(ctx, setting, `
		SELECT key, value, updated_at FROM settings WHERE key = $1
	`, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "setting", Key: key}
		}
		return nil, fmt.Errorf("get setting: %w", err)
	}
	return setting, nil
}

func (r *postgresRepository) UpsertSetting(ctx context.Context, setting *Setting) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`, setting.Key, setting.Value, setting.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert setting: %w", err)
	}
	return nil
}

func (r *postgresRepository) ListSettings(ctx context.Context) ([]*Setting, error) {
	var list []*Setting
	err := r.db.SelectContext(ctx, &list, `
		SELECT key, value, updated_at FROM settings ORDER BY key
	`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	return list, nil
}

func (r *postgresRepository) CreateStaff(ctx context.Context, account *StaffAccount) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO staff_accounts (id, username, display_name, password_hash, salt, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, account.ID, account.Username, account.DisplayName, account.PasswordHash, account.Salt, account.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == pqUniqueViolation {
			return ErrUsernameTaken
		}
		return fmt.Errorf("insert staff account: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetStaffByUsername(ctx context.Context, username string) (*StaffAccount, error) {
	account := &StaffAccount{}
	err := r.db.GetContext(ctx, account, `
		SELECT id, username, display_name, password_hash, salt, created_at
		FROM staff_accounts WHERE username = $1
	`, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "staff account", Key: username}
		}
		return nil, fmt.Errorf("get staff account: %w", err)
	}
	return account, nil
}
