package settings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrUsernameTaken is returned when a staff username already exists.
	ErrUsernameTaken = errors.New("username already in use")
	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Setting is one branding/configuration entry (logo URL, store name, ...).
// Writes are last-write-wins upserts.
type Setting struct {
	Key       string    `json:"key" db:"key"`
	Value     string    `json:"value" db:"value"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// StaffAccount can change settings through the panel.
type StaffAccount struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	DisplayName  string    `json:"display_name" db:"display_name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Salt         string    `json:"-" db:"salt"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Repository persists settings and staff accounts.
type Repository interface {
	GetSetting(ctx context.Context, key string) (*Setting, error)
	UpsertSetting(ctx context.Context, setting *Setting) error
	ListSettings(ctx context.Context) ([]*Setting, error)

	CreateStaff(ctx context.Context, account *StaffAccount) error
	GetStaffByUsername(ctx context.Context, username string) (*StaffAccount, error)
}
