package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"sebodigital/internal/domain"
)

// service implements the Service interface.
type service struct {
	repo        Repository
	loginLimits *rate.Limiter
}

// NewService creates a new settings service instance.
func NewService(repo Repository) Service {
	return &service{
		repo:        repo,
		loginLimits: rate.NewLimiter(rate.Every(time.Minute), 10), // 10 attempts per minute
	}
}

func (s *service) Get(ctx context.Context, key string) (*Setting, error) {
	if key == "" {
		return nil, &domain.ValidationError{Field: "key", Reason: "must not be empty"}
	}
	return s.repo.GetSetting(ctx, key)
}

func (s *service) Set(ctx context.Context, key, value string) (*Setting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, &domain.ValidationError{Field: "key", Reason: "must not be empty"}
	}

	setting := &Setting{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	if err := s.repo.UpsertSetting(ctx, setting); err != nil {
		return nil, fmt.Errorf("upsert setting: %w", err)
	}
	return setting, nil
}

func (s *service) List(ctx context.Context) ([]*Setting, error) {
	return s.repo.ListSettings(ctx)
}

func (s *service) RegisterStaff(ctx context.Context, username, displayName, password string) (*StaffAccount, error) {
	username = strings.TrimSpace(strings.ToLower(username))
	if username == "" {
		return nil, &domain.ValidationError{Field: "username", Reason: "must not be empty"}
	}
	if len(password) < 8 {
		return nil, &domain.ValidationError{Field: "password", Reason: "must be at least 8 characters"}
	}

	hash, salt, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &StaffAccount{
		ID:           uuid.New(),
		Username:     username,
		DisplayName:  displayName,
		PasswordHash: hash,
		Salt:         salt,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.CreateStaff(ctx, account); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil, &domain.ValidationError{Field: "username", Reason: "already in use"}
		}
		return nil, fmt.Errorf("create staff account: %w", err)
	}
	return account, nil
}

func (s *service) Authenticate(ctx context.Context, username, password string) (*StaffAccount, error) {
	if !s.loginLimits.Allow() {
		return nil, fmt.Errorf("rate limit exceeded")
	}

	account, err := s.repo.GetStaffByUsername(ctx, strings.TrimSpace(strings.ToLower(username)))
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := verifyPassword(password, account.Salt, account.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return account, nil
}
