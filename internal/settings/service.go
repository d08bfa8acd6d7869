package settings

import "context"

// Service defines the interface for the settings service.
type Service interface {
	Get(ctx context.Context, key string) (*Setting, error)
	// Set upserts the value: create if absent, overwrite if present.
	Set(ctx context.Context, key, value string) (*Setting, error)
	List(ctx context.Context) ([]*Setting, error)

	RegisterStaff(ctx context.Context, username, displayName, password string) (*StaffAccount, error)
	// Authenticate verifies staff credentials. Attempts are rate limited.
	Authenticate(ctx context.Context, username, password string) (*StaffAccount, error)
}
