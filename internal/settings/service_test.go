package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sebodigital/internal/domain"
)

func setup() (Service, *mockRepository) {
	repo := &mockRepository{
		settings: make(map[string]*Setting),
		staff:    make(map[string]*StaffAccount),
	}
	return NewService(repo), repo
}

func TestSetAndGetSetting(t *testing.T) {
	svc, _ := setup()
	ctx := context.Background()

	first, err := svc.Set(ctx, "store_name", "Sebo da Praça")
	require.NoError(t, err)
	assert.Equal(t, "Sebo da Praça", first.Value)
	assert.False(t, first.UpdatedAt.IsZero())

	// Upsert: the second write wins.
	_, err = svc.Set(ctx, "store_name", "Sebo Digital")
	require.NoError(t, err)

	got, err := svc.Get(ctx, "store_name")
	require.NoError(t, err)
	assert.Equal(t, "Sebo Digital", got.Value)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSetEmptyKeyRejected(t *testing.T) {
	svc, _ := setup()
	_, err := svc.Set(context.Background(), "  ", "x")
	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestGetUnknownSetting(t *testing.T) {
	svc, _ := setup()
	_, err := svc.Get(context.Background(), "logo_url")
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc, _ := setup()
	ctx := context.Background()

	account, err := svc.RegisterStaff(ctx, "Marina", "Marina Souza", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "marina", account.Username, "usernames are lowercased")
	assert.NotEmpty(t, account.PasswordHash)
	assert.NotEqual(t, "correct-horse", account.PasswordHash)

	authed, err := svc.Authenticate(ctx, "MARINA", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, account.ID, authed.ID)

	_, err = svc.Authenticate(ctx, "marina", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterStaffValidation(t *testing.T) {
	svc, _ := setup()
	ctx := context.Background()

	var validation *domain.ValidationError

	_, err := svc.RegisterStaff(ctx, "", "Nameless", "long-enough")
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "username", validation.Field)

	_, err = svc.RegisterStaff(ctx, "shortpw", "Short", "1234567")
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "password", validation.Field)
}

func TestRegisterStaffDuplicateUsername(t *testing.T) {
	svc, _ := setup()
	ctx := context.Background()

	_, err := svc.RegisterStaff(ctx, "ana", "Ana", "long-enough")
	require.NoError(t, err)

	_, err = svc.RegisterStaff(ctx, "ana", "Other Ana", "long-enough")
	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "username", validation.Field)
}

func TestPasswordRoundtrip(t *testing.T) {
	hash, salt, err := hashPassword("segredo-forte")
	require.NoError(t, err)

	ok, err := verifyPassword("segredo-forte", salt, hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = verifyPassword("segredo-errado", salt, hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

type mockRepository struct {
	settings map[string]*Setting
	staff    map[string]*StaffAccount
}

func (m *mockRepository) GetSetting(_ context.Context, key string) (*Setting, error) {
	if s, ok := m.settings[key]; ok {
		return s, nil
	}
	return nil, &domain.NotFoundError{Entity: "setting", Key: key}
}

func (m *mockRepository) UpsertSetting(_ context.Context, setting *Setting) error {
	m.settings[setting.Key] = setting
	return nil
}

func (m *mockRepository) ListSettings(_ context.Context) ([]*Setting, error) {
	list := make([]*Setting, 0, len(m.settings))
	for _, s := range m.settings {
		list = append(list, s)
	}
	return list, nil
}

func (m *mockRepository) CreateStaff(_ context.Context, account *StaffAccount) error {
	if _, ok := m.staff[account.Username]; ok {
		return ErrUsernameTaken
	}
	m.staff[account.Username] = account
	return nil
}

func (m *mockRepository) GetStaffByUsername(_ context.Context, username string) (*StaffAccount, error) {
	if a, ok := m.staff[username]; ok {
		return a, nil
	}
	return nil, &domain.NotFoundError{Entity: "staff account", Key: username}
}
