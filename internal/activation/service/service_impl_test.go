package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/licentia/internal/activation/domain"
	"github.com/smallbiznis/licentia/internal/activation/repository"
	"github.com/smallbiznis/licentia/internal/clock"
	licensedomain "github.com/smallbiznis/licentia/internal/license/domain"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type mockLicenses struct {
	licenses map[string]*licensedomain.License
}

func (m *mockLicenses) GetByKey(ctx context.Context, key string) (*licensedomain.License, error) {
	return m.licenses[key], nil
}

func (m *mockLicenses) ListByOrder(ctx context.Context, orderID snowflake.ID) ([]licensedomain.License, error) {
	return nil, nil
}

func (m *mockLicenses) RemoveByOrder(ctx context.Context, orderID snowflake.ID) ([]string, error) {
	return nil, nil
}

func setup(t *testing.T, now time.Time) (domain.Service, *mockLicenses) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := conn.AutoMigrate(&domain.Activation{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	node, _ := snowflake.NewNode(1)
	licenses := &mockLicenses{licenses: map[string]*licensedomain.License{}}

	svc := New(Params{
		DB:       conn,
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    clock.NewFakeClock(now),
		Repo:     repository.Provide(),
		Licenses: licenses,
	})
	return svc, licenses
}

func license(key string, limit int, expires *time.Time) *licensedomain.License {
	return &licensedomain.License{
		Key:             key,
		OrderID:         100,
		ActivationEmail: "buyer@example.com",
		ProductID:       7,
		ActivationLimit: limit,
		DateCreated:     time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		DateExpires:     expires,
	}
}

func TestActivateEnforcesLimit(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	svc, licenses := setup(t, now)
	ctx := context.Background()

	licenses.licenses["KEY-1"] = license("KEY-1", 2, nil)

	_, err := svc.Activate(ctx, "KEY-1", "buyer@example.com", "site-a")
	require.NoError(t, err)
	_, err = svc.Activate(ctx, "KEY-1", "buyer@example.com", "site-b")
	require.NoError(t, err)

	_, err = svc.Activate(ctx, "KEY-1", "buyer@example.com", "site-c")
	require.ErrorIs(t, err, domain.ErrLimitReached)

	// Releasing a slot frees it for another instance.
	require.NoError(t, svc.Deactivate(ctx, "KEY-1", "site-a"))
	_, err = svc.Activate(ctx, "KEY-1", "buyer@example.com", "site-c")
	require.NoError(t, err)
}

func TestActivateSameInstanceReusesSlot(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	svc, licenses := setup(t, now)
	ctx := context.Background()

	licenses.licenses["KEY-1"] = license("KEY-1", 1, nil)

	first, err := svc.Activate(ctx, "KEY-1", "buyer@example.com", "site-a")
	require.NoError(t, err)

	second, err := svc.Activate(ctx, "KEY-1", "buyer@example.com", "site-a")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	items, err := svc.ListByLicense(ctx, "KEY-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestActivateUnboundedLimit(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	svc, licenses := setup(t, now)
	ctx := context.Background()

	licenses.licenses["KEY-1"] = license("KEY-1", 0, nil)

	for _, instance := range []string{"a", "b", "c", "d", "e"} {
		_, err := svc.Activate(ctx, "KEY-1", "buyer@example.com", instance)
		require.NoError(t, err)
	}
}

func TestActivateRejections(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	svc, licenses := setup(t, now)
	ctx := context.Background()

	_, err := svc.Activate(ctx, "MISSING", "buyer@example.com", "site-a")
	require.ErrorIs(t, err, domain.ErrLicenseNotFound)

	expired := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	licenses.licenses["OLD"] = license("OLD", 0, &expired)
	_, err = svc.Activate(ctx, "OLD", "buyer@example.com", "site-a")
	require.ErrorIs(t, err, domain.ErrLicenseExpired)

	licenses.licenses["KEY-1"] = license("KEY-1", 0, nil)
	_, err = svc.Activate(ctx, "KEY-1", "other@example.com", "site-a")
	require.ErrorIs(t, err, domain.ErrEmailMismatch)

	_, err = svc.Activate(ctx, "KEY-1", "buyer@example.com", "  ")
	require.ErrorIs(t, err, domain.ErrInvalidInstance)
}

func TestDeactivateUnknownInstance(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	svc, licenses := setup(t, now)
	licenses.licenses["KEY-1"] = license("KEY-1", 0, nil)

	err := svc.Deactivate(context.Background(), "KEY-1", "nope")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
