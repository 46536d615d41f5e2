package repository

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/licentia/internal/license/domain"
	"github.com/smallbiznis/licentia/internal/license/keygen"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := conn.AutoMigrate(&Row{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	return conn
}

// sequenceGenerator hands out a fixed list of keys, so collision retries can
// be forced.
type sequenceGenerator struct {
	keys []string
	next int
}

func (g *sequenceGenerator) NewKey() string {
	key := g.keys[g.next%len(g.keys)]
	g.next++
	return key
}

func TestPersistAssignsKeyOnce(t *testing.T) {
	conn := setupTestDB(t)
	repo := Provide(keygen.New())
	ctx := context.Background()

	lic := &domain.License{
		OrderID:         snowflake.ID(100),
		ActivationEmail: "buyer@example.com",
		ProductID:       snowflake.ID(7),
		ActivationLimit: 5,
		DateCreated:     time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC),
	}

	persisted, err := repo.Persist(ctx, conn, lic)
	require.NoError(t, err)
	require.NotEmpty(t, persisted.Key)

	key := persisted.Key

	// Updating must never touch the key column.
	persisted.ActivationLimit = 10
	_, err = repo.Persist(ctx, conn, persisted)
	require.NoError(t, err)

	got, err := repo.Retrieve(ctx, conn, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, key, got.Key)
	require.Equal(t, 10, got.ActivationLimit)

	var count int64
	require.NoError(t, conn.Model(&Row{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestPersistRetriesOnKeyCollision(t *testing.T) {
	conn := setupTestDB(t)
	gen := &sequenceGenerator{keys: []string{"DUP-KEY", "DUP-KEY", "FRESH-KEY"}}
	repo := Provide(gen)
	ctx := context.Background()

	first, err := repo.Persist(ctx, conn, &domain.License{
		OrderID:     snowflake.ID(1),
		ProductID:   snowflake.ID(1),
		DateCreated: time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Equal(t, "DUP-KEY", first.Key)

	second, err := repo.Persist(ctx, conn, &domain.License{
		OrderID:     snowflake.ID(2),
		ProductID:   snowflake.ID(1),
		DateCreated: time.Date(2025, time.January, 3, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Equal(t, "FRESH-KEY", second.Key)
}

func TestNonExpiringSentinelRoundTrip(t *testing.T) {
	conn := setupTestDB(t)
	repo := Provide(keygen.New())
	ctx := context.Background()

	eternal, err := repo.Persist(ctx, conn, &domain.License{
		OrderID:     snowflake.ID(100),
		ProductID:   snowflake.ID(7),
		DateCreated: time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	got, err := repo.Retrieve(ctx, conn, eternal.Key)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Nil(t, got.DateExpires, "no expiry must round-trip as no expiry")

	expires := time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC)
	dated, err := repo.Persist(ctx, conn, &domain.License{
		OrderID:     snowflake.ID(101),
		ProductID:   snowflake.ID(7),
		DateCreated: time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC),
		DateExpires: &expires,
	})
	require.NoError(t, err)

	got, err = repo.Retrieve(ctx, conn, dated.Key)
	require.NoError(t, err)
	require.NotNil(t, got.DateExpires)
	require.True(t, got.DateExpires.Equal(expires))

	// Clearing the expiry on update must restore the sentinel, not keep the date.
	got.DateExpires = nil
	_, err = repo.Persist(ctx, conn, got)
	require.NoError(t, err)

	cleared, err := repo.Retrieve(ctx, conn, dated.Key)
	require.NoError(t, err)
	require.Nil(t, cleared.DateExpires)
}

func TestRetrieveUnknownKey(t *testing.T) {
	conn := setupTestDB(t)
	repo := Provide(keygen.New())

	got, err := repo.Retrieve(context.Background(), conn, "NO-SUCH-KEY")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestFindByOrderAndDelete(t *testing.T) {
	conn := setupTestDB(t)
	repo := Provide(keygen.New())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := repo.Persist(ctx, conn, &domain.License{
			OrderID:     snowflake.ID(500),
			ProductID:   snowflake.ID(7),
			DateCreated: time.Date(2025, time.January, 2+i, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
	}
	_, err := repo.Persist(ctx, conn, &domain.License{
		OrderID:     snowflake.ID(501),
		ProductID:   snowflake.ID(7),
		DateCreated: time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	licenses, err := repo.FindByOrder(ctx, conn, snowflake.ID(500))
	require.NoError(t, err)
	require.Len(t, licenses, 3)

	keys := []string{licenses[0].Key, licenses[1].Key, licenses[2].Key}
	require.NoError(t, repo.DeleteByKeys(ctx, conn, keys))

	remaining, err := repo.FindByOrder(ctx, conn, snowflake.ID(500))
	require.NoError(t, err)
	require.Empty(t, remaining)

	other, err := repo.FindByOrder(ctx, conn, snowflake.ID(501))
	require.NoError(t, err)
	require.Len(t, other, 1)
}
