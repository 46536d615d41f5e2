package repository

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/licentia/internal/catalog/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := conn.AutoMigrate(&domain.Product{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	return conn
}

func TestCreateAndFind(t *testing.T) {
	conn := setupTestDB(t)
	repo := Provide()
	ctx := context.Background()

	parent := &domain.Product{
		ID:              7,
		Name:            "Plugin",
		Licensable:      true,
		ActivationLimit: 5,
		ExpiryAmount:    1,
		ExpiryUnit:      "years",
	}
	variant := &domain.Product{
		ID:           8,
		ParentID:     7,
		Name:         "Plugin - Single Site",
		ExpiryAmount: 30,
		ExpiryUnit:   "days",
	}
	require.NoError(t, repo.Create(ctx, conn, parent))
	require.NoError(t, repo.Create(ctx, conn, variant))

	got, err := repo.FindByID(ctx, conn, 8)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, snowflake.ID(7), got.ParentID)
	require.Equal(t, "days", got.ExpiryUnit)
	require.False(t, got.Licensable)

	top, err := repo.FindByID(ctx, conn, 7)
	require.NoError(t, err)
	require.NotNil(t, top)
	require.True(t, top.Licensable)
	require.Equal(t, 5, top.ActivationLimit)
}

func TestFindByIDUnknownProduct(t *testing.T) {
	conn := setupTestDB(t)
	repo := Provide()

	got, err := repo.FindByID(context.Background(), conn, 999)
	require.NoError(t, err)
	require.Nil(t, got)
}
