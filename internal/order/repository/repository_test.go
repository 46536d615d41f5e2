package repository

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/licentia/internal/order/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = conn.AutoMigrate(
		&domain.Order{},
		&domain.OrderItem{},
		&domain.OrderMeta{},
		&domain.OrderSubscription{},
	)
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	return conn
}

func TestInsertAndFind(t *testing.T) {
	conn := setupTestDB(t)
	repo := Provide()
	ctx := context.Background()

	order := &domain.Order{ID: 100, CustomerID: 42, BillingEmail: "buyer@example.com"}
	items := []domain.OrderItem{
		{ID: 1, OrderID: 100, ProductID: 7, Quantity: 2},
		{ID: 2, OrderID: 100, ProductID: 9, Quantity: 1, Meta: datatypes.JSONMap{"renewing_key": "KEY-1"}},
	}
	require.NoError(t, repo.Insert(ctx, conn, order, items))

	got, err := repo.FindByID(ctx, conn, 100)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "buyer@example.com", got.BillingEmail)

	missing, err := repo.FindByID(ctx, conn, 999)
	require.NoError(t, err)
	require.Nil(t, missing)

	found, err := repo.FindItems(ctx, conn, 100)
	require.NoError(t, err)
	require.Len(t, found, 2)
	require.Equal(t, snowflake.ID(7), found[0].ProductID)
}

func TestMetaUpsert(t *testing.T) {
	conn := setupTestDB(t)
	repo := Provide()
	ctx := context.Background()

	value, err := repo.GetMeta(ctx, conn, 100, "license_keys_issued")
	require.NoError(t, err)
	require.Empty(t, value)

	require.NoError(t, repo.SetMeta(ctx, conn, 100, "license_keys_issued", "1"))
	value, err = repo.GetMeta(ctx, conn, 100, "license_keys_issued")
	require.NoError(t, err)
	require.Equal(t, "1", value)

	require.NoError(t, repo.SetMeta(ctx, conn, 100, "license_keys_issued", "2"))
	value, err = repo.GetMeta(ctx, conn, 100, "license_keys_issued")
	require.NoError(t, err)
	require.Equal(t, "2", value)

	var count int64
	require.NoError(t, conn.Model(&domain.OrderMeta{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestSubscriptionParentLookup(t *testing.T) {
	conn := setupTestDB(t)
	repo := Provide()
	ctx := context.Background()

	require.NoError(t, conn.Create(&domain.OrderSubscription{SubscriptionID: 900, ParentOrderID: 100}).Error)

	parent, err := repo.FindSubscriptionParent(ctx, conn, 900)
	require.NoError(t, err)
	require.Equal(t, snowflake.ID(100), parent)

	unknown, err := repo.FindSubscriptionParent(ctx, conn, 901)
	require.NoError(t, err)
	require.Equal(t, snowflake.ID(0), unknown)
}
