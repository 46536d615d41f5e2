package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/licentia/internal/order/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, order *domain.Order, items []domain.OrderItem) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(items).Error
	})
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Order, error) {
	var o domain.Order
	err := db.WithContext(ctx).Raw(
		`SELECT id, customer_id, billing_email, subscription_renewal_id, created_at, updated_at
		 FROM orders WHERE id = ?`,
		id,
	).Scan(&o).Error
	if err != nil {
		return nil, err
	}
	if o.ID == 0 {
		return nil, nil
	}
	return &o, nil
}

func (r *repo) FindItems(ctx context.Context, db *gorm.DB, orderID snowflake.ID) ([]domain.OrderItem, error) {
	var items []domain.OrderItem
	err := db.WithContext(ctx).Raw(
		`SELECT id, order_id, product_id, quantity, meta, created_at
		 FROM order_items WHERE order_id = ? ORDER BY id ASC`,
		orderID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) GetMeta(ctx context.Context, db *gorm.DB, orderID snowflake.ID, key string) (string, error) {
	var m domain.OrderMeta
	err := db.WithContext(ctx).Raw(
		`SELECT order_id, meta_key, meta_value, updated_at
		 FROM order_meta WHERE order_id = ? AND meta_key = ?`,
		orderID,
		key,
	).Scan(&m).Error
	if err != nil {
		return "", err
	}
	return m.MetaValue, nil
}

func (r *repo) SetMeta(ctx context.Context, db *gorm.DB, orderID snowflake.ID, key, value string) error {
	now := time.Now().UTC()
	res := db.WithContext(ctx).Exec(
		`UPDATE order_meta SET meta_value = ?, updated_at = ? WHERE order_id = ? AND meta_key = ?`,
		value,
		now,
		orderID,
		key,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&domain.OrderMeta{
		OrderID:   orderID,
		MetaKey:   key,
		MetaValue: value,
		UpdatedAt: now,
	}).Error
}

func (r *repo) FindSubscriptionParent(ctx context.Context, db *gorm.DB, subscriptionID snowflake.ID) (snowflake.ID, error) {
	var link domain.OrderSubscription
	err := db.WithContext(ctx).Raw(
		`SELECT subscription_id, parent_order_id, created_at
		 FROM order_subscriptions WHERE subscription_id = ?`,
		subscriptionID,
	).Scan(&link).Error
	if err != nil {
		return 0, err
	}
	return link.ParentOrderID, nil
}
