// Package domain contains persistence models for orders consumed by the
// fulfillment engine.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Order is a completed storefront purchase.
type Order struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	CustomerID   snowflake.ID `gorm:"index"`
	BillingEmail string       `gorm:"type:text;not null"`

	// SubscriptionRenewalID is set when the order was generated by a
	// subscription renewal; zero otherwise.
	SubscriptionRenewalID snowflake.ID `gorm:"index"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Order) TableName() string { return "orders" }

// OrderItem is one purchased line on an order. Items are processed in
// insertion order.
type OrderItem struct {
	ID        snowflake.ID      `gorm:"primaryKey"`
	OrderID   snowflake.ID      `gorm:"not null;index"`
	ProductID snowflake.ID      `gorm:"not null"`
	Quantity  int               `gorm:"not null;default:1"`
	Meta      datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (OrderItem) TableName() string { return "order_items" }

// OrderMeta is an order-level key/value flag.
type OrderMeta struct {
	OrderID   snowflake.ID `gorm:"primaryKey;autoIncrement:false"`
	MetaKey   string       `gorm:"primaryKey;type:text"`
	MetaValue string       `gorm:"type:text;not null"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (OrderMeta) TableName() string { return "order_meta" }

// OrderSubscription maps a subscription onto the order that originated it.
type OrderSubscription struct {
	SubscriptionID snowflake.ID `gorm:"primaryKey;autoIncrement:false"`
	ParentOrderID  snowflake.ID `gorm:"not null;index"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (OrderSubscription) TableName() string { return "order_subscriptions" }

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, order *Order, items []OrderItem) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Order, error)
	FindItems(ctx context.Context, db *gorm.DB, orderID snowflake.ID) ([]OrderItem, error)
	GetMeta(ctx context.Context, db *gorm.DB, orderID snowflake.ID, key string) (string, error)
	SetMeta(ctx context.Context, db *gorm.DB, orderID snowflake.ID, key, value string) error
	FindSubscriptionParent(ctx context.Context, db *gorm.DB, subscriptionID snowflake.ID) (snowflake.ID, error)
}
