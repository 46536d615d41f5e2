// Package domain defines the fulfillment engine's contract and the
// collaborator ports it consumes. All boundaries are in-process calls.
package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// Line-item metadata keys with engine-level meaning.
const (
	MetaRenewingKey  = "renewing_key"
	MetaUpgradingKey = "upgrading_key"
)

// Order-level marker keys.
const (
	MarkerKeysIssued      = "license_keys_issued"
	MarkerOriginalOrderID = "original_order_id"
)

// LineItem is one purchased position on an order.
type LineItem struct {
	ProductID snowflake.ID
	Quantity  int
	Meta      map[string]string
}

// MetaValue returns the metadata value for key, or "" when absent.
func (i LineItem) MetaValue(key string) string {
	if i.Meta == nil {
		return ""
	}
	return i.Meta[key]
}

// RenewingKey is the externally supplied key this item renews, if any.
func (i LineItem) RenewingKey() string { return i.MetaValue(MetaRenewingKey) }

// UpgradingKey is the externally supplied key this item upgrades, if any.
func (i LineItem) UpgradingKey() string { return i.MetaValue(MetaUpgradingKey) }

// Order is the engine's view of a completed order.
type Order struct {
	ID           snowflake.ID
	BillingEmail string

	// CustomerID is zero for guest purchases.
	CustomerID snowflake.ID

	// SubscriptionRenewalID links the order to the subscription it renews.
	// Zero when the order is not a subscription renewal.
	SubscriptionRenewalID snowflake.ID

	Items []LineItem
}

// Product is the engine's view of a catalog product or variant.
type Product struct {
	ID snowflake.ID

	// ParentID is set for variants and zero otherwise.
	ParentID snowflake.ID

	Licensable bool

	// ActivationLimit of zero means the product does not set one.
	ActivationLimit int

	// ExpiryAmount of zero means licenses for this product do not expire.
	ExpiryAmount int
	ExpiryUnit   string
}

// OrderProvider resolves orders and subscription linkage.
type OrderProvider interface {
	// Get returns nil, nil when no order with this id exists.
	Get(ctx context.Context, orderID snowflake.ID) (*Order, error)

	// ParentOrderOfSubscription returns the originating order of a
	// subscription, or zero when the subscription is unknown.
	ParentOrderOfSubscription(ctx context.Context, subscriptionID snowflake.ID) (snowflake.ID, error)
}

// ProductCatalog resolves product licensing settings.
type ProductCatalog interface {
	// Get returns nil, nil when no product with this id exists.
	Get(ctx context.Context, productID snowflake.ID) (*Product, error)
}

// MarkerStore reads and writes order-level flags: the issued-keys idempotency
// guard and the original-order-id archive.
type MarkerStore interface {
	// Get returns "" when the marker is unset.
	Get(ctx context.Context, orderID snowflake.ID, key string) (string, error)
	Set(ctx context.Context, orderID snowflake.ID, key, value string) error
}

// Service is the fulfillment engine entry point, invoked by the event
// dispatch layer when an order changes state.
type Service interface {
	HandleOrderCompleted(ctx context.Context, orderID snowflake.ID) error
	HandleOrderDeleted(ctx context.Context, orderID snowflake.ID, authorized bool) error
}

var ErrOrderNotFound = errors.New("order_not_found")
