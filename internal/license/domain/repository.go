package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository is the durable store for licenses, keyed by license key.
type Repository interface {
	// Retrieve looks a license up by exact key match. Returns nil, nil when the
	// key is unknown; callers must check before use. Stored zero expiry dates
	// come back as a nil DateExpires, never as a literal date.
	Retrieve(ctx context.Context, db *gorm.DB, key string) (*License, error)

	// Persist upserts the license. An empty key gets a freshly generated one and
	// the row is inserted; a non-empty key updates every column except the key
	// itself. Returns the license with its key assigned.
	Persist(ctx context.Context, db *gorm.DB, license *License) (*License, error)

	// FindByOrder returns all licenses currently associated with an order.
	FindByOrder(ctx context.Context, db *gorm.DB, orderID snowflake.ID) ([]License, error)

	// DeleteByKeys removes the given licenses.
	DeleteByKeys(ctx context.Context, db *gorm.DB, keys []string) error
}
