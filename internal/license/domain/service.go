package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// Service exposes license lookups to the rest of the system.
type Service interface {
	// GetByKey returns nil, nil when the key is unknown.
	GetByKey(ctx context.Context, key string) (*License, error)

	ListByOrder(ctx context.Context, orderID snowflake.ID) ([]License, error)

	// RemoveByOrder deletes every license tied to the order and returns the
	// removed keys so callers can cascade cleanup.
	RemoveByOrder(ctx context.Context, orderID snowflake.ID) ([]string, error)
}

var (
	ErrNotFound   = errors.New("not_found")
	ErrInvalidKey = errors.New("invalid_key")
)
