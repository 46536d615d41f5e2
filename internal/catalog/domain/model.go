// Package domain contains catalog models for licensable products.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Product is a sellable product or variant. Variants carry a ParentID and
// inherit licensing settings they leave empty.
type Product struct {
	ID              snowflake.ID      `gorm:"primaryKey"`
	ParentID        snowflake.ID      `gorm:"index"`
	Name            string            `gorm:"type:text;not null"`
	Licensable      bool              `gorm:"not null;default:false"`
	ActivationLimit int               `gorm:"not null;default:0"`
	ExpiryAmount    int               `gorm:"not null;default:0"`
	ExpiryUnit      string            `gorm:"type:text"`
	Metadata        datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt       time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Product) TableName() string { return "catalog_products" }

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, product *Product) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Product, error)
}
