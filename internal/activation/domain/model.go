// Package domain contains activation slots consumed against a license's
// activation limit.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Activation records one instance (site, machine) using a license key.
type Activation struct {
	ID             snowflake.ID `gorm:"primaryKey"`
	LicenseKey     string       `gorm:"type:text;not null;index:ix_activations_key"`
	Email          string       `gorm:"type:text;not null"`
	Instance       string       `gorm:"type:text;not null"`
	Active         bool         `gorm:"not null;default:true"`
	ActivationDate time.Time    `gorm:"not null"`
	UpdatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Activation) TableName() string { return "license_activations" }

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, activation *Activation) error
	Update(ctx context.Context, db *gorm.DB, activation *Activation) error
	FindByLicense(ctx context.Context, db *gorm.DB, key string) ([]Activation, error)
	FindByLicenseAndInstance(ctx context.Context, db *gorm.DB, key, instance string) (*Activation, error)
	CountActive(ctx context.Context, db *gorm.DB, key string) (int64, error)
	DeleteByLicenseKeys(ctx context.Context, db *gorm.DB, keys []string) error
}

// Service manages activation slots for issued licenses.
type Service interface {
	// Activate claims a slot. The license must exist, must not be expired, the
	// email must match the activation email, and a free slot must remain
	// (a zero limit is unbounded). Reactivating the same instance reuses its
	// slot instead of claiming a new one.
	Activate(ctx context.Context, key, email, instance string) (*Activation, error)

	// Deactivate releases the slot held by an instance.
	Deactivate(ctx context.Context, key, instance string) error

	ListByLicense(ctx context.Context, key string) ([]Activation, error)

	// RemoveByLicenseKeys deletes all activations for the given licenses.
	RemoveByLicenseKeys(ctx context.Context, keys []string) error
}

var (
	ErrLicenseNotFound = errors.New("license_not_found")
	ErrLicenseExpired  = errors.New("license_expired")
	ErrEmailMismatch   = errors.New("email_mismatch")
	ErrLimitReached    = errors.New("activation_limit_reached")
	ErrInvalidInstance = errors.New("invalid_instance")
	ErrNotFound        = errors.New("not_found")
)
