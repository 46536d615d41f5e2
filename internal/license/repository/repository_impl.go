// Package repository persists licenses. The storage row encodes "never
// expires" as a zero date; that sentinel never leaks into the domain type.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/licentia/internal/license/domain"
	"github.com/smallbiznis/licentia/internal/license/keygen"
	"github.com/smallbiznis/licentia/pkg/db"
	"gorm.io/gorm"
)

// Row is the gorm model for the licenses table. DateExpires is stored as a
// zero date for non-expiring licenses.
type Row struct {
	Key             string       `gorm:"column:license_key;primaryKey;type:text"`
	OrderID         snowflake.ID `gorm:"column:order_id;not null;index"`
	UserID          snowflake.ID `gorm:"column:user_id"`
	ActivationEmail string       `gorm:"column:activation_email;type:text;not null"`
	ProductID       snowflake.ID `gorm:"column:product_id;not null"`
	ActivationLimit int          `gorm:"column:activation_limit;not null;default:0"`
	DateCreated     time.Time    `gorm:"column:date_created;not null"`
	DateExpires     time.Time    `gorm:"column:date_expires;not null"`
}

func (Row) TableName() string { return "licenses" }

const insertAttempts = 5

var errKeyExhausted = errors.New("license key generation exhausted retries")

type repo struct {
	gen keygen.Generator
}

func Provide(gen keygen.Generator) domain.Repository {
	return &repo{gen: gen}
}

func (r *repo) Retrieve(ctx context.Context, conn *gorm.DB, key string) (*domain.License, error) {
	var row Row
	err := conn.WithContext(ctx).Raw(
		`SELECT license_key, order_id, user_id, activation_email, product_id, activation_limit, date_created, date_expires
		 FROM licenses WHERE license_key = ?`,
		key,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.Key == "" {
		return nil, nil
	}
	lic := toDomain(row)
	return &lic, nil
}

func (r *repo) Persist(ctx context.Context, conn *gorm.DB, license *domain.License) (*domain.License, error) {
	if license.DateCreated.IsZero() {
		license.DateCreated = domain.Midnight(time.Now())
	}

	row := toRow(license)

	if license.Key == "" {
		for attempt := 0; attempt < insertAttempts; attempt++ {
			row.Key = r.gen.NewKey()
			err := conn.WithContext(ctx).Create(&row).Error
			if err == nil {
				license.Key = row.Key
				return license, nil
			}
			if !db.IsDuplicateKeyErr(err) {
				return nil, err
			}
		}
		return nil, errKeyExhausted
	}

	err := conn.WithContext(ctx).Exec(
		`UPDATE licenses
		 SET order_id = ?, user_id = ?, activation_email = ?, product_id = ?, activation_limit = ?, date_created = ?, date_expires = ?
		 WHERE license_key = ?`,
		row.OrderID,
		row.UserID,
		row.ActivationEmail,
		row.ProductID,
		row.ActivationLimit,
		row.DateCreated,
		row.DateExpires,
		license.Key,
	).Error
	if err != nil {
		return nil, err
	}
	return license, nil
}

func (r *repo) FindByOrder(ctx context.Context, conn *gorm.DB, orderID snowflake.ID) ([]domain.License, error) {
	var rows []Row
	err := conn.WithContext(ctx).Raw(
		`SELECT license_key, order_id, user_id, activation_email, product_id, activation_limit, date_created, date_expires
		 FROM licenses WHERE order_id = ? ORDER BY date_created ASC, license_key ASC`,
		orderID,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	items := make([]domain.License, 0, len(rows))
	for _, row := range rows {
		items = append(items, toDomain(row))
	}
	return items, nil
}

func (r *repo) DeleteByKeys(ctx context.Context, conn *gorm.DB, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	return conn.WithContext(ctx).Where("license_key IN ?", keys).Delete(&Row{}).Error
}

func toRow(license *domain.License) Row {
	row := Row{
		Key:             license.Key,
		OrderID:         license.OrderID,
		UserID:          license.UserID,
		ActivationEmail: license.ActivationEmail,
		ProductID:       license.ProductID,
		ActivationLimit: license.ActivationLimit,
		DateCreated:     license.DateCreated,
	}
	if license.DateExpires != nil {
		row.DateExpires = *license.DateExpires
	}
	return row
}

func toDomain(row Row) domain.License {
	lic := domain.License{
		Key:             row.Key,
		OrderID:         row.OrderID,
		UserID:          row.UserID,
		ActivationEmail: row.ActivationEmail,
		ProductID:       row.ProductID,
		ActivationLimit: row.ActivationLimit,
		DateCreated:     row.DateCreated.UTC(),
	}
	// Zero dates (and anything in year 1 or earlier, which is how drivers
	// surface them) mean the license never expires.
	if !row.DateExpires.IsZero() && row.DateExpires.Year() > 1 {
		expires := row.DateExpires.UTC()
		lic.DateExpires = &expires
	}
	return lic
}
