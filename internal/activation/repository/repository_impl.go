package repository

import (
	"context"

	"github.com/smallbiznis/licentia/internal/activation/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, activation *domain.Activation) error {
	return db.WithContext(ctx).Create(activation).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, activation *domain.Activation) error {
	return db.WithContext(ctx).Exec(
		`UPDATE license_activations
		 SET email = ?, active = ?, activation_date = ?, updated_at = ?
		 WHERE id = ?`,
		activation.Email,
		activation.Active,
		activation.ActivationDate,
		activation.UpdatedAt,
		activation.ID,
	).Error
}

func (r *repo) FindByLicense(ctx context.Context, db *gorm.DB, key string) ([]domain.Activation, error) {
	var items []domain.Activation
	err := db.WithContext(ctx).Raw(
		`SELECT id, license_key, email, instance, active, activation_date, updated_at
		 FROM license_activations WHERE license_key = ? ORDER BY activation_date ASC`,
		key,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindByLicenseAndInstance(ctx context.Context, db *gorm.DB, key, instance string) (*domain.Activation, error) {
	var a domain.Activation
	err := db.WithContext(ctx).Raw(
		`SELECT id, license_key, email, instance, active, activation_date, updated_at
		 FROM license_activations WHERE license_key = ? AND instance = ?`,
		key,
		instance,
	).Scan(&a).Error
	if err != nil {
		return nil, err
	}
	if a.ID == 0 {
		return nil, nil
	}
	return &a, nil
}

func (r *repo) CountActive(ctx context.Context, db *gorm.DB, key string) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM license_activations WHERE license_key = ? AND active = ?`,
		key,
		true,
	).Scan(&count).Error
	return count, err
}

func (r *repo) DeleteByLicenseKeys(ctx context.Context, db *gorm.DB, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	return db.WithContext(ctx).Where("license_key IN ?", keys).Delete(&domain.Activation{}).Error
}
