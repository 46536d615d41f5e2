package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/licentia/internal/activation/domain"
	"github.com/smallbiznis/licentia/internal/clock"
	licensedomain "github.com/smallbiznis/licentia/internal/license/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	Licenses licensedomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	licenses licensedomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("activation.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		licenses: p.Licenses,
	}
}

func (s *Service) Activate(ctx context.Context, key, email, instance string) (*domain.Activation, error) {
	instance = strings.TrimSpace(instance)
	if instance == "" {
		return nil, domain.ErrInvalidInstance
	}

	license, err := s.licenses.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if license == nil {
		return nil, domain.ErrLicenseNotFound
	}
	if license.IsExpired(s.clock.Now()) {
		return nil, domain.ErrLicenseExpired
	}
	if !strings.EqualFold(strings.TrimSpace(email), license.ActivationEmail) {
		return nil, domain.ErrEmailMismatch
	}

	now := s.clock.Now()

	// An instance re-activating keeps its slot.
	existing, err := s.repo.FindByLicenseAndInstance(ctx, s.db, license.Key, instance)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Active {
			return existing, nil
		}
		if err := s.checkLimit(ctx, license); err != nil {
			return nil, err
		}
		existing.Active = true
		existing.ActivationDate = now
		existing.UpdatedAt = now
		if err := s.repo.Update(ctx, s.db, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	if err := s.checkLimit(ctx, license); err != nil {
		return nil, err
	}

	activation := &domain.Activation{
		ID:             s.genID.Generate(),
		LicenseKey:     license.Key,
		Email:          license.ActivationEmail,
		Instance:       instance,
		Active:         true,
		ActivationDate: now,
		UpdatedAt:      now,
	}
	if err := s.repo.Insert(ctx, s.db, activation); err != nil {
		return nil, err
	}

	s.log.Info("license activated",
		zap.String("license_key", license.Key),
		zap.String("instance", instance),
	)
	return activation, nil
}

func (s *Service) Deactivate(ctx context.Context, key, instance string) error {
	activation, err := s.repo.FindByLicenseAndInstance(ctx, s.db, strings.TrimSpace(key), strings.TrimSpace(instance))
	if err != nil {
		return err
	}
	if activation == nil || !activation.Active {
		return domain.ErrNotFound
	}

	activation.Active = false
	activation.UpdatedAt = s.clock.Now()
	return s.repo.Update(ctx, s.db, activation)
}

func (s *Service) ListByLicense(ctx context.Context, key string) ([]domain.Activation, error) {
	return s.repo.FindByLicense(ctx, s.db, strings.TrimSpace(key))
}

func (s *Service) RemoveByLicenseKeys(ctx context.Context, keys []string) error {
	return s.repo.DeleteByLicenseKeys(ctx, s.db, keys)
}

func (s *Service) checkLimit(ctx context.Context, license *licensedomain.License) error {
	if license.ActivationLimit <= 0 {
		return nil
	}
	active, err := s.repo.CountActive(ctx, s.db, license.Key)
	if err != nil {
		return err
	}
	if active >= int64(license.ActivationLimit) {
		return domain.ErrLimitReached
	}
	return nil
}
