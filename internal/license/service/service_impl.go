package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/licentia/internal/license/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("license.service"),
		repo: p.Repo,
	}
}

func (s *Service) GetByKey(ctx context.Context, key string) (*domain.License, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, domain.ErrInvalidKey
	}
	return s.repo.Retrieve(ctx, s.db, key)
}

func (s *Service) ListByOrder(ctx context.Context, orderID snowflake.ID) ([]domain.License, error) {
	return s.repo.FindByOrder(ctx, s.db, orderID)
}

func (s *Service) RemoveByOrder(ctx context.Context, orderID snowflake.ID) ([]string, error) {
	licenses, err := s.repo.FindByOrder(ctx, s.db, orderID)
	if err != nil {
		return nil, err
	}
	if len(licenses) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(licenses))
	for _, lic := range licenses {
		keys = append(keys, lic.Key)
	}
	if err := s.repo.DeleteByKeys(ctx, s.db, keys); err != nil {
		return nil, err
	}

	s.log.Info("licenses removed for order",
		zap.Int64("order_id", int64(orderID)),
		zap.Int("count", len(keys)),
	)
	return keys, nil
}
