// Package service adapts the catalog tables onto the fulfillment engine's
// ProductCatalog port.
package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/licentia/internal/catalog/domain"
	fulfillmentdomain "github.com/smallbiznis/licentia/internal/fulfillment/domain"
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

func New(p Params) fulfillmentdomain.ProductCatalog {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("catalog.service"),
		repo: p.Repo,
	}
}

func (s *Service) Get(ctx context.Context, productID snowflake.ID) (*fulfillmentdomain.Product, error) {
	p, err := s.repo.FindByID(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	return &fulfillmentdomain.Product{
		ID:              p.ID,
		ParentID:        p.ParentID,
		Licensable:      p.Licensable,
		ActivationLimit: p.ActivationLimit,
		ExpiryAmount:    p.ExpiryAmount,
		ExpiryUnit:      p.ExpiryUnit,
	}, nil
}
