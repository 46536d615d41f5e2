// Package service adapts the order tables onto the fulfillment engine's
// OrderProvider and MarkerStore ports.
package service

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	fulfillmentdomain "github.com/smallbiznis/licentia/internal/fulfillment/domain"
	"github.com/smallbiznis/licentia/internal/order/domain"
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

func New(p Params) *Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("order.service"),
		repo: p.Repo,
	}
}

func (s *Service) Get(ctx context.Context, orderID snowflake.ID) (*fulfillmentdomain.Order, error) {
	o, err := s.repo.FindByID(ctx, s.db, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, nil
	}

	rows, err := s.repo.FindItems(ctx, s.db, orderID)
	if err != nil {
		return nil, err
	}

	items := make([]fulfillmentdomain.LineItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, fulfillmentdomain.LineItem{
			ProductID: row.ProductID,
			Quantity:  row.Quantity,
			Meta:      metaStrings(row.Meta),
		})
	}

	return &fulfillmentdomain.Order{
		ID:                    o.ID,
		BillingEmail:          o.BillingEmail,
		CustomerID:            o.CustomerID,
		SubscriptionRenewalID: o.SubscriptionRenewalID,
		Items:                 items,
	}, nil
}

func (s *Service) ParentOrderOfSubscription(ctx context.Context, subscriptionID snowflake.ID) (snowflake.ID, error) {
	return s.repo.FindSubscriptionParent(ctx, s.db, subscriptionID)
}

func (s *Service) GetMarker(ctx context.Context, orderID snowflake.ID, key string) (string, error) {
	return s.repo.GetMeta(ctx, s.db, orderID, key)
}

func (s *Service) SetMarker(ctx context.Context, orderID snowflake.ID, key, value string) error {
	return s.repo.SetMeta(ctx, s.db, orderID, key, value)
}

func metaStrings(raw map[string]any) map[string]string {
	if len(raw) == 0 {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if v == nil {
			continue
		}
		out[k] = fmt.Sprint(v)
	}
	return out
}

// markerStore narrows Service onto the MarkerStore port.
type markerStore struct {
	svc *Service
}

func (m markerStore) Get(ctx context.Context, orderID snowflake.ID, key string) (string, error) {
	return m.svc.GetMarker(ctx, orderID, key)
}

func (m markerStore) Set(ctx context.Context, orderID snowflake.ID, key, value string) error {
	return m.svc.SetMarker(ctx, orderID, key, value)
}

// AsOrderProvider exposes the service as the engine's OrderProvider port.
func AsOrderProvider(s *Service) fulfillmentdomain.OrderProvider {
	return s
}

// AsMarkerStore exposes the service as the engine's MarkerStore port.
func AsMarkerStore(s *Service) fulfillmentdomain.MarkerStore {
	return markerStore{svc: s}
}
