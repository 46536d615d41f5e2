// Package service implements the order fulfillment engine: it classifies each
// licensable line item on a completed order as a new purchase, a renewal or an
// upgrade, and mutates licenses accordingly.
package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	activationdomain "github.com/smallbiznis/licentia/internal/activation/domain"
	"github.com/smallbiznis/licentia/internal/clock"
	"github.com/smallbiznis/licentia/internal/fulfillment/domain"
	licensedomain "github.com/smallbiznis/licentia/internal/license/domain"
	"github.com/smallbiznis/licentia/internal/license/expiry"
	"github.com/smallbiznis/licentia/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Clock       clock.Clock
	Orders      domain.OrderProvider
	Catalog     domain.ProductCatalog
	Markers     domain.MarkerStore
	Licenses    licensedomain.Repository
	Lookup      licensedomain.Service
	Activations activationdomain.Service
	Hooks       domain.Hooks     `optional:"true"`
	Metrics     *metrics.Metrics `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	clock       clock.Clock
	orders      domain.OrderProvider
	catalog     domain.ProductCatalog
	markers     domain.MarkerStore
	licenses    licensedomain.Repository
	lookup      licensedomain.Service
	activations activationdomain.Service
	hooks       domain.Hooks
	metrics     *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("fulfillment.service"),
		clock:       p.Clock,
		orders:      p.Orders,
		catalog:     p.Catalog,
		markers:     p.Markers,
		licenses:    p.Licenses,
		lookup:      p.Lookup,
		activations: p.Activations,
		hooks:       p.Hooks,
		metrics:     p.Metrics,
	}
}

// HandleOrderCompleted issues, renews or upgrades licenses for every
// licensable line item on the order. Running it twice is a no-op: the first
// run that produces a license sets the issued marker.
func (s *Service) HandleOrderCompleted(ctx context.Context, orderID snowflake.ID) error {
	issued, err := s.markers.Get(ctx, orderID, domain.MarkerKeysIssued)
	if err != nil {
		return err
	}
	if issued != "" {
		return nil
	}

	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return domain.ErrOrderNotFound
	}

	renewalKey, err := s.subscriptionRenewalKey(ctx, order)
	if err != nil {
		return err
	}

	hasKey := false
	for _, item := range order.Items {
		product, err := s.catalog.Get(ctx, item.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			continue
		}

		var parent *domain.Product
		if product.ParentID != 0 {
			parent, err = s.catalog.Get(ctx, product.ParentID)
			if err != nil {
				return err
			}
		}

		licensable := product.Licensable
		if !licensable && parent != nil {
			licensable = parent.Licensable
		}
		if !licensable {
			continue
		}

		limit := product.ActivationLimit
		if limit == 0 && parent != nil {
			limit = parent.ActivationLimit
		}

		amount := product.ExpiryAmount
		if amount == 0 && parent != nil {
			amount = parent.ExpiryAmount
		}
		unit := product.ExpiryUnit
		if unit == "" && parent != nil {
			unit = parent.ExpiryUnit
		}
		offset := expiry.NewOffset(amount, unit)

		produced, err := s.fulfillItem(ctx, order, item, renewalKey, limit, offset)
		if err != nil {
			return err
		}
		if produced {
			hasKey = true
		}
	}

	if hasKey {
		return s.markers.Set(ctx, orderID, domain.MarkerKeysIssued, "1")
	}
	return nil
}

// fulfillItem classifies a single eligible item and applies the matching
// mutation. Unresolvable renewal or upgrade keys degrade to a new purchase.
func (s *Service) fulfillItem(ctx context.Context, order *domain.Order, item domain.LineItem, renewalKey string, limit int, offset expiry.Offset) (bool, error) {
	// Subscription-linked renewal has priority over item-level keys.
	if renewalKey != "" {
		license, err := s.licenses.Retrieve(ctx, s.db, renewalKey)
		if err != nil {
			return false, err
		}
		if license != nil {
			return true, s.renew(ctx, order, license, offset)
		}
	} else if key := item.RenewingKey(); key != "" {
		license, err := s.licenses.Retrieve(ctx, s.db, key)
		if err != nil {
			return false, err
		}
		if license != nil {
			return true, s.renew(ctx, order, license, offset)
		}
	} else if key := s.hooks.ResolveUpgrading(item.UpgradingKey(), order, item); key != "" {
		license, err := s.licenses.Retrieve(ctx, s.db, key)
		if err != nil {
			return false, err
		}
		if license != nil {
			return true, s.upgrade(ctx, order, item, license, limit, offset)
		}
	}

	return s.issueNew(ctx, order, item, limit, offset)
}

// renew extends the license's expiry and moves it onto the current order.
func (s *Service) renew(ctx context.Context, order *domain.Order, license *licensedomain.License, offset expiry.Offset) error {
	now := s.clock.Now()

	if !offset.IsZero() {
		base := now
		if !license.IsExpired(now) && license.DateExpires != nil {
			base = *license.DateExpires
		}
		expires := expiry.Compute(base, offset)
		license.DateExpires = &expires
	}

	if err := s.markers.Set(ctx, order.ID, domain.MarkerOriginalOrderID, license.OrderID.String()); err != nil {
		return err
	}
	license.OrderID = order.ID

	if _, err := s.licenses.Persist(ctx, s.db, license); err != nil {
		return err
	}

	s.metrics.LicenseRenewed(ctx, license.ProductID.String())
	s.log.Info("license renewed",
		zap.String("license_key", license.Key),
		zap.Int64("order_id", int64(order.ID)),
	)
	return nil
}

// upgrade moves the license onto the item's product, optionally recomputing
// expiry and ownership per the configured hooks.
func (s *Service) upgrade(ctx context.Context, order *domain.Order, item domain.LineItem, license *licensedomain.License, limit int, offset expiry.Offset) error {
	now := s.clock.Now()

	if s.hooks.AppliesExpiry(license, order, item) && !offset.IsZero() {
		proposed := expiry.Compute(now, offset)
		proposed = s.hooks.ExpiryOverride(proposed, license, order, item)
		license.DateExpires = &proposed
	}

	if limit > 0 {
		license.ActivationLimit = limit
	}
	license.ProductID = item.ProductID

	if s.hooks.ReassignsOrder(license, order, item) {
		if err := s.markers.Set(ctx, order.ID, domain.MarkerOriginalOrderID, license.OrderID.String()); err != nil {
			return err
		}
		license.OrderID = order.ID
	}

	if _, err := s.licenses.Persist(ctx, s.db, license); err != nil {
		return err
	}

	s.metrics.LicenseUpgraded(ctx, license.ProductID.String())
	s.log.Info("license upgraded",
		zap.String("license_key", license.Key),
		zap.Int64("order_id", int64(order.ID)),
	)
	return nil
}

// issueNew mints one license per purchased unit.
func (s *Service) issueNew(ctx context.Context, order *domain.Order, item domain.LineItem, limit int, offset expiry.Offset) (bool, error) {
	now := s.clock.Now()
	produced := false

	for i := 0; i < item.Quantity; i++ {
		license := &licensedomain.License{
			OrderID:         order.ID,
			UserID:          order.CustomerID,
			ActivationEmail: order.BillingEmail,
			ProductID:       item.ProductID,
			ActivationLimit: limit,
			DateCreated:     licensedomain.Midnight(now),
		}
		if !offset.IsZero() {
			expires := expiry.Compute(now, offset)
			license.DateExpires = &expires
		}

		persisted, err := s.licenses.Persist(ctx, s.db, license)
		if err != nil {
			return produced, err
		}
		produced = true

		s.metrics.LicenseIssued(ctx, license.ProductID.String())
		s.log.Info("license issued",
			zap.String("license_key", persisted.Key),
			zap.Int64("order_id", int64(order.ID)),
		)
	}

	return produced, nil
}

// HandleOrderDeleted removes all licenses tied to a deleted order, cascading
// into their activations. Unauthorized callers and unknown orders are no-ops.
func (s *Service) HandleOrderDeleted(ctx context.Context, orderID snowflake.ID, authorized bool) error {
	if !authorized || orderID == 0 {
		return nil
	}

	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return nil
	}

	keys, err := s.lookup.RemoveByOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	if err := s.activations.RemoveByLicenseKeys(ctx, keys); err != nil {
		return err
	}

	s.metrics.LicensesRemoved(ctx, len(keys))
	return nil
}

func (s *Service) subscriptionRenewalKey(ctx context.Context, order *domain.Order) (string, error) {
	if order.SubscriptionRenewalID == 0 {
		return "", nil
	}

	parentOrderID, err := s.orders.ParentOrderOfSubscription(ctx, order.SubscriptionRenewalID)
	if err != nil {
		return "", err
	}
	if parentOrderID == 0 {
		return "", nil
	}

	licenses, err := s.lookup.ListByOrder(ctx, parentOrderID)
	if err != nil {
		return "", err
	}
	if len(licenses) == 0 {
		return "", nil
	}
	return licenses[0].Key, nil
}
