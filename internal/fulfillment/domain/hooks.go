package domain

import (
	"time"

	licensedomain "github.com/smallbiznis/licentia/internal/license/domain"
)

// Hooks are the engine's extension points. Each field is optional; a nil func
// means the documented default applies. They replace the ambient filter
// registry the upstream plugin ecosystem used.
type Hooks struct {
	// ResolveUpgradingKey may override or annotate the upgrading key found on
	// a line item. Default: return the key unchanged.
	ResolveUpgradingKey func(key string, order *Order, item LineItem) string

	// UpgradeAppliesExpiry decides whether an upgrade recomputes the expiry
	// date at all. Default: true.
	UpgradeAppliesExpiry func(license *licensedomain.License, order *Order, item LineItem) bool

	// UpgradeExpiry may substitute the expiry date an upgrade would apply.
	// Default: return the proposed date unchanged.
	UpgradeExpiry func(proposed time.Time, license *licensedomain.License, order *Order, item LineItem) time.Time

	// UpgradeReassignsOrder decides whether an upgrade archives the old order
	// id and reassigns ownership to the current order. Default: true.
	UpgradeReassignsOrder func(license *licensedomain.License, order *Order, item LineItem) bool
}

func (h Hooks) ResolveUpgrading(key string, order *Order, item LineItem) string {
	if h.ResolveUpgradingKey == nil {
		return key
	}
	return h.ResolveUpgradingKey(key, order, item)
}

func (h Hooks) AppliesExpiry(license *licensedomain.License, order *Order, item LineItem) bool {
	if h.UpgradeAppliesExpiry == nil {
		return true
	}
	return h.UpgradeAppliesExpiry(license, order, item)
}

func (h Hooks) ExpiryOverride(proposed time.Time, license *licensedomain.License, order *Order, item LineItem) time.Time {
	if h.UpgradeExpiry == nil {
		return proposed
	}
	return h.UpgradeExpiry(proposed, license, order, item)
}

func (h Hooks) ReassignsOrder(license *licensedomain.License, order *Order, item LineItem) bool {
	if h.UpgradeReassignsOrder == nil {
		return true
	}
	return h.UpgradeReassignsOrder(license, order, item)
}
