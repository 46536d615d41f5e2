// Package domain contains the license entity and its storage contracts.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// License is an issued entitlement tied to a product purchase. Identity is the
// key once assigned; an empty Key means the license has never been persisted.
type License struct {
	// Key is assigned exactly once, during the first Persist.
	Key string

	// OrderID is the order currently associated with the license. Renewals and
	// upgrades reassign it; the previous value is archived on the order itself.
	OrderID snowflake.ID

	// UserID is zero for guest purchases.
	UserID snowflake.ID

	// ActivationEmail is the billing email captured at issuance.
	ActivationEmail string

	ProductID snowflake.ID

	// ActivationLimit caps concurrent activations. Zero means unbounded.
	ActivationLimit int

	// DateCreated is normalized to midnight UTC and never zero on a persisted record.
	DateCreated time.Time

	// DateExpires is nil for licenses that never expire. A nil value must never
	// be collapsed into a concrete date; branch logic depends on the distinction.
	DateExpires *time.Time
}

// IsExpired reports whether the license has expired at the given moment.
// A license without an expiry date never expires.
func (l *License) IsExpired(now time.Time) bool {
	if l.DateExpires == nil {
		return false
	}
	return l.DateExpires.Before(now)
}

// Midnight truncates a timestamp to midnight UTC. License dates carry no
// time-of-day significance.
func Midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
