package models

import (
	"time"

	"github.com/uptrace/bun"
)

// UserSubscription is a (user, subsector) entitlement. Existence of an active,
// paid, unexpired row is the sole proof of entitlement; expired rows are
// pruned, never soft-deleted. BillingRef is the external billing system's
// reference used by activation callbacks.
type UserSubscription struct {
	bun.BaseModel `bun:"table:user_subscriptions"`

	ID            string     `bun:"id,pk" json:"id"`
	UserID        string     `bun:"user_id,notnull" json:"user_id"`
	Subsector     string     `bun:"subsector,notnull" json:"subsector"`
	PaymentStatus string     `bun:"payment_status,notnull" json:"payment_status"`
	IsActive      bool       `bun:"is_active,notnull,default:false" json:"is_active"`
	BillingRef    string     `bun:"billing_ref,nullzero" json:"billing_ref,omitempty"`
	ExpiresAt     *time.Time `bun:"expires_at,nullzero" json:"expires_at,omitempty"`
	CreatedAt     time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time  `bun:"updated_at,nullzero" json:"updated_at,omitempty"`
}

// Expired reports whether the row is logically expired at the given instant.
// Rows without expires_at never expire.
func (s UserSubscription) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && s.ExpiresAt.Before(now)
}
