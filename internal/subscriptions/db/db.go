package db

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"ms-calendar/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// GetActiveByUser returns the active, paid, unexpired subscription rows for a
// user. Callers prune first; the expiry filter here is belt-and-braces so a row
// expiring between prune and select is still never observed as active.
func (d *DB) GetActiveByUser(ctx context.Context, userID string, now time.Time) ([]models.UserSubscription, error) {
	var subs []models.UserSubscription
	err := d.Bun.NewSelect().
		Model(&subs).
		Where("user_id = ?", userID).
		Where("is_active = ?", true).
		Where("payment_status = ?", models.PaymentPaid).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return subs, nil
}

// DeleteExpired removes the user's logically expired active rows. The delete
// is conditional on expires_at so two concurrent callers can both run it
// harmlessly, and a freshly created subscription is never caught by a delete
// issued moments earlier.
func (d *DB) DeleteExpired(ctx context.Context, userID string, now time.Time) (int64, error) {
	res, err := d.Bun.NewDelete().
		Model((*models.UserSubscription)(nil)).
		Where("user_id = ?", userID).
		Where("is_active = ?", true).
		Where("expires_at IS NOT NULL").
		Where("expires_at < ?", now).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, nil
}

// ActiveExists reports whether the user already holds an active row for the
// subsector.
func (d *DB) ActiveExists(ctx context.Context, userID, subsector string) (bool, error) {
	return d.Bun.NewSelect().
		Model((*models.UserSubscription)(nil)).
		Where("user_id = ?", userID).
		Where("subsector = ?", subsector).
		Where("is_active = ?", true).
		Exists(ctx)
}

func (d *DB) Create(ctx context.Context, sub models.UserSubscription) error {
	_, err := d.Bun.NewInsert().Model(&sub).Exec(ctx)
	return err
}

func (d *DB) GetByID(ctx context.Context, id string) (*models.UserSubscription, error) {
	var sub models.UserSubscription
	err := d.Bun.NewSelect().
		Model(&sub).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// DeleteByID removes a subscription permanently. Subscription existence is the
// sole proof of entitlement, so there is no soft-delete.
func (d *DB) DeleteByID(ctx context.Context, id string) (int64, error) {
	res, err := d.Bun.NewDelete().
		Model((*models.UserSubscription)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (d *DB) GetByBillingRef(ctx context.Context, billingRef string) (*models.UserSubscription, error) {
	var sub models.UserSubscription
	err := d.Bun.NewSelect().
		Model(&sub).
		Where("billing_ref = ?", billingRef).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (d *DB) Update(ctx context.Context, sub models.UserSubscription) error {
	_, err := d.Bun.NewUpdate().
		Model(&sub).
		Column("payment_status", "is_active", "expires_at", "updated_at").
		Where("id = ?", sub.ID).
		Exec(ctx)
	return err
}
