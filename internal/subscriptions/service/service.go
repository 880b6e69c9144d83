package subscriptions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ms-calendar/internal/errs"
	"ms-calendar/internal/models"
)

type SubscriptionDBLayer interface {
	GetActiveByUser(ctx context.Context, userID string, now time.Time) ([]models.UserSubscription, error)
	DeleteExpired(ctx context.Context, userID string, now time.Time) (int64, error)
	ActiveExists(ctx context.Context, userID, subsector string) (bool, error)
	Create(ctx context.Context, sub models.UserSubscription) error
	GetByID(ctx context.Context, id string) (*models.UserSubscription, error)
	DeleteByID(ctx context.Context, id string) (int64, error)
	GetByBillingRef(ctx context.Context, billingRef string) (*models.UserSubscription, error)
	Update(ctx context.Context, sub models.UserSubscription) error
}

type EntitlementCache interface {
	GetSubsectors(ctx context.Context, userID string) ([]string, bool)
	SetSubsectors(ctx context.Context, userID string, subsectors []string, ttl time.Duration)
	Invalidate(ctx context.Context, userID string)
}

type Notifier interface {
	SubscriptionCreated(sub models.UserSubscription) error
	SubscriptionRemoved(sub models.UserSubscription) error
	SubscriptionActivated(sub models.UserSubscription) error
}

// Service owns the subscription lifecycle: create, expiry-based pruning,
// activation and the canonical entitlement set everything else consumes.
type Service struct {
	DB     SubscriptionDBLayer
	Cache  EntitlementCache // optional
	Notify Notifier         // optional
	TTL    time.Duration    // how long a fresh subscription stays paid-for
	// CacheTTL bounds how stale a cached entitlement set may be.
	CacheTTL time.Duration
	Now      func() time.Time
}

func NewService(db SubscriptionDBLayer, cache EntitlementCache, notify Notifier, ttl time.Duration) *Service {
	return &Service{DB: db, Cache: cache, Notify: notify, TTL: ttl, CacheTTL: time.Minute, Now: time.Now}
}

// PruneExpired deletes the user's logically expired active subscriptions. Runs
// inline before any read that depends on the active set; no background timer.
// Idempotent: the delete is conditional, double execution is harmless.
func (s *Service) PruneExpired(ctx context.Context, userID string) error {
	n, err := s.DB.DeleteExpired(ctx, userID, s.Now())
	if err != nil {
		return errs.Store(err, "failed to prune expired subscriptions for user %s", userID)
	}
	if n > 0 && s.Cache != nil {
		s.Cache.Invalidate(ctx, userID)
	}
	return nil
}

// Subscribe creates a paid 30-day subscription for (userID, subsector).
// Placeholder policy pending real billing integration.
func (s *Service) Subscribe(ctx context.Context, userID, subsector string) (*models.UserSubscription, error) {
	if subsector == "" {
		return nil, errs.Validation("subsector is required")
	}

	// Prune first so a stale expired row doesn't block a resubscribe.
	if err := s.PruneExpired(ctx, userID); err != nil {
		return nil, err
	}

	exists, err := s.DB.ActiveExists(ctx, userID, subsector)
	if err != nil {
		return nil, errs.Store(err, "failed to check existing subscription")
	}
	if exists {
		return nil, errs.Duplicate("user %s is already subscribed to %s", userID, subsector)
	}

	now := s.Now()
	expiresAt := now.Add(s.TTL)
	sub := models.UserSubscription{
		ID:            uuid.NewString(),
		UserID:        userID,
		Subsector:     subsector,
		PaymentStatus: models.PaymentPaid,
		IsActive:      true,
		ExpiresAt:     &expiresAt,
		CreatedAt:     now,
	}

	if err := s.DB.Create(ctx, sub); err != nil {
		return nil, errs.Store(err, "failed to create subscription")
	}

	if s.Cache != nil {
		s.Cache.Invalidate(ctx, userID)
	}
	if s.Notify != nil {
		if err := s.Notify.SubscriptionCreated(sub); err != nil {
			fmt.Printf("subscription notify error (created): %v\n", err)
		}
	}

	return &sub, nil
}

// Unsubscribe deletes a subscription by id. A missing id is NotFound, not a
// silent no-op.
func (s *Service) Unsubscribe(ctx context.Context, subscriptionID string) error {
	sub, err := s.DB.GetByID(ctx, subscriptionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errs.NotFound("subscription %s not found", subscriptionID)
		}
		return errs.Store(err, "failed to load subscription %s", subscriptionID)
	}

	n, err := s.DB.DeleteByID(ctx, subscriptionID)
	if err != nil {
		return errs.Store(err, "failed to delete subscription %s", subscriptionID)
	}
	if n == 0 {
		// raced with another delete
		return errs.NotFound("subscription %s not found", subscriptionID)
	}

	if s.Cache != nil {
		s.Cache.Invalidate(ctx, sub.UserID)
	}
	if s.Notify != nil {
		if err := s.Notify.SubscriptionRemoved(*sub); err != nil {
			fmt.Printf("subscription notify error (removed): %v\n", err)
		}
	}

	return nil
}

// Activate marks the subscription behind an external billing reference as
// active and paid. Driven by the billing collaborator's success callback.
func (s *Service) Activate(ctx context.Context, billingRef string) (*models.UserSubscription, error) {
	if billingRef == "" {
		return nil, errs.Validation("billing reference is required")
	}

	sub, err := s.DB.GetByBillingRef(ctx, billingRef)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NotFound("no subscription for billing reference %s", billingRef)
		}
		return nil, errs.Store(err, "failed to look up billing reference %s", billingRef)
	}

	sub.IsActive = true
	sub.PaymentStatus = models.PaymentPaid
	sub.UpdatedAt = s.Now()

	if err := s.DB.Update(ctx, *sub); err != nil {
		return nil, errs.Store(err, "failed to activate subscription %s", sub.ID)
	}

	if s.Cache != nil {
		s.Cache.Invalidate(ctx, sub.UserID)
	}
	if s.Notify != nil {
		if err := s.Notify.SubscriptionActivated(*sub); err != nil {
			fmt.Printf("subscription notify error (activated): %v\n", err)
		}
	}

	return sub, nil
}

// ListActive returns the pruned, active, paid subscription set: the canonical
// entitlement set the visibility resolver consumes. Prune and read stay two
// explicit steps so each is independently testable.
func (s *Service) ListActive(ctx context.Context, userID string) ([]models.UserSubscription, error) {
	if err := s.PruneExpired(ctx, userID); err != nil {
		return nil, err
	}

	subs, err := s.DB.GetActiveByUser(ctx, userID, s.Now())
	if err != nil {
		return nil, errs.Store(err, "failed to fetch subscriptions for user %s", userID)
	}
	return subs, nil
}

// ActiveSubsectors returns the user's entitlement subsector set, deduplicated.
// Served from the Redis cache when possible; the cache TTL is capped at the
// soonest subscription expiry so a cached set never outlives an entitlement.
func (s *Service) ActiveSubsectors(ctx context.Context, userID string) ([]string, error) {
	if s.Cache != nil {
		if subsectors, ok := s.Cache.GetSubsectors(ctx, userID); ok {
			return subsectors, nil
		}
	}

	subs, err := s.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	seen := make(map[string]bool, len(subs))
	subsectors := make([]string, 0, len(subs))
	var soonest time.Duration
	for _, sub := range subs {
		if !seen[sub.Subsector] {
			seen[sub.Subsector] = true
			subsectors = append(subsectors, sub.Subsector)
		}
		if sub.ExpiresAt != nil {
			until := sub.ExpiresAt.Sub(now)
			if soonest == 0 || until < soonest {
				soonest = until
			}
		}
	}

	if s.Cache != nil && len(subsectors) > 0 {
		ttl := s.CacheTTL
		if soonest > 0 && soonest < ttl {
			ttl = soonest
		}
		s.Cache.SetSubsectors(ctx, userID, subsectors, ttl)
	}

	return subsectors, nil
}
