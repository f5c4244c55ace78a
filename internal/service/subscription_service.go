package service

import (
	"errors"
	"fmt"
	"time"

	"crave/internal/domain"
	"crave/internal/models"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DefaultSubscriptionCacheTTL bounds how stale an active-subscription answer
// may be. The check runs on every gated-content request, so reads go through
// a short-lived cache; the database stays the source of truth and every
// mutation invalidates the entry before returning.
const DefaultSubscriptionCacheTTL = 30 * time.Second

type SubscriptionService struct {
	db    *gorm.DB
	subs  SubscriptionStore
	cache *gocache.Cache
	log   *logrus.Logger
}

func NewSubscriptionService(db *gorm.DB, subs SubscriptionStore, ttl time.Duration, log *logrus.Logger) *SubscriptionService {
	if ttl <= 0 {
		ttl = DefaultSubscriptionCacheTTL
	}
	return &SubscriptionService{
		db:    db,
		subs:  subs,
		cache: gocache.New(ttl, 2*ttl),
		log:   log,
	}
}

func activeSubKey(userID uint) string {
	return fmt.Sprintf("subscription:active:%d", userID)
}

// GetActiveSubscription returns the row with status=active and a future
// expiry, read through the cache.
func (s *SubscriptionService) GetActiveSubscription(userID uint) (*models.Subscription, error) {
	if v, ok := s.cache.Get(activeSubKey(userID)); ok {
		sub := v.(*models.Subscription)
		if sub.IsActive(time.Now()) {
			return sub, nil
		}
		// Cached entry lapsed inside the TTL window.
		s.cache.Delete(activeSubKey(userID))
	}

	sub, err := s.subs.GetActive(s.db, userID, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("no active subscription")
		}
		return nil, InternalError(err)
	}
	s.cache.SetDefault(activeSubKey(userID), sub)
	return sub, nil
}

// CreateSubscription records a paid plan starting now. Payment capture
// happened upstream; this only opens the subscription window.
func (s *SubscriptionService) CreateSubscription(userID uint, plan string, amount decimal.Decimal, currency string, durationDays int) (*models.Subscription, error) {
	if durationDays <= 0 {
		return nil, InvalidArgumentError("duration must be positive")
	}
	if amount.IsNegative() {
		return nil, InvalidArgumentError("amount must not be negative")
	}

	now := time.Now()
	sub := &models.Subscription{
		UserID:      userID,
		Plan:        plan,
		Amount:      amount,
		Currency:    currency,
		Status:      domain.SubscriptionActive,
		PurchasedAt: now,
		ExpiresAt:   now.AddDate(0, 0, durationDays),
	}
	if err := s.subs.Create(s.db, sub); err != nil {
		return nil, InternalError(err)
	}
	s.cache.Delete(activeSubKey(userID))

	s.log.WithFields(logrus.Fields{
		"user_id":         userID,
		"subscription_id": sub.ID,
		"plan":            plan,
		"expires_at":      sub.ExpiresAt,
	}).Info("subscription created")
	return sub, nil
}

// ExtendSubscription pushes out the expiry of a currently active
// subscription. Extending a lapsed one is refused with a nil result; callers
// must create a fresh subscription instead.
func (s *SubscriptionService) ExtendSubscription(subscriptionID uint, durationDays int) (*models.Subscription, error) {
	if durationDays <= 0 {
		return nil, InvalidArgumentError("duration must be positive")
	}

	sub, err := s.subs.GetByID(s.db, subscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("subscription not found")
		}
		return nil, InternalError(err)
	}
	now := time.Now()
	if !sub.IsActive(now) {
		return nil, nil
	}

	base := sub.ExpiresAt
	if base.Before(now) {
		base = now
	}
	sub.ExpiresAt = base.AddDate(0, 0, durationDays)
	if err := s.subs.Save(s.db, sub); err != nil {
		return nil, InternalError(err)
	}
	s.cache.Delete(activeSubKey(sub.UserID))
	return sub, nil
}

// CheckAndUpdateSubscriptionStatus sweeps the user's newest active-flagged
// row, moving it to expired when its window has closed. Returns the row in
// its post-sweep state, or NotFound when the user never had an active one.
func (s *SubscriptionService) CheckAndUpdateSubscriptionStatus(userID uint) (*models.Subscription, error) {
	sub, err := s.subs.GetLatestFlaggedActive(s.db, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("no active subscription")
		}
		return nil, InternalError(err)
	}
	if !sub.ExpiresAt.After(time.Now()) {
		sub.Status = domain.SubscriptionExpired
		if err := s.subs.Save(s.db, sub); err != nil {
			return nil, InternalError(err)
		}
		s.cache.Delete(activeSubKey(userID))
	}
	return sub, nil
}
