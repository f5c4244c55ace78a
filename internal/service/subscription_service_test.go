package service

import (
	"testing"
	"time"

	"crave/internal/domain"
	"crave/internal/models"
	"crave/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSubscriptionServiceTTL(db *gorm.DB, ttl time.Duration) *SubscriptionService {
	return NewSubscriptionService(db, repository.NewSubscriptionRepository(), ttl, testLogger())
}

func seedSubscription(t *testing.T, db *gorm.DB, userID uint, status string, expiresIn time.Duration) *models.Subscription {
	t.Helper()
	now := time.Now()
	sub := &models.Subscription{
		UserID:      userID,
		Plan:        "monthly",
		Amount:      dec(t, "10"),
		Currency:    "USD",
		Status:      status,
		PurchasedAt: now.Add(-time.Hour),
		ExpiresAt:   now.Add(expiresIn),
	}
	require.NoError(t, db.Create(sub).Error)
	return sub
}

func TestCreateSubscriptionThenGetActive(t *testing.T) {
	db := newTestDB(t)
	svc := newSubscriptionServiceTTL(db, time.Minute)

	created, err := svc.CreateSubscription(1, "monthly", dec(t, "10"), "USD", 30)
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionActive, created.Status)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), created.ExpiresAt, time.Minute)

	got, err := svc.GetActiveSubscription(1)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestGetActiveSubscriptionNone(t *testing.T) {
	db := newTestDB(t)
	svc := newSubscriptionServiceTTL(db, time.Minute)

	_, err := svc.GetActiveSubscription(1)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestGetActiveSubscriptionIgnoresLapsedRow(t *testing.T) {
	db := newTestDB(t)
	// Still flagged active in the database, but the window has closed.
	seedSubscription(t, db, 1, domain.SubscriptionActive, -time.Hour)
	svc := newSubscriptionServiceTTL(db, time.Minute)

	_, err := svc.GetActiveSubscription(1)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestCheckAndUpdateFlipsExpired(t *testing.T) {
	db := newTestDB(t)
	sub := seedSubscription(t, db, 1, domain.SubscriptionActive, -time.Hour)
	svc := newSubscriptionServiceTTL(db, time.Minute)

	swept, err := svc.CheckAndUpdateSubscriptionStatus(1)
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionExpired, swept.Status)

	var stored models.Subscription
	require.NoError(t, db.First(&stored, sub.ID).Error)
	assert.Equal(t, domain.SubscriptionExpired, stored.Status)
}

func TestCheckAndUpdateKeepsCurrentActive(t *testing.T) {
	db := newTestDB(t)
	seedSubscription(t, db, 1, domain.SubscriptionActive, 24*time.Hour)
	svc := newSubscriptionServiceTTL(db, time.Minute)

	swept, err := svc.CheckAndUpdateSubscriptionStatus(1)
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionActive, swept.Status)
}

func TestCheckAndUpdateNoSubscription(t *testing.T) {
	db := newTestDB(t)
	svc := newSubscriptionServiceTTL(db, time.Minute)

	_, err := svc.CheckAndUpdateSubscriptionStatus(1)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestExtendActivePushesOutExpiry(t *testing.T) {
	db := newTestDB(t)
	sub := seedSubscription(t, db, 1, domain.SubscriptionActive, 240*time.Hour)
	svc := newSubscriptionServiceTTL(db, time.Minute)

	extended, err := svc.ExtendSubscription(sub.ID, 5)
	require.NoError(t, err)
	require.NotNil(t, extended)
	assert.WithinDuration(t, sub.ExpiresAt.AddDate(0, 0, 5), extended.ExpiresAt, time.Second)
}

func TestExtendLapsedReturnsNil(t *testing.T) {
	db := newTestDB(t)
	sub := seedSubscription(t, db, 1, domain.SubscriptionActive, -time.Hour)
	svc := newSubscriptionServiceTTL(db, time.Minute)

	extended, err := svc.ExtendSubscription(sub.ID, 5)
	require.NoError(t, err)
	assert.Nil(t, extended)

	// Expiry must be untouched.
	var stored models.Subscription
	require.NoError(t, db.First(&stored, sub.ID).Error)
	assert.WithinDuration(t, sub.ExpiresAt, stored.ExpiresAt, time.Second)
}

func TestExtendUnknownSubscription(t *testing.T) {
	db := newTestDB(t)
	svc := newSubscriptionServiceTTL(db, time.Minute)

	_, err := svc.ExtendSubscription(999, 5)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestGetActiveServesCachedWithinTTL(t *testing.T) {
	db := newTestDB(t)
	seedSubscription(t, db, 1, domain.SubscriptionActive, 24*time.Hour)
	svc := newSubscriptionServiceTTL(db, 50*time.Millisecond)

	first, err := svc.GetActiveSubscription(1)
	require.NoError(t, err)

	// Direct database mutation bypasses invalidation, so the cached answer
	// stays visible until the TTL lapses.
	require.NoError(t, db.Model(&models.Subscription{}).
		Where("id = ?", first.ID).
		Update("status", domain.SubscriptionExpired).Error)

	stale, err := svc.GetActiveSubscription(1)
	require.NoError(t, err)
	assert.Equal(t, first.ID, stale.ID)

	time.Sleep(80 * time.Millisecond)
	_, err = svc.GetActiveSubscription(1)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestGetActiveRevalidatesCachedExpiry(t *testing.T) {
	db := newTestDB(t)
	// Lapses inside the cache TTL; the cache hit must not keep granting
	// access past the expiry instant.
	seedSubscription(t, db, 1, domain.SubscriptionActive, 60*time.Millisecond)
	svc := newSubscriptionServiceTTL(db, time.Minute)

	_, err := svc.GetActiveSubscription(1)
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)
	_, err = svc.GetActiveSubscription(1)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestCreateSubscriptionInvalidatesCache(t *testing.T) {
	db := newTestDB(t)
	seedSubscription(t, db, 1, domain.SubscriptionActive, 240*time.Hour)
	svc := newSubscriptionServiceTTL(db, time.Minute)

	first, err := svc.GetActiveSubscription(1)
	require.NoError(t, err)

	created, err := svc.CreateSubscription(1, "yearly", dec(t, "100"), "USD", 365)
	require.NoError(t, err)
	require.NotEqual(t, first.ID, created.ID)

	got, err := svc.GetActiveSubscription(1)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestCreateSubscriptionRejectsBadInput(t *testing.T) {
	db := newTestDB(t)
	svc := newSubscriptionServiceTTL(db, time.Minute)

	_, err := svc.CreateSubscription(1, "monthly", dec(t, "10"), "USD", 0)
	require.Error(t, err)
	assert.Equal(t, KindInvalidArgument, KindOf(err))

	_, err = svc.CreateSubscription(1, "monthly", dec(t, "-1"), "USD", 30)
	require.Error(t, err)
	assert.Equal(t, KindInvalidArgument, KindOf(err))
}
