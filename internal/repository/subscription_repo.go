package repository

import (
	"time"

	"crave/internal/domain"
	"crave/internal/models"

	"gorm.io/gorm"
)

type SubscriptionRepository struct{}

func NewSubscriptionRepository() *SubscriptionRepository {
	return &SubscriptionRepository{}
}

func (r *SubscriptionRepository) Create(tx *gorm.DB, s *models.Subscription) error {
	return tx.Create(s).Error
}

func (r *SubscriptionRepository) GetByID(tx *gorm.DB, id uint) (*models.Subscription, error) {
	var s models.Subscription
	err := tx.First(&s, id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetActive returns the user's subscription with status=active and a future
// expiry, newest first when several overlap.
func (r *SubscriptionRepository) GetActive(tx *gorm.DB, userID uint, now time.Time) (*models.Subscription, error) {
	var s models.Subscription
	err := tx.Where("user_id = ? AND status = ? AND expires_at > ?", userID, domain.SubscriptionActive, now).
		Order("expires_at DESC").
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetLatestFlaggedActive returns the newest row still flagged active
// regardless of expiry, for the expiry sweep.
func (r *SubscriptionRepository) GetLatestFlaggedActive(tx *gorm.DB, userID uint) (*models.Subscription, error) {
	var s models.Subscription
	err := tx.Where("user_id = ? AND status = ?", userID, domain.SubscriptionActive).
		Order("expires_at DESC").
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubscriptionRepository) Save(tx *gorm.DB, s *models.Subscription) error {
	return tx.Save(s).Error
}
