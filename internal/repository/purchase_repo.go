package repository

import (
	"crave/internal/models"

	"gorm.io/gorm"
)

type PurchaseRepository struct{}

func NewPurchaseRepository() *PurchaseRepository {
	return &PurchaseRepository{}
}

func (r *PurchaseRepository) Create(tx *gorm.DB, p *models.Purchase) error {
	return tx.Create(p).Error
}

// FindCompleted returns the completed purchase for (user, post) if one
// exists. The friendly pre-check; the unique index is the real guard.
func (r *PurchaseRepository) FindCompleted(tx *gorm.DB, userID, postID uint) (*models.Purchase, error) {
	var p models.Purchase
	err := tx.Where("user_id = ? AND post_id = ? AND status = ?", userID, postID, "completed").First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}
