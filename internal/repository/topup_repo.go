package repository

import (
	"crave/internal/models"

	"gorm.io/gorm"
)

type TopupRepository struct{}

func NewTopupRepository() *TopupRepository {
	return &TopupRepository{}
}

func (r *TopupRepository) Create(tx *gorm.DB, t *models.Topup) error {
	return tx.Create(t).Error
}

func (r *TopupRepository) GetByOrderID(tx *gorm.DB, orderID string) (*models.Topup, error) {
	var t models.Topup
	err := tx.Where("order_id = ?", orderID).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}
