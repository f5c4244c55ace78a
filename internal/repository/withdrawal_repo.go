package repository

import (
	"crave/internal/models"

	"gorm.io/gorm"
)

type WithdrawalRepository struct{}

func NewWithdrawalRepository() *WithdrawalRepository {
	return &WithdrawalRepository{}
}

func (r *WithdrawalRepository) Create(tx *gorm.DB, w *models.Withdrawal) error {
	return tx.Create(w).Error
}

func (r *WithdrawalRepository) GetByOrderID(tx *gorm.DB, orderID string) (*models.Withdrawal, error) {
	var w models.Withdrawal
	err := tx.Where("order_id = ?", orderID).First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WithdrawalRepository) Update(tx *gorm.DB, w *models.Withdrawal) error {
	return tx.Save(w).Error
}
