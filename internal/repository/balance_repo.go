package repository

import (
	"crave/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BalanceRepository persists per-(user, currency) balance rows. Every method
// takes the enclosing unit of work explicitly so callers control the
// transaction boundary.
type BalanceRepository struct{}

func NewBalanceRepository() *BalanceRepository {
	return &BalanceRepository{}
}

func (r *BalanceRepository) Get(tx *gorm.DB, userID uint, currency string) (*models.Balance, error) {
	var b models.Balance
	err := tx.Where("user_id = ? AND currency = ?", userID, currency).First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetForUpdate loads the balance row under a row lock. Must be called inside
// a database transaction.
func (r *BalanceRepository) GetForUpdate(tx *gorm.DB, userID uint, currency string) (*models.Balance, error) {
	var b models.Balance
	err := lockForUpdate(tx).Where("user_id = ? AND currency = ?", userID, currency).First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BalanceRepository) Create(tx *gorm.DB, b *models.Balance) error {
	return tx.Create(b).Error
}

// GetOrCreate returns the balance for the pair, lazily opening a zero balance
// on first use. Read paths only; money-movement paths require the row to
// already exist.
func (r *BalanceRepository) GetOrCreate(tx *gorm.DB, userID uint, currency string) (*models.Balance, error) {
	b, err := r.Get(tx, userID, currency)
	if err == nil {
		return b, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	b = &models.Balance{
		UserID:    userID,
		Currency:  currency,
		Available: decimal.Zero,
		Pending:   decimal.Zero,
	}
	if err := tx.Create(b).Error; err != nil {
		return nil, err
	}
	return b, nil
}

func (r *BalanceRepository) Save(tx *gorm.DB, b *models.Balance) error {
	return tx.Model(b).Updates(map[string]interface{}{
		"available": b.Available,
		"pending":   b.Pending,
	}).Error
}
