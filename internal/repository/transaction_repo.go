package repository

import (
	"database/sql"
	"errors"
	"time"

	"crave/internal/domain"
	"crave/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrTransactionFinalized is returned when a status update targets a row that
// already left pending. The log is append-only: one transition, no edits.
var ErrTransactionFinalized = errors.New("transaction status already finalized")

type TransactionRepository struct{}

func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{}
}

func (r *TransactionRepository) Create(tx *gorm.DB, t *models.Transaction) error {
	return tx.Create(t).Error
}

// MarkStatus moves a pending row to its terminal status. Guarded by the
// status column so two finalizers cannot both win.
func (r *TransactionRepository) MarkStatus(tx *gorm.DB, id uint, status string) error {
	res := tx.Model(&models.Transaction{}).
		Where("id = ? AND status = ?", id, domain.TxStatusPending).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTransactionFinalized
	}
	return nil
}

// CountSince returns the number of log rows for the user created at or after
// the cutoff. Feeds the fraud velocity signal.
func (r *TransactionRepository) CountSince(tx *gorm.DB, userID uint, since time.Time) (int64, error) {
	var n int64
	err := tx.Model(&models.Transaction{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&n).Error
	return n, err
}

// AverageAmount returns the all-time mean transaction amount for the
// user+currency pair. The second return is false when the user has no history
// in that currency.
func (r *TransactionRepository) AverageAmount(tx *gorm.DB, userID uint, currency string) (decimal.Decimal, bool, error) {
	var avg sql.NullFloat64
	err := tx.Model(&models.Transaction{}).
		Where("user_id = ? AND currency = ?", userID, currency).
		Select("AVG(amount)").
		Row().Scan(&avg)
	if err != nil {
		return decimal.Zero, false, err
	}
	if !avg.Valid {
		return decimal.Zero, false, nil
	}
	return decimal.NewFromFloat(avg.Float64), true, nil
}

func (r *TransactionRepository) ListByUser(tx *gorm.DB, userID uint, limit int) ([]models.Transaction, error) {
	var list []models.Transaction
	err := tx.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}
