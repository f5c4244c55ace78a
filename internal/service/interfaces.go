package service

import (
	"time"

	"crave/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Store interfaces the billing services depend on. Concrete adapters live in
// internal/repository; tests substitute fakes or failure-injecting wrappers.
// Every method takes the enclosing unit of work explicitly.

type BalanceStore interface {
	Get(tx *gorm.DB, userID uint, currency string) (*models.Balance, error)
	GetForUpdate(tx *gorm.DB, userID uint, currency string) (*models.Balance, error)
	GetOrCreate(tx *gorm.DB, userID uint, currency string) (*models.Balance, error)
	Save(tx *gorm.DB, b *models.Balance) error
}

type FeeStore interface {
	Lookup(tx *gorm.DB, feeType string, gateway *string) (*models.Fee, error)
}

type TransactionStore interface {
	Create(tx *gorm.DB, t *models.Transaction) error
	MarkStatus(tx *gorm.DB, id uint, status string) error
	CountSince(tx *gorm.DB, userID uint, since time.Time) (int64, error)
	AverageAmount(tx *gorm.DB, userID uint, currency string) (decimal.Decimal, bool, error)
	ListByUser(tx *gorm.DB, userID uint, limit int) ([]models.Transaction, error)
}

type TopupStore interface {
	Create(tx *gorm.DB, t *models.Topup) error
}

type WithdrawalStore interface {
	Create(tx *gorm.DB, w *models.Withdrawal) error
}

type PurchaseStore interface {
	Create(tx *gorm.DB, p *models.Purchase) error
	FindCompleted(tx *gorm.DB, userID, postID uint) (*models.Purchase, error)
}

type SubscriptionStore interface {
	Create(tx *gorm.DB, s *models.Subscription) error
	GetByID(tx *gorm.DB, id uint) (*models.Subscription, error)
	GetActive(tx *gorm.DB, userID uint, now time.Time) (*models.Subscription, error)
	GetLatestFlaggedActive(tx *gorm.DB, userID uint) (*models.Subscription, error)
	Save(tx *gorm.DB, s *models.Subscription) error
}

// Notifier is fire-and-forget: implementations must never fail the billing
// operation, only log.
type Notifier interface {
	Notify(userID uint, eventType, title, body string, data map[string]interface{})
}
