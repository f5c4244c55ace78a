package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Withdrawal reserves funds out of a balance. It stays pending until an
// external settlement step completes it; Fee is recorded informationally and
// not deducted a second time.
type Withdrawal struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	OrderID     string          `gorm:"size:64;uniqueIndex;not null" json:"order_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"amount"`
	Fee         decimal.Decimal `gorm:"type:decimal(20,8);not null;default:0" json:"fee"`
	Currency    string          `gorm:"size:3;not null" json:"currency"`
	Status      string          `gorm:"size:20;not null;index" json:"status"` // pending | completed | failed
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	CompletedAt *time.Time      `json:"completed_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}
