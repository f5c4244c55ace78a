package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Balance holds a user's money in one currency. Available is spendable;
// Pending is earned but not yet released by settlement. Neither may go
// negative, and every mutation commits together with its Transaction row.
type Balance struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"not null;uniqueIndex:idx_balances_user_currency" json:"user_id"`
	Currency  string          `gorm:"size:3;not null;uniqueIndex:idx_balances_user_currency" json:"currency"`
	Available decimal.Decimal `gorm:"type:decimal(20,8);not null;default:0" json:"available"`
	Pending   decimal.Decimal `gorm:"type:decimal(20,8);not null;default:0" json:"pending"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Balance) TableName() string {
	return "balances"
}
