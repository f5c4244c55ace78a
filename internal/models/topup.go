package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Topup captures gateway-specific detail of a balance top-up, linked 1:1 to
// its Transaction via metadata.topup_id.
type Topup struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"not null;index" json:"user_id"`
	OrderID   string          `gorm:"size:64;uniqueIndex;not null" json:"order_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"amount"`
	Fee       decimal.Decimal `gorm:"type:decimal(20,8);not null;default:0" json:"fee"`
	Currency  string          `gorm:"size:3;not null" json:"currency"`
	Gateway   string          `gorm:"size:50;not null" json:"gateway"`
	Status    string          `gorm:"size:20;not null;index" json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Topup) TableName() string {
	return "topups"
}
