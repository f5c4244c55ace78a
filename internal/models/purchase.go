package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase is a one-time content unlock. The unique (user_id, post_id) index
// is the idempotency guard: rows are only written for completed purchases,
// so a second attempt hits a duplicate key even under concurrency.
type Purchase struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"not null;uniqueIndex:idx_purchases_user_post" json:"user_id"`
	PostID    uint            `gorm:"not null;uniqueIndex:idx_purchases_user_post" json:"post_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"amount"`
	Fee       decimal.Decimal `gorm:"type:decimal(20,8);not null;default:0" json:"fee"`
	Currency  string          `gorm:"size:3;not null" json:"currency"`
	Status    string          `gorm:"size:20;not null;index" json:"status"`
	CreatedAt time.Time       `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Purchase) TableName() string {
	return "purchases"
}
