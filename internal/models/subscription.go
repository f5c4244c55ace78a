package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Subscription is a per-user plan record. A user may hold many historical
// rows; the one that gates content is status=active with expires_at still in
// the future. Rows are never hard-deleted.
type Subscription struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	Plan        string          `gorm:"size:50;not null" json:"plan"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"amount"`
	Currency    string          `gorm:"size:3;not null" json:"currency"`
	Status      string          `gorm:"size:20;not null;index" json:"status"` // active | expired | inactive
	PurchasedAt time.Time       `gorm:"not null" json:"purchased_at"`
	ExpiresAt   time.Time       `gorm:"not null;index" json:"expires_at"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// IsActive reports whether the subscription currently grants access.
func (s *Subscription) IsActive(now time.Time) bool {
	return s.Status == "active" && s.ExpiresAt.After(now)
}
