package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fee is an immutable commission rule keyed by (type, gateway). Gateway is
// only set for acquiring rules; platform and withdrawal rules apply
// regardless of gateway. Lookup must resolve to exactly one active rule.
type Fee struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	Type        string           `gorm:"size:20;not null;index:idx_fees_type_gateway" json:"type"` // acquiring | platform | withdrawal
	Gateway     *string          `gorm:"size:50;index:idx_fees_type_gateway" json:"gateway"`
	Percentage  *decimal.Decimal `gorm:"type:decimal(5,2)" json:"percentage"`
	FixedAmount *decimal.Decimal `gorm:"type:decimal(20,8)" json:"fixed_amount"`
	Active      bool             `gorm:"not null;default:true;index" json:"active"`
	CreatedAt   time.Time        `json:"created_at"`
}

func (Fee) TableName() string {
	return "fees"
}

// Fixed returns the flat charge of the rule, zero when unset.
func (f *Fee) Fixed() decimal.Decimal {
	if f.FixedAmount == nil {
		return decimal.Zero
	}
	return *f.FixedAmount
}
