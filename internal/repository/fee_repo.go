package repository

import (
	"errors"

	"crave/internal/models"

	"gorm.io/gorm"
)

var (
	ErrFeeNotConfigured = errors.New("fee rule not configured")
	ErrFeeAmbiguous     = errors.New("ambiguous fee configuration")
)

// FeeRepository reads the commission rule table. Rules are reference data;
// the billing core never writes them.
type FeeRepository struct{}

func NewFeeRepository() *FeeRepository {
	return &FeeRepository{}
}

// Lookup resolves the single active rule for (feeType, gateway). Gateway is
// nil for platform and withdrawal rules. Zero matches or more than one match
// both fail the calling operation.
func (r *FeeRepository) Lookup(tx *gorm.DB, feeType string, gateway *string) (*models.Fee, error) {
	q := tx.Where("type = ? AND active = ?", feeType, true)
	if gateway != nil {
		q = q.Where("gateway = ?", *gateway)
	} else {
		q = q.Where("gateway IS NULL")
	}
	var fees []models.Fee
	if err := q.Find(&fees).Error; err != nil {
		return nil, err
	}
	switch len(fees) {
	case 0:
		return nil, ErrFeeNotConfigured
	case 1:
		return &fees[0], nil
	default:
		return nil, ErrFeeAmbiguous
	}
}
