package service

import (
	"time"

	"crave/internal/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Fraud heuristic defaults. The magnitude threshold is an absolute distance
// from the user's all-time average in the currency as stored, tunable via
// config.
const (
	DefaultVelocityLimit      = 10
	DefaultMagnitudeThreshold = 1000
	velocityWindow            = 24 * time.Hour
)

// FraudChecker evaluates a just-created log row against the user's recent
// history. Only the generic transaction path consults it; top-up, transfer,
// withdraw and purchase rely on their own inline precondition checks.
type FraudChecker struct {
	transactions TransactionStore
	log          *logrus.Logger

	velocityLimit      int64
	magnitudeThreshold decimal.Decimal
}

func NewFraudChecker(transactions TransactionStore, log *logrus.Logger, velocityLimit int64, magnitudeThreshold decimal.Decimal) *FraudChecker {
	if velocityLimit <= 0 {
		velocityLimit = DefaultVelocityLimit
	}
	if magnitudeThreshold.IsZero() {
		magnitudeThreshold = decimal.NewFromInt(DefaultMagnitudeThreshold)
	}
	return &FraudChecker{
		transactions:       transactions,
		log:                log,
		velocityLimit:      velocityLimit,
		magnitudeThreshold: magnitudeThreshold,
	}
}

// Check returns true when the transaction looks clean. The row t must
// already be persisted within tx, so counts and averages include it. Either
// signal alone flags the transaction.
func (f *FraudChecker) Check(tx *gorm.DB, t *models.Transaction) (bool, error) {
	count, err := f.transactions.CountSince(tx, t.UserID, time.Now().Add(-velocityWindow))
	if err != nil {
		return false, err
	}
	if count > f.velocityLimit {
		f.warn(t, "velocity", logrus.Fields{"count_24h": count, "limit": f.velocityLimit})
		return false, nil
	}

	avg, hasHistory, err := f.transactions.AverageAmount(tx, t.UserID, t.Currency)
	if err != nil {
		return false, err
	}
	if hasHistory && t.Amount.Sub(avg).Abs().GreaterThan(f.magnitudeThreshold) {
		f.warn(t, "magnitude", logrus.Fields{"average": avg.String(), "threshold": f.magnitudeThreshold.String()})
		return false, nil
	}
	return true, nil
}

func (f *FraudChecker) warn(t *models.Transaction, reason string, extra logrus.Fields) {
	fields := logrus.Fields{
		"user_id":        t.UserID,
		"transaction_id": t.ID,
		"amount":         t.Amount.String(),
		"currency":       t.Currency,
		"type":           t.Type,
		"reason":         reason,
	}
	for k, v := range extra {
		fields[k] = v
	}
	f.log.WithFields(fields).Warn("transaction flagged as fraudulent")
}
