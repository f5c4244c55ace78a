package service

import (
	"context"
	"errors"

	"crave/internal/domain"
	"crave/internal/models"
	"crave/pkg/payment"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PurchaseService handles one-time content unlocks. Unlike the other flows
// it calls the external gateway inside the atomic unit: a gateway failure
// aborts and rolls back everything, since no refund path exists here.
type PurchaseService struct {
	db           *gorm.DB
	balances     BalanceStore
	fees         FeeStore
	transactions TransactionStore
	purchases    PurchaseStore
	gateway      payment.Provider
	notifier     Notifier
	log          *logrus.Logger
}

func NewPurchaseService(db *gorm.DB, balances BalanceStore, fees FeeStore, transactions TransactionStore, purchases PurchaseStore, gateway payment.Provider, notifier Notifier, log *logrus.Logger) *PurchaseService {
	return &PurchaseService{
		db:           db,
		balances:     balances,
		fees:         fees,
		transactions: transactions,
		purchases:    purchases,
		gateway:      gateway,
		notifier:     notifier,
		log:          log,
	}
}

// PurchasePost debits amount plus the platform fee and unlocks the post.
// The unique (user_id, post_id) index closes the double-purchase race that a
// pre-check alone would leave open.
func (s *PurchaseService) PurchasePost(ctx context.Context, userID, postID uint, amount decimal.Decimal, currency string) (*models.Purchase, error) {
	if !amount.IsPositive() {
		return nil, InvalidArgumentError("amount must be positive")
	}

	var purchase *models.Purchase
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.purchases.FindCompleted(tx, userID, postID); err == nil {
			return ConflictError("post already purchased")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return InternalError(err)
		}

		fee, err := s.fees.Lookup(tx, domain.FeeTypePlatform, nil)
		if err != nil {
			return translateFeeErr(err, "platform")
		}
		balance, err := s.balances.GetForUpdate(tx, userID, currency)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundError("balance not found for currency")
			}
			return InternalError(err)
		}

		total := amount.Add(fee.Fixed())
		if balance.Available.LessThan(total) {
			return InsufficientFundsError("insufficient funds to cover amount plus platform fee")
		}

		if _, err := s.gateway.ProcessPayment(ctx, payment.Request{
			UserID:    userID,
			Amount:    amount,
			Currency:  currency,
			Fee:       fee.Fixed(),
			Reference: uuid.NewString(),
		}); err != nil {
			return GatewayError(err)
		}

		balance.Available = balance.Available.Sub(total)
		if err := s.balances.Save(tx, balance); err != nil {
			return InternalError(err)
		}

		purchase = &models.Purchase{
			UserID:   userID,
			PostID:   postID,
			Amount:   amount,
			Fee:      fee.Fixed(),
			Currency: currency,
			Status:   domain.TxStatusCompleted,
		}
		if err := s.purchases.Create(tx, purchase); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ConflictError("post already purchased")
			}
			return InternalError(err)
		}

		if err := s.transactions.Create(tx, &models.Transaction{
			UserID:   userID,
			Type:     domain.TxTypePurchase,
			Amount:   total.Neg(),
			Currency: currency,
			Status:   domain.TxStatusCompleted,
			Metadata: models.Metadata{"purchase_id": purchase.ID, "post_id": postID},
		}); err != nil {
			return InternalError(err)
		}
		return nil
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"operation": "purchase_post",
			"user_id":   userID,
			"post_id":   postID,
			"amount":    amount.String(),
			"currency":  currency,
		}).WithError(err).Warn("billing operation failed")
		return nil, err
	}

	s.notifier.Notify(userID, domain.EventPostPurchased, "Post unlocked",
		"Your purchase was successful.",
		map[string]interface{}{"purchase_id": purchase.ID, "post_id": postID, "amount": amount, "fee": purchase.Fee, "currency": currency})
	return purchase, nil
}
