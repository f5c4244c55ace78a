package service

import (
	"errors"

	"crave/internal/domain"
	"crave/internal/models"
	"crave/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// BalanceService orchestrates every balance-affecting operation as one
// database transaction. Writes are ordered balance mutation, then satellite
// record, then transaction log row, so a committed log row always has its
// satellite and updated balance visible. Notifications go out only after
// commit.
type BalanceService struct {
	db           *gorm.DB
	balances     BalanceStore
	fees         FeeStore
	transactions TransactionStore
	topups       TopupStore
	withdrawals  WithdrawalStore
	fraud        *FraudChecker
	notifier     Notifier
	log          *logrus.Logger
}

func NewBalanceService(db *gorm.DB, balances BalanceStore, fees FeeStore, transactions TransactionStore, topups TopupStore, withdrawals WithdrawalStore, fraud *FraudChecker, notifier Notifier, log *logrus.Logger) *BalanceService {
	return &BalanceService{
		db:           db,
		balances:     balances,
		fees:         fees,
		transactions: transactions,
		topups:       topups,
		withdrawals:  withdrawals,
		fraud:        fraud,
		notifier:     notifier,
		log:          log,
	}
}

// GetBalance reads the balance for the pair; absence is a NotFound the
// caller may answer by lazily opening a zero balance.
func (s *BalanceService) GetBalance(userID uint, currency string) (*models.Balance, error) {
	b, err := s.balances.Get(s.db, userID, currency)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("balance not found for currency")
		}
		return nil, InternalError(err)
	}
	return b, nil
}

// GetOrCreateBalance is the read-path variant that opens a zero balance on
// first use. Money-movement paths never create balances implicitly.
func (s *BalanceService) GetOrCreateBalance(userID uint, currency string) (*models.Balance, error) {
	b, err := s.balances.GetOrCreate(s.db, userID, currency)
	if err != nil {
		return nil, InternalError(err)
	}
	return b, nil
}

// TopUp credits amount minus the gateway's flat acquiring fee. The gateway
// call is assumed to have already succeeded before this method runs. Only
// the fee rule's fixed amount applies here, not its percentage.
func (s *BalanceService) TopUp(userID uint, amount decimal.Decimal, currency, gateway string) (*models.Topup, error) {
	if !amount.IsPositive() {
		return nil, InvalidArgumentError("amount must be positive")
	}

	var topup *models.Topup
	err := s.db.Transaction(func(tx *gorm.DB) error {
		fee, err := s.fees.Lookup(tx, domain.FeeTypeAcquiring, &gateway)
		if err != nil {
			return translateFeeErr(err, "acquiring")
		}
		balance, err := s.balances.GetForUpdate(tx, userID, currency)
		if err != nil {
			return translateBalanceErr(err, "balance not found for currency")
		}

		credited := amount.Sub(fee.Fixed())
		balance.Available = balance.Available.Add(credited)
		if err := s.balances.Save(tx, balance); err != nil {
			return InternalError(err)
		}

		topup = &models.Topup{
			UserID:   userID,
			OrderID:  uuid.NewString(),
			Amount:   amount,
			Fee:      fee.Fixed(),
			Currency: currency,
			Gateway:  gateway,
			Status:   domain.TxStatusSucceeded,
		}
		if err := s.topups.Create(tx, topup); err != nil {
			return InternalError(err)
		}

		return s.createLogRow(tx, &models.Transaction{
			UserID:   userID,
			Type:     domain.TxTypeTopup,
			Amount:   credited,
			Currency: currency,
			Status:   domain.TxStatusSucceeded,
			Metadata: models.Metadata{"topup_id": topup.ID, "gateway": gateway},
		})
	})
	if err != nil {
		s.logFailure("topup", userID, err, logrus.Fields{"amount": amount.String(), "currency": currency, "gateway": gateway})
		return nil, err
	}

	s.notifier.Notify(userID, domain.EventTopupSucceeded, "Balance topped up",
		"Your balance top-up was credited.",
		map[string]interface{}{"topup_id": topup.ID, "amount": topup.Amount, "fee": topup.Fee, "currency": currency})
	return topup, nil
}

// Transfer moves amount between two users' balances in the same currency.
// Both debits and credits, and both log rows, commit together or not at all.
func (s *BalanceService) Transfer(senderID, recipientID uint, amount decimal.Decimal, currency string) (*models.Balance, *models.Balance, error) {
	if !amount.IsPositive() {
		return nil, nil, InvalidArgumentError("amount must be positive")
	}
	if senderID == recipientID {
		return nil, nil, InvalidArgumentError("cannot transfer to yourself")
	}

	var sender, recipient *models.Balance
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Lock in ascending user-id order so two opposite transfers
		// cannot deadlock.
		first, second := senderID, recipientID
		if second < first {
			first, second = second, first
		}
		locked := map[uint]*models.Balance{}
		for _, id := range []uint{first, second} {
			b, err := s.balances.GetForUpdate(tx, id, currency)
			if err != nil {
				side := "sender"
				if id == recipientID {
					side = "recipient"
				}
				return translateBalanceErr(err, side+" balance not found for currency")
			}
			locked[id] = b
		}
		sender, recipient = locked[senderID], locked[recipientID]

		if sender.Available.LessThan(amount) {
			return InsufficientFundsError("insufficient funds")
		}
		sender.Available = sender.Available.Sub(amount)
		recipient.Available = recipient.Available.Add(amount)
		if err := s.balances.Save(tx, sender); err != nil {
			return InternalError(err)
		}
		if err := s.balances.Save(tx, recipient); err != nil {
			return InternalError(err)
		}

		if err := s.createLogRow(tx, &models.Transaction{
			UserID:   senderID,
			Type:     domain.TxTypeTransfer,
			Amount:   amount.Neg(),
			Currency: currency,
			Status:   domain.TxStatusCompleted,
			Metadata: models.Metadata{"recipient_user_id": recipientID},
		}); err != nil {
			return err
		}
		return s.createLogRow(tx, &models.Transaction{
			UserID:   recipientID,
			Type:     domain.TxTypeTransfer,
			Amount:   amount,
			Currency: currency,
			Status:   domain.TxStatusCompleted,
			Metadata: models.Metadata{"sender_user_id": senderID},
		})
	})
	if err != nil {
		s.logFailure("transfer", senderID, err, logrus.Fields{"recipient_id": recipientID, "amount": amount.String(), "currency": currency})
		return nil, nil, err
	}

	s.notifier.Notify(senderID, domain.EventTransferSent, "Transfer sent",
		"Your transfer was completed.",
		map[string]interface{}{"recipient_user_id": recipientID, "amount": amount, "currency": currency})
	s.notifier.Notify(recipientID, domain.EventTransferReceived, "Transfer received",
		"You received a transfer.",
		map[string]interface{}{"sender_user_id": senderID, "amount": amount, "currency": currency})
	return sender, recipient, nil
}

// Withdraw reserves funds for settlement: the available balance is debited
// now, the withdrawal and its log row stay pending until an external step
// completes them. The withdrawal fee is recorded informationally only.
func (s *BalanceService) Withdraw(userID uint, amount decimal.Decimal, currency string) (*models.Withdrawal, error) {
	if !amount.IsPositive() {
		return nil, InvalidArgumentError("amount must be positive")
	}

	var withdrawal *models.Withdrawal
	err := s.db.Transaction(func(tx *gorm.DB) error {
		fee, err := s.fees.Lookup(tx, domain.FeeTypeWithdrawal, nil)
		if err != nil {
			return translateFeeErr(err, "withdrawal")
		}
		balance, err := s.balances.GetForUpdate(tx, userID, currency)
		if err != nil {
			return translateBalanceErr(err, "balance not found for currency")
		}
		if balance.Available.LessThan(amount) {
			return InsufficientFundsError("insufficient funds")
		}

		balance.Available = balance.Available.Sub(amount)
		if err := s.balances.Save(tx, balance); err != nil {
			return InternalError(err)
		}

		withdrawal = &models.Withdrawal{
			UserID:   userID,
			OrderID:  uuid.NewString(),
			Amount:   amount,
			Fee:      fee.Fixed(),
			Currency: currency,
			Status:   domain.TxStatusPending,
		}
		if err := s.withdrawals.Create(tx, withdrawal); err != nil {
			return InternalError(err)
		}

		return s.createLogRow(tx, &models.Transaction{
			UserID:   userID,
			Type:     domain.TxTypeWithdrawal,
			Amount:   amount.Neg(),
			Currency: currency,
			Status:   domain.TxStatusPending,
			Metadata: models.Metadata{"withdrawal_id": withdrawal.ID},
		})
	})
	if err != nil {
		s.logFailure("withdraw", userID, err, logrus.Fields{"amount": amount.String(), "currency": currency})
		return nil, err
	}

	s.notifier.Notify(userID, domain.EventWithdrawalRequested, "Withdrawal requested",
		"Your withdrawal is being processed.",
		map[string]interface{}{"withdrawal_id": withdrawal.ID, "amount": amount, "currency": currency})
	return withdrawal, nil
}

// PayoutToSeller releases the entire pending amount into available. This is
// the only operation that touches pending; crediting it in the first place
// is an external settlement concern.
func (s *BalanceService) PayoutToSeller(userID uint, currency string) (*models.Transaction, error) {
	var logRow *models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		balance, err := s.balances.GetForUpdate(tx, userID, currency)
		if err != nil {
			return translateBalanceErr(err, "balance not found for currency")
		}
		if !balance.Pending.IsPositive() {
			return ConflictError("nothing to pay out")
		}

		released := balance.Pending
		balance.Available = balance.Available.Add(released)
		balance.Pending = decimal.Zero
		if err := s.balances.Save(tx, balance); err != nil {
			return InternalError(err)
		}

		logRow = &models.Transaction{
			UserID:   userID,
			Type:     domain.TxTypePayout,
			Amount:   released,
			Currency: currency,
			Status:   domain.TxStatusCompleted,
		}
		return s.createLogRow(tx, logRow)
	})
	if err != nil {
		s.logFailure("payout", userID, err, logrus.Fields{"currency": currency})
		return nil, err
	}

	s.notifier.Notify(userID, domain.EventPayoutReleased, "Earnings released",
		"Your pending earnings are now available.",
		map[string]interface{}{"transaction_id": logRow.ID, "amount": logRow.Amount, "currency": currency})
	return logRow, nil
}

// ProcessTransaction is the generic money-movement entry point and the only
// one gated by the fraud heuristic. A flagged attempt is committed as a
// rejected log row for the audit trail and surfaced as a generic rejection.
func (s *BalanceService) ProcessTransaction(userID uint, amount decimal.Decimal, currency string, metadata models.Metadata) (*models.Transaction, error) {
	if amount.IsZero() {
		return nil, InvalidArgumentError("amount must be non-zero")
	}

	logRow := &models.Transaction{
		UserID:   userID,
		Type:     domain.TxTypeGeneric,
		Amount:   amount,
		Currency: currency,
		Status:   domain.TxStatusPending,
		Metadata: metadata,
	}
	flagged := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.transactions.Create(tx, logRow); err != nil {
			return InternalError(err)
		}

		clean, err := s.fraud.Check(tx, logRow)
		if err != nil {
			return InternalError(err)
		}
		if !clean {
			flagged = true
			if err := s.transactions.MarkStatus(tx, logRow.ID, domain.TxStatusRejected); err != nil {
				return InternalError(err)
			}
			return nil // commit the rejected row
		}

		balance, err := s.balances.GetForUpdate(tx, userID, currency)
		if err != nil {
			return translateBalanceErr(err, "balance not found for currency")
		}
		next := balance.Available.Add(amount)
		if next.IsNegative() {
			return InsufficientFundsError("insufficient funds")
		}
		balance.Available = next
		if err := s.balances.Save(tx, balance); err != nil {
			return InternalError(err)
		}
		return s.transactions.MarkStatus(tx, logRow.ID, domain.TxStatusSucceeded)
	})
	if err != nil {
		s.logFailure("process_transaction", userID, err, logrus.Fields{"amount": amount.String(), "currency": currency})
		return nil, err
	}
	if flagged {
		logRow.Status = domain.TxStatusRejected
		return nil, FraudFlaggedError()
	}
	logRow.Status = domain.TxStatusSucceeded

	s.notifier.Notify(userID, domain.EventTransactionApplied, "Balance updated",
		"A transaction was applied to your balance.",
		map[string]interface{}{"transaction_id": logRow.ID, "amount": amount, "currency": currency})
	return logRow, nil
}

// ListTransactions returns the user's most recent log rows.
func (s *BalanceService) ListTransactions(userID uint, limit int) ([]models.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	list, err := s.transactions.ListByUser(s.db, userID, limit)
	if err != nil {
		return nil, InternalError(err)
	}
	return list, nil
}

func (s *BalanceService) createLogRow(tx *gorm.DB, t *models.Transaction) error {
	if err := s.transactions.Create(tx, t); err != nil {
		return InternalError(err)
	}
	return nil
}

func translateBalanceErr(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFoundError(msg)
	}
	return InternalError(err)
}

func translateFeeErr(err error, feeType string) error {
	if errors.Is(err, repository.ErrFeeNotConfigured) {
		return NotFoundError(feeType + " fee not configured")
	}
	return InternalError(err)
}

func (s *BalanceService) logFailure(op string, userID uint, err error, extra logrus.Fields) {
	fields := logrus.Fields{"operation": op, "user_id": userID}
	for k, v := range extra {
		fields[k] = v
	}
	s.log.WithFields(fields).WithError(err).Warn("billing operation failed")
}
