package service

import (
	"testing"
	"time"

	"crave/internal/domain"
	"crave/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// seedHistory inserts n completed generic log rows for the user, aged by the
// given offset from now.
func seedHistory(t *testing.T, db *gorm.DB, userID uint, n int, amount, currency string, age time.Duration) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, db.Create(&models.Transaction{
			UserID:    userID,
			Type:      domain.TxTypeGeneric,
			Amount:    dec(t, amount),
			Currency:  currency,
			Status:    domain.TxStatusSucceeded,
			CreatedAt: time.Now().Add(-age),
		}).Error)
	}
}

func TestProcessTransactionVelocityFlagged(t *testing.T) {
	db := newTestDB(t)
	seedBalance(t, db, 1, "USD", "1000", "0")
	seedHistory(t, db, 1, 10, "100", "USD", time.Hour)
	svc := newBalanceService(db)

	_, err := svc.ProcessTransaction(1, dec(t, "100"), "USD", nil)
	require.Error(t, err)
	assert.Equal(t, KindFraudFlagged, KindOf(err))
	assert.Equal(t, "transaction declined", err.Error())

	// Balance untouched, but the rejected row must survive the commit.
	requireDecimalEqual(t, "1000", loadBalance(t, db, 1, "USD").Available)
	var rejected []models.Transaction
	require.NoError(t, db.Where("user_id = ? AND status = ?", 1, domain.TxStatusRejected).Find(&rejected).Error)
	require.Len(t, rejected, 1)
	requireDecimalEqual(t, "100", rejected[0].Amount)
}

func TestProcessTransactionVelocityUnderLimit(t *testing.T) {
	db := newTestDB(t)
	seedBalance(t, db, 1, "USD", "1000", "0")
	seedHistory(t, db, 1, 9, "100", "USD", time.Hour)
	svc := newBalanceService(db)

	tx, err := svc.ProcessTransaction(1, dec(t, "100"), "USD", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.TxStatusSucceeded, tx.Status)
	requireDecimalEqual(t, "1100", loadBalance(t, db, 1, "USD").Available)
}

func TestProcessTransactionVelocityIgnoresOldRows(t *testing.T) {
	db := newTestDB(t)
	seedBalance(t, db, 1, "USD", "1000", "0")
	seedHistory(t, db, 1, 10, "100", "USD", 25*time.Hour)
	svc := newBalanceService(db)

	_, err := svc.ProcessTransaction(1, dec(t, "100"), "USD", nil)
	require.NoError(t, err)
	requireDecimalEqual(t, "1100", loadBalance(t, db, 1, "USD").Available)
}

func TestProcessTransactionMagnitudeFlagged(t *testing.T) {
	db := newTestDB(t)
	seedBalance(t, db, 1, "USD", "10000", "0")
	seedHistory(t, db, 1, 3, "100", "USD", time.Hour)
	svc := newBalanceService(db)

	// Average including this attempt is 1325; |5000 - 1325| > 1000.
	_, err := svc.ProcessTransaction(1, dec(t, "5000"), "USD", nil)
	require.Error(t, err)
	assert.Equal(t, KindFraudFlagged, KindOf(err))
	requireDecimalEqual(t, "10000", loadBalance(t, db, 1, "USD").Available)
}

func TestProcessTransactionMagnitudeWithinThreshold(t *testing.T) {
	db := newTestDB(t)
	seedBalance(t, db, 1, "USD", "10000", "0")
	seedHistory(t, db, 1, 3, "100", "USD", time.Hour)
	svc := newBalanceService(db)

	tx, err := svc.ProcessTransaction(1, dec(t, "200"), "USD", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.TxStatusSucceeded, tx.Status)
	requireDecimalEqual(t, "10200", loadBalance(t, db, 1, "USD").Available)
}

func TestProcessTransactionFirstTransactionAnySize(t *testing.T) {
	db := newTestDB(t)
	seedBalance(t, db, 1, "USD", "0", "0")
	svc := newBalanceService(db)

	// With no history the average is the attempt itself, so magnitude
	// cannot flag a user's very first transaction.
	_, err := svc.ProcessTransaction(1, dec(t, "5000"), "USD", nil)
	require.NoError(t, err)
	requireDecimalEqual(t, "5000", loadBalance(t, db, 1, "USD").Available)
}

func TestProcessTransactionDebitInsufficientFundsRollsBack(t *testing.T) {
	db := newTestDB(t)
	seedBalance(t, db, 1, "USD", "50", "0")
	svc := newBalanceService(db)

	_, err := svc.ProcessTransaction(1, dec(t, "-100"), "USD", nil)
	require.Error(t, err)
	assert.Equal(t, KindInsufficientFunds, KindOf(err))
	requireDecimalEqual(t, "50", loadBalance(t, db, 1, "USD").Available)
	// The pending row created before the balance check must not survive.
	assert.Empty(t, userTransactions(t, db, 1))
}

func TestProcessTransactionZeroAmount(t *testing.T) {
	db := newTestDB(t)
	svc := newBalanceService(db)

	_, err := svc.ProcessTransaction(1, dec(t, "0"), "USD", nil)
	require.Error(t, err)
	assert.Equal(t, KindInvalidArgument, KindOf(err))
}

func TestTopUpBypassesFraudChecks(t *testing.T) {
	db := newTestDB(t)
	seedFee(t, db, domain.FeeTypeAcquiring, "tinkoff", "2", "5")
	seedBalance(t, db, 1, "USD", "0", "0")
	seedHistory(t, db, 1, 12, "100", "USD", time.Hour)
	svc := newBalanceService(db)

	// Well past the velocity limit, yet top-ups are not fraud-gated.
	_, err := svc.TopUp(1, dec(t, "100"), "USD", "tinkoff")
	require.NoError(t, err)
	requireDecimalEqual(t, "95", loadBalance(t, db, 1, "USD").Available)
}
