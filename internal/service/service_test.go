package service

import (
	"io"
	"testing"

	"crave/internal/models"
	"crave/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens an in-memory sqlite database migrated with the billing
// schema. A single connection keeps the database alive for the whole test
// and serializes concurrent writers the way row locks do in production.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Balance{},
		&models.Fee{},
		&models.Transaction{},
		&models.Topup{},
		&models.Withdrawal{},
		&models.Purchase{},
		&models.Subscription{},
	))
	return db
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type noopNotifier struct{}

func (noopNotifier) Notify(uint, string, string, string, map[string]interface{}) {}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func requireDecimalEqual(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, got.Equal(dec(t, want)), "want %s, got %s", want, got)
}

func seedBalance(t *testing.T, db *gorm.DB, userID uint, currency, available, pending string) {
	t.Helper()
	require.NoError(t, db.Create(&models.Balance{
		UserID:    userID,
		Currency:  currency,
		Available: dec(t, available),
		Pending:   dec(t, pending),
	}).Error)
}

func loadBalance(t *testing.T, db *gorm.DB, userID uint, currency string) *models.Balance {
	t.Helper()
	var b models.Balance
	require.NoError(t, db.Where("user_id = ? AND currency = ?", userID, currency).First(&b).Error)
	return &b
}

func seedFee(t *testing.T, db *gorm.DB, feeType string, gateway string, percentage, fixed string) {
	t.Helper()
	pct := dec(t, percentage)
	fix := dec(t, fixed)
	fee := models.Fee{Type: feeType, Percentage: &pct, FixedAmount: &fix, Active: true}
	if gateway != "" {
		fee.Gateway = &gateway
	}
	require.NoError(t, db.Create(&fee).Error)
}

func newBalanceService(db *gorm.DB) *BalanceService {
	log := testLogger()
	txRepo := repository.NewTransactionRepository()
	fraud := NewFraudChecker(txRepo, log, DefaultVelocityLimit, decimal.NewFromInt(DefaultMagnitudeThreshold))
	return NewBalanceService(db,
		repository.NewBalanceRepository(),
		repository.NewFeeRepository(),
		txRepo,
		repository.NewTopupRepository(),
		repository.NewWithdrawalRepository(),
		fraud, noopNotifier{}, log)
}

func userTransactions(t *testing.T, db *gorm.DB, userID uint) []models.Transaction {
	t.Helper()
	var list []models.Transaction
	require.NoError(t, db.Where("user_id = ?", userID).Order("id ASC").Find(&list).Error)
	return list
}
