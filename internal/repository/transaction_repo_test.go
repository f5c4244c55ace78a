package repository

import (
	"testing"
	"time"

	"crave/internal/domain"
	"crave/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

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
	require.NoError(t, db.AutoMigrate(&models.Transaction{}, &models.Fee{}))
	return db
}

func TestMarkStatusTransitionsOnce(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransactionRepository()

	row := &models.Transaction{
		UserID:   1,
		Type:     domain.TxTypeGeneric,
		Amount:   decimal.NewFromInt(100),
		Currency: "USD",
		Status:   domain.TxStatusPending,
	}
	require.NoError(t, repo.Create(db, row))

	require.NoError(t, repo.MarkStatus(db, row.ID, domain.TxStatusSucceeded))

	// The row already left pending; a second transition must be refused.
	err := repo.MarkStatus(db, row.ID, domain.TxStatusRejected)
	assert.ErrorIs(t, err, ErrTransactionFinalized)

	var stored models.Transaction
	require.NoError(t, db.First(&stored, row.ID).Error)
	assert.Equal(t, domain.TxStatusSucceeded, stored.Status)
}

func TestAverageAmountNoHistory(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransactionRepository()

	_, hasHistory, err := repo.AverageAmount(db, 1, "USD")
	require.NoError(t, err)
	assert.False(t, hasHistory)
}

func TestCountSinceHonorsCutoff(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransactionRepository()

	for _, age := range []time.Duration{time.Hour, 2 * time.Hour, 48 * time.Hour} {
		require.NoError(t, db.Create(&models.Transaction{
			UserID:    1,
			Type:      domain.TxTypeGeneric,
			Amount:    decimal.NewFromInt(10),
			Currency:  "USD",
			Status:    domain.TxStatusSucceeded,
			CreatedAt: time.Now().Add(-age),
		}).Error)
	}

	n, err := repo.CountSince(db, 1, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestFeeLookupResolvesSingleActiveRule(t *testing.T) {
	db := newTestDB(t)
	repo := NewFeeRepository()

	pct := decimal.NewFromInt(2)
	fix := decimal.NewFromInt(5)
	gw := "tinkoff"
	require.NoError(t, db.Create(&models.Fee{
		Type: domain.FeeTypeAcquiring, Gateway: &gw, Percentage: &pct, FixedAmount: &fix, Active: true,
	}).Error)
	require.NoError(t, db.Create(&models.Fee{
		Type: domain.FeeTypePlatform, Percentage: &pct, FixedAmount: &fix, Active: true,
	}).Error)
	// Inactive rules never match.
	require.NoError(t, db.Create(&models.Fee{
		Type: domain.FeeTypeWithdrawal, Percentage: &pct, FixedAmount: &fix, Active: false,
	}).Error)

	fee, err := repo.Lookup(db, domain.FeeTypeAcquiring, &gw)
	require.NoError(t, err)
	assert.True(t, fee.Fixed().Equal(fix))

	fee, err = repo.Lookup(db, domain.FeeTypePlatform, nil)
	require.NoError(t, err)
	assert.Nil(t, fee.Gateway)

	_, err = repo.Lookup(db, domain.FeeTypeWithdrawal, nil)
	assert.ErrorIs(t, err, ErrFeeNotConfigured)

	other := "stripe"
	_, err = repo.Lookup(db, domain.FeeTypeAcquiring, &other)
	assert.ErrorIs(t, err, ErrFeeNotConfigured)
}
