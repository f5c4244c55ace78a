package database

import (
	"crave/config"
	"crave/internal/domain"
	"crave/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Error),
		TranslateError: true, // duplicate keys surface as gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Balance{},
		&models.Fee{},
		&models.Transaction{},
		&models.Topup{},
		&models.Withdrawal{},
		&models.Purchase{},
		&models.Subscription{},
		&models.Notification{},
	)
}

// SeedFees inserts the default commission rules when the table is empty.
func SeedFees(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Fee{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	d := func(v int64) *decimal.Decimal {
		dec := decimal.NewFromInt(v)
		return &dec
	}
	gw := func(name string) *string { return &name }

	fees := []models.Fee{
		{Type: domain.FeeTypeAcquiring, Gateway: gw("tinkoff"), Percentage: d(2), FixedAmount: d(5), Active: true},
		{Type: domain.FeeTypeAcquiring, Gateway: gw("stripe"), Percentage: d(3), FixedAmount: d(3), Active: true},
		{Type: domain.FeeTypePlatform, Percentage: d(10), FixedAmount: d(1), Active: true},
		{Type: domain.FeeTypeWithdrawal, Percentage: d(1), FixedAmount: d(2), Active: true},
	}
	return db.Create(&fees).Error
}
