package infra

import (
	"os"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"captionly/internal/models/db_models"
)

func InitPostgresql(logger *zap.Logger) *gorm.DB {
	dsn := os.Getenv("POSTGRES_URL")

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Fatal("error connecting to database", zap.Error(err))
	}

	return db
}

// Migrate keeps the three core tables in sync: accounts, the append-only
// transaction ledger, and payment orders.
func Migrate(db *gorm.DB, logger *zap.Logger) {
	err := db.AutoMigrate(
		&db_models.Account{},
		&db_models.Transaction{},
		&db_models.PaymentOrder{},
	)
	if err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
}

func ClosePostgresql(db *gorm.DB, logger *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("error getting database instance", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("error closing database connection", zap.Error(err))
	}
}
