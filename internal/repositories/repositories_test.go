package repositories

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"captionly/internal/models/db_models"
)

// newTestDB opens a private in-memory database. The pool is capped at a
// single connection so concurrent writers serialize the way Postgres row
// locks would, instead of tripping SQLITE_BUSY.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&db_models.Account{},
		&db_models.Transaction{},
		&db_models.PaymentOrder{},
	))
	return db
}

func createAccount(t *testing.T, db *gorm.DB, role db_models.Role, balance string) *db_models.Account {
	t.Helper()
	account := &db_models.Account{
		Name:          "Test User",
		Email:         fmt.Sprintf("%s@example.com", uuid.NewString()),
		PasswordHash:  "x",
		Role:          role,
		CreditBalance: decimal.RequireFromString(balance),
	}
	require.NoError(t, db.Create(account).Error)
	return account
}

func reloadAccount(t *testing.T, db *gorm.DB, id uuid.UUID) *db_models.Account {
	t.Helper()
	var account db_models.Account
	require.NoError(t, db.First(&account, "id = ?", id).Error)
	return &account
}

func countTransactions(t *testing.T, db *gorm.DB, accountID uuid.UUID) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&db_models.Transaction{}).
		Where("account_id = ?", accountID).Count(&n).Error)
	return n
}
