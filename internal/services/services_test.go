package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"captionly/internal/models/db_models"
	"captionly/pkg/utils"
)

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

// fakeGateway scripts both gateway calls. statuses maps order id to the
// authoritative answer the status API would give.
type fakeGateway struct {
	mu        sync.Mutex
	statuses  map[string]GatewayStatus
	statusErr error
	createErr error
	created   []string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{statuses: make(map[string]GatewayStatus)}
}

func (f *fakeGateway) setStatus(orderID, transactionStatus, fraudStatus string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[orderID] = GatewayStatus{
		OrderID:           orderID,
		TransactionStatus: transactionStatus,
		FraudStatus:       fraudStatus,
	}
}

func (f *fakeGateway) CreateTransaction(ctx context.Context, order *db_models.PaymentOrder, email, displayName string) (*GatewayCharge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, order.OrderID)
	return &GatewayCharge{
		Token:       "snap-token-" + order.OrderID,
		RedirectURL: "https://app.sandbox.midtrans.com/snap/v2/vtweb/" + order.OrderID,
	}, nil
}

func (f *fakeGateway) CheckStatus(ctx context.Context, orderID string) (*GatewayStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	status, ok := f.statuses[orderID]
	if !ok {
		return nil, utils.ErrOrderNotFound
	}
	return &status, nil
}

func testLogger() *zap.Logger { return zap.NewNop() }
