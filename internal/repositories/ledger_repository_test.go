package repositories

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gorm.io/gorm"

	"captionly/internal/models/db_models"
	"captionly/pkg/utils"
)

func TestTryDeductSequentialUntilEmpty(t *testing.T) {
	db := newTestDB(t)
	repo := NewLedgerRepository(db)
	account := createAccount(t, db, db_models.RoleFree, "1.00")

	quarter := decimal.RequireFromString("0.25")
	for i := 0; i < 4; i++ {
		got, err := repo.TryDeduct(context.Background(), account.ID, quarter, "social-caption")
		require.NoError(t, err)
		require.NotNil(t, got)
	}

	reloaded := reloadAccount(t, db, account.ID)
	assert.True(t, reloaded.CreditBalance.IsZero(), "balance should be drained, got %s", reloaded.CreditBalance)
	assert.EqualValues(t, 4, countTransactions(t, db, account.ID))

	// The fifth call fails and leaves no row behind.
	_, err := repo.TryDeduct(context.Background(), account.ID, quarter, "social-caption")
	require.ErrorIs(t, err, utils.ErrInsufficientBalance)
	assert.EqualValues(t, 4, countTransactions(t, db, account.ID))
	assert.True(t, reloadAccount(t, db, account.ID).CreditBalance.IsZero())
}

func TestTryDeductConcurrentNoOverspend(t *testing.T) {
	db := newTestDB(t)
	repo := NewLedgerRepository(db)
	account := createAccount(t, db, db_models.RoleFree, "1.00")

	quarter := decimal.RequireFromString("0.25")
	const callers = 8

	var successes atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.TryDeduct(context.Background(), account.ID, quarter, "social-caption"); err == nil {
				successes.Add(1)
			}
		}()
	}
	wg.Wait()

	// 1.00 / 0.25: at most four winners, and serialization makes it
	// exactly four.
	assert.EqualValues(t, 4, successes.Load())
	reloaded := reloadAccount(t, db, account.ID)
	assert.True(t, reloaded.CreditBalance.IsZero(), "overspend: balance %s", reloaded.CreditBalance)
	assert.False(t, reloaded.CreditBalance.IsNegative())
	assert.EqualValues(t, 4, countTransactions(t, db, account.ID))
}

func TestTryDeductPremiumBypass(t *testing.T) {
	db := newTestDB(t)
	repo := NewLedgerRepository(db)
	account := createAccount(t, db, db_models.RolePremium, "2.00")

	for _, amount := range []string{"0.25", "5.00", "1000.00"} {
		got, err := repo.TryDeduct(context.Background(), account.ID, decimal.RequireFromString(amount), "social-caption")
		require.NoError(t, err)
		assert.Equal(t, db_models.RolePremium, got.Role)
	}

	reloaded := reloadAccount(t, db, account.ID)
	assert.True(t, reloaded.CreditBalance.Equal(decimal.RequireFromString("2.00")),
		"premium balance must not move, got %s", reloaded.CreditBalance)

	// Usage is still audited, as zero-amount rows.
	var txns []db_models.Transaction
	require.NoError(t, db.Where("account_id = ?", account.ID).Find(&txns).Error)
	require.Len(t, txns, 3)
	for _, txn := range txns {
		assert.True(t, txn.Amount.IsZero())
		assert.Equal(t, "social-caption", txn.FeatureTag)
	}
}

func TestTryDeductAccountNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewLedgerRepository(db)

	_, err := repo.TryDeduct(context.Background(), uuid.New(), decimal.RequireFromString("0.25"), "social-caption")
	require.ErrorIs(t, err, utils.ErrAccountNotFound)
}

func TestCreditAppendsPositiveRow(t *testing.T) {
	db := newTestDB(t)
	repo := NewLedgerRepository(db)
	account := createAccount(t, db, db_models.RoleFree, "0.50")

	quarter := decimal.RequireFromString("0.25")
	_, err := repo.TryDeduct(context.Background(), account.ID, quarter, "social-caption")
	require.NoError(t, err)

	got, err := repo.Credit(context.Background(), account.ID, quarter, "social-caption:refund")
	require.NoError(t, err)
	assert.True(t, got.CreditBalance.Equal(decimal.RequireFromString("0.50")))

	var refund db_models.Transaction
	require.NoError(t, db.First(&refund, "account_id = ? AND feature_tag = ?", account.ID, "social-caption:refund").Error)
	assert.True(t, refund.Amount.Equal(quarter))
}

func TestUpgradeToPremium(t *testing.T) {
	db := newTestDB(t)
	repo := NewLedgerRepository(db)
	account := createAccount(t, db, db_models.RoleFree, "0.75")

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return repo.UpgradeToPremium(tx, account.ID, "CAP-TEST-0001")
	}))

	reloaded := reloadAccount(t, db, account.ID)
	assert.Equal(t, db_models.RolePremium, reloaded.Role)
	// Upgrade does not touch the balance, only the role.
	assert.True(t, reloaded.CreditBalance.Equal(decimal.RequireFromString("0.75")))

	var audit db_models.Transaction
	require.NoError(t, db.First(&audit, "account_id = ? AND feature_tag = ?", account.ID, "premium-upgrade:CAP-TEST-0001").Error)
	assert.True(t, audit.Amount.IsZero())
}

func TestUpgradeToPremiumUnknownAccount(t *testing.T) {
	db := newTestDB(t)
	repo := NewLedgerRepository(db)

	err := db.Transaction(func(tx *gorm.DB) error {
		return repo.UpgradeToPremium(tx, uuid.New(), "CAP-TEST-0002")
	})
	require.ErrorIs(t, err, utils.ErrAccountNotFound)
}
