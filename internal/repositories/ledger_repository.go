package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"captionly/internal/models/db_models"
	"captionly/pkg/utils"
)

// LedgerRepository owns every mutation of Account.CreditBalance and
// Account.Role. No other component reads-modifies-writes the ledger.
type LedgerRepository interface {
	// TryDeduct atomically charges amount against the account and appends
	// the matching debit Transaction. Premium accounts are never charged;
	// a zero-amount usage row is appended instead. Returns the account as
	// it looks after the call.
	TryDeduct(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, featureTag string) (*db_models.Account, error)

	// Credit atomically adds amount to the balance (signup grants,
	// refunds) and appends the matching positive Transaction.
	Credit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, featureTag string) (*db_models.Account, error)

	// UpgradeToPremium sets the role to premium and appends one upgrade
	// audit row tagged with the settling order. Runs inside the caller's
	// transaction so the settle CAS and the upgrade commit together; the
	// CAS is what guarantees the audit row is written at most once per
	// settlement.
	UpgradeToPremium(tx *gorm.DB, accountID uuid.UUID, orderID string) error

	FindAccount(ctx context.Context, accountID uuid.UUID) (*db_models.Account, error)
	ListTransactions(ctx context.Context, accountID uuid.UUID, limit int) ([]db_models.Transaction, error)
}

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

// errStaleAccount signals a lost optimistic-lock race; the caller re-reads
// and retries. Never escapes this package.
var errStaleAccount = errors.New("account row changed concurrently")

const deductMaxRetries = 5

func (l *ledgerRepository) TryDeduct(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, featureTag string) (*db_models.Account, error) {
	for attempt := 0; attempt < deductMaxRetries; attempt++ {
		var account db_models.Account
		err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&account, "id = ?", accountID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return utils.ErrAccountNotFound
				}
				return err
			}

			if !account.Role.Metered() {
				// Usage audit only: premium features are free in ledger
				// terms but still leave a row.
				return tx.Create(&db_models.Transaction{
					AccountID:  account.ID,
					FeatureTag: featureTag,
					Amount:     decimal.Zero,
				}).Error
			}

			if account.CreditBalance.LessThan(amount) {
				return utils.ErrInsufficientBalance
			}

			newBalance := account.CreditBalance.Sub(amount)
			res := tx.Model(&db_models.Account{}).
				Where("id = ? AND version = ?", account.ID, account.Version).
				Updates(map[string]interface{}{
					"credit_balance": newBalance,
					"version":        account.Version + 1,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errStaleAccount
			}

			account.CreditBalance = newBalance
			account.Version++

			return tx.Create(&db_models.Transaction{
				AccountID:  account.ID,
				FeatureTag: featureTag,
				Amount:     amount.Neg(),
			}).Error
		})

		if errors.Is(err, errStaleAccount) {
			continue
		}
		if err != nil {
			if errors.Is(err, utils.ErrAccountNotFound) || errors.Is(err, utils.ErrInsufficientBalance) {
				return nil, err
			}
			return nil, utils.ErrDatabaseError
		}
		return &account, nil
	}
	return nil, utils.ErrDatabaseError
}

func (l *ledgerRepository) Credit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, featureTag string) (*db_models.Account, error) {
	for attempt := 0; attempt < deductMaxRetries; attempt++ {
		var account db_models.Account
		err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&account, "id = ?", accountID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return utils.ErrAccountNotFound
				}
				return err
			}

			newBalance := account.CreditBalance.Add(amount)
			res := tx.Model(&db_models.Account{}).
				Where("id = ? AND version = ?", account.ID, account.Version).
				Updates(map[string]interface{}{
					"credit_balance": newBalance,
					"version":        account.Version + 1,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errStaleAccount
			}

			account.CreditBalance = newBalance
			account.Version++

			return tx.Create(&db_models.Transaction{
				AccountID:  account.ID,
				FeatureTag: featureTag,
				Amount:     amount,
			}).Error
		})

		if errors.Is(err, errStaleAccount) {
			continue
		}
		if err != nil {
			if errors.Is(err, utils.ErrAccountNotFound) {
				return nil, err
			}
			return nil, utils.ErrDatabaseError
		}
		return &account, nil
	}
	return nil, utils.ErrDatabaseError
}

func (l *ledgerRepository) UpgradeToPremium(tx *gorm.DB, accountID uuid.UUID, orderID string) error {
	res := tx.Model(&db_models.Account{}).
		Where("id = ?", accountID).
		Updates(map[string]interface{}{
			"role":    db_models.RolePremium,
			"version": gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrAccountNotFound
	}

	return tx.Create(&db_models.Transaction{
		AccountID:  accountID,
		FeatureTag: "premium-upgrade:" + orderID,
		Amount:     decimal.Zero,
	}).Error
}

func (l *ledgerRepository) FindAccount(ctx context.Context, accountID uuid.UUID) (*db_models.Account, error) {
	var account db_models.Account
	err := l.db.WithContext(ctx).First(&account, "id = ?", accountID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (l *ledgerRepository) ListTransactions(ctx context.Context, accountID uuid.UUID, limit int) ([]db_models.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var txns []db_models.Transaction
	err := l.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Limit(limit).
		Find(&txns).Error
	return txns, err
}
