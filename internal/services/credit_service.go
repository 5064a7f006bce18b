package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"captionly/internal/models/db_models"
	"captionly/internal/models/response_models"
	"captionly/internal/repositories"
	"captionly/pkg/utils"
)

// CreditService is the deduction contract every metered feature goes
// through before doing costed work. Callers must abort the feature when
// Deduct fails.
type CreditService interface {
	Deduct(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, featureTag string) (*db_models.Account, error)
	Refund(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, featureTag string) (*db_models.Account, error)
	GetAccountSummary(ctx context.Context, accountID uuid.UUID) (*response_models.AccountSummary, error)
	ListTransactions(ctx context.Context, accountID uuid.UUID, limit int) ([]response_models.TransactionEntry, error)
}

type creditService struct {
	ledgerRepo repositories.LedgerRepository
}

func NewCreditService(ledgerRepo repositories.LedgerRepository) CreditService {
	return &creditService{ledgerRepo: ledgerRepo}
}

func (s *creditService) Deduct(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, featureTag string) (*db_models.Account, error) {
	if !amount.IsPositive() || featureTag == "" {
		return nil, utils.ErrValidation
	}
	return s.ledgerRepo.TryDeduct(ctx, accountID, amount, featureTag)
}

func (s *creditService) Refund(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, featureTag string) (*db_models.Account, error) {
	if !amount.IsPositive() || featureTag == "" {
		return nil, utils.ErrValidation
	}
	return s.ledgerRepo.Credit(ctx, accountID, amount, featureTag)
}

func (s *creditService) GetAccountSummary(ctx context.Context, accountID uuid.UUID) (*response_models.AccountSummary, error) {
	account, err := s.ledgerRepo.FindAccount(ctx, accountID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}
	return &response_models.AccountSummary{
		Role:          string(account.Role),
		CreditBalance: account.CreditBalance,
	}, nil
}

func (s *creditService) ListTransactions(ctx context.Context, accountID uuid.UUID, limit int) ([]response_models.TransactionEntry, error) {
	txns, err := s.ledgerRepo.ListTransactions(ctx, accountID, limit)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	entries := make([]response_models.TransactionEntry, 0, len(txns))
	for _, t := range txns {
		entries = append(entries, response_models.TransactionEntry{
			ID:         t.ID.String(),
			FeatureTag: t.FeatureTag,
			Amount:     t.Amount,
			CreatedAt:  t.CreatedAt,
		})
	}
	return entries, nil
}
