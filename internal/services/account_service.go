package services

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"captionly/internal/models/db_models"
	"captionly/internal/models/request_models"
	"captionly/internal/repositories"
	"captionly/pkg/utils"
)

// signupGrant funds new free accounts so the ledger has a starting
// balance to meter against.
var signupGrant = decimal.RequireFromString("3.00")

type AccountServiceInterface interface {
	CreateAccount(ctx context.Context, request *request_models.SignUpRequest) error
	Login(ctx context.Context, request *request_models.LoginRequest) (string, error)
}

type AccountService struct {
	accountRepo repositories.AccountRepository
	ledgerRepo  repositories.LedgerRepository
	logger      *zap.Logger
}

func NewAccountService(accountRepo repositories.AccountRepository, ledgerRepo repositories.LedgerRepository, logger *zap.Logger) AccountServiceInterface {
	return &AccountService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		logger:      logger,
	}
}

func (a *AccountService) CreateAccount(ctx context.Context, request *request_models.SignUpRequest) error {
	existing, err := a.accountRepo.FindByEmail(ctx, request.Email)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if existing != nil {
		return utils.ErrEmailAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return utils.ErrDatabaseError
	}

	account := &db_models.Account{
		Name:          request.DisplayName,
		Email:         request.Email,
		PasswordHash:  hashedPassword,
		Role:          db_models.RoleFree,
		CreditBalance: decimal.Zero,
	}
	if err := a.accountRepo.Insert(ctx, account); err != nil {
		return utils.ErrDatabaseError
	}

	if _, err := a.ledgerRepo.Credit(ctx, account.ID, signupGrant, "signup-grant"); err != nil {
		// Account exists but unfunded; surfaced so support can re-grant.
		a.logger.Error("signup grant failed",
			zap.String("account_id", account.ID.String()), zap.Error(err))
		return utils.ErrDatabaseError
	}
	return nil
}

func (a *AccountService) Login(ctx context.Context, request *request_models.LoginRequest) (string, error) {
	account, err := a.accountRepo.FindByEmail(ctx, request.Email)
	if err != nil {
		return "", utils.ErrDatabaseError
	}
	if account == nil {
		return "", utils.ErrInvalidCredentials
	}

	if err := utils.ComparePasswords(account.PasswordHash, request.Password); err != nil {
		return "", utils.ErrInvalidCredentials
	}

	token, err := utils.CreateToken(account.ID, string(account.Role))
	if err != nil {
		return "", utils.ErrInvalidCredentials
	}
	return token, nil
}
