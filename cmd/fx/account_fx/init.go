package account_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"captionly/internal/api/controllers"
	"captionly/internal/repositories"
	"captionly/internal/services"
)

var Module = fx.Provide(
	provideAccountRepo, provideAccountService, provideAccountController,
)

func provideAccountRepo(db *gorm.DB) repositories.AccountRepository {
	return repositories.NewAccountRepository(db)
}

func provideAccountService(accountRepo repositories.AccountRepository, ledgerRepo repositories.LedgerRepository, logger *zap.Logger) services.AccountServiceInterface {
	return services.NewAccountService(accountRepo, ledgerRepo, logger)
}

func provideAccountController(accountService services.AccountServiceInterface, creditService services.CreditService) *controllers.AccountController {
	return controllers.NewAccountController(accountService, creditService)
}
