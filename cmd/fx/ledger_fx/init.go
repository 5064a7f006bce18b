package ledger_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"captionly/internal/repositories"
	"captionly/internal/services"
)

var Module = fx.Provide(
	provideLedgerRepo, provideCreditService,
)

func provideLedgerRepo(db *gorm.DB) repositories.LedgerRepository {
	return repositories.NewLedgerRepository(db)
}

func provideCreditService(ledgerRepo repositories.LedgerRepository) services.CreditService {
	return services.NewCreditService(ledgerRepo)
}
