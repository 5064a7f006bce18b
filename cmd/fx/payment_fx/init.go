package payment_fx

import (
	"os"
	"strconv"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"captionly/internal/api/controllers"
	"captionly/internal/repositories"
	"captionly/internal/services"
)

// defaultPriceIDR is the fixed premium price when PREMIUM_PRICE_IDR is
// unset. Always server-side, never client-supplied.
const defaultPriceIDR int64 = 99000

var Module = fx.Provide(
	provideGateway, provideOrderRepo, providePaymentService, providePaymentController,
)

func priceIDR() int64 {
	if raw := os.Getenv("PREMIUM_PRICE_IDR"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil && v > 0 {
			return v
		}
	}
	return defaultPriceIDR
}

func provideGateway() services.PaymentGateway {
	return services.NewMidtransGateway(services.MidtransConfig{
		ServerKey:  os.Getenv("MIDTRANS_SERVER_KEY"),
		Production: os.Getenv("MIDTRANS_ENV") == "production",
		Timeout:    15 * time.Second,
	})
}

func provideOrderRepo(db *gorm.DB) repositories.PaymentOrderRepository {
	return repositories.NewPaymentOrderRepository(db)
}

func providePaymentService(
	db *gorm.DB,
	gateway services.PaymentGateway,
	orderRepo repositories.PaymentOrderRepository,
	ledgerRepo repositories.LedgerRepository,
	logger *zap.Logger,
) services.PaymentService {
	return services.NewPaymentService(db, gateway, orderRepo, ledgerRepo, priceIDR(), logger)
}

func providePaymentController(paymentService services.PaymentService, logger *zap.Logger) *controllers.PaymentController {
	return controllers.NewPaymentController(paymentService, logger)
}
