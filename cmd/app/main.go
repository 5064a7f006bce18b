package main

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"captionly/cmd/fx/account_fx"
	"captionly/cmd/fx/caption_fx"
	"captionly/cmd/fx/db_fx"
	"captionly/cmd/fx/ledger_fx"
	"captionly/cmd/fx/payment_fx"
	"captionly/internal/api/controllers"
	"captionly/pkg/middleware"
	"captionly/pkg/utils"
)

func main() {
	_ = godotenv.Load()

	app := fx.New(
		fx.Provide(utils.NewLogger),
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger}
		}),

		db_fx.Module,
		ledger_fx.Module,
		account_fx.Module,
		payment_fx.Module,
		caption_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := os.Getenv("PORT")
				if port == "" {
					port = "8080"
				}
				logger.Info("starting HTTP server", zap.String("port", port))
				if err := engine.Run(":" + port); err != nil {
					logger.Fatal("failed to start server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	accountController *controllers.AccountController,
	captionController *controllers.CaptionController,
	paymentController *controllers.PaymentController,
) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.CORSMiddleware())

	RegisterRoutes(r, accountController, captionController, paymentController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	accountController *controllers.AccountController,
	captionController *controllers.CaptionController,
	paymentController *controllers.PaymentController) {

	accounts := r.Group("/accounts")
	accounts.POST("/register", accountController.Register)
	accounts.POST("/login", accountController.Login)
	accounts.GET("/me", middleware.JWTAuthMiddleware(), accountController.Me)
	accounts.GET("/me/transactions", middleware.JWTAuthMiddleware(), accountController.MyTransactions)

	captions := r.Group("/captions", middleware.JWTAuthMiddleware())
	captions.POST("/generate", captionController.Generate)

	// Webhook carries no session; notifications are verified against
	// the gateway's status API instead.
	payments := r.Group("/payment")
	payments.POST("/order", paymentController.CreateOrder)
	payments.POST("/webhook", paymentController.HandleWebhook)
}
