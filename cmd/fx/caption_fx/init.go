package caption_fx

import (
	"os"

	openai "github.com/sashabaranov/go-openai"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"captionly/internal/api/controllers"
	"captionly/internal/services"
)

var Module = fx.Provide(
	provideCaptionService, provideCaptionController,
)

func captionCost() decimal.Decimal {
	if raw := os.Getenv("CAPTION_COST"); raw != "" {
		if v, err := decimal.NewFromString(raw); err == nil && v.IsPositive() {
			return v
		}
	}
	return decimal.RequireFromString("0.25")
}

func provideCaptionService(creditService services.CreditService, logger *zap.Logger) services.CaptionService {
	model := os.Getenv("CAPTION_MODEL")
	if model == "" {
		model = openai.GPT4oMini
	}
	client := openai.NewClient(os.Getenv("OPENAI_API_KEY"))
	return services.NewCaptionService(creditService, client, services.CaptionConfig{
		Model:          model,
		CostPerCaption: captionCost(),
	}, logger)
}

func provideCaptionController(captionService services.CaptionService) *controllers.CaptionController {
	return controllers.NewCaptionController(captionService)
}
