package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"captionly/internal/models/request_models"
	"captionly/internal/models/response_models"
	"captionly/pkg/utils"
)

// FeatureTagSocialCaption is the ledger tag for the caption generator.
const FeatureTagSocialCaption = "social-caption"

type CaptionConfig struct {
	Model string
	// CostPerCaption is the credit price of one generation.
	CostPerCaption decimal.Decimal
}

// captionCompleter is the slice of the OpenAI client the service uses;
// *openai.Client satisfies it.
type captionCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type CaptionService interface {
	GenerateCaption(ctx context.Context, accountID uuid.UUID, req *request_models.CaptionRequest) (*response_models.CaptionResponse, error)
}

type captionService struct {
	creditService CreditService
	completer     captionCompleter
	cfg           CaptionConfig
	logger        *zap.Logger
}

func NewCaptionService(creditService CreditService, completer captionCompleter, cfg CaptionConfig, logger *zap.Logger) CaptionService {
	return &captionService{
		creditService: creditService,
		completer:     completer,
		cfg:           cfg,
		logger:        logger,
	}
}

// GenerateCaption charges the account first, then calls the provider.
// A failed provider call refunds the debit as a compensating credit, so
// failed generations never eat balance.
func (s *captionService) GenerateCaption(ctx context.Context, accountID uuid.UUID, req *request_models.CaptionRequest) (*response_models.CaptionResponse, error) {
	account, err := s.creditService.Deduct(ctx, accountID, s.cfg.CostPerCaption, FeatureTagSocialCaption)
	if err != nil {
		return nil, err
	}
	charged := decimal.Zero
	if account.Role.Metered() {
		charged = s.cfg.CostPerCaption
	}

	caption, err := s.complete(ctx, req)
	if err != nil {
		s.logger.Warn("caption provider call failed",
			zap.String("account_id", accountID.String()), zap.Error(err))
		if charged.IsPositive() {
			if _, refundErr := s.creditService.Refund(ctx, accountID, charged, FeatureTagSocialCaption+":refund"); refundErr != nil {
				s.logger.Error("refund after failed generation did not apply",
					zap.String("account_id", accountID.String()), zap.Error(refundErr))
			}
		}
		return nil, utils.ErrCaptionProvider
	}

	return &response_models.CaptionResponse{
		Caption:          caption,
		Charged:          charged,
		RemainingBalance: account.CreditBalance,
	}, nil
}

func (s *captionService) complete(ctx context.Context, req *request_models.CaptionRequest) (string, error) {
	tone := req.Tone
	if tone == "" {
		tone = "casual"
	}
	prompt := fmt.Sprintf(
		"Write one %s social media caption for %s about: %s. Include relevant hashtags.",
		tone, req.Platform, req.Topic)

	resp, err := s.completer.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("provider returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
