package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"captionly/internal/models/request_models"
	"captionly/internal/services"
	"captionly/pkg/utils"
)

type PaymentController struct {
	paymentService services.PaymentService
	logger         *zap.Logger
}

func NewPaymentController(paymentService services.PaymentService, logger *zap.Logger) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
		logger:         logger,
	}
}

// CreateOrder godoc
// @Summary Open a premium upgrade checkout
// @Description Creates a fixed-price gateway transaction and a pending order
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body request_models.CreateOrderRequest true "Create Order Request"
// @Success 200 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Router /payment/order [post]
func (p *PaymentController) CreateOrder(c *gin.Context) {
	var req request_models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	resp, err := p.paymentService.CreateOrder(c.Request.Context(), req.AccountID, req.Email, req.DisplayName)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "Checkout created successfully")
}

// HandleWebhook godoc
// @Summary Gateway settlement notification endpoint
// @Description At-least-once delivery: 200 acknowledges, non-2xx requests redelivery
// @Tags Payments
// @Accept json
// @Produce json
// @Router /payment/webhook [post]
func (p *PaymentController) HandleWebhook(c *gin.Context) {
	var notif request_models.GatewayNotification
	if err := c.ShouldBindJSON(&notif); err != nil {
		// Malformed payloads will never parse on redelivery either;
		// acknowledge to stop the retry storm.
		p.logger.Warn("webhook: malformed notification payload", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"message": "ignored"})
		return
	}

	if err := p.paymentService.HandleNotification(c.Request.Context(), &notif); err != nil {
		// Transient: a non-2xx answer makes the gateway redeliver.
		status := http.StatusInternalServerError
		if errors.Is(err, utils.ErrPaymentGateway) {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"message": "retry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}
