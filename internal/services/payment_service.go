package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"captionly/internal/models/db_models"
	"captionly/internal/models/request_models"
	"captionly/internal/models/response_models"
	"captionly/internal/repositories"
	"captionly/pkg/utils"
)

type PaymentService interface {
	// CreateOrder opens a fixed-price premium checkout with the gateway
	// and records the pending order. The price is never taken from the
	// client.
	CreateOrder(ctx context.Context, accountID uuid.UUID, email, displayName string) (*response_models.CreateOrderResponse, error)

	// HandleNotification applies one gateway notification. A nil return
	// means acknowledge (processed, idempotent no-op, or permanently
	// unresolvable); a non-nil return means the delivery should be
	// retried by the gateway.
	HandleNotification(ctx context.Context, notif *request_models.GatewayNotification) error
}

type paymentService struct {
	db         *gorm.DB
	gateway    PaymentGateway
	orderRepo  repositories.PaymentOrderRepository
	ledgerRepo repositories.LedgerRepository
	priceIDR   int64
	logger     *zap.Logger
}

func NewPaymentService(
	db *gorm.DB,
	gateway PaymentGateway,
	orderRepo repositories.PaymentOrderRepository,
	ledgerRepo repositories.LedgerRepository,
	priceIDR int64,
	logger *zap.Logger,
) PaymentService {
	return &paymentService{
		db:         db,
		gateway:    gateway,
		orderRepo:  orderRepo,
		ledgerRepo: ledgerRepo,
		priceIDR:   priceIDR,
		logger:     logger,
	}
}

// newOrderID mints a short gateway-visible id. The CAP prefix is for
// human traceability in the Midtrans dashboard, not a security property.
func newOrderID() string {
	return fmt.Sprintf("CAP-%d-%04d", time.Now().UnixMilli(), rand.Intn(10000))
}

func (p *paymentService) CreateOrder(ctx context.Context, accountID uuid.UUID, email, displayName string) (*response_models.CreateOrderResponse, error) {
	account, err := p.ledgerRepo.FindAccount(ctx, accountID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}

	order := &db_models.PaymentOrder{
		OrderID:     newOrderID(),
		AccountID:   accountID,
		Status:      db_models.OrderStatusPending,
		GrossAmount: p.priceIDR,
	}

	// Gateway first, then the pending row: a gateway failure leaves no
	// half-recorded order behind, and the row lands before any webhook
	// can plausibly arrive. No account lock is held across this call.
	charge, err := p.gateway.CreateTransaction(ctx, order, email, displayName)
	if err != nil {
		p.logger.Warn("gateway rejected order creation",
			zap.String("order_id", order.OrderID),
			zap.String("account_id", accountID.String()),
			zap.Error(err))
		return nil, utils.ErrPaymentGateway
	}

	if err := p.orderRepo.Insert(ctx, order); err != nil {
		p.logger.Error("failed to persist pending order",
			zap.String("order_id", order.OrderID),
			zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	return &response_models.CreateOrderResponse{
		OrderID:     order.OrderID,
		Token:       charge.Token,
		RedirectURL: charge.RedirectURL,
	}, nil
}

// settlementAction is the resolved effect of a (transaction_status,
// fraud_status) pair.
type settlementAction int

const (
	actionNone settlementAction = iota
	actionSettle
	actionChallenge
	actionDeny
	actionExpire
)

func resolveAction(transactionStatus, fraudStatus string) settlementAction {
	switch transactionStatus {
	case "capture":
		switch fraudStatus {
		case "accept":
			return actionSettle
		case "challenge":
			return actionChallenge
		default:
			return actionDeny
		}
	case "settlement":
		return actionSettle
	case "cancel", "deny":
		return actionDeny
	case "expire":
		return actionExpire
	default:
		// "pending" and anything unrecognized: wait for the next
		// notification.
		return actionNone
	}
}

func (p *paymentService) HandleNotification(ctx context.Context, notif *request_models.GatewayNotification) error {
	if notif == nil || notif.OrderID == "" {
		p.logger.Warn("webhook: notification without order_id, acknowledging")
		return nil
	}

	// Never trust the payload status: re-verify against the gateway's
	// own status API before transitioning anything.
	status, err := p.gateway.CheckStatus(ctx, notif.OrderID)
	if err != nil {
		if errors.Is(err, utils.ErrOrderNotFound) {
			p.logger.Warn("webhook: gateway does not know this order, acknowledging",
				zap.String("order_id", notif.OrderID))
			return nil
		}
		p.logger.Error("webhook: status verification failed",
			zap.String("order_id", notif.OrderID), zap.Error(err))
		return utils.ErrPaymentGateway
	}

	order, err := p.orderRepo.FindByOrderID(ctx, notif.OrderID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if order == nil {
		// Unknown to us: will never resolve, so don't invite retries.
		p.logger.Warn("webhook: order not found, acknowledging",
			zap.String("order_id", notif.OrderID))
		return nil
	}

	account, err := p.ledgerRepo.FindAccount(ctx, order.AccountID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if account == nil {
		p.logger.Error("webhook: order references unknown account, acknowledging",
			zap.String("order_id", order.OrderID),
			zap.String("account_id", order.AccountID.String()))
		return nil
	}

	switch resolveAction(status.TransactionStatus, status.FraudStatus) {
	case actionSettle:
		return p.settle(ctx, order)
	case actionChallenge:
		if err := p.orderRepo.MarkStatus(ctx, order.OrderID, db_models.OrderStatusChallenged); err != nil {
			return utils.ErrDatabaseError
		}
		p.logger.Info("webhook: order challenged, upgrade withheld",
			zap.String("order_id", order.OrderID))
		return nil
	case actionDeny:
		if err := p.orderRepo.MarkStatus(ctx, order.OrderID, db_models.OrderStatusDenied); err != nil {
			return utils.ErrDatabaseError
		}
		return nil
	case actionExpire:
		if err := p.orderRepo.MarkStatus(ctx, order.OrderID, db_models.OrderStatusExpired); err != nil {
			return utils.ErrDatabaseError
		}
		return nil
	default:
		p.logger.Info("webhook: no-op notification",
			zap.String("order_id", order.OrderID),
			zap.String("transaction_status", status.TransactionStatus))
		return nil
	}
}

// settle flips the order and upgrades the account in one DB transaction.
// The conditional UPDATE inside Settle is the idempotency gate: of N
// concurrent deliveries exactly one wins it, so exactly one upgrade and
// one audit row happen per order.
func (p *paymentService) settle(ctx context.Context, order *db_models.PaymentOrder) error {
	var won bool
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		won, err = p.orderRepo.Settle(tx, order.OrderID)
		if err != nil {
			return err
		}
		if !won {
			return nil
		}
		return p.ledgerRepo.UpgradeToPremium(tx, order.AccountID, order.OrderID)
	})
	if err != nil {
		p.logger.Error("webhook: settlement transaction failed",
			zap.String("order_id", order.OrderID), zap.Error(err))
		return utils.ErrDatabaseError
	}

	if won {
		p.logger.Info("order settled, account upgraded",
			zap.String("order_id", order.OrderID),
			zap.String("account_id", order.AccountID.String()))
	} else {
		p.logger.Info("webhook: replayed settlement, no-op",
			zap.String("order_id", order.OrderID))
	}
	return nil
}
