package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"captionly/internal/models/db_models"
)

type PaymentOrderRepository interface {
	Insert(ctx context.Context, order *db_models.PaymentOrder) error

	// FindByOrderID returns (nil, nil) when the order is unknown.
	FindByOrderID(ctx context.Context, orderID string) (*db_models.PaymentOrder, error)

	// Settle flips pending/challenged to settled as a single conditional
	// UPDATE and reports whether this call won the transition. A replayed
	// notification finds the row already settled and gets false back,
	// which is the idempotency guarantee for the upgrade path.
	Settle(tx *gorm.DB, orderID string) (bool, error)

	// MarkStatus applies a non-settling transition (denied, expired,
	// challenged). Settled rows are terminal and never overwritten.
	MarkStatus(ctx context.Context, orderID string, status db_models.OrderStatus) error
}

type paymentOrderRepository struct {
	db *gorm.DB
}

func NewPaymentOrderRepository(db *gorm.DB) PaymentOrderRepository {
	return &paymentOrderRepository{db: db}
}

func (p *paymentOrderRepository) Insert(ctx context.Context, order *db_models.PaymentOrder) error {
	return p.db.WithContext(ctx).Create(order).Error
}

func (p *paymentOrderRepository) FindByOrderID(ctx context.Context, orderID string) (*db_models.PaymentOrder, error) {
	var order db_models.PaymentOrder
	err := p.db.WithContext(ctx).First(&order, "order_id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (p *paymentOrderRepository) Settle(tx *gorm.DB, orderID string) (bool, error) {
	now := time.Now().Unix()
	res := tx.Model(&db_models.PaymentOrder{}).
		Where("order_id = ? AND status IN ?", orderID, []db_models.OrderStatus{
			db_models.OrderStatusPending,
			db_models.OrderStatusChallenged,
		}).
		Updates(map[string]interface{}{
			"status":     db_models.OrderStatusSettled,
			"settled_at": now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (p *paymentOrderRepository) MarkStatus(ctx context.Context, orderID string, status db_models.OrderStatus) error {
	return p.db.WithContext(ctx).Model(&db_models.PaymentOrder{}).
		Where("order_id = ? AND status IN ?", orderID, []db_models.OrderStatus{
			db_models.OrderStatusPending,
			db_models.OrderStatusChallenged,
		}).
		Update("status", status).Error
}
