package request_models

import "github.com/google/uuid"

type CreateOrderRequest struct {
	AccountID   uuid.UUID `json:"account_id" binding:"required"`
	Email       string    `json:"email" binding:"required,email"`
	DisplayName string    `json:"display_name" binding:"required"`
}

// GatewayNotification is the shape of a Midtrans HTTP notification.
// Only order_id is trusted, and only as a lookup key: the status fields
// are attacker-reachable and are re-verified against the gateway's
// status API before anything transitions.
type GatewayNotification struct {
	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	GrossAmount       string `json:"gross_amount"`
	CustomField1      string `json:"custom_field1"`
}
