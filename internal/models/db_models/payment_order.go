package db_models

import (
	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusSettled    OrderStatus = "settled"
	OrderStatusDenied     OrderStatus = "denied"
	OrderStatusExpired    OrderStatus = "expired"
	OrderStatusChallenged OrderStatus = "challenged"
)

// PaymentOrder links a gateway checkout to the account that opened it.
// OrderID is the gateway-visible key; AccountID is carried through the
// gateway as an opaque correlation field and is only ever used as a
// lookup key, never as authorization.
type PaymentOrder struct {
	BaseModel
	OrderID   string    `gorm:"uniqueIndex;size:40;not null"`
	AccountID uuid.UUID `gorm:"type:uuid;index;not null"`

	Status OrderStatus `gorm:"size:16;not null;index"`

	// GrossAmount is the fixed premium price in IDR. Server-side constant,
	// never taken from the client.
	GrossAmount int64 `gorm:"not null"`

	SettledAt *int64

	Account Account `gorm:"foreignKey:AccountID"`
}
