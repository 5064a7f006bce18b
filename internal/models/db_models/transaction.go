package db_models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is one row per successful ledger mutation. Append-only:
// rows are never updated or deleted, they are the audit trail behind the
// profile and admin billing views.
type Transaction struct {
	BaseModel
	AccountID uuid.UUID `gorm:"type:uuid;index;not null"`

	// FeatureTag identifies what caused the mutation, e.g. "social-caption",
	// "social-caption:refund", "signup-grant", "premium-upgrade:<order>".
	FeatureTag string `gorm:"size:80;index;not null"`

	// Amount is signed: negative = debit, positive = credit/refund,
	// zero = premium usage marker.
	Amount decimal.Decimal `gorm:"type:numeric(12,2);not null"`

	Account Account `gorm:"foreignKey:AccountID"`
}
