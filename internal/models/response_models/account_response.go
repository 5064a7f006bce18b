package response_models

import (
	"github.com/shopspring/decimal"
)

type AccountSummary struct {
	Role          string          `json:"role"`
	CreditBalance decimal.Decimal `json:"credit_balance"`
}

type TransactionEntry struct {
	ID         string          `json:"id"`
	FeatureTag string          `json:"feature_tag"`
	Amount     decimal.Decimal `json:"amount"`
	CreatedAt  int64           `json:"created_at"`
}
