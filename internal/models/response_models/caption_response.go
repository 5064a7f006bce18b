package response_models

import "github.com/shopspring/decimal"

type CaptionResponse struct {
	Caption          string          `json:"caption"`
	Charged          decimal.Decimal `json:"charged"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}
