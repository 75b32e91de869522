package request_models

import "github.com/shopspring/decimal"

type RefundRequest struct {
	Reason string           `json:"reason"`
	Amount *decimal.Decimal `json:"amount"`
}
