package request_models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PlanFeatureInput struct {
	Name string `json:"name" binding:"required"`
	Icon string `json:"icon"`
}

type PlanRequest struct {
	Name                string             `json:"name" binding:"required"`
	Description         string             `json:"description"`
	Price               decimal.Decimal    `json:"price"`
	PlanPriceID         string             `json:"planPriceId"`
	Interval            string             `json:"interval" binding:"required"`
	IsActive            *bool              `json:"isActive"`
	RevenueCatProductID *string            `json:"revenueCatProductId"`
	Features            []PlanFeatureInput `json:"features" binding:"dive"`
	PlanRole            []uuid.UUID        `json:"planRole"`
}
