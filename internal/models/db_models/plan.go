package db_models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BillingInterval string

const (
	IntervalMonthly BillingInterval = "MONTHLY"
	IntervalYearly  BillingInterval = "YEARLY"
)

func (i BillingInterval) Valid() bool {
	return i == IntervalMonthly || i == IntervalYearly
}

type Plan struct {
	BaseModel
	Name                string          `gorm:"size:128" json:"name"`
	Description         string          `json:"description"`
	Price               decimal.Decimal `gorm:"type:numeric(12,2)" json:"price"`
	PlanPriceID         string          `gorm:"index" json:"planPriceId"` // Stripe price id
	Interval            BillingInterval `gorm:"size:16" json:"interval"`
	IsActive            bool            `json:"isActive"`
	RevenueCatProductID *string         `gorm:"uniqueIndex" json:"revenueCatProductId,omitempty"`

	Features  []PlanFeature `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE" json:"features,omitempty"`
	PlanRoles []PlanRole    `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE" json:"roles,omitempty"`
}

type PlanFeature struct {
	BaseModel
	PlanID uuid.UUID `gorm:"type:uuid;index" json:"planId"`
	Name   string    `json:"name"`
	Icon   string    `json:"icon"`
}

type PlanRole struct {
	PlanID uuid.UUID `gorm:"type:uuid;primaryKey" json:"planId"`
	RoleID uuid.UUID `gorm:"type:uuid;primaryKey" json:"roleId"`

	Role Role `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE" json:"role"`
}
