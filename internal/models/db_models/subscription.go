package db_models

import (
	"github.com/google/uuid"
)

type SubscriptionStatus string

const (
	SubStatusActive   SubscriptionStatus = "ACTIVE"
	SubStatusCanceled SubscriptionStatus = "CANCELED"
	SubStatusExpired  SubscriptionStatus = "EXPIRED"
)

func (s SubscriptionStatus) Valid() bool {
	return s == SubStatusActive || s == SubStatusCanceled || s == SubStatusExpired
}

const (
	PlatformWeb    = "web"
	PlatformMobile = "mobile"
)

type Subscription struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;index" json:"userId"`
	PlanID uuid.UUID `gorm:"type:uuid;index" json:"planId"`

	Status           SubscriptionStatus `gorm:"size:16;index" json:"status"`
	StartDate        int64              `gorm:"not null" json:"startDate"`
	EndDate          int64              `gorm:"not null;index" json:"endDate"`
	SubscriptionID   string             `gorm:"index" json:"subscriptionId"` // provider-side id
	PurchasePlatform string             `gorm:"size:16" json:"purchasePlatform"`

	RevenueCatCustomerID  *string `json:"revenueCatCustomerId,omitempty"`
	RevenueCatProductID   *string `gorm:"index" json:"revenueCatProductId,omitempty"`
	RevenueCatEntitlement *string `json:"revenueCatEntitlement,omitempty"`
	Store                 *string `json:"store,omitempty"`

	NextBillingDate *int64     `json:"nextBillingDate,omitempty"`
	CanceledAt      *int64     `json:"canceledAt,omitempty"`
	CancelReason    *string    `json:"cancelReason,omitempty"`
	PreviousPlanID  *uuid.UUID `gorm:"type:uuid" json:"previousPlanId,omitempty"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Plan *Plan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
}
