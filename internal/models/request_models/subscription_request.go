package request_models

import "github.com/google/uuid"

type SubscriptionRequest struct {
	UserID           uuid.UUID `json:"userId" binding:"required"`
	PlanID           uuid.UUID `json:"planId" binding:"required"`
	StartDate        int64     `json:"startDate" binding:"required"`
	EndDate          int64     `json:"endDate" binding:"required,gtfield=StartDate"`
	Status           string    `json:"status"`
	SubscriptionID   string    `json:"subscriptionId"`
	PurchasePlatform string    `json:"purchasePlatform"`
}

type CancelSubscriptionRequest struct {
	Reason string `json:"reason"`
}

type CheckoutSessionRequest struct {
	PlanID uuid.UUID `json:"planId" binding:"required"`
}

// RevenueCatEvent is the event body RevenueCat posts to the webhook.
// Timestamps are epoch milliseconds.
type RevenueCatEvent struct {
	ID               string `json:"id"`
	Type             string `json:"type"`
	AppUserID        string `json:"app_user_id"`
	ProductID        string `json:"product_id"`
	EntitlementID    string `json:"entitlement_id"`
	PurchasedAtMs    int64  `json:"purchased_at_ms"`
	ExpirationAtMs   int64  `json:"expiration_at_ms"`
	CancellationAtMs int64  `json:"cancellation_at_ms"`
	Store            string `json:"store"`
	NewProductID     string `json:"new_product_id"`
	OldProductID     string `json:"old_product_id"`
}

type RevenueCatWebhook struct {
	ID    string          `json:"id"`
	Event RevenueCatEvent `json:"event"`
}

type RevenueCatEntitlement struct {
	ProductIdentifier    string `json:"productIdentifier"`
	IsActive             bool   `json:"isActive"`
	ExpirationDate       string `json:"expirationDate"`
	OriginalPurchaseDate string `json:"originalPurchaseDate"`
	Store                string `json:"store"`
}

type RevenueCatSyncRequest struct {
	CustomerInfo struct {
		Entitlements struct {
			Active map[string]RevenueCatEntitlement `json:"active"`
		} `json:"entitlements"`
	} `json:"customerInfo"`
}
