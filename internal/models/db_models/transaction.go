package db_models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type TransactionStatus string

const (
	TxnStatusPending   TransactionStatus = "PENDING"
	TxnStatusCompleted TransactionStatus = "COMPLETED"
	TxnStatusFailed    TransactionStatus = "FAILED"
	TxnStatusRefunded  TransactionStatus = "REFUNDED"
)

type Transaction struct {
	BaseModel
	UserID         uuid.UUID         `gorm:"type:uuid;index" json:"userId"`
	SubscriptionID *uuid.UUID        `gorm:"type:uuid;index" json:"subscriptionId,omitempty"`
	TransactionID  string            `gorm:"uniqueIndex;size:255" json:"transactionId"` // idempotency across webhooks
	Amount         decimal.Decimal   `gorm:"type:numeric(12,2)" json:"amount"`
	Currency       string            `gorm:"size:3" json:"currency"`
	Status         TransactionStatus `gorm:"size:16;index" json:"status"`
	PaymentMethod  string            `json:"paymentMethod"`
	Platform       string            `gorm:"size:16;index" json:"platform"`
	Description    string            `json:"description"`

	RefundedAt   *int64              `json:"refundedAt,omitempty"`
	RefundAmount decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"refundAmount"`
	RefundReason *string             `json:"refundReason,omitempty"`
	Metadata     datatypes.JSON      `gorm:"type:jsonb" json:"metadata,omitempty"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}
