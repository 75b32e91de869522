package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusInactive  UserStatus = "INACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
	UserStatusBanned    UserStatus = "BANNED"
)

func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusActive, UserStatusInactive, UserStatusSuspended, UserStatusBanned:
		return true
	}
	return false
}

type User struct {
	BaseModel
	Name              string         `json:"name"`
	Email             string         `gorm:"uniqueIndex;size:320" json:"email"`
	PasswordHash      string         `json:"-"`
	Status            UserStatus     `gorm:"size:16;default:ACTIVE;index" json:"status"`
	StatusReason      string         `json:"statusReason,omitempty"`
	SuspendedUntil    *int64         `json:"suspendedUntil,omitempty"`
	GoogleID          *string        `gorm:"uniqueIndex" json:"googleId,omitempty"`
	AppleID           *string        `gorm:"uniqueIndex" json:"appleId,omitempty"`
	StripeCustomerID  string         `gorm:"index" json:"stripeCustomerId,omitempty"`
	ResetToken        *string        `gorm:"index" json:"-"`
	ResetTokenExpiry  *int64         `json:"-"`
	LastLoginAt       *int64         `json:"lastLoginAt,omitempty"`
	LastLoginPlatform string         `gorm:"size:16" json:"lastLoginPlatform,omitempty"`
	Preferences       datatypes.JSON `gorm:"type:jsonb" json:"preferences,omitempty"`

	Roles []UserRole `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"roles,omitempty"`
}

type UserRole struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"userId"`
	RoleID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"roleId"`
	CreatedAt int64     `gorm:"autoCreateTime" json:"createdAt"`

	Role Role `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE" json:"role"`
}

type LoginHistory struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;index" json:"userId"`
	IPAddress string    `json:"ipAddress"`
	UserAgent string    `json:"userAgent"`
	Platform  string    `gorm:"size:16" json:"platform"`
	Success   bool      `json:"success"`
}
