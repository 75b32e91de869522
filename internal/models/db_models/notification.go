package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type NotificationType string

const (
	NotificationInfo    NotificationType = "INFO"
	NotificationSuccess NotificationType = "SUCCESS"
	NotificationWarning NotificationType = "WARNING"
	NotificationError   NotificationType = "ERROR"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationInfo, NotificationSuccess, NotificationWarning, NotificationError:
		return true
	}
	return false
}

type Notification struct {
	BaseModel
	UserID   uuid.UUID        `gorm:"type:uuid;index" json:"userId"`
	Title    string           `json:"title"`
	Message  string           `json:"message"`
	Type     NotificationType `gorm:"size:16;index" json:"type"`
	IsRead   bool             `gorm:"default:false;index" json:"isRead"`
	ReadAt   *int64           `json:"readAt,omitempty"`
	Metadata datatypes.JSON   `gorm:"type:jsonb" json:"metadata,omitempty"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

type PushStatus string

const (
	PushStatusSent   PushStatus = "SENT"
	PushStatusFailed PushStatus = "FAILED"
)

type PushNotification struct {
	BaseModel
	UserID      uuid.UUID      `gorm:"type:uuid;index" json:"userId"`
	Title       string         `json:"title"`
	Body        string         `json:"body"`
	Data        datatypes.JSON `gorm:"type:jsonb" json:"data,omitempty"`
	Platform    string         `gorm:"size:16" json:"platform"`
	Status      PushStatus     `gorm:"size:16;index" json:"status"`
	DeviceCount int            `json:"deviceCount"`
	Error       string         `json:"error,omitempty"`
	SentAt      int64          `gorm:"index" json:"sentAt"`
	SentBy      *uuid.UUID     `gorm:"type:uuid" json:"sentBy,omitempty"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}
