package db_models

import "github.com/google/uuid"

type UserDevice struct {
	BaseModel
	UserID       uuid.UUID `gorm:"type:uuid;index" json:"userId"`
	DeviceID     string    `gorm:"uniqueIndex;size:255" json:"deviceId"`
	DeviceName   string    `json:"deviceName"`
	Platform     string    `gorm:"size:16;index" json:"platform"`
	OSVersion    string    `json:"osVersion,omitempty"`
	AppVersion   string    `json:"appVersion,omitempty"`
	PushToken    string    `json:"-"`
	LastActiveAt int64     `gorm:"index" json:"lastActiveAt"`

	Ban  *DeviceBan `gorm:"foreignKey:UserDeviceID;constraint:OnDelete:CASCADE" json:"ban,omitempty"`
	User *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

type DeviceBan struct {
	BaseModel
	UserDeviceID uuid.UUID  `gorm:"type:uuid;uniqueIndex" json:"userDeviceId"`
	Reason       string     `json:"reason"`
	BannedBy     *uuid.UUID `gorm:"type:uuid" json:"bannedBy,omitempty"`
}
