package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AuditLog struct {
	BaseModel
	UserID     *uuid.UUID     `gorm:"type:uuid;index" json:"userId,omitempty"`
	Action     string         `gorm:"size:64;index" json:"action"`
	EntityType string         `gorm:"size:64;index" json:"entityType"`
	EntityID   string         `gorm:"size:64" json:"entityId,omitempty"`
	IPAddress  string         `json:"ipAddress,omitempty"`
	UserAgent  string         `json:"userAgent,omitempty"`
	Platform   string         `gorm:"size:16;index" json:"platform"`
	Metadata   datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"user,omitempty"`
}
