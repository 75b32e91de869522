package db_models

import "github.com/google/uuid"

type Permission struct {
	BaseModel
	Name        string `gorm:"uniqueIndex;size:64" json:"name"`
	Description string `json:"description"`
}

type Role struct {
	BaseModel
	Name      string `gorm:"uniqueIndex;size:64" json:"name"`
	IsDefault bool   `gorm:"default:false" json:"isDefault"`

	Permissions []RolePermission `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE" json:"permissions,omitempty"`
}

type RolePermission struct {
	RoleID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"roleId"`
	PermissionID uuid.UUID `gorm:"type:uuid;primaryKey" json:"permissionId"`

	Permission Permission `gorm:"foreignKey:PermissionID;constraint:OnDelete:CASCADE" json:"permission"`
}
