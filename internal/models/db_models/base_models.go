package db_models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Money is rendered as a JSON number, not a quoted string.
	decimal.MarshalJSONWithoutQuotes = true
}

type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt int64     `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt int64     `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Hooks to manage int64 timestamps
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	now := time.Now().Unix()
	if b.CreatedAt == 0 {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	return nil
}

func (b *BaseModel) BeforeUpdate(tx *gorm.DB) error {
	b.UpdatedAt = time.Now().Unix()
	return nil
}

// AllModels is the AutoMigrate list.
func AllModels() []interface{} {
	return []interface{}{
		&Permission{}, &Role{}, &RolePermission{},
		&User{}, &UserRole{}, &LoginHistory{},
		&Plan{}, &PlanFeature{}, &PlanRole{},
		&Subscription{}, &Transaction{},
		&Notification{}, &PushNotification{},
		&UserDevice{}, &DeviceBan{},
		&AppVersion{}, &FeatureFlag{}, &RemoteConfig{},
		&AuditLog{},
		&EmailTemplate{}, &EmailLog{},
		&WaitingList{}, &Setting{},
	}
}
