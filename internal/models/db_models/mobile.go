package db_models

import "gorm.io/datatypes"

type AppVersion struct {
	BaseModel
	Version           string `gorm:"size:32;uniqueIndex:idx_app_version_platform" json:"version"`
	BuildNumber       int    `gorm:"index" json:"buildNumber"`
	Platform          string `gorm:"size:16;uniqueIndex:idx_app_version_platform" json:"platform"`
	ReleaseNotes      string `json:"releaseNotes"`
	ForceUpdate       bool   `gorm:"default:false" json:"forceUpdate"`
	MinSupportedBuild int    `gorm:"default:0" json:"minSupportedBuild"`
	IsActive          bool   `json:"isActive"`
}

const PlatformAll = "all"

type FeatureFlag struct {
	BaseModel
	Key         string         `gorm:"uniqueIndex;size:128" json:"key"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Enabled     bool           `gorm:"default:false" json:"enabled"`
	Platform    string         `gorm:"size:16;default:all" json:"platform"`
	Metadata    datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
}

type ValueType string

const (
	ValueString  ValueType = "string"
	ValueNumber  ValueType = "number"
	ValueBoolean ValueType = "boolean"
	ValueJSON    ValueType = "json"
)

func (v ValueType) Valid() bool {
	switch v {
	case ValueString, ValueNumber, ValueBoolean, ValueJSON:
		return true
	}
	return false
}

type RemoteConfig struct {
	BaseModel
	Key         string    `gorm:"uniqueIndex;size:128" json:"key"`
	Value       string    `json:"value"`
	ValueType   ValueType `gorm:"size:16;default:string" json:"valueType"`
	Description string    `json:"description"`
	Platform    string    `gorm:"size:16;default:all" json:"platform"`
	IsActive    bool      `json:"isActive"`
}
