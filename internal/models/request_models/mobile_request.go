package request_models

import "encoding/json"

type AppVersionRequest struct {
	Version           string `json:"version" binding:"required"`
	BuildNumber       int    `json:"buildNumber" binding:"required,gt=0"`
	Platform          string `json:"platform" binding:"required"`
	ReleaseNotes      string `json:"releaseNotes"`
	ForceUpdate       bool   `json:"forceUpdate"`
	MinSupportedBuild int    `json:"minSupportedBuild" binding:"gte=0"`
	IsActive          *bool  `json:"isActive"`
}

type FeatureFlagRequest struct {
	Key         string          `json:"key" binding:"required"`
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Enabled     bool            `json:"enabled"`
	Platform    string          `json:"platform"`
	Metadata    json.RawMessage `json:"metadata"`
}

type RemoteConfigRequest struct {
	Key         string `json:"key" binding:"required"`
	Value       string `json:"value"`
	ValueType   string `json:"valueType"`
	Description string `json:"description"`
	Platform    string `json:"platform"`
	IsActive    *bool  `json:"isActive"`
}

type CheckUpdateQuery struct {
	Platform           string `form:"platform" binding:"required"`
	CurrentVersion     string `form:"currentVersion"`
	CurrentBuildNumber int    `form:"currentBuildNumber"`
}
