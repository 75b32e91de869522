package request_models

type RegisterDeviceRequest struct {
	DeviceID   string `json:"deviceId" binding:"required"`
	DeviceName string `json:"deviceName"`
	Platform   string `json:"platform" binding:"required,oneof=ios android web"`
	OSVersion  string `json:"osVersion"`
	AppVersion string `json:"appVersion"`
	PushToken  string `json:"pushToken"`
}

type BanDeviceRequest struct {
	Reason string `json:"reason"`
}
