package request_models

import "encoding/json"

type EmailTemplateRequest struct {
	Name    string `json:"name" binding:"required"`
	Subject string `json:"subject" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type SettingItem struct {
	Key   string          `json:"key" binding:"required"`
	Value json.RawMessage `json:"value"`
}

type WaitingPageStatusRequest struct {
	Status struct {
		Status string `json:"status" binding:"required"`
	} `json:"status"`
}

type WaitingListRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type WaitingListEmailRequest struct {
	Subject string `json:"subject" binding:"required"`
	Content string `json:"content" binding:"required"`
}
