package request_models

import (
	"encoding/json"

	"github.com/google/uuid"
)

type NotificationRequest struct {
	UserID   uuid.UUID       `json:"userId" binding:"required"`
	Title    string          `json:"title" binding:"required"`
	Message  string          `json:"message" binding:"required"`
	Type     string          `json:"type"`
	Metadata json.RawMessage `json:"metadata"`
}

type BulkNotificationRequest struct {
	UserIDs []uuid.UUID `json:"userIds" binding:"required,min=1"`
	Title   string      `json:"title" binding:"required"`
	Message string      `json:"message" binding:"required"`
	Type    string      `json:"type"`
}

type PushRequest struct {
	UserID   uuid.UUID       `json:"userId" binding:"required"`
	Title    string          `json:"title" binding:"required"`
	Body     string          `json:"body" binding:"required"`
	Data     json.RawMessage `json:"data"`
	Platform string          `json:"platform"`
}

type BulkPushRequest struct {
	UserIDs  []uuid.UUID     `json:"userIds" binding:"required,min=1"`
	Title    string          `json:"title" binding:"required"`
	Body     string          `json:"body" binding:"required"`
	Data     json.RawMessage `json:"data"`
	Platform string          `json:"platform"`
}
