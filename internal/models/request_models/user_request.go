package request_models

import "github.com/google/uuid"

type CreateUserRequest struct {
	Name     string      `json:"name" binding:"required"`
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=6"`
	Roles    []uuid.UUID `json:"roles"`
}

type UpdateUserRequest struct {
	Name     string      `json:"name" binding:"required"`
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"omitempty,min=6"`
	Roles    []uuid.UUID `json:"roles"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

type SuspendUserRequest struct {
	Reason string `json:"reason"`
	Days   int    `json:"days" binding:"gte=0"`
}

type BanUserRequest struct {
	Reason string `json:"reason"`
}

type BulkStatusRequest struct {
	UserIDs []uuid.UUID `json:"userIds" binding:"required,min=1"`
	Status  string      `json:"status" binding:"required"`
	Reason  string      `json:"reason"`
}

type BulkEmailRequest struct {
	UserIDs []uuid.UUID `json:"userIds" binding:"required,min=1"`
	Subject string      `json:"subject" binding:"required"`
	Content string      `json:"content" binding:"required"`
}

type DeleteAccountRequest struct {
	Password string `json:"password"`
}
