package request_models

import "github.com/google/uuid"

type RoleRequest struct {
	Name        string      `json:"name" binding:"required"`
	Permissions []uuid.UUID `json:"permissions"`
}
