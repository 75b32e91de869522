package response_models

import (
	"github.com/google/uuid"

	"backoffice/internal/models/db_models"
)

type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

// UserDetail is a user with its role ids and the full role list for editing.
type UserDetail struct {
	db_models.User
	RoleIDs  []uuid.UUID      `json:"roleIds"`
	AllRoles []db_models.Role `json:"allRoles"`
}

type ProfileResponse struct {
	db_models.User
	Permissions []string `json:"permissions"`
}

type RoleSummary struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	IsDefault       bool      `json:"isDefault"`
	PermissionCount int       `json:"permissionCount"`
}

type RoleDetail struct {
	ID             uuid.UUID              `json:"id"`
	Name           string                 `json:"name"`
	IsDefault      bool                   `json:"isDefault"`
	PermissionIDs  []uuid.UUID            `json:"permissions"`
	AllPermissions []db_models.Permission `json:"allPermissions"`
}
