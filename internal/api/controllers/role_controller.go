package controllers

import (
	"github.com/gin-gonic/gin"

	"backoffice/internal/models/request_models"
	"backoffice/internal/services"
	"backoffice/pkg/utils"
)

type RoleController struct {
	roleService       services.RoleServiceInterface
	permissionService services.PermissionServiceInterface
}

func NewRoleController(roleService services.RoleServiceInterface, permissionService services.PermissionServiceInterface) *RoleController {
	return &RoleController{roleService: roleService, permissionService: permissionService}
}

func (r *RoleController) ListRoles(c *gin.Context) {
	roles, err := r.roleService.ListRoles(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, roles, "")
}

func (r *RoleController) GetRole(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	role, err := r.roleService.GetRole(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, role, "")
}

func (r *RoleController) CreateRole(c *gin.Context) {
	var req request_models.RoleRequest
	if !bindJSON(c, &req) {
		return
	}
	role, err := r.roleService.CreateRole(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, role, "Role created successfully")
}

func (r *RoleController) UpdateRole(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request_models.RoleRequest
	if !bindJSON(c, &req) {
		return
	}
	role, err := r.roleService.UpdateRole(c.Request.Context(), id, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, role, "Role updated successfully")
}

func (r *RoleController) DeleteRole(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := r.roleService.DeleteRole(c.Request.Context(), id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Role deleted successfully")
}

func (r *RoleController) ListPermissions(c *gin.Context) {
	perms, err := r.permissionService.ListPermissions(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, perms, "")
}
