package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"backoffice/internal/models/request_models"
	"backoffice/internal/services"
	"backoffice/pkg/utils"
)

type UserController struct {
	userService services.UserServiceInterface
}

func NewUserController(userService services.UserServiceInterface) *UserController {
	return &UserController{userService: userService}
}

func (u *UserController) ListUsers(c *gin.Context) {
	users, err := u.userService.ListUsers(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, users, "")
}

func (u *UserController) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, err := u.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, user, "")
}

func (u *UserController) CreateUser(c *gin.Context) {
	var req request_models.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := u.userService.CreateUser(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, user, "User created successfully")
}

func (u *UserController) UpdateUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request_models.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := u.userService.UpdateUser(c.Request.Context(), id, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, user, "User updated successfully")
}

func (u *UserController) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := u.userService.DeleteUser(c.Request.Context(), id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "User deleted successfully")
}

// Profile returns the caller with their effective permissions.
func (u *UserController) Profile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	profile, err := u.userService.Profile(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, profile, "")
}

func (u *UserController) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request_models.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := u.userService.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, user, "User status updated successfully")
}

func (u *UserController) Suspend(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request_models.SuspendUserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := u.userService.Suspend(c.Request.Context(), id, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, user, "User suspended successfully")
}

func (u *UserController) Ban(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request_models.BanUserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := u.userService.Ban(c.Request.Context(), id, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, user, "User banned successfully")
}

func (u *UserController) Activate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, err := u.userService.Activate(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, user, "User activated successfully")
}

func (u *UserController) LoginHistory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	page, limit, ok := pagination(c, defaultHistoryPage)
	if !ok {
		return
	}
	history, err := u.userService.LoginHistory(c.Request.Context(), id, page, limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, history, "")
}

func (u *UserController) BulkUpdateStatus(c *gin.Context) {
	var req request_models.BulkStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	updated, err := u.userService.BulkUpdateStatus(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{"updated": updated}, "User statuses updated")
}

func (u *UserController) BulkEmail(c *gin.Context) {
	var req request_models.BulkEmailRequest
	if !bindJSON(c, &req) {
		return
	}
	queued, err := u.userService.BulkEmail(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondWithStatus(c, http.StatusAccepted, gin.H{"queued": queued}, "Emails queued")
}

func (u *UserController) GetPreferences(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	prefs, err := u.userService.GetPreferences(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, prefs, "")
}

func (u *UserController) UpdatePreferences(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil || patch == nil {
		utils.RespondError(c, http.StatusBadRequest, "Preferences must be a JSON object")
		return
	}
	prefs, err := u.userService.UpdatePreferences(c.Request.Context(), userID, patch)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, prefs, "Preferences updated")
}

func (u *UserController) DeleteMyAccount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req request_models.DeleteAccountRequest
	// The body is optional for accounts without a password.
	_ = c.ShouldBindJSON(&req)

	if err := u.userService.DeleteMyAccount(c.Request.Context(), userID, req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Account deleted successfully")
}
