package controllers

import (
	"github.com/gin-gonic/gin"

	"backoffice/internal/models/request_models"
	"backoffice/internal/services"
	"backoffice/pkg/middleware"
	"backoffice/pkg/utils"
)

type AccountController struct {
	accountService services.AccountServiceInterface
}

func NewAccountController(accountService services.AccountServiceInterface) *AccountController {
	return &AccountController{
		accountService: accountService,
	}
}

func loginMeta(c *gin.Context) request_models.LoginMeta {
	return request_models.LoginMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Platform:  middleware.Platform(c),
	}
}

// Register godoc
// @Summary Register a new account
// @Description Create a member account and return a token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.RegisterRequest true "Registration payload"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /register [post]
func (a *AccountController) Register(c *gin.Context) {
	var req request_models.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	auth, err := a.accountService.Register(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, auth, "User created successfully")
}

// Login godoc
// @Summary Login to an account
// @Description Authenticate a user and return a token. X-Platform is recorded with the attempt.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.LoginRequest true "Login payload"
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /login [post]
func (a *AccountController) Login(c *gin.Context) {
	var req request_models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	auth, err := a.accountService.Login(c.Request.Context(), req, loginMeta(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, auth, "Login successful")
}

// SocialLogin godoc
// @Summary Login with Google or Apple
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.SocialLoginRequest true "Provider and user data"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /social-login [post]
func (a *AccountController) SocialLogin(c *gin.Context) {
	var req request_models.SocialLoginRequest
	if !bindJSON(c, &req) {
		return
	}

	auth, err := a.accountService.SocialLogin(c.Request.Context(), req, loginMeta(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, auth, "Login successful")
}

// ChangePassword godoc
// @Summary Change the caller's password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.ChangePasswordRequest true "Old and new password"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /change-password [post]
func (a *AccountController) ChangePassword(c *gin.Context) {
	var req request_models.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := a.accountService.ChangePassword(c.Request.Context(), userID, req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Password changed successfully")
}

// ForgotPassword godoc
// @Summary Request a password reset
// @Description Emails a reset link valid for one hour
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.ForgotPasswordRequest true "Account email"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /forgot-password [post]
func (a *AccountController) ForgotPassword(c *gin.Context) {
	var req request_models.ForgotPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := a.accountService.ForgotPassword(c.Request.Context(), req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Password reset email sent")
}

// ResetPassword godoc
// @Summary Reset a password with an emailed token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.ResetPasswordRequest true "Token and new password"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /reset-password [post]
func (a *AccountController) ResetPassword(c *gin.Context) {
	var req request_models.ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := a.accountService.ResetPassword(c.Request.Context(), req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Password has been reset successfully")
}
