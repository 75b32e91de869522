package request_models

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

type SocialUserData struct {
	ID    string `json:"id" binding:"required"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type SocialLoginRequest struct {
	Provider string         `json:"provider" binding:"required"`
	UserData SocialUserData `json:"userData" binding:"required"`
}

// LoginMeta is the request context recorded with a login attempt.
type LoginMeta struct {
	IPAddress string
	UserAgent string
	Platform  string
}
