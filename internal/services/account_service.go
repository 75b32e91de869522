package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"backoffice/internal/models/db_models"
	"backoffice/internal/models/request_models"
	"backoffice/internal/models/response_models"
	"backoffice/internal/repositories"
	"backoffice/pkg/rbac"
	"backoffice/pkg/utils"
)

const (
	resetTokenBytes = 20
	resetTokenTTL   = time.Hour
)

var socialProviders = map[string]struct {
	column      string
	defaultName string
}{
	"google": {column: "google_id", defaultName: "Google User"},
	"apple":  {column: "apple_id", defaultName: "Apple User"},
}

type AccountServiceInterface interface {
	Register(ctx context.Context, req request_models.RegisterRequest) (*response_models.AuthResponse, error)
	Login(ctx context.Context, req request_models.LoginRequest, meta request_models.LoginMeta) (*response_models.AuthResponse, error)
	SocialLogin(ctx context.Context, req request_models.SocialLoginRequest, meta request_models.LoginMeta) (*response_models.AuthResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req request_models.ChangePasswordRequest) error
	ForgotPassword(ctx context.Context, req request_models.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req request_models.ResetPasswordRequest) error

	// Authenticate resolves a bearer token to an unrestricted user.
	Authenticate(ctx context.Context, token string) (*db_models.User, error)
}

type AccountService struct {
	userRepo     repositories.UserRepository
	roleRepo     repositories.RoleRepository
	jwt          *utils.JWTManager
	mail         IMailService
	dispatcher   IEmailDispatcher
	clientDomain string
	logger       *zerolog.Logger
	now          func() time.Time
}

func NewAccountService(
	userRepo repositories.UserRepository,
	roleRepo repositories.RoleRepository,
	jwt *utils.JWTManager,
	mail IMailService,
	dispatcher IEmailDispatcher,
	clientDomain string,
	logger *zerolog.Logger,
) AccountServiceInterface {
	return &AccountService{
		userRepo:     userRepo,
		roleRepo:     roleRepo,
		jwt:          jwt,
		mail:         mail,
		dispatcher:   dispatcher,
		clientDomain: strings.TrimRight(clientDomain, "/"),
		logger:       logger,
		now:          time.Now,
	}
}

func (a *AccountService) Register(ctx context.Context, req request_models.RegisterRequest) (*response_models.AuthResponse, error) {
	existing, err := a.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, dbError(err)
	}
	if existing != nil {
		return nil, utils.ErrEmailAlreadyExists
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	memberRoles, err := a.memberRoleIDs(ctx)
	if err != nil {
		return nil, err
	}

	user := &db_models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashed,
		Status:       db_models.UserStatusActive,
	}
	if err := a.userRepo.Create(ctx, user, memberRoles); err != nil {
		if isDuplicate(err) {
			return nil, utils.ErrEmailAlreadyExists
		}
		return nil, dbError(err)
	}

	return a.issue(user)
}

func (a *AccountService) Login(ctx context.Context, req request_models.LoginRequest, meta request_models.LoginMeta) (*response_models.AuthResponse, error) {
	user, err := a.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, dbError(err)
	}
	if user == nil {
		return nil, utils.ErrInvalidCredentials
	}

	if user.PasswordHash == "" || utils.ComparePasswords(user.PasswordHash, req.Password) != nil {
		a.recordLogin(ctx, user.ID, meta, false)
		return nil, utils.ErrInvalidCredentials
	}
	if a.restricted(user) {
		a.recordLogin(ctx, user.ID, meta, false)
		return nil, utils.ErrAccountRestricted
	}

	if err := a.stampLogin(ctx, user, meta); err != nil {
		return nil, err
	}
	return a.issue(user)
}

func (a *AccountService) SocialLogin(ctx context.Context, req request_models.SocialLoginRequest, meta request_models.LoginMeta) (*response_models.AuthResponse, error) {
	provider, ok := socialProviders[strings.ToLower(req.Provider)]
	if !ok {
		return nil, utils.ErrUnsupportedProvider
	}
	data := req.UserData

	user, err := a.userRepo.FindByProviderOrEmail(ctx, provider.column, data.ID, data.Email)
	if err != nil {
		return nil, dbError(err)
	}

	if user == nil {
		name := data.Name
		if name == "" {
			name = provider.defaultName
		}
		memberRoles, err := a.memberRoleIDs(ctx)
		if err != nil {
			return nil, err
		}
		user = &db_models.User{Name: name, Email: data.Email, Status: db_models.UserStatusActive}
		linkProvider(user, provider.column, data.ID)
		if err := a.userRepo.Create(ctx, user, memberRoles); err != nil {
			if isDuplicate(err) {
				return nil, utils.ErrEmailAlreadyExists
			}
			return nil, dbError(err)
		}
	} else {
		if a.restricted(user) {
			return nil, utils.ErrAccountRestricted
		}
		if linkProvider(user, provider.column, data.ID) {
			if err := a.userRepo.UpdateFields(ctx, user.ID, map[string]interface{}{provider.column: data.ID}); err != nil {
				return nil, dbError(err)
			}
		}
	}

	if err := a.stampLogin(ctx, user, meta); err != nil {
		return nil, err
	}
	return a.issue(user)
}

// linkProvider sets the provider id on user when it is missing and reports
// whether it changed anything.
func linkProvider(user *db_models.User, column, id string) bool {
	target := &user.GoogleID
	if column == "apple_id" {
		target = &user.AppleID
	}
	if *target != nil && **target != "" {
		return false
	}
	v := id
	*target = &v
	return true
}

func (a *AccountService) ChangePassword(ctx context.Context, userID uuid.UUID, req request_models.ChangePasswordRequest) error {
	user, err := a.userRepo.FindByID(ctx, userID)
	if err != nil {
		return dbError(err)
	}
	if user == nil {
		return utils.ErrUserNotFound
	}
	if user.PasswordHash == "" || utils.ComparePasswords(user.PasswordHash, req.OldPassword) != nil {
		return utils.ErrWrongPassword
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := a.userRepo.UpdateFields(ctx, user.ID, map[string]interface{}{"password_hash": hashed}); err != nil {
		return dbError(err)
	}
	return nil
}

func (a *AccountService) ForgotPassword(ctx context.Context, req request_models.ForgotPasswordRequest) error {
	user, err := a.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return dbError(err)
	}
	if user == nil {
		return utils.ErrUserNotFound
	}

	token, err := utils.GenerateSecureToken(resetTokenBytes)
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	expiry := a.now().Add(resetTokenTTL).Unix()
	if err := a.userRepo.UpdateFields(ctx, user.ID, map[string]interface{}{
		"reset_token":        token,
		"reset_token_expiry": expiry,
	}); err != nil {
		return dbError(err)
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", a.clientDomain, token)
	msg, err := a.mail.RenderTemplate(ctx, db_models.TemplatePasswordReset, user.Email, &user.ID, map[string]string{
		"name":     user.Name,
		"resetUrl": resetURL,
	})
	if err != nil {
		a.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("cannot render password reset email")
		return err
	}
	return a.dispatcher.Dispatch(ctx, msg)
}

func (a *AccountService) ResetPassword(ctx context.Context, req request_models.ResetPasswordRequest) error {
	user, err := a.userRepo.FindByResetToken(ctx, req.Token)
	if err != nil {
		return dbError(err)
	}
	if user == nil || user.ResetTokenExpiry == nil || *user.ResetTokenExpiry <= a.now().Unix() {
		return utils.ErrInvalidResetToken
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := a.userRepo.UpdateFields(ctx, user.ID, map[string]interface{}{
		"password_hash":      hashed,
		"reset_token":        nil,
		"reset_token_expiry": nil,
	}); err != nil {
		return dbError(err)
	}
	return nil
}

func (a *AccountService) Authenticate(ctx context.Context, token string) (*db_models.User, error) {
	claims, err := a.jwt.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, utils.ErrInvalidToken
	}

	user, err := a.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, dbError(err)
	}
	if user == nil {
		return nil, utils.ErrUserNotFound
	}
	if a.restricted(user) {
		return nil, utils.ErrAccountRestricted
	}
	return user, nil
}

// restricted reports a ban or a suspension that has not yet run out. A
// suspension without an end date is indefinite.
func (a *AccountService) restricted(user *db_models.User) bool {
	switch user.Status {
	case db_models.UserStatusBanned:
		return true
	case db_models.UserStatusSuspended:
		return user.SuspendedUntil == nil || *user.SuspendedUntil > a.now().Unix()
	}
	return false
}

func (a *AccountService) memberRoleIDs(ctx context.Context) ([]uuid.UUID, error) {
	role, err := a.roleRepo.FindByName(ctx, rbac.Member)
	if err != nil {
		return nil, dbError(err)
	}
	if role == nil {
		a.logger.Warn().Msg("MEMBER role missing, user created without roles")
		return nil, nil
	}
	return []uuid.UUID{role.ID}, nil
}

func (a *AccountService) stampLogin(ctx context.Context, user *db_models.User, meta request_models.LoginMeta) error {
	platform := meta.Platform
	if platform == "" {
		platform = db_models.PlatformWeb
	}
	now := a.now().Unix()
	if err := a.userRepo.UpdateFields(ctx, user.ID, map[string]interface{}{
		"last_login_at":       now,
		"last_login_platform": platform,
	}); err != nil {
		return dbError(err)
	}
	user.LastLoginAt = &now
	user.LastLoginPlatform = platform
	meta.Platform = platform
	a.recordLogin(ctx, user.ID, meta, true)
	return nil
}

// recordLogin never fails the login itself.
func (a *AccountService) recordLogin(ctx context.Context, userID uuid.UUID, meta request_models.LoginMeta, success bool) {
	platform := meta.Platform
	if platform == "" {
		platform = db_models.PlatformWeb
	}
	entry := &db_models.LoginHistory{
		UserID:    userID,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		Platform:  platform,
		Success:   success,
	}
	if err := a.userRepo.AddLoginHistory(ctx, entry); err != nil {
		a.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to record login history")
	}
}

func (a *AccountService) issue(user *db_models.User) (*response_models.AuthResponse, error) {
	token, err := a.jwt.CreateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &response_models.AuthResponse{
		Token: token,
		User:  response_models.UserSummary{ID: user.ID, Email: user.Email, Name: user.Name},
	}, nil
}
