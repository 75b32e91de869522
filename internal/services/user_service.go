package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"backoffice/internal/models/db_models"
	"backoffice/internal/models/request_models"
	"backoffice/internal/models/response_models"
	"backoffice/internal/repositories"
	"backoffice/pkg/utils"
)

const defaultSuspensionDays = 7

type UserServiceInterface interface {
	ListUsers(ctx context.Context) ([]db_models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*response_models.UserDetail, error)
	CreateUser(ctx context.Context, req request_models.CreateUserRequest) (*db_models.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req request_models.UpdateUserRequest) (*db_models.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	Profile(ctx context.Context, id uuid.UUID) (*response_models.ProfileResponse, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, req request_models.UpdateStatusRequest) (*db_models.User, error)
	Suspend(ctx context.Context, id uuid.UUID, req request_models.SuspendUserRequest) (*db_models.User, error)
	Ban(ctx context.Context, id uuid.UUID, req request_models.BanUserRequest) (*db_models.User, error)
	Activate(ctx context.Context, id uuid.UUID) (*db_models.User, error)
	LoginHistory(ctx context.Context, id uuid.UUID, page, limit int) (*response_models.Page[db_models.LoginHistory], error)

	BulkUpdateStatus(ctx context.Context, req request_models.BulkStatusRequest) (int64, error)
	BulkEmail(ctx context.Context, req request_models.BulkEmailRequest) (int, error)

	GetPreferences(ctx context.Context, id uuid.UUID) (map[string]interface{}, error)
	UpdatePreferences(ctx context.Context, id uuid.UUID, patch map[string]interface{}) (map[string]interface{}, error)
	DeleteMyAccount(ctx context.Context, id uuid.UUID, req request_models.DeleteAccountRequest) error

	// LiftExpiredSuspensions reactivates users whose suspension has ended.
	LiftExpiredSuspensions(ctx context.Context) (int64, error)
}

type UserService struct {
	userRepo    repositories.UserRepository
	roleRepo    repositories.RoleRepository
	permissions PermissionServiceInterface
	dispatcher  IEmailDispatcher
	logger      *zerolog.Logger
	now         func() time.Time
}

func NewUserService(
	userRepo repositories.UserRepository,
	roleRepo repositories.RoleRepository,
	permissions PermissionServiceInterface,
	dispatcher IEmailDispatcher,
	logger *zerolog.Logger,
) UserServiceInterface {
	return &UserService{
		userRepo:    userRepo,
		roleRepo:    roleRepo,
		permissions: permissions,
		dispatcher:  dispatcher,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *UserService) ListUsers(ctx context.Context) ([]db_models.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	return users, nil
}

func (s *UserService) find(ctx context.Context, id uuid.UUID) (*db_models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, dbError(err)
	}
	if user == nil {
		return nil, utils.ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*response_models.UserDetail, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	roles, err := s.roleRepo.List(ctx)
	if err != nil {
		return nil, dbError(err)
	}

	roleIDs := make([]uuid.UUID, 0, len(user.Roles))
	for _, ur := range user.Roles {
		roleIDs = append(roleIDs, ur.RoleID)
	}
	return &response_models.UserDetail{User: *user, RoleIDs: roleIDs, AllRoles: roles}, nil
}

func (s *UserService) checkRoles(ctx context.Context, roleIDs []uuid.UUID) error {
	if len(roleIDs) == 0 {
		return nil
	}
	n, err := s.roleRepo.CountByIDs(ctx, roleIDs)
	if err != nil {
		return dbError(err)
	}
	if n != int64(len(uniqueIDs(roleIDs))) {
		return fmt.Errorf("%w: unknown role id", utils.ErrInvalidInput)
	}
	return nil
}

func (s *UserService) CreateUser(ctx context.Context, req request_models.CreateUserRequest) (*db_models.User, error) {
	existing, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, dbError(err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email already in use", utils.ErrInvalidInput)
	}
	if err := s.checkRoles(ctx, req.Roles); err != nil {
		return nil, err
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &db_models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashed,
		Status:       db_models.UserStatusActive,
	}
	if err := s.userRepo.Create(ctx, user, uniqueIDs(req.Roles)); err != nil {
		if isDuplicate(err) {
			return nil, fmt.Errorf("%w: email already in use", utils.ErrInvalidInput)
		}
		return nil, dbError(err)
	}
	return s.find(ctx, user.ID)
}

func (s *UserService) UpdateUser(ctx context.Context, id uuid.UUID, req request_models.UpdateUserRequest) (*db_models.User, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkRoles(ctx, req.Roles); err != nil {
		return nil, err
	}

	user.Name = req.Name
	user.Email = req.Email
	if req.Password != "" {
		hashed, err := utils.HashPassword(req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hashed
	}
	user.Roles = nil

	if err := s.userRepo.Save(ctx, user, uniqueIDs(req.Roles), true); err != nil {
		if isDuplicate(err) {
			return nil, fmt.Errorf("%w: email already in use", utils.ErrInvalidInput)
		}
		return nil, dbError(err)
	}
	return s.find(ctx, id)
}

func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if isForeignKey(err) {
			return utils.ErrResourceInUse
		}
		return dbError(err)
	}
	return nil
}

func (s *UserService) Profile(ctx context.Context, id uuid.UUID) (*response_models.ProfileResponse, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	granted, err := s.permissions.EffectivePermissions(ctx, id)
	if err != nil {
		return nil, err
	}
	return &response_models.ProfileResponse{User: *user, Permissions: granted.Names()}, nil
}

// statusFields returns the columns written for a status change.
func statusFields(status db_models.UserStatus, reason string, until *int64) map[string]interface{} {
	fields := map[string]interface{}{
		"status":          status,
		"status_reason":   reason,
		"suspended_until": nil,
	}
	if status == db_models.UserStatusSuspended && until != nil {
		fields["suspended_until"] = *until
	}
	return fields
}

func (s *UserService) applyStatus(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*db_models.User, error) {
	if _, err := s.find(ctx, id); err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateFields(ctx, id, fields); err != nil {
		return nil, dbError(err)
	}
	return s.find(ctx, id)
}

func (s *UserService) UpdateStatus(ctx context.Context, id uuid.UUID, req request_models.UpdateStatusRequest) (*db_models.User, error) {
	status := db_models.UserStatus(req.Status)
	if !status.Valid() {
		return nil, utils.ErrInvalidStatus
	}
	return s.applyStatus(ctx, id, statusFields(status, req.Reason, nil))
}

func (s *UserService) Suspend(ctx context.Context, id uuid.UUID, req request_models.SuspendUserRequest) (*db_models.User, error) {
	days := req.Days
	if days <= 0 {
		days = defaultSuspensionDays
	}
	until := s.now().AddDate(0, 0, days).Unix()
	return s.applyStatus(ctx, id, statusFields(db_models.UserStatusSuspended, req.Reason, &until))
}

func (s *UserService) Ban(ctx context.Context, id uuid.UUID, req request_models.BanUserRequest) (*db_models.User, error) {
	return s.applyStatus(ctx, id, statusFields(db_models.UserStatusBanned, req.Reason, nil))
}

func (s *UserService) Activate(ctx context.Context, id uuid.UUID) (*db_models.User, error) {
	return s.applyStatus(ctx, id, statusFields(db_models.UserStatusActive, "", nil))
}

func (s *UserService) LoginHistory(ctx context.Context, id uuid.UUID, page, limit int) (*response_models.Page[db_models.LoginHistory], error) {
	if _, err := s.find(ctx, id); err != nil {
		return nil, err
	}
	rows, total, err := s.userRepo.ListLoginHistory(ctx, id, pageOf(page, limit))
	if err != nil {
		return nil, dbError(err)
	}
	return &response_models.Page[db_models.LoginHistory]{
		Data:       rows,
		Pagination: utils.NewPagination(page, limit, total),
	}, nil
}

func (s *UserService) BulkUpdateStatus(ctx context.Context, req request_models.BulkStatusRequest) (int64, error) {
	status := db_models.UserStatus(req.Status)
	if !status.Valid() {
		return 0, utils.ErrInvalidStatus
	}
	updated, err := s.userRepo.UpdateFieldsBulk(ctx, uniqueIDs(req.UserIDs), statusFields(status, req.Reason, nil))
	if err != nil {
		return 0, dbError(err)
	}
	return updated, nil
}

func (s *UserService) BulkEmail(ctx context.Context, req request_models.BulkEmailRequest) (int, error) {
	users, err := s.userRepo.FindByIDs(ctx, uniqueIDs(req.UserIDs))
	if err != nil {
		return 0, dbError(err)
	}

	msgs := make([]EmailMessage, 0, len(users))
	for i := range users {
		u := users[i]
		if u.Email == "" {
			continue
		}
		data := map[string]string{"name": u.Name, "email": u.Email}
		msgs = append(msgs, EmailMessage{
			To:      u.Email,
			Subject: RenderPlaceholders(req.Subject, data),
			Content: RenderPlaceholders(req.Content, data),
			UserID:  &u.ID,
		})
	}
	return s.dispatcher.DispatchAll(ctx, msgs), nil
}

func decodePreferences(raw datatypes.JSON) map[string]interface{} {
	out := map[string]interface{}{}
	if len(raw) == 0 {
		return out
	}
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		return map[string]interface{}{}
	}
	return out
}

func (s *UserService) GetPreferences(ctx context.Context, id uuid.UUID) (map[string]interface{}, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return decodePreferences(user.Preferences), nil
}

// UpdatePreferences merges patch into the stored object one level deep.
func (s *UserService) UpdatePreferences(ctx context.Context, id uuid.UUID, patch map[string]interface{}) (map[string]interface{}, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	merged := decodePreferences(user.Preferences)
	for k, v := range patch {
		merged[k] = v
	}
	if err := s.userRepo.UpdateFields(ctx, id, map[string]interface{}{"preferences": mustJSON(merged)}); err != nil {
		return nil, dbError(err)
	}
	return merged, nil
}

func (s *UserService) DeleteMyAccount(ctx context.Context, id uuid.UUID, req request_models.DeleteAccountRequest) error {
	user, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if user.PasswordHash != "" {
		if req.Password == "" || utils.ComparePasswords(user.PasswordHash, req.Password) != nil {
			return utils.ErrWrongPassword
		}
	}
	if err := s.userRepo.DeleteAccount(ctx, id, s.now().Unix()); err != nil {
		return dbError(err)
	}
	s.logger.Info().Str("user_id", id.String()).Msg("account deleted by owner")
	return nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (s *UserService) LiftExpiredSuspensions(ctx context.Context) (int64, error) {
	n, err := s.userRepo.LiftExpiredSuspensions(ctx, s.now().Unix())
	if err != nil {
		return 0, dbError(err)
	}
	if n > 0 {
		s.logger.Info().Int64("count", n).Msg("expired suspensions lifted")
	}
	return n, nil
}
