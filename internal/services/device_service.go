package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"backoffice/internal/models/db_models"
	"backoffice/internal/models/request_models"
	"backoffice/internal/models/response_models"
	"backoffice/internal/repositories"
	"backoffice/pkg/utils"
)

const defaultBanReason = "No reason provided"

var errAlreadyBanned = fmt.Errorf("%w: device is already banned", utils.ErrInvalidInput)

type DeviceServiceInterface interface {
	// Register creates or refreshes the caller's device.
	Register(ctx context.Context, userID uuid.UUID, req request_models.RegisterDeviceRequest) (*db_models.UserDevice, error)
	ListDevices(ctx context.Context, filter repositories.DeviceFilter, page, limit int) (*response_models.Page[db_models.UserDevice], error)
	Stats(ctx context.Context) (*response_models.DeviceStats, error)
	GetDevice(ctx context.Context, id uuid.UUID) (*db_models.UserDevice, error)
	UserDevices(ctx context.Context, userID uuid.UUID) ([]db_models.UserDevice, error)
	Ban(ctx context.Context, id uuid.UUID, reason string, actor Actor) (*db_models.UserDevice, error)
	Unban(ctx context.Context, id uuid.UUID, actor Actor) (*db_models.UserDevice, error)
	DeleteDevice(ctx context.Context, id uuid.UUID) error
}

type DeviceService struct {
	deviceRepo repositories.DeviceRepository
	audit      AuditServiceInterface
	logger     *zerolog.Logger
	now        func() time.Time
}

func NewDeviceService(deviceRepo repositories.DeviceRepository, audit AuditServiceInterface, logger *zerolog.Logger) DeviceServiceInterface {
	return &DeviceService{deviceRepo: deviceRepo, audit: audit, logger: logger, now: time.Now}
}

func (d *DeviceService) Register(ctx context.Context, userID uuid.UUID, req request_models.RegisterDeviceRequest) (*db_models.UserDevice, error) {
	device, err := d.deviceRepo.FindByDeviceID(ctx, req.DeviceID)
	if err != nil {
		return nil, dbError(err)
	}
	if device != nil && device.Ban != nil {
		return nil, utils.ErrDeviceBanned
	}

	isNew := device == nil
	if isNew {
		device = &db_models.UserDevice{DeviceID: req.DeviceID}
	}
	device.UserID = userID
	device.DeviceName = req.DeviceName
	device.Platform = req.Platform
	device.OSVersion = req.OSVersion
	device.AppVersion = req.AppVersion
	if req.PushToken != "" {
		device.PushToken = req.PushToken
	}
	device.LastActiveAt = d.now().Unix()
	device.Ban = nil
	device.User = nil

	if isNew {
		err = d.deviceRepo.Create(ctx, device)
	} else {
		err = d.deviceRepo.Save(ctx, device)
	}
	if err != nil {
		return nil, dbError(err)
	}
	return device, nil
}

func (d *DeviceService) ListDevices(ctx context.Context, filter repositories.DeviceFilter, page, limit int) (*response_models.Page[db_models.UserDevice], error) {
	rows, total, err := d.deviceRepo.List(ctx, filter, pageOf(page, limit))
	if err != nil {
		return nil, dbError(err)
	}
	return &response_models.Page[db_models.UserDevice]{
		Data:       rows,
		Pagination: utils.NewPagination(page, limit, total),
	}, nil
}

func (d *DeviceService) Stats(ctx context.Context) (*response_models.DeviceStats, error) {
	total, err := d.deviceRepo.Count(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	active, err := d.deviceRepo.CountActiveSince(ctx, utils.DaysAgo(d.now(), 30))
	if err != nil {
		return nil, dbError(err)
	}
	banned, err := d.deviceRepo.CountBanned(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	platforms, err := d.deviceRepo.CountByPlatform(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	return &response_models.DeviceStats{
		Total:        total,
		Active30Days: active,
		Banned:       banned,
		ByPlatform:   toCountItems(platforms),
	}, nil
}

func (d *DeviceService) GetDevice(ctx context.Context, id uuid.UUID) (*db_models.UserDevice, error) {
	device, err := d.deviceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, dbError(err)
	}
	if device == nil {
		return nil, utils.ErrDeviceNotFound
	}
	return device, nil
}

func (d *DeviceService) UserDevices(ctx context.Context, userID uuid.UUID) ([]db_models.UserDevice, error) {
	rows, err := d.deviceRepo.ListByUser(ctx, userID, db_models.PlatformAll)
	if err != nil {
		return nil, dbError(err)
	}
	return rows, nil
}

func (d *DeviceService) Ban(ctx context.Context, id uuid.UUID, reason string, actor Actor) (*db_models.UserDevice, error) {
	device, err := d.GetDevice(ctx, id)
	if err != nil {
		return nil, err
	}
	if device.Ban != nil {
		return nil, errAlreadyBanned
	}
	if reason == "" {
		reason = defaultBanReason
	}

	ban := &db_models.DeviceBan{UserDeviceID: device.ID, Reason: reason, BannedBy: actor.UserID}
	if err := d.deviceRepo.Ban(ctx, ban); err != nil {
		if isDuplicate(err) {
			return nil, errAlreadyBanned
		}
		return nil, dbError(err)
	}

	entry := actor.entry("DEVICE_BAN", "DEVICE", device.ID.String(), map[string]interface{}{
		"deviceId": device.DeviceID,
		"reason":   reason,
	})
	if err := d.audit.Record(ctx, entry); err != nil {
		d.logger.Error().Err(err).Str("device_id", device.ID.String()).Msg("device ban audit not recorded")
	}
	return d.GetDevice(ctx, id)
}

func (d *DeviceService) Unban(ctx context.Context, id uuid.UUID, actor Actor) (*db_models.UserDevice, error) {
	device, err := d.GetDevice(ctx, id)
	if err != nil {
		return nil, err
	}
	if device.Ban == nil {
		return nil, utils.ErrDeviceNotBanned
	}
	if err := d.deviceRepo.Unban(ctx, device.ID); err != nil {
		return nil, dbError(err)
	}

	entry := actor.entry("DEVICE_UNBAN", "DEVICE", device.ID.String(), map[string]interface{}{
		"deviceId": device.DeviceID,
		"userId":   device.UserID.String(),
	})
	if err := d.audit.Record(ctx, entry); err != nil {
		d.logger.Error().Err(err).Str("device_id", device.ID.String()).Msg("device unban audit not recorded")
	}
	return d.GetDevice(ctx, id)
}

func (d *DeviceService) DeleteDevice(ctx context.Context, id uuid.UUID) error {
	if _, err := d.GetDevice(ctx, id); err != nil {
		return err
	}
	if err := d.deviceRepo.Delete(ctx, id); err != nil {
		return dbError(err)
	}
	return nil
}
