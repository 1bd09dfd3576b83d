package farm

import (
	"errors"
	"time"

	"github.com/agrisense/agrisense-server/pkg/bridge"
	"github.com/agrisense/agrisense-server/pkg/db"
	"github.com/agrisense/agrisense-server/pkg/models"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidMode    = errors.New("invalid mode")
	ErrInvalidCommand = errors.New("invalid command")
	ErrInvalidRole    = errors.New("invalid role")
	ErrEmailTaken     = errors.New("email already registered")
	ErrBadCredential  = errors.New("invalid credentials")
	ErrSelfDelete     = errors.New("cannot delete own account")
	ErrConflict       = errors.New("state changed concurrently")
)

// StaleAfter is the control-state staleness window: a command row not
// refreshed within it reads as OFF regardless of its stored value.
const StaleAfter = 2 * time.Hour

type IReading interface {
	Ingest(input *models.Reading) error
	GetReadings(unit models.Unit, location string, limit int) ([]models.Reading, error)
	GetPHHistory(bucket string, limit int) ([]PHBucket, error)
}

type IAlert interface {
	CheckReading(reading *models.Reading) error
	ListAlerts(location string, unreadOnly bool, limit int) ([]models.Alert, error)
	MarkRead(id uint) error
	Resolve(id uint) error
}

type IPump interface {
	Status(mode models.PumpMode) (*PumpStatus, error)
	Update(mode models.PumpMode, input *PumpUpdate) (*PumpStatus, error)
	GetHistory(mode models.PumpMode, limit int) ([]models.PumpHistoryEntry, error)
}

type IDevice interface {
	GetControl(deviceID string, mode models.PumpMode) (*models.DeviceControlState, error)
	SetControl(input *models.DeviceControlState) (*models.DeviceControlState, error)
	ListStatuses() ([]models.DeviceControlState, error)
}

type IUser interface {
	Register(name, email, password string, role models.Role) (*models.User, error)
	Authenticate(email, password string) (*models.User, error)
	ChangePassword(userID, newPassword string) error
	ListUsers() ([]models.User, error)
	DeleteUser(userID, callerID string) error
	CreateAPIKey(name string) (*models.APIKey, string, error)
	VerifyAPIKey(raw string) (*models.APIKey, error)
	SendMessage(sentBy, body string, userID *string) (*models.Message, error)
	ListMessages(userID string) ([]models.Message, error)
}

type Farm struct {
	Db       db.DB
	Notifier bridge.Notifier

	Reading IReading
	Alert   IAlert
	Pump    IPump
	Device  IDevice
	User    IUser
}

type ServiceOpts struct {
	Reading IReading
	Alert   IAlert
	Pump    IPump
	Device  IDevice
	User    IUser
}

func (f *Farm) WithServices(opts ServiceOpts) *Farm {
	if opts.Reading != nil {
		f.Reading = opts.Reading
	}
	if opts.Alert != nil {
		f.Alert = opts.Alert
	}
	if opts.Pump != nil {
		f.Pump = opts.Pump
	}
	if opts.Device != nil {
		f.Device = opts.Device
	}
	if opts.User != nil {
		f.User = opts.User
	}
	return f
}
