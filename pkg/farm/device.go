package farm

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"github.com/agrisense/agrisense-server/pkg/common"
	"github.com/agrisense/agrisense-server/pkg/models"
)

func (f *Farm) getDeviceControl(deviceID string, mode models.PumpMode) (*models.DeviceControlState, error) {
	if !mode.Valid() {
		return nil, ErrInvalidMode
	}

	var state models.DeviceControlState
	err := f.Db.Conn.Where("device_id = ? AND mode = ?", deviceID, mode).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	applyStaleness(&state, time.Now())
	return &state, nil
}

// applyStaleness rewrites a command not refreshed within the staleness
// window as OFF, without touching the stored row.
func applyStaleness(state *models.DeviceControlState, now time.Time) {
	if now.Sub(state.UpdatedAt) > StaleAfter {
		state.Command = models.CommandOff
	}
}

func (f *Farm) setDeviceControl(input *models.DeviceControlState) (*models.DeviceControlState, error) {
	if !input.Mode.Valid() {
		return nil, ErrInvalidMode
	}
	switch input.Command {
	case models.CommandOn, models.CommandOff, models.CommandStandby:
	default:
		return nil, ErrInvalidCommand
	}

	logger := common.GetLoggerWith(
		common.LoggerNameFarmCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryDevice),
	)

	state := models.DeviceControlState{
		DeviceID: input.DeviceID,
		Mode:     input.Mode,
		Command:  input.Command,
		ActionBy: input.ActionBy,
		Reason:   input.Reason,
		Version:  1,
	}

	err := f.Db.Conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_id"}, {Name: "mode"}},
		DoUpdates: clause.AssignmentColumns([]string{"command", "action_by", "reason", "updated_at"}),
	}).Create(&state).Error
	if err != nil {
		return nil, err
	}

	logger.Info("Upserted device control", zap.Reflect("state", state))
	return &state, nil
}

func (f *Farm) listDeviceStatuses() ([]models.DeviceControlState, error) {
	var states []models.DeviceControlState
	if err := f.Db.Conn.Order("updated_at desc").Find(&states).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	for i := range states {
		applyStaleness(&states[i], now)
	}
	return states, nil
}

type IDeviceImpl struct {
	farm *Farm
}

func (id *IDeviceImpl) GetControl(deviceID string, mode models.PumpMode) (*models.DeviceControlState, error) {
	return id.farm.getDeviceControl(deviceID, mode)
}

func (id *IDeviceImpl) SetControl(input *models.DeviceControlState) (*models.DeviceControlState, error) {
	return id.farm.setDeviceControl(input)
}

func (id *IDeviceImpl) ListStatuses() ([]models.DeviceControlState, error) {
	return id.farm.listDeviceStatuses()
}

func (f *Farm) GetIDevice() IDevice {
	return &IDeviceImpl{farm: f}
}
