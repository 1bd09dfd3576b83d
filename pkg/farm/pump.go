package farm

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"github.com/agrisense/agrisense-server/pkg/common"
	"github.com/agrisense/agrisense-server/pkg/models"
)

// AutoOffActor is recorded as ChangedBy on history entries written by the
// timer expiry path.
const AutoOffActor = "auto-duration"

const DefaultHistoryLimit = 50

// casMaxAttempts bounds the optimistic-concurrency retry loop on the pump
// state row.
const casMaxAttempts = 3

type PumpStatus struct {
	Mode          models.PumpMode `json:"mode"`
	IsOn          bool            `json:"isOn"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	IsManualMode  bool            `json:"isManualMode"`
	PumpDuration  *int            `json:"pumpDuration"`
	PumpStartTime *time.Time      `json:"pumpStartTime"`
}

type PumpUpdate struct {
	IsOn         bool
	Duration     *int // minutes
	IsManualMode bool
	ChangedBy    string
	UserID       string
}

func (f *Farm) pumpLogger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameFarmCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryPump),
	)
}

// loadPumpState fetches the mode-scoped control row (DeviceID is nil for
// pump relay rows). Returns nil without error when no row exists yet.
func (f *Farm) loadPumpState(mode models.PumpMode) (*models.DeviceControlState, error) {
	var state models.DeviceControlState
	err := f.Db.Conn.Where("mode = ? AND device_id IS NULL", mode).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (f *Farm) loadPumpTimer(mode models.PumpMode) (*models.PumpTimer, error) {
	var timer models.PumpTimer
	err := f.Db.Conn.First(&timer, "mode = ?", mode).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &timer, nil
}

// effectiveOn reads a control row as ON only when the stored command is ON
// and the row has been refreshed within the staleness window.
func effectiveOn(state *models.DeviceControlState, now time.Time) bool {
	if state == nil {
		return false
	}
	if now.Sub(state.UpdatedAt) > StaleAfter {
		return false
	}
	return state.Command == models.CommandOn
}

// writePumpCommand upserts the mode's control row with a version
// compare-and-swap, rereading on conflict up to casMaxAttempts times.
func (f *Farm) writePumpCommand(mode models.PumpMode, command models.PumpCommand, actionBy, reason string) (*models.DeviceControlState, error) {
	for attempt := 0; attempt < casMaxAttempts; attempt++ {
		state, err := f.loadPumpState(mode)
		if err != nil {
			return nil, err
		}

		if state == nil {
			fresh := models.DeviceControlState{
				Mode:     mode,
				Command:  command,
				ActionBy: actionBy,
				Reason:   reason,
				Version:  1,
			}
			if err := f.Db.Conn.Create(&fresh).Error; err == nil {
				return &fresh, nil
			}
			// lost a concurrent create, reread and try the update path
			continue
		}

		result := f.Db.Conn.Model(&models.DeviceControlState{}).
			Where("id = ? AND version = ?", state.ID, state.Version).
			Updates(map[string]any{
				"command":    command,
				"action_by":  actionBy,
				"reason":     reason,
				"version":    state.Version + 1,
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 1 {
			return f.loadPumpState(mode)
		}
	}
	return nil, ErrConflict
}

func (f *Farm) savePumpTimer(timer *models.PumpTimer) error {
	return f.Db.Conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "mode"}},
		UpdateAll: true,
	}).Create(timer).Error
}

func (f *Farm) clearPumpTimer(mode models.PumpMode) error {
	return f.savePumpTimer(&models.PumpTimer{Mode: mode})
}

func (f *Farm) appendPumpHistory(mode models.PumpMode, previousState, newState bool, changedBy string, userID *string) error {
	entry := models.PumpHistoryEntry{
		Mode:          mode,
		PreviousState: previousState,
		NewState:      newState,
		ChangedBy:     changedBy,
		UserID:        userID,
		Timestamp:     time.Now(),
	}
	return f.Db.Conn.Create(&entry).Error
}

func (f *Farm) notifyBridge(mode models.PumpMode, on bool) {
	logger := f.pumpLogger()
	if f.Notifier == nil {
		logger.Warn("No bridge notifier configured, hardware not notified",
			zap.String("mode", string(mode)))
		return
	}
	if ok := f.Notifier.SetPump(string(mode), on); !ok {
		// database state stays authoritative, delivery is at-most-once
		logger.Warn("Bridge notification failed, recorded state retained",
			zap.String("mode", string(mode)),
			zap.Bool("state", on))
	}
}

// pumpStatus is the read path. Reads trigger reconciliation: an expired
// timer flips the command to OFF, clears the timer, appends a history entry
// and notifies the bridge before the status is returned.
func (f *Farm) pumpStatus(mode models.PumpMode) (*PumpStatus, error) {
	if !mode.Valid() {
		return nil, ErrInvalidMode
	}

	now := time.Now()

	state, err := f.loadPumpState(mode)
	if err != nil {
		return nil, err
	}
	timer, err := f.loadPumpTimer(mode)
	if err != nil {
		return nil, err
	}

	isOn := effectiveOn(state, now)

	if timer != nil && !timer.IsManualMode && timer.Duration != nil && timer.StartTime != nil {
		elapsedMinutes := now.Sub(*timer.StartTime).Minutes()
		if elapsedMinutes > float64(*timer.Duration) {
			if state, err = f.autoOff(mode, isOn, elapsedMinutes); err != nil {
				return nil, err
			}
			isOn = false
			timer = nil
		}
	}

	status := &PumpStatus{
		Mode: mode,
		IsOn: isOn,
	}
	if state != nil {
		status.UpdatedAt = state.UpdatedAt
	}
	if timer != nil {
		status.IsManualMode = timer.IsManualMode
		status.PumpDuration = timer.Duration
		status.PumpStartTime = timer.StartTime
	}
	return status, nil
}

// autoOff handles an expired timer: the command goes OFF, the timer is
// cleared so the expiry fires once, and when the pump was actually on the
// transition is audited and forwarded to the bridge.
func (f *Farm) autoOff(mode models.PumpMode, wasOn bool, elapsedMinutes float64) (*models.DeviceControlState, error) {
	logger := f.pumpLogger()
	logger.Info("Pump timer expired, turning off",
		zap.String("mode", string(mode)),
		zap.Float64("elapsed_minutes", elapsedMinutes))

	state, err := f.writePumpCommand(mode, models.CommandOff, AutoOffActor, "configured duration elapsed")
	if err != nil {
		return nil, err
	}

	if err := f.clearPumpTimer(mode); err != nil {
		return nil, err
	}

	if wasOn {
		if err := f.appendPumpHistory(mode, true, false, AutoOffActor, nil); err != nil {
			return nil, err
		}
		f.notifyBridge(mode, false)
	}

	return state, nil
}

// pumpUpdate is the write path. The control row is written with a version
// compare-and-swap; the history entry and bridge call happen only on an
// actual on/off transition.
func (f *Farm) pumpUpdate(mode models.PumpMode, input *PumpUpdate) (*PumpStatus, error) {
	if !mode.Valid() {
		return nil, ErrInvalidMode
	}

	logger := f.pumpLogger()
	now := time.Now()

	current, err := f.loadPumpState(mode)
	if err != nil {
		return nil, err
	}
	previousState := effectiveOn(current, now)

	command := models.CommandOff
	reason := "switched off"
	if input.IsOn {
		command = models.CommandOn
		reason = "switched on manually"
		if input.Duration != nil && !input.IsManualMode {
			reason = fmt.Sprintf("timed run for %d minutes", *input.Duration)
		}
	}

	actionBy := input.ChangedBy
	if actionBy == "" {
		actionBy = "user"
	}

	state, err := f.writePumpCommand(mode, command, actionBy, reason)
	if err != nil {
		return nil, err
	}

	timer := models.PumpTimer{Mode: mode}
	if input.IsOn {
		timer.IsManualMode = input.IsManualMode
		if input.Duration != nil && !input.IsManualMode {
			timer.Duration = input.Duration
			timer.StartTime = &now
		}
	}
	if err := f.savePumpTimer(&timer); err != nil {
		return nil, err
	}

	if previousState != input.IsOn {
		userID := f.resolveUserID(input.UserID)
		if err := f.appendPumpHistory(mode, previousState, input.IsOn, actionBy, userID); err != nil {
			return nil, err
		}
		f.notifyBridge(mode, input.IsOn)
	} else {
		logger.Info("Pump state unchanged, no history entry",
			zap.String("mode", string(mode)),
			zap.Bool("is_on", input.IsOn))
	}

	status := &PumpStatus{
		Mode:          mode,
		IsOn:          input.IsOn,
		UpdatedAt:     state.UpdatedAt,
		IsManualMode:  timer.IsManualMode,
		PumpDuration:  timer.Duration,
		PumpStartTime: timer.StartTime,
	}
	return status, nil
}

// resolveUserID keeps the history audit free of dangling references: the id
// is recorded only when a matching user row exists.
func (f *Farm) resolveUserID(userID string) *string {
	if userID == "" {
		return nil
	}
	var count int64
	if err := f.Db.Conn.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil || count == 0 {
		return nil
	}
	return &userID
}

func (f *Farm) getPumpHistory(mode models.PumpMode, limit int) ([]models.PumpHistoryEntry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	query := f.Db.Conn.Order("timestamp desc").Limit(limit)
	if mode != "" {
		if !mode.Valid() {
			return nil, ErrInvalidMode
		}
		query = query.Where("mode = ?", mode)
	}

	var entries []models.PumpHistoryEntry
	err := query.Find(&entries).Error
	return entries, err
}

type IPumpImpl struct {
	farm *Farm
}

func (ip *IPumpImpl) Status(mode models.PumpMode) (*PumpStatus, error) {
	return ip.farm.pumpStatus(mode)
}

func (ip *IPumpImpl) Update(mode models.PumpMode, input *PumpUpdate) (*PumpStatus, error) {
	return ip.farm.pumpUpdate(mode, input)
}

func (ip *IPumpImpl) GetHistory(mode models.PumpMode, limit int) ([]models.PumpHistoryEntry, error) {
	return ip.farm.getPumpHistory(mode, limit)
}

func (f *Farm) GetIPump() IPump {
	return &IPumpImpl{farm: f}
}
