package farm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrisense/agrisense-server/pkg/common"
	"github.com/agrisense/agrisense-server/pkg/models"
	_ "github.com/agrisense/agrisense-server/pkg/testing"
)

func countHistory(t *testing.T, f *Farm, mode models.PumpMode) int64 {
	t.Helper()
	var count int64
	err := f.Db.Conn.Model(&models.PumpHistoryEntry{}).Where("mode = ?", mode).Count(&count).Error
	require.NoError(t, err)
	return count
}

func TestPumpManualOn(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, farmObj, _, mockNotifier := GetMockFarmWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()
	ResetPumpTables(t, farmObj)

	mockNotifier.EXPECT().SetPump("kolam", true).Return(true).Times(1)

	status, err := farmObj.Pump.Update(models.ModeKolam, &PumpUpdate{
		IsOn:         true,
		IsManualMode: true,
		ChangedBy:    "budi",
	})
	require.NoError(t, err)
	assert.True(t, status.IsOn)
	assert.True(t, status.IsManualMode)
	assert.Nil(t, status.PumpDuration)
	assert.Nil(t, status.PumpStartTime)

	var state models.DeviceControlState
	err = farmObj.Db.Conn.Where("mode = ? AND device_id IS NULL", models.ModeKolam).First(&state).Error
	require.NoError(t, err)
	assert.Equal(t, models.CommandOn, state.Command)
	assert.Equal(t, "budi", state.ActionBy)

	var entries []models.PumpHistoryEntry
	err = farmObj.Db.Conn.Where("mode = ?", models.ModeKolam).Find(&entries).Error
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].PreviousState)
	assert.True(t, entries[0].NewState)
	assert.Equal(t, "budi", entries[0].ChangedBy)
}

func TestPumpUpdateIdempotent(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, farmObj, _, mockNotifier := GetMockFarmWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()
	ResetPumpTables(t, farmObj)

	// only the first update is an actual transition
	mockNotifier.EXPECT().SetPump("sawah", true).Return(true).Times(1)

	input := &PumpUpdate{IsOn: true, IsManualMode: true, ChangedBy: "siti"}

	_, err := farmObj.Pump.Update(models.ModeSawah, input)
	require.NoError(t, err)
	_, err = farmObj.Pump.Update(models.ModeSawah, input)
	require.NoError(t, err)

	assert.Equal(t, int64(1), countHistory(t, farmObj, models.ModeSawah))
}

func TestPumpTimedAutoOff(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, farmObj, _, mockNotifier := GetMockFarmWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()
	ResetPumpTables(t, farmObj)

	mockNotifier.EXPECT().SetPump("kolam", true).Return(true).Times(1)
	mockNotifier.EXPECT().SetPump("kolam", false).Return(true).Times(1)

	duration := 10
	_, err := farmObj.Pump.Update(models.ModeKolam, &PumpUpdate{
		IsOn:      true,
		Duration:  &duration,
		ChangedBy: "budi",
	})
	require.NoError(t, err)

	// before expiry the pump stays on
	status, err := farmObj.Pump.Status(models.ModeKolam)
	require.NoError(t, err)
	assert.True(t, status.IsOn)
	require.NotNil(t, status.PumpDuration)
	assert.Equal(t, duration, *status.PumpDuration)

	// rewind the timer past its duration
	expired := time.Now().Add(-time.Duration(duration+1) * time.Minute)
	err = farmObj.Db.Conn.Model(&models.PumpTimer{}).
		Where("mode = ?", models.ModeKolam).
		Update("start_time", &expired).Error
	require.NoError(t, err)

	status, err = farmObj.Pump.Status(models.ModeKolam)
	require.NoError(t, err)
	assert.False(t, status.IsOn)
	assert.Nil(t, status.PumpDuration)
	assert.Nil(t, status.PumpStartTime)

	var entries []models.PumpHistoryEntry
	err = farmObj.Db.Conn.
		Where("mode = ? AND new_state = ?", models.ModeKolam, false).
		Find(&entries).Error
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].PreviousState)
	assert.Equal(t, AutoOffActor, entries[0].ChangedBy)

	// expiry fires once: a second status query appends nothing
	historyBefore := countHistory(t, farmObj, models.ModeKolam)
	status, err = farmObj.Pump.Status(models.ModeKolam)
	require.NoError(t, err)
	assert.False(t, status.IsOn)
	assert.Equal(t, historyBefore, countHistory(t, farmObj, models.ModeKolam))
}

func TestPumpManualModeNeverAutoOff(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, farmObj, _, mockNotifier := GetMockFarmWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()
	ResetPumpTables(t, farmObj)

	mockNotifier.EXPECT().SetPump("sawah", true).Return(true).Times(1)

	_, err := farmObj.Pump.Update(models.ModeSawah, &PumpUpdate{
		IsOn:         true,
		IsManualMode: true,
		ChangedBy:    "siti",
	})
	require.NoError(t, err)

	// even a stale duration/start pair on the row is ignored in manual mode
	duration := 1
	ancient := time.Now().Add(-3 * time.Minute)
	err = farmObj.Db.Conn.Model(&models.PumpTimer{}).
		Where("mode = ?", models.ModeSawah).
		Updates(map[string]any{"duration": &duration, "start_time": &ancient}).Error
	require.NoError(t, err)

	status, err := farmObj.Pump.Status(models.ModeSawah)
	require.NoError(t, err)
	assert.True(t, status.IsOn)
	assert.Equal(t, int64(1), countHistory(t, farmObj, models.ModeSawah))
}

func TestPumpStaleStateReadsOff(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, farmObj, _, mockNotifier := GetMockFarmWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()
	ResetPumpTables(t, farmObj)

	mockNotifier.EXPECT().SetPump("kolam", true).Return(true).Times(1)

	_, err := farmObj.Pump.Update(models.ModeKolam, &PumpUpdate{
		IsOn:         true,
		IsManualMode: true,
		ChangedBy:    "budi",
	})
	require.NoError(t, err)

	stale := time.Now().Add(-StaleAfter - time.Minute)
	err = farmObj.Db.Conn.Model(&models.DeviceControlState{}).
		Where("mode = ? AND device_id IS NULL", models.ModeKolam).
		Update("updated_at", stale).Error
	require.NoError(t, err)

	status, err := farmObj.Pump.Status(models.ModeKolam)
	require.NoError(t, err)
	assert.False(t, status.IsOn)
}

func TestPumpInvalidMode(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, farmObj, _, _ := GetMockFarmWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()

	_, err := farmObj.Pump.Update(models.PumpMode("garasi"), &PumpUpdate{IsOn: true})
	assert.ErrorIs(t, err, ErrInvalidMode)

	_, err = farmObj.Pump.Status(models.PumpMode(""))
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestPumpHistoryUserResolution(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, farmObj, _, mockNotifier := GetMockFarmWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()
	ResetPumpTables(t, farmObj)

	user, err := farmObj.User.Register("Budi", "budi-pump@example.com", "rahasia123", models.RoleKolam)
	require.NoError(t, err)

	mockNotifier.EXPECT().SetPump("kolam", true).Return(true).Times(1)
	mockNotifier.EXPECT().SetPump("kolam", false).Return(true).Times(1)

	_, err = farmObj.Pump.Update(models.ModeKolam, &PumpUpdate{
		IsOn:         true,
		IsManualMode: true,
		ChangedBy:    user.Name,
		UserID:       user.ID,
	})
	require.NoError(t, err)

	// an id with no matching user row is not recorded
	_, err = farmObj.Pump.Update(models.ModeKolam, &PumpUpdate{
		IsOn:      false,
		ChangedBy: "ghost",
		UserID:    "no-such-user",
	})
	require.NoError(t, err)

	var entries []models.PumpHistoryEntry
	err = farmObj.Db.Conn.Where("mode = ?", models.ModeKolam).Order("id asc").Find(&entries).Error
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.NotNil(t, entries[0].UserID)
	assert.Equal(t, user.ID, *entries[0].UserID)
	assert.Nil(t, entries[1].UserID)
}

func TestPumpBridgeFailureKeepsState(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, farmObj, _, mockNotifier := GetMockFarmWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()
	ResetPumpTables(t, farmObj)

	mockNotifier.EXPECT().SetPump("sawah", true).Return(false).Times(1)

	status, err := farmObj.Pump.Update(models.ModeSawah, &PumpUpdate{
		IsOn:         true,
		IsManualMode: true,
		ChangedBy:    "siti",
	})
	require.NoError(t, err)
	assert.True(t, status.IsOn)

	// recorded intent survives the failed hardware delivery
	var state models.DeviceControlState
	err = farmObj.Db.Conn.Where("mode = ? AND device_id IS NULL", models.ModeSawah).First(&state).Error
	require.NoError(t, err)
	assert.Equal(t, models.CommandOn, state.Command)
	assert.Equal(t, int64(1), countHistory(t, farmObj, models.ModeSawah))
}

func TestPumpTimedRunSetsTimer(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, farmObj, _, mockNotifier := GetMockFarmWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()
	ResetPumpTables(t, farmObj)

	mockNotifier.EXPECT().SetPump("sawah", true).Return(true).Times(1)
	mockNotifier.EXPECT().SetPump("sawah", false).Return(true).Times(1)

	duration := 30
	status, err := farmObj.Pump.Update(models.ModeSawah, &PumpUpdate{
		IsOn:      true,
		Duration:  &duration,
		ChangedBy: "siti",
	})
	require.NoError(t, err)
	require.NotNil(t, status.PumpDuration)
	assert.Equal(t, 30, *status.PumpDuration)
	require.NotNil(t, status.PumpStartTime)
	assert.False(t, status.IsManualMode)

	// an explicit off clears the timer fields
	status, err = farmObj.Pump.Update(models.ModeSawah, &PumpUpdate{
		IsOn:      false,
		ChangedBy: "siti",
	})
	require.NoError(t, err)
	assert.False(t, status.IsOn)
	assert.Nil(t, status.PumpDuration)
	assert.Nil(t, status.PumpStartTime)
}
