package farm

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/agrisense/agrisense-server/pkg/common"
	"github.com/agrisense/agrisense-server/pkg/models"
	_ "github.com/agrisense/agrisense-server/pkg/testing"
)

func TestIngestReading(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, farmObj, mockIAlert, _ := GetMockFarmWithMemorySqliteDialector(t, true)
	defer ctrl.Finish()

	deviceID := uuid.NewString()

	// Expect the alert checker to be called with the stored reading
	mockIAlert.
		EXPECT().
		CheckReading(gomock.Any()).
		Times(1)

	input := &models.Reading{
		DeviceID:  deviceID,
		Location:  "kolam",
		Unit:      models.UnitPH,
		Value:     7.2,
		Timestamp: time.Now().Truncate(time.Second),
	}
	err := farmObj.Reading.Ingest(input)
	require.NoError(t, err)

	var saved models.Reading
	err = farmObj.Db.Conn.Where("device_id = ?", deviceID).First(&saved).Error
	require.NoError(t, err)
	assert.Equal(t, input.Value, saved.Value)
	assert.Equal(t, models.UnitPH, saved.Unit)
}

func TestIngestReading_NoAlertService(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, farmObj, _, _ := GetMockFarmWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()

	farmObj.Alert = nil

	input := &models.Reading{
		DeviceID:  uuid.NewString(),
		Unit:      models.UnitCm,
		Value:     90,
		Timestamp: time.Now(),
	}
	err := farmObj.Reading.Ingest(input)
	require.Error(t, err, "alert service not available")
}

func TestGetReadingsFiltered(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, farmObj, mockIAlert, _ := GetMockFarmWithMemorySqliteDialector(t, true)
	defer ctrl.Finish()

	mockIAlert.EXPECT().CheckReading(gomock.Any()).AnyTimes()

	location := uuid.NewString()
	base := time.Now().Add(-time.Hour)
	for i, value := range []float64{6.9, 7.0, 7.1} {
		err := farmObj.Reading.Ingest(&models.Reading{
			DeviceID:  uuid.NewString(),
			Location:  location,
			Unit:      models.UnitPH,
			Value:     value,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}
	err := farmObj.Reading.Ingest(&models.Reading{
		DeviceID:  uuid.NewString(),
		Location:  location,
		Unit:      models.UnitCm,
		Value:     88,
		Timestamp: base,
	})
	require.NoError(t, err)

	readings, err := farmObj.Reading.GetReadings(models.UnitPH, location, 0)
	require.NoError(t, err)
	require.Len(t, readings, 3)
	// newest first
	assert.Equal(t, 7.1, readings[0].Value)

	readings, err = farmObj.Reading.GetReadings(models.UnitPH, location, 2)
	require.NoError(t, err)
	assert.Len(t, readings, 2)
}

func TestGetPHHistoryBuckets(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, farmObj, mockIAlert, _ := GetMockFarmWithMemorySqliteDialector(t, true)
	defer ctrl.Finish()

	mockIAlert.EXPECT().CheckReading(gomock.Any()).AnyTimes()

	location := uuid.NewString()
	day := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	for _, value := range []float64{7.0, 7.4} {
		err := farmObj.Reading.Ingest(&models.Reading{
			DeviceID:  uuid.NewString(),
			Location:  location,
			Unit:      models.UnitPH,
			Value:     value,
			Timestamp: day,
		})
		require.NoError(t, err)
	}

	buckets, err := farmObj.Reading.GetPHHistory("day", 10)
	require.NoError(t, err)
	require.NotEmpty(t, buckets)

	var found bool
	for _, b := range buckets {
		if b.Bucket == "2026-08-20" {
			found = true
			assert.GreaterOrEqual(t, b.Count, 2)
		}
	}
	assert.True(t, found, "expected a 2026-08-20 bucket")

	_, err = farmObj.Reading.GetPHHistory("decade", 10)
	assert.Error(t, err)
}
