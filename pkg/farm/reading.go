package farm

import (
	"fmt"

	"go.uber.org/zap"
	"github.com/agrisense/agrisense-server/pkg/common"
	"github.com/agrisense/agrisense-server/pkg/models"
)

const DefaultReadingLimit = 100

// PHBucket is one row of the time-bucketed pH aggregation.
type PHBucket struct {
	Bucket  string  `json:"bucket"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

var phBucketFormats = map[string]string{
	"hour":  "%Y-%m-%d %H:00",
	"day":   "%Y-%m-%d",
	"month": "%Y-%m",
	"year":  "%Y",
}

func (f *Farm) ingestReading(input *models.Reading) error {
	logger := common.GetLoggerWith(
		common.LoggerNameFarmCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryReading),
	)

	reading := models.Reading{
		DeviceID:  input.DeviceID,
		Location:  input.Location,
		Unit:      input.Unit,
		Value:     input.Value,
		Timestamp: input.Timestamp,
	}

	logger.Info("Received reading for device", zap.Reflect("reading", reading))

	if err := f.Db.Conn.Create(&reading).Error; err != nil {
		return err
	}

	logger.Info("Stored reading for device", zap.Reflect("reading", reading))

	if f.Alert == nil {
		return fmt.Errorf("alert service not available")
	}

	f.Alert.CheckReading(&reading)
	return nil
}

func (f *Farm) getReadings(unit models.Unit, location string, limit int) ([]models.Reading, error) {
	if limit <= 0 {
		limit = DefaultReadingLimit
	}

	query := f.Db.Conn.Order("timestamp desc").Limit(limit)
	if unit != "" {
		query = query.Where("unit = ?", unit)
	}
	if location != "" {
		query = query.Where("location = ?", location)
	}

	var readings []models.Reading
	err := query.Find(&readings).Error
	return readings, err
}

func (f *Farm) getPHHistory(bucket string, limit int) ([]PHBucket, error) {
	format, ok := phBucketFormats[bucket]
	if !ok {
		return nil, fmt.Errorf("unknown history range %q", bucket)
	}
	if limit <= 0 {
		limit = 24
	}

	var buckets []PHBucket
	err := f.Db.Conn.Raw(
		`SELECT strftime(?, timestamp) AS bucket, AVG(value) AS average, COUNT(*) AS count
		 FROM readings WHERE unit = ?
		 GROUP BY strftime(?, timestamp)
		 ORDER BY bucket DESC LIMIT ?`,
		format, models.UnitPH, format, limit,
	).Scan(&buckets).Error
	return buckets, err
}

type IReadingImpl struct {
	farm *Farm
}

func (ir *IReadingImpl) Ingest(input *models.Reading) error {
	return ir.farm.ingestReading(input)
}

func (ir *IReadingImpl) GetReadings(unit models.Unit, location string, limit int) ([]models.Reading, error) {
	return ir.farm.getReadings(unit, location, limit)
}

func (ir *IReadingImpl) GetPHHistory(bucket string, limit int) ([]PHBucket, error) {
	return ir.farm.getPHHistory(bucket, limit)
}

func (f *Farm) GetIReading() IReading {
	return &IReadingImpl{farm: f}
}
