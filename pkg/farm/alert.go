package farm

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"github.com/agrisense/agrisense-server/pkg/common"
	"github.com/agrisense/agrisense-server/pkg/models"
)

const DefaultAlertLimit = 50

// pH thresholds: outside [6.5, 8.5] raises an alert, and readings at or
// beyond 6.0 / 9.0 escalate to critical severity.
const (
	phLowMedium   = 6.5
	phLowCritical = 6.0

	phHighMedium   = 8.5
	phHighCritical = 9.0
)

// Water level classification bounds (cm).
const (
	waterLevelCritical = 20.0
	waterLevelLow      = 40.0
	waterLevelHigh     = 150.0
)

func (f *Farm) checkReading(reading *models.Reading) error {
	switch reading.Unit {
	case models.UnitPH:
		return f.checkPH(reading)
	case models.UnitCm:
		return f.checkWaterLevel(reading)
	default:
		// battery/signal readings carry no thresholds
		return nil
	}
}

func (f *Farm) checkPH(reading *models.Reading) error {
	value := reading.Value

	var alertType models.AlertType
	var severity models.Severity

	switch {
	case value <= phLowCritical:
		alertType, severity = models.AlertTypePHLow, models.SeverityCritical
	case value < phLowMedium:
		alertType, severity = models.AlertTypePHLow, models.SeverityMedium
	case value >= phHighCritical:
		alertType, severity = models.AlertTypePHHigh, models.SeverityCritical
	case value > phHighMedium:
		alertType, severity = models.AlertTypePHHigh, models.SeverityMedium
	default:
		return nil
	}

	message := fmt.Sprintf("pH %.2f out of safe range [%.1f, %.1f]", value, phLowMedium, phHighMedium)
	return f.raiseAlert(alertType, severity, message, reading.Location)
}

func (f *Farm) checkWaterLevel(reading *models.Reading) error {
	level := reading.Value

	switch {
	case level < waterLevelCritical:
		message := fmt.Sprintf("Water level %.1fcm critically low (below %.0fcm)", level, waterLevelCritical)
		return f.raiseAlert(models.AlertTypeWaterLow, models.SeverityCritical, message, reading.Location)
	case level < waterLevelLow:
		message := fmt.Sprintf("Water level %.1fcm low (below %.0fcm)", level, waterLevelLow)
		return f.raiseAlert(models.AlertTypeWaterLow, models.SeverityMedium, message, reading.Location)
	case level > waterLevelHigh:
		message := fmt.Sprintf("Water level %.1fcm high (above %.0fcm)", level, waterLevelHigh)
		return f.raiseAlert(models.AlertTypeWaterHigh, models.SeverityMedium, message, reading.Location)
	default:
		return nil
	}
}

func (f *Farm) raiseAlert(alertType models.AlertType, severity models.Severity, message, location string) error {
	logger := common.GetLoggerWith(
		common.LoggerNameFarmCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryAlert),
	)

	alert := models.Alert{
		Type:      alertType,
		Severity:  severity,
		Message:   message,
		Location:  location,
		CreatedAt: time.Now(),
	}

	logger.Info("Alert found", zap.Reflect("alert", alert))

	if err := f.Db.Conn.Create(&alert).Error; err != nil {
		return err
	}

	logger.Info("Alert saved", zap.Reflect("alert", alert))
	return nil
}

func (f *Farm) listAlerts(location string, unreadOnly bool, limit int) ([]models.Alert, error) {
	if limit <= 0 {
		limit = DefaultAlertLimit
	}

	query := f.Db.Conn.Order("created_at desc").Limit(limit)
	if location != "" {
		query = query.Where("location = ?", location)
	}
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var alerts []models.Alert
	err := query.Find(&alerts).Error
	return alerts, err
}

func (f *Farm) markAlertRead(id uint) error {
	result := f.Db.Conn.Model(&models.Alert{}).Where("id = ?", id).Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (f *Farm) resolveAlert(id uint) error {
	now := time.Now()
	result := f.Db.Conn.Model(&models.Alert{}).Where("id = ?", id).Update("resolved_at", &now)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type IAlertImpl struct {
	farm *Farm
}

func (ia *IAlertImpl) CheckReading(reading *models.Reading) error {
	return ia.farm.checkReading(reading)
}

func (ia *IAlertImpl) ListAlerts(location string, unreadOnly bool, limit int) ([]models.Alert, error) {
	return ia.farm.listAlerts(location, unreadOnly, limit)
}

func (ia *IAlertImpl) MarkRead(id uint) error {
	return ia.farm.markAlertRead(id)
}

func (ia *IAlertImpl) Resolve(id uint) error {
	return ia.farm.resolveAlert(id)
}

func (f *Farm) GetIAlert() IAlert {
	return &IAlertImpl{farm: f}
}
