package monitor

import (
	"fmt"
	"time"

	"aquamon.io/water-quality-service/pkg/common"
	"aquamon.io/water-quality-service/pkg/models"
	"go.uber.org/zap"
)

// checkReading evaluates a stored reading against the owning device's
// threshold config and records RULE alerts. Readings without a device, or
// devices without a config, produce no alerts.
func (m *Monitor) checkReading(reading *models.Reading) error {
	if reading.DeviceID == nil {
		return nil
	}

	var config models.ThresholdConfig
	if err := m.Db.Conn.First(&config, "device_id = ?", *reading.DeviceID).Error; err != nil {
		return nil
	}

	logger := common.GetLoggerWith(
		common.LoggerNameMonitorCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryAlert),
	)

	now := time.Now()
	var alerts []models.Alert

	if reading.PH < config.PHMin || reading.PH > config.PHMax {
		alerts = append(alerts, models.Alert{
			Timestamp: now,
			Message:   fmt.Sprintf("pH %.2f outside safe range [%.2f, %.2f]", reading.PH, config.PHMin, config.PHMax),
			Severity:  models.AlertSeverityHigh,
			Type:      models.AlertTypeRule,
			Status:    models.AlertStatusNew,
			DeviceID:  reading.DeviceID,
		})
	}
	if reading.TDS > config.TDSMax {
		alerts = append(alerts, models.Alert{
			Timestamp: now,
			Message:   fmt.Sprintf("TDS %.2f exceeded threshold %.2f", reading.TDS, config.TDSMax),
			Severity:  models.AlertSeverityMedium,
			Type:      models.AlertTypeRule,
			Status:    models.AlertStatusNew,
			DeviceID:  reading.DeviceID,
		})
	}
	if reading.NTU > config.NTUMax {
		alerts = append(alerts, models.Alert{
			Timestamp: now,
			Message:   fmt.Sprintf("Turbidity %.2f NTU exceeded threshold %.2f", reading.NTU, config.NTUMax),
			Severity:  models.AlertSeverityMedium,
			Type:      models.AlertTypeRule,
			Status:    models.AlertStatusNew,
			DeviceID:  reading.DeviceID,
		})
	}

	for i := range alerts {
		logger.Info("Alert found", zap.Reflect("alert", alerts[i]))

		if err := m.Db.Conn.Create(&alerts[i]).Error; err != nil {
			return err
		}

		logger.Info("Alert saved", zap.Reflect("alert", alerts[i]))
	}

	return nil
}

func (m *Monitor) getAlert(id uint) (*models.Alert, error) {
	var alert models.Alert
	if err := m.Db.Conn.First(&alert, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &alert, nil
}

func (m *Monitor) listAlerts() ([]models.Alert, error) {
	var alerts []models.Alert
	err := m.Db.Conn.Order("timestamp desc").Find(&alerts).Error
	return alerts, err
}

func (m *Monitor) listDeviceAlerts(deviceID uint) ([]models.Alert, error) {
	var alerts []models.Alert
	err := m.Db.Conn.
		Where("device_id = ?", deviceID).
		Order("timestamp desc").
		Find(&alerts).Error
	return alerts, err
}

func (m *Monitor) setAlertStatus(id uint, status models.AlertStatus) (*models.Alert, error) {
	var alert models.Alert
	if err := m.Db.Conn.First(&alert, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	alert.Status = status
	if err := m.Db.Conn.Model(&alert).Update("status", status).Error; err != nil {
		return nil, err
	}
	return &alert, nil
}

type IAlertImpl struct {
	mon *Monitor
}

func (ia *IAlertImpl) CheckReading(reading *models.Reading) error {
	return ia.mon.checkReading(reading)
}

func (ia *IAlertImpl) Get(id uint) (*models.Alert, error) {
	return ia.mon.getAlert(id)
}

func (ia *IAlertImpl) List() ([]models.Alert, error) {
	return ia.mon.listAlerts()
}

func (ia *IAlertImpl) ListForDevice(deviceID uint) ([]models.Alert, error) {
	return ia.mon.listDeviceAlerts(deviceID)
}

func (ia *IAlertImpl) SetStatus(id uint, status models.AlertStatus) (*models.Alert, error) {
	return ia.mon.setAlertStatus(id, status)
}

func (m *Monitor) GetIAlert() IAlert {
	return &IAlertImpl{mon: m}
}
