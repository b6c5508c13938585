package monitor

import (
	"fmt"

	"aquamon.io/water-quality-service/pkg/common"
	"aquamon.io/water-quality-service/pkg/models"
	"go.uber.org/zap"
)

func (m *Monitor) ingestReading(input *models.Reading) (*models.Reading, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameMonitorCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryReading),
	)

	if input.DeviceID != nil {
		if _, err := m.getDevice(*input.DeviceID); err != nil {
			return nil, err
		}
	}

	reading := models.Reading{
		Timestamp: input.Timestamp,
		PH:        input.PH,
		TDS:       input.TDS,
		NTU:       input.NTU,
		Battery:   input.Battery,
		Signal:    input.Signal,
		DeviceID:  input.DeviceID,
	}

	if err := m.Db.Conn.Create(&reading).Error; err != nil {
		return nil, err
	}

	logger.Info("Stored reading", zap.Reflect("reading", reading))

	if m.Alert == nil {
		return nil, fmt.Errorf("alert service not available")
	}

	m.Alert.CheckReading(&reading)
	return &reading, nil
}

func (m *Monitor) latestReading() (*models.Reading, error) {
	var reading models.Reading
	err := m.Db.Conn.Order("timestamp desc").First(&reading).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &reading, nil
}

func (m *Monitor) listReadings(limit int) ([]models.Reading, error) {
	var readings []models.Reading
	err := m.Db.Conn.Order("timestamp desc").Limit(limit).Find(&readings).Error
	return readings, err
}

func (m *Monitor) listReadingsForDevice(deviceID uint, limit int) ([]models.Reading, error) {
	var readings []models.Reading
	err := m.Db.Conn.
		Where("device_id = ?", deviceID).
		Order("timestamp desc").
		Limit(limit).
		Find(&readings).Error
	return readings, err
}

type IReadingImpl struct {
	mon *Monitor
}

func (ir *IReadingImpl) Ingest(input *models.Reading) (*models.Reading, error) {
	return ir.mon.ingestReading(input)
}

func (ir *IReadingImpl) Latest() (*models.Reading, error) {
	return ir.mon.latestReading()
}

func (ir *IReadingImpl) List(limit int) ([]models.Reading, error) {
	return ir.mon.listReadings(limit)
}

func (ir *IReadingImpl) ListForDevice(deviceID uint, limit int) ([]models.Reading, error) {
	return ir.mon.listReadingsForDevice(deviceID, limit)
}

func (m *Monitor) GetIReading() IReading {
	return &IReadingImpl{mon: m}
}
