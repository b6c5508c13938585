package monitor

import (
	"aquamon.io/water-quality-service/pkg/common"
	"aquamon.io/water-quality-service/pkg/models"
	"go.uber.org/zap"
	"gorm.io/gorm/clause"
)

func (m *Monitor) upsertThreshold(deviceID uint, input *models.ThresholdConfig) error {
	logger := common.GetLoggerWith(
		common.LoggerNameMonitorCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryThreshold),
	)

	if _, err := m.getDevice(deviceID); err != nil {
		return err
	}

	config := models.ThresholdConfig{
		DeviceID: deviceID,
		PHMin:    input.PHMin,
		PHMax:    input.PHMax,
		TDSMax:   input.TDSMax,
		NTUMax:   input.NTUMax,
	}

	err := m.Db.Conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_id"}},
		UpdateAll: true,
	}).Create(&config).Error

	if err == nil {
		logger.Info("Upserted thresholds for device", zap.Reflect("config", config))
	}

	return err
}

func (m *Monitor) getThreshold(deviceID uint) (*models.ThresholdConfig, error) {
	var config models.ThresholdConfig
	if err := m.Db.Conn.First(&config, "device_id = ?", deviceID).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &config, nil
}

type IThresholdImpl struct {
	mon *Monitor
}

func (it *IThresholdImpl) Upsert(deviceID uint, input *models.ThresholdConfig) error {
	return it.mon.upsertThreshold(deviceID, input)
}

func (it *IThresholdImpl) Get(deviceID uint) (*models.ThresholdConfig, error) {
	return it.mon.getThreshold(deviceID)
}

func (m *Monitor) GetIThreshold() IThreshold {
	return &IThresholdImpl{mon: m}
}
