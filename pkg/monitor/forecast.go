package monitor

import (
	"aquamon.io/water-quality-service/pkg/common"
	"aquamon.io/water-quality-service/pkg/models"
	"go.uber.org/zap"
)

func (m *Monitor) createForecast(input *models.Forecast) (*models.Forecast, error) {
	if input.DeviceID != nil {
		if _, err := m.getDevice(*input.DeviceID); err != nil {
			return nil, err
		}
	}

	forecast := models.Forecast{
		Timestamp:   input.Timestamp,
		PHForecast:  input.PHForecast,
		TDSForecast: input.TDSForecast,
		NTUForecast: input.NTUForecast,
		DeviceID:    input.DeviceID,
	}

	if err := m.Db.Conn.Create(&forecast).Error; err != nil {
		return nil, err
	}

	common.GetLoggerWith(
		common.LoggerNameMonitorCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryForecast),
	).Info("Stored forecast", zap.Reflect("forecast", forecast))
	return &forecast, nil
}

func (m *Monitor) listDeviceForecasts(deviceID uint) ([]models.Forecast, error) {
	var forecasts []models.Forecast
	err := m.Db.Conn.
		Where("device_id = ?", deviceID).
		Order("timestamp desc").
		Find(&forecasts).Error
	return forecasts, err
}

type IForecastImpl struct {
	mon *Monitor
}

func (ifc *IForecastImpl) Create(input *models.Forecast) (*models.Forecast, error) {
	return ifc.mon.createForecast(input)
}

func (ifc *IForecastImpl) ListForDevice(deviceID uint) ([]models.Forecast, error) {
	return ifc.mon.listDeviceForecasts(deviceID)
}

func (m *Monitor) GetIForecast() IForecast {
	return &IForecastImpl{mon: m}
}
