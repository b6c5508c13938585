package monitor

import (
	"aquamon.io/water-quality-service/pkg/common"
	"aquamon.io/water-quality-service/pkg/models"
	"go.uber.org/zap"
)

func (m *Monitor) createDevice(input *models.Device) (*models.Device, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameMonitorCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryDevice),
	)

	device := models.Device{
		Name:        input.Name,
		Location:    input.Location,
		Description: input.Description,
		UserID:      input.UserID,
	}

	if err := m.Db.Conn.Create(&device).Error; err != nil {
		return nil, err
	}

	logger.Info("Registered device",
		zap.Uint("id", device.ID), zap.String("name", device.Name), zap.Uint("owner", device.UserID))
	return &device, nil
}

func (m *Monitor) getDevice(id uint) (*models.Device, error) {
	var device models.Device
	if err := m.Db.Conn.First(&device, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &device, nil
}

func (m *Monitor) listDevicesForUser(userID uint) ([]models.Device, error) {
	var devices []models.Device
	err := m.Db.Conn.Where("user_id = ?", userID).Order("id").Find(&devices).Error
	return devices, err
}

func (m *Monitor) listDevices() ([]models.Device, error) {
	var devices []models.Device
	err := m.Db.Conn.Order("id").Find(&devices).Error
	return devices, err
}

func (m *Monitor) deleteDevice(id uint) error {
	res := m.Db.Conn.Delete(&models.Device{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	common.GetLoggerWith(
		common.LoggerNameMonitorCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryDevice),
	).Info("Deleted device", zap.Uint("id", id))
	return nil
}

func (m *Monitor) addSensorData(deviceID uint, input *models.SensorData) (*models.SensorData, error) {
	if _, err := m.getDevice(deviceID); err != nil {
		return nil, err
	}

	data := models.SensorData{
		Timestamp:  input.Timestamp,
		SensorType: input.SensorType,
		Value:      input.Value,
		DeviceID:   deviceID,
	}
	if err := m.Db.Conn.Create(&data).Error; err != nil {
		return nil, err
	}
	return &data, nil
}

type IDeviceImpl struct {
	mon *Monitor
}

func (id *IDeviceImpl) Create(input *models.Device) (*models.Device, error) {
	return id.mon.createDevice(input)
}

func (id *IDeviceImpl) Get(deviceID uint) (*models.Device, error) {
	return id.mon.getDevice(deviceID)
}

func (id *IDeviceImpl) ListForUser(userID uint) ([]models.Device, error) {
	return id.mon.listDevicesForUser(userID)
}

func (id *IDeviceImpl) List() ([]models.Device, error) {
	return id.mon.listDevices()
}

func (id *IDeviceImpl) Delete(deviceID uint) error {
	return id.mon.deleteDevice(deviceID)
}

func (id *IDeviceImpl) AddSensorData(deviceID uint, input *models.SensorData) (*models.SensorData, error) {
	return id.mon.addSensorData(deviceID, input)
}

func (m *Monitor) GetIDevice() IDevice {
	return &IDeviceImpl{mon: m}
}
