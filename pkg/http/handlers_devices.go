package http

import (
	"net/http"
	"strconv"
	"time"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
	"github.com/gin-gonic/gin"

	"aquamon.io/water-quality-service/pkg/models"
)

// ownedDevice resolves :device_id and enforces ownership: regular users only
// see their own devices, admins see all. On failure it writes the response
// and returns ok=false.
func (rs *RestfulServer) ownedDevice(c *gin.Context) (*models.Device, bool) {
	id, err := strconv.ParseUint(c.Param("device_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid device id"})
		return nil, false
	}

	device, err := rs.Mon.Device.Get(uint(id))
	if err != nil {
		serviceError(c, err)
		return nil, false
	}

	if !isAdmin(c) && device.UserID != currentUserID(c) {
		permissionDenied(c)
		return nil, false
	}
	return device, true
}

type DeviceRequest struct {
	Name        string `json:"name"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

var deviceRequestSchema = z.Struct(z.Shape{
	"Name":        z.String().Min(1).Max(100).Required(),
	"Location":    z.String().Max(200).Optional(),
	"Description": z.String().Optional(),
})

func (rs *RestfulServer) CreateDevice(c *gin.Context) {
	var req DeviceRequest
	if err := deviceRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	device, err := rs.Mon.Device.Create(&models.Device{
		Name:        req.Name,
		Location:    req.Location,
		Description: req.Description,
		UserID:      currentUserID(c),
	})
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, device)
}

func (rs *RestfulServer) ListDevices(c *gin.Context) {
	var (
		devices []models.Device
		err     error
	)
	if isAdmin(c) {
		devices, err = rs.Mon.Device.List()
	} else {
		devices, err = rs.Mon.Device.ListForUser(currentUserID(c))
	}
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, devices)
}

func (rs *RestfulServer) GetDevice(c *gin.Context) {
	device, ok := rs.ownedDevice(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, device)
}

func (rs *RestfulServer) DeleteDevice(c *gin.Context) {
	device, ok := rs.ownedDevice(c)
	if !ok {
		return
	}

	if err := rs.Mon.Device.Delete(device.ID); err != nil {
		serviceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type ThresholdRequest struct {
	PHMin  float64 `json:"ph_min"`
	PHMax  float64 `json:"ph_max"`
	TDSMax float64 `json:"tds_max"`
	NTUMax float64 `json:"ntu_max"`
}

var thresholdRequestSchema = z.Struct(z.Shape{
	"PHMin":  z.Float64().GTE(0).LTE(14).Required(),
	"PHMax":  z.Float64().GTE(0).LTE(14).Required(),
	"TDSMax": z.Float64().GTE(0).Required(),
	"NTUMax": z.Float64().GTE(0).Required(),
})

func (rs *RestfulServer) UpsertThresholds(c *gin.Context) {
	device, ok := rs.ownedDevice(c)
	if !ok {
		return
	}

	var req ThresholdRequest
	if err := thresholdRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}
	if req.PHMin > req.PHMax {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "validation failed",
			"fields": gin.H{"ph_min": "ph_min must not exceed ph_max"},
		})
		return
	}

	if err := rs.Mon.Threshold.Upsert(device.ID, &models.ThresholdConfig{
		PHMin:  req.PHMin,
		PHMax:  req.PHMax,
		TDSMax: req.TDSMax,
		NTUMax: req.NTUMax,
	}); err != nil {
		serviceError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

func (rs *RestfulServer) GetThresholds(c *gin.Context) {
	device, ok := rs.ownedDevice(c)
	if !ok {
		return
	}

	config, err := rs.Mon.Threshold.Get(device.ID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, config)
}

type ForecastRequest struct {
	Timestamp   time.Time `json:"timestamp"`
	PHForecast  float64   `json:"ph_forecast"`
	TDSForecast float64   `json:"tds_forecast"`
	NTUForecast float64   `json:"ntu_forecast"`
}

var forecastRequestSchema = z.Struct(z.Shape{
	"Timestamp":   z.Time().Required(),
	"PHForecast":  z.Float64().GTE(0).LTE(14).Required(),
	"TDSForecast": z.Float64().GTE(0).Required(),
	"NTUForecast": z.Float64().GTE(0).Required(),
})

func (rs *RestfulServer) CreateForecast(c *gin.Context) {
	device, ok := rs.ownedDevice(c)
	if !ok {
		return
	}

	var req ForecastRequest
	if err := forecastRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	forecast, err := rs.Mon.Forecast.Create(&models.Forecast{
		Timestamp:   req.Timestamp,
		PHForecast:  req.PHForecast,
		TDSForecast: req.TDSForecast,
		NTUForecast: req.NTUForecast,
		DeviceID:    &device.ID,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, forecast)
}

func (rs *RestfulServer) ListDeviceForecasts(c *gin.Context) {
	device, ok := rs.ownedDevice(c)
	if !ok {
		return
	}

	forecasts, err := rs.Mon.Forecast.ListForDevice(device.ID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, forecasts)
}

type SensorDataRequest struct {
	Timestamp  time.Time `json:"timestamp"`
	SensorType string    `json:"sensor_type"`
	Value      float64   `json:"value"`
}

var sensorDataRequestSchema = z.Struct(z.Shape{
	"Timestamp":  z.Time().Optional(),
	"SensorType": z.String().Min(1).Max(50).Required(),
	"Value":      z.Float64().Required(),
})

func (rs *RestfulServer) AddSensorData(c *gin.Context) {
	device, ok := rs.ownedDevice(c)
	if !ok {
		return
	}

	var req SensorDataRequest
	if err := sensorDataRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	data, err := rs.Mon.Device.AddSensorData(device.ID, &models.SensorData{
		Timestamp:  req.Timestamp,
		SensorType: req.SensorType,
		Value:      req.Value,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, data)
}

func (rs *RestfulServer) GetDeviceAlerts(c *gin.Context) {
	device, ok := rs.ownedDevice(c)
	if !ok {
		return
	}

	alerts, err := rs.Mon.Alert.ListForDevice(device.ID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, alerts)
}

type AlertStatusRequest struct {
	Status string `json:"status"`
}

var alertStatusRequestSchema = z.Struct(z.Shape{
	"Status": z.String().OneOf([]string{"NEW", "ACK", "RESOLVED"}).Required(),
})

func (rs *RestfulServer) SetAlertStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid alert id"})
		return
	}

	var req AlertStatusRequest
	if err := alertStatusRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	existing, err := rs.Mon.Alert.Get(uint(id))
	if err != nil {
		serviceError(c, err)
		return
	}
	if !isAdmin(c) {
		// alerts whose device is gone stay admin-only
		if existing.DeviceID == nil {
			permissionDenied(c)
			return
		}
		device, err := rs.Mon.Device.Get(*existing.DeviceID)
		if err != nil {
			serviceError(c, err)
			return
		}
		if device.UserID != currentUserID(c) {
			permissionDenied(c)
			return
		}
	}

	alert, err := rs.Mon.Alert.SetStatus(uint(id), models.AlertStatus(req.Status))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, alert)
}
