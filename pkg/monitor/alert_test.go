package monitor

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"

	"aquamon.io/water-quality-service/pkg/common"
	"aquamon.io/water-quality-service/pkg/models"
	_ "aquamon.io/water-quality-service/pkg/testing"
)

func TestCheckReading(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, mon, _, _ := GetMockMonitorWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	usr := createTestUser(t, mon, models.RoleUser)
	device := createTestDevice(t, mon, usr)

	err := mon.Threshold.Upsert(device.ID, &models.ThresholdConfig{
		PHMin:  6.5,
		PHMax:  8.5,
		TDSMax: 500,
		NTUMax: 5,
	})
	assert.NoError(t, err)

	// a reading violating every rule at once
	reading := models.Reading{
		Timestamp: time.Now(),
		PH:        9.2,  // above PHMax -> HIGH
		TDS:       650,  // above TDSMax -> MEDIUM
		NTU:       12.5, // above NTUMax -> MEDIUM
		DeviceID:  &device.ID,
	}
	assert.NoError(t, mon.Db.Conn.Create(&reading).Error)

	assert.NoError(t, mon.Alert.CheckReading(&reading))

	alerts, err := mon.Alert.ListForDevice(device.ID)
	assert.NoError(t, err)
	assert.Len(t, alerts, 3)

	severities := map[models.AlertSeverity]int{}
	for _, alert := range alerts {
		assert.Equal(t, models.AlertTypeRule, alert.Type)
		assert.Equal(t, models.AlertStatusNew, alert.Status)
		severities[alert.Severity]++
	}
	assert.Equal(t, 1, severities[models.AlertSeverityHigh])
	assert.Equal(t, 2, severities[models.AlertSeverityMedium])
}

func TestCheckReading_NoConfig(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, mon, _, _ := GetMockMonitorWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	usr := createTestUser(t, mon, models.RoleUser)
	device := createTestDevice(t, mon, usr)

	reading := models.Reading{
		Timestamp: time.Now(),
		PH:        1.0,
		TDS:       9999,
		NTU:       9999,
		DeviceID:  &device.ID,
	}
	assert.NoError(t, mon.Db.Conn.Create(&reading).Error)

	// no threshold config for this device, so no alerts
	assert.NoError(t, mon.Alert.CheckReading(&reading))

	alerts, err := mon.Alert.ListForDevice(device.ID)
	assert.NoError(t, err)
	assert.Len(t, alerts, 0)
}

func TestCheckReading_InRange(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, mon, _, _ := GetMockMonitorWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	usr := createTestUser(t, mon, models.RoleUser)
	device := createTestDevice(t, mon, usr)

	err := mon.Threshold.Upsert(device.ID, &models.ThresholdConfig{
		PHMin: 6.5, PHMax: 8.5, TDSMax: 500, NTUMax: 5,
	})
	assert.NoError(t, err)

	reading := models.Reading{
		Timestamp: time.Now(),
		PH:        7.0,
		TDS:       120,
		NTU:       1.0,
		DeviceID:  &device.ID,
	}
	assert.NoError(t, mon.Db.Conn.Create(&reading).Error)
	assert.NoError(t, mon.Alert.CheckReading(&reading))

	alerts, err := mon.Alert.ListForDevice(device.ID)
	assert.NoError(t, err)
	assert.Len(t, alerts, 0)
}

func TestCheckReading_WithLog(t *testing.T) {
	var buf = &bytes.Buffer{}
	common.SetTestCaptureLogger(buf, zapcore.InfoLevel)

	ctrl, mon, _, _ := GetMockMonitorWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	usr := createTestUser(t, mon, models.RoleUser)
	device := createTestDevice(t, mon, usr)

	err := mon.Threshold.Upsert(device.ID, &models.ThresholdConfig{
		PHMin: 6.5, PHMax: 8.5, TDSMax: 500, NTUMax: 5,
	})
	assert.NoError(t, err)

	reading := models.Reading{
		Timestamp: time.Now(),
		PH:        9.2,
		TDS:       120,
		NTU:       1.0,
		DeviceID:  &device.ID,
	}
	assert.NoError(t, mon.Db.Conn.Create(&reading).Error)
	assert.NoError(t, mon.Alert.CheckReading(&reading))

	logs := ParseLogs(buf)

	{
		found := false
		for _, log := range logs {
			lobj := log.(map[string]any)
			if lobj["category"] == "alert" &&
				lobj["logger"] == "monitor_core" &&
				lobj["msg"] == "Alert found" &&
				lobj["alert"].(map[string]any)["severity"] == "HIGH" &&
				lobj["alert"].(map[string]any)["message"] == "pH 9.20 outside safe range [6.50, 8.50]" {
				found = true
			}
		}
		assert.True(t, found)
	}

	{
		found := false
		for _, log := range logs {
			lobj := log.(map[string]any)
			if lobj["category"] == "alert" &&
				lobj["logger"] == "monitor_core" &&
				lobj["msg"] == "Alert saved" &&
				lobj["alert"].(map[string]any)["message"] == "pH 9.20 outside safe range [6.50, 8.50]" {
				found = true
			}
		}
		assert.True(t, found)
	}
}

func TestSetAlertStatus(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, mon, _, _ := GetMockMonitorWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	usr := createTestUser(t, mon, models.RoleUser)
	device := createTestDevice(t, mon, usr)

	alert := models.Alert{
		Timestamp: time.Now(),
		Message:   "test alert",
		Severity:  models.AlertSeverityLow,
		Type:      models.AlertTypeRule,
		Status:    models.AlertStatusNew,
		DeviceID:  &device.ID,
	}
	assert.NoError(t, mon.Db.Conn.Create(&alert).Error)

	updated, err := mon.Alert.SetStatus(alert.ID, models.AlertStatusResolved)
	assert.NoError(t, err)
	assert.Equal(t, models.AlertStatusResolved, updated.Status)

	_, err = mon.Alert.SetStatus(99999999, models.AlertStatusAck)
	assert.ErrorIs(t, err, ErrNotFound)
}
