package monitor

import (
	"bufio"
	"encoding/json"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"aquamon.io/water-quality-service/pkg/db"
	"aquamon.io/water-quality-service/pkg/models"
	"aquamon.io/water-quality-service/pkg/monitor/mocks"
)

func GetMockMonitorWithMemorySqliteDialector(t *testing.T, useMockIReading, useMockIAlert bool) (
	*gomock.Controller,
	*Monitor,
	*mocks.MockIReading,
	*mocks.MockIAlert,
) {
	ctrl := gomock.NewController(t)

	mockIReading := mocks.NewMockIReading(ctrl)
	mockIAlert := mocks.NewMockIAlert(ctrl)
	dialector := db.UseMemorySqliteDialector()
	dbInstance := db.GetInstance(dialector) // ensure migrations
	mon := (&Monitor{Db: *dbInstance}).WithAllServices()

	if useMockIReading {
		mon.Reading = mockIReading
	}
	if useMockIAlert {
		mon.Alert = mockIAlert
	}

	return ctrl, mon, mockIReading, mockIAlert
}

// createTestUser inserts a user with a unique name so tests sharing the
// singleton database do not collide.
func createTestUser(t *testing.T, mon *Monitor, role models.Role) *models.User {
	name := "u-" + uuid.NewString()[:13]
	usr, err := mon.User.Register(name, name+"@test.local", "secret123", role)
	require.NoError(t, err)
	return usr
}

func createTestDevice(t *testing.T, mon *Monitor, owner *models.User) *models.Device {
	device, err := mon.Device.Create(&models.Device{
		Name:     "probe-" + uuid.NewString()[:8],
		Location: "tank",
		UserID:   owner.ID,
	})
	require.NoError(t, err)
	return device
}

func ParseLogs(r io.Reader) []any {
	scanner := bufio.NewScanner(r)
	var logs []any

	for scanner.Scan() {
		line := scanner.Text()
		var j any
		if err := json.Unmarshal([]byte(line), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}
