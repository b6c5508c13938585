package monitor

import (
	"aquamon.io/water-quality-service/pkg/db"
	"aquamon.io/water-quality-service/pkg/models"
)

//go:generate mockgen -source=monitor.go -destination=mocks/monitor.go -package=mocks

type IUser interface {
	Register(username, email, password string, role models.Role) (*models.User, error)
	Authenticate(username, password string) (*models.User, error)
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	List() ([]models.User, error)
	ChangeRole(id uint, role models.Role) (*models.User, error)
	SetPassword(id uint, newPassword string) error
	UpdateProfile(id uint, username, email *string) (*models.User, error)
	Delete(id uint) error
}

type IDevice interface {
	Create(input *models.Device) (*models.Device, error)
	Get(id uint) (*models.Device, error)
	ListForUser(userID uint) ([]models.Device, error)
	List() ([]models.Device, error)
	Delete(id uint) error
	AddSensorData(deviceID uint, input *models.SensorData) (*models.SensorData, error)
}

type IReading interface {
	Ingest(input *models.Reading) (*models.Reading, error)
	Latest() (*models.Reading, error)
	List(limit int) ([]models.Reading, error)
	ListForDevice(deviceID uint, limit int) ([]models.Reading, error)
}

type IAlert interface {
	CheckReading(reading *models.Reading) error
	Get(id uint) (*models.Alert, error)
	List() ([]models.Alert, error)
	ListForDevice(deviceID uint) ([]models.Alert, error)
	SetStatus(id uint, status models.AlertStatus) (*models.Alert, error)
}

type IForecast interface {
	Create(input *models.Forecast) (*models.Forecast, error)
	ListForDevice(deviceID uint) ([]models.Forecast, error)
}

type IThreshold interface {
	Upsert(deviceID uint, input *models.ThresholdConfig) error
	Get(deviceID uint) (*models.ThresholdConfig, error)
}

type IReport interface {
	Create(input *models.ReportInput) (*models.Report, error)
	Get(id uint) (*models.Report, error)
	List() ([]models.Report, error)
	Send(id uint) (*models.Report, error)
}

// Monitor is the domain core. Handlers talk to the narrow service interfaces
// so tests can swap any of them for a mock.
type Monitor struct {
	Db        db.DB
	User      IUser
	Device    IDevice
	Reading   IReading
	Alert     IAlert
	Forecast  IForecast
	Threshold IThreshold
	Report    IReport
}

type ServiceOpts struct {
	User      IUser
	Device    IDevice
	Reading   IReading
	Alert     IAlert
	Forecast  IForecast
	Threshold IThreshold
	Report    IReport
}

func (m *Monitor) WithServices(opts ServiceOpts) *Monitor {
	if opts.User != nil {
		m.User = opts.User
	}
	if opts.Device != nil {
		m.Device = opts.Device
	}
	if opts.Reading != nil {
		m.Reading = opts.Reading
	}
	if opts.Alert != nil {
		m.Alert = opts.Alert
	}
	if opts.Forecast != nil {
		m.Forecast = opts.Forecast
	}
	if opts.Threshold != nil {
		m.Threshold = opts.Threshold
	}
	if opts.Report != nil {
		m.Report = opts.Report
	}
	return m
}

// WithAllServices wires every default implementation; the common case for
// cmd/server and tests that do not mock.
func (m *Monitor) WithAllServices() *Monitor {
	return m.WithServices(ServiceOpts{
		User:      m.GetIUser(),
		Device:    m.GetIDevice(),
		Reading:   m.GetIReading(),
		Alert:     m.GetIAlert(),
		Forecast:  m.GetIForecast(),
		Threshold: m.GetIThreshold(),
		Report:    m.GetIReport(),
	})
}
