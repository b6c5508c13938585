package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func ValidRole(r Role) bool {
	return r == RoleAdmin || r == RoleUser
}

type AlertSeverity string

const (
	AlertSeverityLow    AlertSeverity = "LOW"
	AlertSeverityMedium AlertSeverity = "MEDIUM"
	AlertSeverityHigh   AlertSeverity = "HIGH"
)

type AlertType string

const (
	AlertTypeRule     AlertType = "RULE"
	AlertTypeAI       AlertType = "AI"
	AlertTypeForecast AlertType = "FORECAST"
)

type AlertStatus string

const (
	AlertStatusNew      AlertStatus = "NEW"
	AlertStatusAck      AlertStatus = "ACK"
	AlertStatusResolved AlertStatus = "RESOLVED"
)

func ValidAlertStatus(s AlertStatus) bool {
	return s == AlertStatusNew || s == AlertStatusAck || s == AlertStatusResolved
}

type ReportType string

const (
	ReportTypeReading  ReportType = "READING"
	ReportTypeForecast ReportType = "FORECAST"
	ReportTypeMixed    ReportType = "MIXED"
)

func ValidReportType(t ReportType) bool {
	return t == ReportTypeReading || t == ReportTypeForecast || t == ReportTypeMixed
}

type ReportStatus string

const (
	ReportStatusDraft ReportStatus = "DRAFT"
	ReportStatusSent  ReportStatus = "SENT"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:150" json:"username"`
	Email        string    `gorm:"uniqueIndex;size:255" json:"email"`
	Role         Role      `gorm:"type:varchar(20);default:'user';check:role IN ('admin','user')" json:"role"`
	PasswordHash []byte    `json:"-"`
	LastLogin    time.Time `json:"last_login"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Devices []Device `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Device struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100" json:"name"`
	Location    string    `gorm:"size:200" json:"location"`
	Description string    `json:"description"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	User        *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// Reading is one timestamped water quality sample. The device link is
// optional: standalone probes can report without a registered device.
type Reading struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`
	PH        float64   `json:"ph"`
	TDS       float64   `json:"tds"`
	NTU       float64   `json:"ntu"`
	Battery   *float64  `json:"battery,omitempty"`
	Signal    *float64  `json:"signal,omitempty"`
	DeviceID  *uint     `gorm:"index" json:"device_id,omitempty"`
	Device    *Device   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *Reading) BeforeCreate(tx *gorm.DB) error {
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}
	return nil
}

type Forecast struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Timestamp   time.Time `gorm:"index" json:"timestamp"`
	PHForecast  float64   `json:"ph_forecast"`
	TDSForecast float64   `json:"tds_forecast"`
	NTUForecast float64   `json:"ntu_forecast"`
	DeviceID    *uint     `gorm:"index" json:"device_id,omitempty"`
	Device      *Device   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

func (f *Forecast) BeforeCreate(tx *gorm.DB) error {
	if f.Timestamp.IsZero() {
		f.Timestamp = time.Now()
	}
	return nil
}

// SensorData is a generic typed sample; unlike Reading its device link is
// required.
type SensorData struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	SensorType string    `gorm:"size:50" json:"sensor_type"`
	Value      float64   `json:"value"`
	DeviceID   uint      `gorm:"index;not null" json:"device_id"`
	Device     *Device   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

func (s *SensorData) BeforeCreate(tx *gorm.DB) error {
	if s.Timestamp.IsZero() {
		s.Timestamp = time.Now()
	}
	return nil
}

// Alert survives deletion of the device it points at; the link is nulled.
type Alert struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	Timestamp time.Time     `gorm:"index" json:"timestamp"`
	Message   string        `json:"message"`
	Severity  AlertSeverity `gorm:"type:varchar(20);check:severity IN ('LOW','MEDIUM','HIGH')" json:"severity"`
	Type      AlertType     `gorm:"type:varchar(20);check:type IN ('RULE','AI','FORECAST')" json:"type"`
	Status    AlertStatus   `gorm:"type:varchar(20);default:'NEW';check:status IN ('NEW','ACK','RESOLVED')" json:"status"`
	DeviceID  *uint         `gorm:"index" json:"device_id,omitempty"`
	Device    *Device       `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt time.Time     `json:"created_at"`
}

type Report struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Title       string       `gorm:"size:200" json:"title"`
	ReportType  ReportType   `gorm:"type:varchar(20);check:report_type IN ('READING','FORECAST','MIXED')" json:"report_type"`
	CreatedByID *uint        `json:"created_by_id,omitempty"`
	CreatedBy   *User        `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL" json:"-"`
	RecipientID uint         `gorm:"index;not null" json:"recipient_id"`
	Recipient   *User        `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE" json:"-"`
	DeviceID    *uint        `json:"device_id,omitempty"`
	Device      *Device      `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Readings    []Reading    `gorm:"many2many:report_readings" json:"readings,omitempty"`
	Forecasts   []Forecast   `gorm:"many2many:report_forecasts" json:"forecasts,omitempty"`
	Content     string       `json:"content"`
	Status      ReportStatus `gorm:"type:varchar(20);default:'DRAFT';check:status IN ('DRAFT','SENT')" json:"status"`
	SentAt      *time.Time   `json:"sent_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// ReportInput carries everything needed to assemble a report. Readings and
// forecasts are attached by ID; unknown IDs fail the whole create. Not a
// persisted table.
type ReportInput struct {
	Title       string
	ReportType  ReportType
	CreatedByID *uint
	RecipientID uint
	DeviceID    *uint
	ReadingIDs  []uint
	ForecastIDs []uint
	Content     string
}

// ThresholdConfig holds the per-device rule thresholds driving RULE alerts.
type ThresholdConfig struct {
	DeviceID uint    `gorm:"primaryKey" json:"device_id"`
	Device   *Device `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	PHMin    float64 `json:"ph_min"`
	PHMax    float64 `json:"ph_max"`
	TDSMax   float64 `json:"tds_max"`
	NTUMax   float64 `json:"ntu_max"`
}
