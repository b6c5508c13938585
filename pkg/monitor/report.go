package monitor

import (
	"time"

	"aquamon.io/water-quality-service/pkg/common"
	"aquamon.io/water-quality-service/pkg/models"
	"go.uber.org/zap"
)

func (m *Monitor) createReport(input *models.ReportInput) (*models.Report, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameMonitorCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryReport),
	)

	if _, err := m.getUserByID(input.RecipientID); err != nil {
		return nil, err
	}
	if input.DeviceID != nil {
		if _, err := m.getDevice(*input.DeviceID); err != nil {
			return nil, err
		}
	}

	var readings []models.Reading
	if len(input.ReadingIDs) > 0 {
		if err := m.Db.Conn.Find(&readings, input.ReadingIDs).Error; err != nil {
			return nil, err
		}
		if len(readings) != len(input.ReadingIDs) {
			return nil, ErrNotFound
		}
	}

	var forecasts []models.Forecast
	if len(input.ForecastIDs) > 0 {
		if err := m.Db.Conn.Find(&forecasts, input.ForecastIDs).Error; err != nil {
			return nil, err
		}
		if len(forecasts) != len(input.ForecastIDs) {
			return nil, ErrNotFound
		}
	}

	report := models.Report{
		Title:       input.Title,
		ReportType:  input.ReportType,
		CreatedByID: input.CreatedByID,
		RecipientID: input.RecipientID,
		DeviceID:    input.DeviceID,
		Readings:    readings,
		Forecasts:   forecasts,
		Content:     input.Content,
		Status:      models.ReportStatusDraft,
	}

	if err := m.Db.Conn.Create(&report).Error; err != nil {
		return nil, err
	}

	logger.Info("Created report",
		zap.Uint("id", report.ID), zap.String("title", report.Title), zap.Uint("recipient", report.RecipientID))
	return &report, nil
}

func (m *Monitor) getReport(id uint) (*models.Report, error) {
	var report models.Report
	err := m.Db.Conn.
		Preload("Readings").
		Preload("Forecasts").
		First(&report, id).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &report, nil
}

func (m *Monitor) listReports() ([]models.Report, error) {
	var reports []models.Report
	err := m.Db.Conn.Order("id").Find(&reports).Error
	return reports, err
}

func (m *Monitor) sendReport(id uint) (*models.Report, error) {
	report, err := m.getReport(id)
	if err != nil {
		return nil, err
	}
	if report.Status == models.ReportStatusSent {
		return nil, ErrReportAlreadySent
	}

	now := time.Now()
	report.Status = models.ReportStatusSent
	report.SentAt = &now
	if err := m.Db.Conn.Model(report).
		Updates(map[string]any{"status": report.Status, "sent_at": report.SentAt}).Error; err != nil {
		return nil, err
	}

	common.GetLoggerWith(
		common.LoggerNameMonitorCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryReport),
	).Info("Sent report", zap.Uint("id", report.ID))
	return report, nil
}

type IReportImpl struct {
	mon *Monitor
}

func (ir *IReportImpl) Create(input *models.ReportInput) (*models.Report, error) {
	return ir.mon.createReport(input)
}

func (ir *IReportImpl) Get(id uint) (*models.Report, error) {
	return ir.mon.getReport(id)
}

func (ir *IReportImpl) List() ([]models.Report, error) {
	return ir.mon.listReports()
}

func (ir *IReportImpl) Send(id uint) (*models.Report, error) {
	return ir.mon.sendReport(id)
}

func (m *Monitor) GetIReport() IReport {
	return &IReportImpl{mon: m}
}
