package http

import (
	"net/http"
	"strconv"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
	"github.com/gin-gonic/gin"

	"aquamon.io/water-quality-service/pkg/common"
	"aquamon.io/water-quality-service/pkg/models"
)

type ReportRequest struct {
	Title       string `json:"title"`
	ReportType  string `json:"report_type"`
	RecipientID int    `json:"recipient_id"`
	DeviceID    *int   `json:"device_id"`
	ReadingIDs  []int  `json:"reading_ids"`
	ForecastIDs []int  `json:"forecast_ids"`
	Content     string `json:"content"`
}

var reportRequestSchema = z.Struct(z.Shape{
	"Title":       z.String().Min(1).Max(200).Required(),
	"ReportType":  z.String().OneOf([]string{"READING", "FORECAST", "MIXED"}).Required(),
	"RecipientID": z.Int().GTE(1).Required(),
	"DeviceID":    z.Ptr(z.Int().GTE(1)),
	"ReadingIDs":  z.Slice(z.Int().GTE(1)).Optional(),
	"ForecastIDs": z.Slice(z.Int().GTE(1)).Optional(),
	"Content":     z.String().Optional(),
})

func uintSlice(vs []int) []uint {
	return common.Mapper(vs, func(v int) uint { return uint(v) })
}

func (rs *RestfulServer) CreateReport(c *gin.Context) {
	var req ReportRequest
	if err := reportRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	creator := currentUserID(c)
	report, err := rs.Mon.Report.Create(&models.ReportInput{
		Title:       req.Title,
		ReportType:  models.ReportType(req.ReportType),
		CreatedByID: &creator,
		RecipientID: uint(req.RecipientID),
		DeviceID:    uintPtr(req.DeviceID),
		ReadingIDs:  uintSlice(req.ReadingIDs),
		ForecastIDs: uintSlice(req.ForecastIDs),
		Content:     req.Content,
	})
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, report)
}

func (rs *RestfulServer) ListReports(c *gin.Context) {
	reports, err := rs.Mon.Report.List()
	if err != nil {
		serviceError(c, err)
		return
	}

	// non-admins only see reports addressed to them
	if !isAdmin(c) {
		own := make([]models.Report, 0, len(reports))
		for _, r := range reports {
			if r.RecipientID == currentUserID(c) {
				own = append(own, r)
			}
		}
		reports = own
	}

	c.JSON(http.StatusOK, reports)
}

func (rs *RestfulServer) GetReport(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}

	report, err := rs.Mon.Report.Get(uint(id))
	if err != nil {
		serviceError(c, err)
		return
	}

	if !isAdmin(c) && report.RecipientID != currentUserID(c) {
		permissionDenied(c)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (rs *RestfulServer) SendReport(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}

	report, err := rs.Mon.Report.Send(uint(id))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
