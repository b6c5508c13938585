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

const defaultReadingLimit = 100

type ReadingRequest struct {
	Timestamp time.Time `json:"timestamp"`
	PH        float64   `json:"ph"`
	TDS       float64   `json:"tds"`
	NTU       float64   `json:"ntu"`
	Battery   *float64  `json:"battery"`
	Signal    *float64  `json:"signal"`
	DeviceID  *int      `json:"device_id"`
}

var readingRequestSchema = z.Struct(z.Shape{
	"Timestamp": z.Time().Optional(),
	"PH":        z.Float64().GTE(0).LTE(14).Required(),
	"TDS":       z.Float64().GTE(0).Required(),
	"NTU":       z.Float64().GTE(0).Required(),
	"Battery":   z.Ptr(z.Float64()),
	"Signal":    z.Ptr(z.Float64()),
	"DeviceID":  z.Ptr(z.Int().GTE(1)),
})

func uintPtr(v *int) *uint {
	if v == nil {
		return nil
	}
	u := uint(*v)
	return &u
}

// limiterKey buckets ingestion per device, falling back to the client address
// for readings not tied to a registered device.
func limiterKey(c *gin.Context, deviceID *uint) string {
	if deviceID != nil {
		return "device:" + strconv.FormatUint(uint64(*deviceID), 10)
	}
	return "addr:" + c.ClientIP()
}

func (rs *RestfulServer) UploadReading(c *gin.Context) {
	var req ReadingRequest
	if err := readingRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	deviceID := uintPtr(req.DeviceID)
	if !rs.CheckDeviceLimiter(limiterKey(c, deviceID)) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	reading, err := rs.Mon.Reading.Ingest(&models.Reading{
		Timestamp: req.Timestamp,
		PH:        req.PH,
		TDS:       req.TDS,
		NTU:       req.NTU,
		Battery:   req.Battery,
		Signal:    req.Signal,
		DeviceID:  deviceID,
	})
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reading)
}

func (rs *RestfulServer) LatestReading(c *gin.Context) {
	reading, err := rs.Mon.Reading.Latest()
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, reading)
}

func (rs *RestfulServer) ListDeviceReadings(c *gin.Context) {
	device, ok := rs.ownedDevice(c)
	if !ok {
		return
	}

	limit := defaultReadingLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	readings, err := rs.Mon.Reading.ListForDevice(device.ID, limit)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, readings)
}

type LimiterRequest struct {
	Rate  float64 `json:"rate"`
	Burst int     `json:"burst"`
}

var limiterRequestSchema = z.Struct(z.Shape{
	"Rate":  z.Float64().Required(),
	"Burst": z.Int().Required(),
})

func (rs *RestfulServer) PostLimiter(c *gin.Context) {
	device, ok := rs.ownedDevice(c)
	if !ok {
		return
	}

	var req LimiterRequest
	if err := limiterRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	rs.SetLimiter("device:"+strconv.FormatUint(uint64(device.ID), 10), req.Rate, req.Burst)

	c.Status(http.StatusOK)
}
