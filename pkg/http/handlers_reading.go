package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"

	"github.com/agrisense/agrisense-server/pkg/models"
)

type ReadingRequest struct {
	DeviceID  string    `json:"deviceId"`
	Location  string    `json:"location"`
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

var readingRequestSchema = z.Struct(z.Shape{
	"DeviceID":  z.String().Required(),
	"Location":  z.String(),
	"Value":     z.Float64().Required(),
	"Timestamp": z.Time(),
})

func (rs *RestfulServer) postReading(c *gin.Context, unit models.Unit) {
	var req ReadingRequest
	if err := readingRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	if !rs.CheckDeviceLimiter(req.DeviceID) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	if req.Timestamp.IsZero() {
		req.Timestamp = time.Now()
	}

	if err := rs.Farm.Reading.Ingest(&models.Reading{
		DeviceID:  req.DeviceID,
		Location:  req.Location,
		Unit:      unit,
		Value:     req.Value,
		Timestamp: req.Timestamp,
	}); err != nil {
		rs.fail(c, err)
		return
	}

	c.Status(http.StatusOK)
}

func (rs *RestfulServer) getReadings(c *gin.Context, unit models.Unit) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	readings, err := rs.Farm.Reading.GetReadings(unit, c.Query("location"), limit)
	if err != nil {
		rs.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, readings)
}

func (rs *RestfulServer) PostPH(c *gin.Context) {
	rs.postReading(c, models.UnitPH)
}

func (rs *RestfulServer) GetPH(c *gin.Context) {
	rs.getReadings(c, models.UnitPH)
}

func (rs *RestfulServer) PostWaterLevel(c *gin.Context) {
	rs.postReading(c, models.UnitCm)
}

func (rs *RestfulServer) GetWaterLevel(c *gin.Context) {
	rs.getReadings(c, models.UnitCm)
}

type MonitoringLogRequest struct {
	DeviceID  string    `json:"deviceId"`
	Location  string    `json:"location"`
	Battery   *float64  `json:"battery"`
	Signal    *float64  `json:"signal"`
	Timestamp time.Time `json:"timestamp"`
}

var monitoringLogRequestSchema = z.Struct(z.Shape{
	"DeviceID":  z.String().Required(),
	"Location":  z.String(),
	"Battery":   z.Ptr(z.Float64()),
	"Signal":    z.Ptr(z.Float64()),
	"Timestamp": z.Time(),
})

// PostMonitoringLog ingests device health numbers. Battery and signal are
// both percent readings; either may be absent.
func (rs *RestfulServer) PostMonitoringLog(c *gin.Context) {
	var req MonitoringLogRequest
	if err := monitoringLogRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	if !rs.CheckDeviceLimiter(req.DeviceID) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	if req.Timestamp.IsZero() {
		req.Timestamp = time.Now()
	}

	for _, value := range []*float64{req.Battery, req.Signal} {
		if value == nil {
			continue
		}
		if err := rs.Farm.Reading.Ingest(&models.Reading{
			DeviceID:  req.DeviceID,
			Location:  req.Location,
			Unit:      models.UnitPercent,
			Value:     *value,
			Timestamp: req.Timestamp,
		}); err != nil {
			rs.fail(c, err)
			return
		}
	}

	c.Status(http.StatusOK)
}

func (rs *RestfulServer) GetMonitoringLog(c *gin.Context) {
	rs.getReadings(c, models.UnitPercent)
}

func (rs *RestfulServer) GetPHHistory(c *gin.Context) {
	bucket := c.DefaultQuery("range", "day")
	limit, _ := strconv.Atoi(c.Query("limit"))

	buckets, err := rs.Farm.Reading.GetPHHistory(bucket, limit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, buckets)
}
