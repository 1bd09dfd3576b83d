package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"

	"github.com/agrisense/agrisense-server/pkg/auth"
	"github.com/agrisense/agrisense-server/pkg/farm"
	"github.com/agrisense/agrisense-server/pkg/models"
)

// GetPumpRelay is the pump read path. Note that a read can mutate state:
// an expired timer is reconciled to OFF before the status is returned.
func (rs *RestfulServer) GetPumpRelay(c *gin.Context) {
	mode := models.PumpMode(c.Query("mode"))

	status, err := rs.Farm.Pump.Status(mode)
	if err != nil {
		rs.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

type PumpRelayRequest struct {
	Mode         string `json:"mode"`
	IsOn         *bool  `json:"isOn"`
	Duration     *int   `json:"duration"`
	IsManualMode bool   `json:"isManualMode"`
	ChangedBy    string `json:"changedBy"`
}

var pumpRelayRequestSchema = z.Struct(z.Shape{
	"Mode":         z.String().Required(),
	"IsOn":         z.Ptr(z.Bool()).NotNil(),
	"Duration":     z.Ptr(z.Int()),
	"IsManualMode": z.Bool(),
	"ChangedBy":    z.String(),
})

func (rs *RestfulServer) PostPumpRelay(c *gin.Context) {
	var req PumpRelayRequest
	if err := pumpRelayRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	principal, _ := auth.PrincipalFrom(c)
	changedBy := req.ChangedBy
	if changedBy == "" {
		changedBy = principal.Name
	}

	status, err := rs.Farm.Pump.Update(models.PumpMode(req.Mode), &farm.PumpUpdate{
		IsOn:         *req.IsOn,
		Duration:     req.Duration,
		IsManualMode: req.IsManualMode,
		ChangedBy:    changedBy,
		UserID:       principal.UserID,
	})
	if err != nil {
		rs.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "pump state updated",
		"data": gin.H{
			"mode":      status.Mode,
			"isOn":      status.IsOn,
			"updatedAt": status.UpdatedAt,
		},
	})
}

func (rs *RestfulServer) GetPumpHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	entries, err := rs.Farm.Pump.GetHistory(models.PumpMode(c.Query("mode")), limit)
	if err != nil {
		rs.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (rs *RestfulServer) GetDeviceControl(c *gin.Context) {
	deviceID := c.Query("device_id")
	if deviceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "device_id is required"})
		return
	}

	state, err := rs.Farm.Device.GetControl(deviceID, models.PumpMode(c.Query("mode")))
	if err != nil {
		rs.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

type DeviceControlRequest struct {
	DeviceID string `json:"deviceId"`
	Mode     string `json:"mode"`
	Command  string `json:"command"`
	Reason   string `json:"reason"`
}

var deviceControlRequestSchema = z.Struct(z.Shape{
	"DeviceID": z.String().Required(),
	"Mode":     z.String().Required(),
	"Command":  z.String().Required(),
	"Reason":   z.String(),
})

func (rs *RestfulServer) PutDeviceControl(c *gin.Context) {
	var req DeviceControlRequest
	if err := deviceControlRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	principal, _ := auth.PrincipalFrom(c)

	state, err := rs.Farm.Device.SetControl(&models.DeviceControlState{
		DeviceID: &req.DeviceID,
		Mode:     models.PumpMode(req.Mode),
		Command:  models.PumpCommand(req.Command),
		ActionBy: principal.Name,
		Reason:   req.Reason,
	})
	if err != nil {
		rs.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": state})
}

func (rs *RestfulServer) GetDeviceStatus(c *gin.Context) {
	states, err := rs.Farm.Device.ListStatuses()
	if err != nil {
		rs.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, states)
}
