package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
)

func (rs *RestfulServer) GetAlerts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	unreadOnly := c.Query("unread") == "true"

	alerts, err := rs.Farm.Alert.ListAlerts(c.Query("location"), unreadOnly, limit)
	if err != nil {
		rs.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, alerts)
}

type PatchAlertRequest struct {
	IsRead   *bool `json:"isRead"`
	Resolved *bool `json:"resolved"`
}

var patchAlertRequestSchema = z.Struct(z.Shape{
	"IsRead":   z.Ptr(z.Bool()),
	"Resolved": z.Ptr(z.Bool()),
})

func (rs *RestfulServer) PatchAlert(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid alert id"})
		return
	}

	var req PatchAlertRequest
	if err := patchAlertRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	if req.IsRead != nil && *req.IsRead {
		if err := rs.Farm.Alert.MarkRead(uint(id)); err != nil {
			rs.fail(c, err)
			return
		}
	}
	if req.Resolved != nil && *req.Resolved {
		if err := rs.Farm.Alert.Resolve(uint(id)); err != nil {
			rs.fail(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
