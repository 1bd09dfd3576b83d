package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/agrisense/agrisense-server/pkg/auth"
	"github.com/agrisense/agrisense-server/pkg/common"
	"github.com/agrisense/agrisense-server/pkg/farm"
)

type RestfulServer struct {
	Server           *gin.Engine
	Farm             *farm.Farm
	Auth             *auth.Authenticator
	RateLimiterStore *farm.RateLimiterStore
}

func (rs *RestfulServer) GetLimiter(deviceID string) *rate.Limiter {
	if rs.RateLimiterStore == nil {
		return nil
	} else {
		return rs.RateLimiterStore.GetLimiter(deviceID)
	}
}

func (rs *RestfulServer) CheckDeviceLimiter(deviceID string) bool {
	limiter := rs.GetLimiter(deviceID)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

func (rs *RestfulServer) SetLimiter(deviceID string, deviceRate float64, deviceBurst int) {
	if rs.RateLimiterStore == nil {
		return
	}
	rs.RateLimiterStore.SetLimiter(deviceID, rate.Limit(deviceRate), deviceBurst)
}

// fail maps service errors onto the response taxonomy. Database and other
// unclassified errors become a generic 500 so internals never leak.
func (rs *RestfulServer) fail(c *gin.Context, err error) {
	logger := common.GetLoggerWith(common.LoggerNameRestfulServer)

	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, farm.ErrNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, farm.ErrInvalidMode),
		errors.Is(err, farm.ErrInvalidCommand),
		errors.Is(err, farm.ErrInvalidRole),
		errors.Is(err, farm.ErrEmailTaken),
		errors.Is(err, farm.ErrSelfDelete):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, farm.ErrBadCredential):
		status, message = http.StatusUnauthorized, err.Error()
	case errors.Is(err, farm.ErrConflict):
		status, message = http.StatusConflict, err.Error()
	}

	logger.Error("Request failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", status),
		zap.Error(err))

	c.JSON(status, gin.H{"success": false, "message": message})
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (rs *RestfulServer) Setup() {
	rs.Server.GET("/healthz", rs.HealthCheck)

	api := rs.Server.Group("/api")
	{
		api.POST("/auth/register", rs.Register)
		api.POST("/auth/login", rs.Login)
		api.POST("/auth/logout", rs.Logout)

		api.POST("/ph", rs.PostPH)
		api.GET("/ph", rs.GetPH)
		api.GET("/ph-history", rs.GetPHHistory)
		api.POST("/water-level", rs.PostWaterLevel)
		api.GET("/water-level", rs.GetWaterLevel)
		api.POST("/monitoring-log", rs.PostMonitoringLog)
		api.GET("/monitoring-log", rs.GetMonitoringLog)

		api.GET("/alerts", rs.GetAlerts)
		api.PATCH("/alerts/:id", rs.PatchAlert)

		api.GET("/pump-relay", rs.GetPumpRelay)
		api.POST("/pump-relay", rs.Auth.RequireAuth(), rs.PostPumpRelay)
		api.GET("/pump-relay/history", rs.GetPumpHistory)

		api.GET("/device-control", rs.GetDeviceControl)
		api.PUT("/device-control", rs.Auth.RequireAuth(), rs.PutDeviceControl)
		api.GET("/device-status", rs.GetDeviceStatus)

		api.GET("/messages", rs.Auth.RequireAuth(), rs.GetMessages)
	}

	admin := rs.Server.Group("/api/admin", rs.Auth.RequireAdmin())
	{
		admin.GET("/users", rs.AdminListUsers)
		admin.POST("/users", rs.AdminCreateUser)
		admin.DELETE("/users/:id", rs.AdminDeleteUser)
		admin.POST("/users/:id/password", rs.AdminChangePassword)
		admin.POST("/messages", rs.AdminSendMessage)
		admin.POST("/api-keys", rs.AdminCreateAPIKey)
		admin.POST("/limiter/:device_id", rs.AdminSetLimiter)
	}
}
