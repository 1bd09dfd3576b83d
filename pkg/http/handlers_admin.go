package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"

	"github.com/agrisense/agrisense-server/pkg/auth"
	"github.com/agrisense/agrisense-server/pkg/common"
	"github.com/agrisense/agrisense-server/pkg/models"
)

func (rs *RestfulServer) AdminListUsers(c *gin.Context) {
	users, err := rs.Farm.User.ListUsers()
	if err != nil {
		rs.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

type AdminCreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

var adminCreateUserRequestSchema = z.Struct(z.Shape{
	"Name":     z.String().Required(),
	"Email":    z.String().Email().Required(),
	"Password": z.String().Min(8).Required(),
	"Role":     z.String().Required(),
})

func (rs *RestfulServer) AdminCreateUser(c *gin.Context) {
	var req AdminCreateUserRequest
	if err := adminCreateUserRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	user, err := rs.Farm.User.Register(req.Name, req.Email, req.Password, models.Role(req.Role))
	if err != nil {
		rs.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

func (rs *RestfulServer) AdminDeleteUser(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)

	if err := rs.Farm.User.DeleteUser(c.Param("id"), principal.UserID); err != nil {
		rs.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type AdminChangePasswordRequest struct {
	Password string `json:"password"`
}

var adminChangePasswordRequestSchema = z.Struct(z.Shape{
	"Password": z.String().Min(8).Required(),
})

func (rs *RestfulServer) AdminChangePassword(c *gin.Context) {
	var req AdminChangePasswordRequest
	if err := adminChangePasswordRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	if err := rs.Farm.User.ChangePassword(c.Param("id"), req.Password); err != nil {
		rs.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type AdminSendMessageRequest struct {
	UserID *string `json:"userId"`
	Body   string  `json:"body"`
}

var adminSendMessageRequestSchema = z.Struct(z.Shape{
	"UserID": z.Ptr(z.String()),
	"Body":   z.String().Required(),
})

func (rs *RestfulServer) AdminSendMessage(c *gin.Context) {
	var req AdminSendMessageRequest
	if err := adminSendMessageRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	principal, _ := auth.PrincipalFrom(c)

	message, err := rs.Farm.User.SendMessage(principal.Name, req.Body, req.UserID)
	if err != nil {
		rs.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": message})
}

type AdminCreateAPIKeyRequest struct {
	Name string `json:"name"`
}

var adminCreateAPIKeyRequestSchema = z.Struct(z.Shape{
	"Name": z.String().Required(),
})

func (rs *RestfulServer) AdminCreateAPIKey(c *gin.Context) {
	var req AdminCreateAPIKeyRequest
	if err := adminCreateAPIKeyRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	key, plaintext, err := rs.Farm.User.CreateAPIKey(req.Name)
	if err != nil {
		rs.fail(c, err)
		return
	}

	// the plaintext key is shown exactly once
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"key": key, "plaintext": plaintext},
	})
}

type LimiterRequest struct {
	Rate  float64 `json:"rate"`
	Burst int     `json:"burst"`
}

var limiterRequestSchema = z.Struct(z.Shape{
	"rate":  z.Float64().Required(),
	"burst": z.Int().Required(),
})

func (rs *RestfulServer) AdminSetLimiter(c *gin.Context) {
	deviceID := c.Param("device_id")

	var req LimiterRequest
	if err := limiterRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	rs.SetLimiter(deviceID, req.Rate, req.Burst)

	common.GetLoggerWith(common.LoggerNameRestfulServer).Info("Device limiter overridden")

	c.Status(http.StatusOK)
}
