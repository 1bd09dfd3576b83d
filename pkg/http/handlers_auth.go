package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"

	"github.com/agrisense/agrisense-server/pkg/auth"
	"github.com/agrisense/agrisense-server/pkg/models"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

var registerRequestSchema = z.Struct(z.Shape{
	"Name":     z.String().Required(),
	"Email":    z.String().Email().Required(),
	"Password": z.String().Min(8).Required(),
	"Role":     z.String(),
})

func (rs *RestfulServer) Register(c *gin.Context) {
	var req RegisterRequest
	if err := registerRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	role := models.Role(req.Role)
	if req.Role == "" {
		role = models.RoleUser
	}
	// admin accounts come from the admin surface, not public registration
	if role == models.RoleAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "cannot self-register as admin"})
		return
	}

	user, err := rs.Farm.User.Register(req.Name, req.Email, req.Password, role)
	if err != nil {
		rs.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

var loginRequestSchema = z.Struct(z.Shape{
	"Email":    z.String().Required(),
	"Password": z.String().Required(),
})

func (rs *RestfulServer) Login(c *gin.Context) {
	var req LoginRequest
	if err := loginRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	user, err := rs.Farm.User.Authenticate(req.Email, req.Password)
	if err != nil {
		rs.fail(c, err)
		return
	}

	token, err := rs.Auth.JWT.GenerateToken(user)
	if err != nil {
		rs.fail(c, err)
		return
	}

	c.SetCookie(auth.SessionCookieName, token, int(rs.Auth.JWT.TTL().Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"token": token, "user": user},
	})
}

func (rs *RestfulServer) Logout(c *gin.Context) {
	c.SetCookie(auth.SessionCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (rs *RestfulServer) GetMessages(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)

	messages, err := rs.Farm.User.ListMessages(principal.UserID)
	if err != nil {
		rs.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}
