package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/agrisense/agrisense-server/pkg/models"
)

const (
	SessionCookieName = "agrisense_session"

	ctxKeyPrincipal = "agrisense_principal"
)

// KeyVerifier checks a raw bearer API key against the key store.
type KeyVerifier interface {
	VerifyAPIKey(raw string) (*models.APIKey, error)
}

type Authenticator struct {
	JWT  *JWTManager
	Keys KeyVerifier
}

// PrincipalFrom returns the verified identity set by RequireAuth.
func PrincipalFrom(c *gin.Context) (Principal, bool) {
	v, exists := c.Get(ctxKeyPrincipal)
	if !exists {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}

// resolve establishes a caller identity from the session cookie or, failing
// that, from a bearer API key. API key callers act with the plain user role.
func (a *Authenticator) resolve(c *gin.Context) (Principal, bool) {
	if cookie, err := c.Cookie(SessionCookieName); a.JWT != nil && err == nil && cookie != "" {
		if claims, err := a.JWT.ValidateToken(cookie); err == nil {
			return Principal{
				UserID: claims.Subject,
				Name:   claims.Name,
				Role:   claims.Role,
			}, true
		}
	}

	header := c.GetHeader("Authorization")
	if a.Keys != nil && strings.HasPrefix(header, "Bearer ") {
		raw := strings.TrimPrefix(header, "Bearer ")
		if key, err := a.Keys.VerifyAPIKey(raw); err == nil {
			return Principal{
				Name: key.Name,
				Role: models.RoleUser,
			}, true
		}
	}

	return Principal{}, false
}

func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := a.resolve(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "unauthorized",
			})
			return
		}
		c.Set(ctxKeyPrincipal, principal)
		c.Next()
	}
}

func (a *Authenticator) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := a.resolve(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "unauthorized",
			})
			return
		}
		if !principal.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "admin role required",
			})
			return
		}
		c.Set(ctxKeyPrincipal, principal)
		c.Next()
	}
}
