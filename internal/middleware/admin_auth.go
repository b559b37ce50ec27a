package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/memoriqr/memoriqr/internal/pkg/errcode"
	"github.com/memoriqr/memoriqr/internal/pkg/response"
)

const (
	AdminCookieName = "admin-session"

	ContextAdminKey = "is_admin"
)

// AdminAuth gates a route group on the admin cookie matching the
// configured secret. The compare is constant time.
func AdminAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c, secret) {
			response.Error(c, http.StatusUnauthorized, errcode.ErrUnauthorized, "unauthorized")
			c.Abort()
			return
		}
		c.Set(ContextAdminKey, true)
		c.Next()
	}
}

// IsAdmin reports whether the request carries a valid admin cookie.
// Handlers with an optional admin bypass call this directly.
func IsAdmin(c *gin.Context, secret string) bool {
	if secret == "" {
		return false
	}
	cookie, err := c.Cookie(AdminCookieName)
	if err != nil || cookie == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(cookie), []byte(secret)) == 1
}
