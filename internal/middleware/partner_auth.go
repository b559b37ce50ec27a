package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/memoriqr/memoriqr/internal/model"
	"github.com/memoriqr/memoriqr/internal/pkg/errcode"
	appErr "github.com/memoriqr/memoriqr/internal/pkg/errors"
	"github.com/memoriqr/memoriqr/internal/pkg/response"
)

const (
	PartnerCookieName = "partner_session"

	ContextPartnerKey        = "partner"
	ContextPartnerSessionKey = "partner_session"
)

type partnerAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*model.Partner, *model.PartnerSession, error)
}

// PartnerAuth resolves the partner session cookie into the partner and
// session for downstream handlers. Expired or unknown tokens get 401,
// deactivated partners get 403.
func PartnerAuth(auth partnerAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(PartnerCookieName)
		if err != nil || token == "" {
			response.Error(c, http.StatusUnauthorized, errcode.ErrUnauthorized, "unauthorized")
			c.Abort()
			return
		}
		partner, session, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, appErr.ErrForbidden) {
				response.Error(c, http.StatusForbidden, errcode.ErrForbidden, "account deactivated")
			} else {
				response.Error(c, http.StatusUnauthorized, errcode.ErrUnauthorized, "unauthorized")
			}
			c.Abort()
			return
		}
		c.Set(ContextPartnerKey, partner)
		c.Set(ContextPartnerSessionKey, session)
		c.Next()
	}
}

// PartnerFrom returns the authenticated partner set by PartnerAuth.
func PartnerFrom(c *gin.Context) *model.Partner {
	value, _ := c.Get(ContextPartnerKey)
	partner, _ := value.(*model.Partner)
	return partner
}

// PartnerSessionFrom returns the session row set by PartnerAuth.
func PartnerSessionFrom(c *gin.Context) *model.PartnerSession {
	value, _ := c.Get(ContextPartnerSessionKey)
	session, _ := value.(*model.PartnerSession)
	return session
}
