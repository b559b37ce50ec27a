package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/memoriqr/memoriqr/internal/middleware"
	"github.com/memoriqr/memoriqr/internal/pkg/errcode"
	"github.com/memoriqr/memoriqr/internal/pkg/response"
	"github.com/memoriqr/memoriqr/internal/pkg/timeutil"
	"github.com/memoriqr/memoriqr/internal/service"
)

type PartnerHandler struct {
	auth          *service.PartnerAuthService
	referrals     *service.ReferralService
	secureCookies bool
}

func NewPartnerHandler(auth *service.PartnerAuthService, referrals *service.ReferralService, secureCookies bool) *PartnerHandler {
	return &PartnerHandler{auth: auth, referrals: referrals, secureCookies: secureCookies}
}

func (h *PartnerHandler) setSessionCookie(c *gin.Context, token string, expiresAt int64) {
	maxAge := int(time.Until(time.Unix(expiresAt, 0)).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.PartnerCookieName, token, maxAge, "/", "", h.secureCookies, true)
}

func (h *PartnerHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.PartnerCookieName, "", -1, "/", "", h.secureCookies, true)
}

type partnerLoginRequest struct {
	Email string `json:"email"`
}

// Login requests a login code by email. The answer looks the same for
// known and unknown addresses.
func (h *PartnerHandler) Login(c *gin.Context) {
	var req partnerLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "email is required")
		return
	}
	if err := h.auth.RequestLoginCode(c.Request.Context(), req.Email); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"sent": true})
}

type partnerVerifyRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	TrustDevice bool   `json:"trustDevice"`
}

func (h *PartnerHandler) Verify(c *gin.Context) {
	var req partnerVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Code == "" {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "email and code are required")
		return
	}
	partner, session, err := h.auth.VerifyLogin(c.Request.Context(), req.Email, req.Code, req.TrustDevice, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		handleError(c, err)
		return
	}
	h.setSessionCookie(c, session.SessionToken, session.ExpiresAt)
	response.Success(c, gin.H{
		"partner":   partner,
		"expiresAt": session.ExpiresAt,
		"trusted":   session.IsTrustedDevice,
	})
}

// Session reports the authenticated partner.
func (h *PartnerHandler) Session(c *gin.Context) {
	partner := middleware.PartnerFrom(c)
	session := middleware.PartnerSessionFrom(c)
	response.Success(c, gin.H{
		"partner":   partner,
		"expiresAt": session.ExpiresAt,
		"trusted":   session.IsTrustedDevice,
	})
}

func (h *PartnerHandler) Logout(c *gin.Context) {
	session := middleware.PartnerSessionFrom(c)
	if err := h.auth.Logout(c.Request.Context(), session.SessionToken); err != nil {
		handleError(c, err)
		return
	}
	h.clearSessionCookie(c)
	response.Success(c, gin.H{"ok": true})
}

// Extend pushes a standard session forward an hour. Trusted sessions
// answer with their unchanged expiry.
func (h *PartnerHandler) Extend(c *gin.Context) {
	session := middleware.PartnerSessionFrom(c)
	expiresAt, extended, err := h.auth.Extend(c.Request.Context(), session.SessionToken)
	if err != nil {
		handleError(c, err)
		return
	}
	if extended {
		h.setSessionCookie(c, session.SessionToken, expiresAt)
	}
	response.Success(c, gin.H{"expiresAt": expiresAt, "extended": extended})
}

// RevokeTrust removes the partner's trusted sessions; the calling
// session survives as a standard one.
func (h *PartnerHandler) RevokeTrust(c *gin.Context) {
	session := middleware.PartnerSessionFrom(c)
	revoked, err := h.auth.RevokeTrustSelf(c.Request.Context(), session.SessionToken)
	if err != nil {
		handleError(c, err)
		return
	}
	if session.IsTrustedDevice {
		h.setSessionCookie(c, session.SessionToken, timeutil.NowUnix()+3600)
	}
	response.Success(c, gin.H{"revoked": revoked})
}

// Commissions returns the partner's commission rows plus totals.
func (h *PartnerHandler) Commissions(c *gin.Context) {
	partner := middleware.PartnerFrom(c)
	summary, err := h.referrals.PartnerCommissions(c.Request.Context(), partner.ID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, summary)
}
