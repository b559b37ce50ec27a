package handler

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/memoriqr/memoriqr/internal/middleware"
	"github.com/memoriqr/memoriqr/internal/pkg/errcode"
	"github.com/memoriqr/memoriqr/internal/pkg/response"
	"github.com/memoriqr/memoriqr/internal/service"
)

const adminSessionMaxAge = 24 * 3600

type AdminHandler struct {
	activation    *service.ActivationService
	referrals     *service.ReferralService
	partnerAuth   *service.PartnerAuthService
	adminSecret   string
	secureCookies bool
}

func NewAdminHandler(activation *service.ActivationService, referrals *service.ReferralService, partnerAuth *service.PartnerAuthService, adminSecret string, secureCookies bool) *AdminHandler {
	return &AdminHandler{
		activation:    activation,
		referrals:     referrals,
		partnerAuth:   partnerAuth,
		adminSecret:   adminSecret,
		secureCookies: secureCookies,
	}
}

type adminLoginRequest struct {
	Password string `json:"password"`
}

func (h *AdminHandler) Login(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Password == "" {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "password is required")
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.adminSecret)) != 1 {
		response.Error(c, http.StatusUnauthorized, errcode.ErrUnauthorized, "unauthorized")
		return
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.AdminCookieName, h.adminSecret, adminSessionMaxAge, "/", "", h.secureCookies, true)
	response.Success(c, gin.H{"authenticated": true})
}

func (h *AdminHandler) Session(c *gin.Context) {
	response.Success(c, gin.H{"authenticated": true})
}

func (h *AdminHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.AdminCookieName, "", -1, "/", "", h.secureCookies, true)
	response.Success(c, gin.H{"authenticated": false})
}

type bulkApproveRequest struct {
	CommissionIDs []string `json:"commissionIds"`
}

// BulkApprove moves pending commissions to approved.
func (h *AdminHandler) BulkApprove(c *gin.Context) {
	var req bulkApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "commissionIds are required")
		return
	}
	approved, err := h.referrals.BulkApprove(c.Request.Context(), req.CommissionIDs)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"approved": approved})
}

// RevokePartnerTrust drops every trusted session of the named partner.
func (h *AdminHandler) RevokePartnerTrust(c *gin.Context) {
	partnerID := strings.TrimSpace(c.Param("id"))
	if partnerID == "" {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "partner id is required")
		return
	}
	revoked, err := h.partnerAuth.RevokeTrustAdmin(c.Request.Context(), partnerID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"revoked": revoked})
}

// CreateCode mints a retail activation code for a production batch.
func (h *AdminHandler) CreateCode(c *gin.Context) {
	var req service.CreateCodeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "code payload is invalid")
		return
	}
	item, err := h.activation.CreateCode(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, item)
}

// LookupCode lets support staff inspect a code without consuming it.
func (h *AdminHandler) LookupCode(c *gin.Context) {
	code := strings.TrimSpace(c.Query("code"))
	if code == "" {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "code is required")
		return
	}
	result, err := h.activation.Resolve(c.Request.Context(), code)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}
