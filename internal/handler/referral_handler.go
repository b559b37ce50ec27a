package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/memoriqr/memoriqr/internal/pkg/errcode"
	"github.com/memoriqr/memoriqr/internal/pkg/response"
	"github.com/memoriqr/memoriqr/internal/service"
)

type ReferralHandler struct {
	referrals *service.ReferralService
}

func NewReferralHandler(referrals *service.ReferralService) *ReferralHandler {
	return &ReferralHandler{referrals: referrals}
}

type referralValidateRequest struct {
	Code string `json:"code"`
}

// Validate checks a referral code for the checkout page. The code is
// not consumed; that happens when the order is placed.
func (h *ReferralHandler) Validate(c *gin.Context) {
	code := strings.TrimSpace(c.Query("code"))
	if code == "" && c.Request.Method == http.MethodPost {
		var req referralValidateRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			code = strings.TrimSpace(req.Code)
		}
	}
	if code == "" {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "code is required")
		return
	}
	result, err := h.referrals.ValidateReferral(c.Request.Context(), code)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}
