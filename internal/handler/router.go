package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/memoriqr/memoriqr/internal/middleware"
	"github.com/memoriqr/memoriqr/internal/service"
)

type RouterDeps struct {
	Activation  *ActivationHandler
	Memorials   *MemorialHandler
	Admin       *AdminHandler
	Partners    *PartnerHandler
	Referrals   *ReferralHandler
	PartnerAuth *service.PartnerAuthService
	AdminSecret string
}

// codeSendWindow throttles the endpoints that trigger outbound email.
const codeSendWindow = 30 * time.Second

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/activate/validate", deps.Activation.Validate)

	api.GET("/memorial/lookup", deps.Memorials.Lookup)
	api.GET("/memorial/edit", deps.Memorials.GetForEdit)
	api.POST("/memorial/edit/send-code", middleware.RateLimit(codeSendWindow), deps.Memorials.SendCode)
	api.POST("/memorial/edit/verify-code", deps.Memorials.VerifyCode)
	api.POST("/memorial/update", deps.Memorials.Update)
	api.POST("/memorial/videos/register", deps.Memorials.RegisterVideo)

	api.POST("/admin/login", deps.Admin.Login)
	adminGroup := api.Group("")
	adminGroup.Use(middleware.AdminAuth(deps.AdminSecret))
	adminGroup.POST("/activate/consume", deps.Activation.Consume)
	adminGroup.GET("/admin/session", deps.Admin.Session)
	adminGroup.DELETE("/admin/session", deps.Admin.Logout)
	adminGroup.POST("/admin/commissions/bulk-approve", deps.Admin.BulkApprove)
	adminGroup.POST("/admin/partners/:id/revoke-trust", deps.Admin.RevokePartnerTrust)
	adminGroup.GET("/admin/codes/lookup", deps.Admin.LookupCode)
	adminGroup.POST("/admin/codes", deps.Admin.CreateCode)

	api.POST("/partner/login", middleware.RateLimit(codeSendWindow), deps.Partners.Login)
	api.POST("/partner/verify", deps.Partners.Verify)
	partnerGroup := api.Group("")
	partnerGroup.Use(middleware.PartnerAuth(deps.PartnerAuth))
	partnerGroup.GET("/partner/session", deps.Partners.Session)
	partnerGroup.DELETE("/partner/session", deps.Partners.Logout)
	partnerGroup.POST("/partner/session/extend", deps.Partners.Extend)
	partnerGroup.POST("/partner/settings/revoke-trust", deps.Partners.RevokeTrust)
	partnerGroup.GET("/partner/commissions", deps.Partners.Commissions)

	api.GET("/referral/validate", deps.Referrals.Validate)
	api.POST("/referral/validate", deps.Referrals.Validate)
}
