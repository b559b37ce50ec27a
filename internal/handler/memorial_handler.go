package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/memoriqr/memoriqr/internal/middleware"
	"github.com/memoriqr/memoriqr/internal/pkg/errcode"
	"github.com/memoriqr/memoriqr/internal/pkg/response"
	"github.com/memoriqr/memoriqr/internal/service"
)

// SessionHeaderName carries the short-lived edit session token on
// authenticated edit requests.
const SessionHeaderName = "X-Edit-Session"

type MemorialHandler struct {
	memorials   *service.MemorialService
	sessions    *service.EditSessionService
	lookup      *service.LookupService
	adminSecret string
}

func NewMemorialHandler(memorials *service.MemorialService, sessions *service.EditSessionService, lookup *service.LookupService, adminSecret string) *MemorialHandler {
	return &MemorialHandler{memorials: memorials, sessions: sessions, lookup: lookup, adminSecret: adminSecret}
}

// Lookup serves the public memorial page by slug.
func (h *MemorialHandler) Lookup(c *gin.Context) {
	slug := strings.TrimSpace(c.Query("slug"))
	if slug == "" {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "slug is required")
		return
	}
	view, err := h.lookup.Lookup(c.Request.Context(), slug)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, view)
}

// GetForEdit returns the editable projection. A valid admin cookie
// stands in for the edit session on reads.
func (h *MemorialHandler) GetForEdit(c *gin.Context) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "token is required")
		return
	}
	asAdmin := middleware.IsAdmin(c, h.adminSecret)
	view, err := h.memorials.GetForEdit(c.Request.Context(), token, c.GetHeader(SessionHeaderName), asAdmin)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, view)
}

type sendCodeRequest struct {
	Token string `json:"token"`
}

func (h *MemorialHandler) SendCode(c *gin.Context) {
	var req sendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "token is required")
		return
	}
	result, err := h.sessions.SendCode(c.Request.Context(), req.Token)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}

type verifyCodeRequest struct {
	Token string `json:"token"`
	Code  string `json:"code"`
}

func (h *MemorialHandler) VerifyCode(c *gin.Context) {
	var req verifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" || req.Code == "" {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "token and code are required")
		return
	}
	result, err := h.sessions.VerifyCode(c.Request.Context(), req.Token, req.Code)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}

type updateRequest struct {
	Token        string  `json:"token"`
	MemorialText *string `json:"memorialText"`
	Theme        *string `json:"theme"`
	Frame        *string `json:"frame"`
}

func (h *MemorialHandler) Update(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "token is required")
		return
	}
	err := h.memorials.Update(c.Request.Context(), req.Token, c.GetHeader(SessionHeaderName), service.UpdateInput{
		MemorialText: req.MemorialText,
		Theme:        req.Theme,
		Frame:        req.Frame,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"updated": true})
}

type registerVideoRequest struct {
	Token    string `json:"token"`
	Path     string `json:"path"`
	FileName string `json:"fileName"`
}

func (h *MemorialHandler) RegisterVideo(c *gin.Context) {
	var req registerVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" || req.Path == "" {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "token and path are required")
		return
	}
	videos, err := h.memorials.RegisterVideo(c.Request.Context(), req.Token, c.GetHeader(SessionHeaderName), req.Path, req.FileName)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"videos": videos})
}
