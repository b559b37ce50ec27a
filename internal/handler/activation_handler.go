package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/memoriqr/memoriqr/internal/pkg/errcode"
	"github.com/memoriqr/memoriqr/internal/pkg/response"
	"github.com/memoriqr/memoriqr/internal/service"
)

type ActivationHandler struct {
	activation *service.ActivationService
}

func NewActivationHandler(activation *service.ActivationService) *ActivationHandler {
	return &ActivationHandler{activation: activation}
}

type activationRequest struct {
	Code string `json:"code"`
}

// Validate checks a code without consuming anything.
func (h *ActivationHandler) Validate(c *gin.Context) {
	var req activationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "code is required")
		return
	}
	result, err := h.activation.Resolve(c.Request.Context(), req.Code)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}

// Consume validates and burns a retail code.
func (h *ActivationHandler) Consume(c *gin.Context) {
	var req activationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "code is required")
		return
	}
	result, err := h.activation.Consume(c.Request.Context(), req.Code)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}
