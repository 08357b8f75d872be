package handlers

import (
	"net/http"

	"indastreet/middleware"
	"indastreet/models"
	"indastreet/services/provider"
	"indastreet/utils"

	"github.com/gin-gonic/gin"
)

type ProviderHandler struct {
	ProviderSvc provider.ProviderService
}

func NewProviderHandler(ps provider.ProviderService) *ProviderHandler {
	return &ProviderHandler{ProviderSvc: ps}
}

// GetAvailability handles GET /api/providers/:id/availability.
func (h *ProviderHandler) GetAvailability(c *gin.Context) {
	dto, err := h.ProviderSvc.GetAvailability(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// SetAvailability handles PATCH /api/providers/me/availability.
func (h *ProviderHandler) SetAvailability(c *gin.Context) {
	var req models.SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	dto, err := h.ProviderSvc.SetAvailability(c.Request.Context(), c.GetString(middleware.ContextUserID), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}
