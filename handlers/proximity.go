package handlers

import (
	"net/http"

	"indastreet/models"
	"indastreet/services/proximity"
	"indastreet/utils"

	"github.com/gin-gonic/gin"
)

type ProximityHandler struct {
	ProximitySvc proximity.ProximityService
}

// Check handles POST /api/proximity/check.
func (h *ProximityHandler) Check(c *gin.Context) {
	var req models.ProximityCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	res, err := h.ProximitySvc.Check(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
