package handlers

import (
	"net/http"
	"strconv"
	"time"

	"indastreet/middleware"
	"indastreet/services/booking"
	"indastreet/services/enforcement"
	"indastreet/services/provider"
	"indastreet/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler encapsulates elevated admin-level operations.
type AdminHandler struct {
	BookingSvc     booking.BookingService
	EnforcementSvc enforcement.EnforcementService
	ProviderSvc    provider.ProviderService
}

// CommissionSummary handles GET /api/admin/commission?from=&to= (RFC3339).
// Without a range the last 30 days are summarized.
func (ah *AdminHandler) CommissionSummary(c *gin.Context) {
	to := time.Now()
	from := to.AddDate(0, 0, -30)
	var err error
	if raw := c.Query("from"); raw != "" {
		if from, err = time.Parse(time.RFC3339, raw); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid from", err.Error())
			return
		}
	}
	if raw := c.Query("to"); raw != "" {
		if to, err = time.Parse(time.RFC3339, raw); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid to", err.Error())
			return
		}
	}

	summary, err := ah.BookingSvc.CommissionSummary(c.Request.Context(), from, to)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (ah *AdminHandler) ViolationsForReview(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	violations, err := ah.EnforcementSvc.ViolationsForReview(c.Request.Context(), limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"violations": violations})
}

func (ah *AdminHandler) MarkReviewed(c *gin.Context) {
	var body struct {
		Action string `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	adminID := c.GetString(middleware.ContextUserID)
	if err := ah.EnforcementSvc.MarkReviewed(c.Request.Context(), c.Param("id"), adminID, body.Action); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Violation reviewed"})
}

// SetRestriction handles PUT /api/admin/providers/:id/restriction with
// {"restricted": bool, "reason": string}.
func (ah *AdminHandler) SetRestriction(c *gin.Context) {
	var body struct {
		Restricted *bool  `json:"restricted" binding:"required"`
		Reason     string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	id := c.Param("id")
	var err error
	if *body.Restricted {
		if body.Reason == "" {
			body.Reason = "Restricted by administrator"
		}
		err = ah.ProviderSvc.Restrict(c.Request.Context(), id, body.Reason)
	} else {
		err = ah.ProviderSvc.LiftRestriction(c.Request.Context(), id)
	}
	if err != nil {
		writeServiceError(c, err)
		return
	}
	zap.L().Info("Provider restriction changed", zap.String("providerId", id), zap.Bool("restricted", *body.Restricted),
		zap.String("adminId", c.GetString(middleware.ContextUserID)))
	c.JSON(http.StatusOK, gin.H{"providerId": id, "restricted": *body.Restricted})
}
