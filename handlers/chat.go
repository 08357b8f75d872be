package handlers

import (
	"net/http"
	"strconv"
	"time"

	"indastreet/middleware"
	"indastreet/models"
	"indastreet/services/chat"
	"indastreet/utils"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	ChatSvc chat.ChatService
}

// senderRoleAllowed keeps customers and providers from posing as each other.
func senderRoleAllowed(tokenRole, senderRole string) bool {
	switch tokenRole {
	case utils.RoleCustomer:
		return senderRole == models.RoleUser
	case utils.RoleProvider:
		return senderRole == models.RoleTherapist || senderRole == models.RoleBusiness
	}
	return false
}

// SendMessage handles POST /api/chat/messages. Blocked messages answer 422
// with the enforcement warning.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	if !senderRoleAllowed(c.GetString(middleware.ContextRole), req.SenderRole) {
		utils.JSONError(c, http.StatusForbidden, "Not allowed", "senderRole does not match the authenticated account")
		return
	}

	res, err := h.ChatSvc.Send(c.Request.Context(), c.GetString(middleware.ContextUserID), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if !res.Allowed {
		c.JSON(http.StatusUnprocessableEntity, res)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// PollMessages handles GET /api/chat/rooms/:roomId/messages?since=RFC3339.
// Admins may read any room; everyone else must be a room participant.
func (h *ChatHandler) PollMessages(c *gin.Context) {
	var since time.Time
	if raw := c.Query("since"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid since", err.Error())
			return
		}
		since = t
	}
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "0"), 10, 64)

	callerID := c.GetString(middleware.ContextUserID)
	if c.GetString(middleware.ContextRole) == utils.RoleAdmin {
		callerID = ""
	}
	msgs, err := h.ChatSvc.Poll(c.Request.Context(), callerID, c.Param("roomId"), since, limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}
