package handlers

import (
	"net/http"

	"indastreet/utils"

	"github.com/gin-gonic/gin"
)

// Health reports liveness plus the last dependency check.
func Health(c *gin.Context) {
	status := utils.GetHealthStatus()
	code, state := http.StatusOK, "ok"
	if !status.CheckedAt.IsZero() && (!status.Mongo || !status.Redis) {
		code, state = http.StatusServiceUnavailable, "degraded"
	}
	c.JSON(code, gin.H{"status": state, "message": "Hi, I'm IndaStreet", "dependencies": status})
}
