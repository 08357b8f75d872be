package middleware

import "github.com/gin-gonic/gin"

// rateLimitKey buckets a request by the client address gin resolves from
// RemoteIPHeaders and the router's trusted proxies.
func rateLimitKey(c *gin.Context) string {
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}
