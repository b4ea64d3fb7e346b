// Package requestid tags every request with an id that is echoed to the client and carried
// into the access log.
package requestid

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// Header carries the id in both directions.
	Header     = "X-Request-ID"
	// ContextKey is the gin context key, also used as the log field name.
	ContextKey = "request_id"

	maxIncomingLength = 128
)

// Middleware reuses a sane incoming id or mints one.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := strings.TrimSpace(c.GetHeader(Header))
		if reqID == "" || len(reqID) > maxIncomingLength {
			reqID = generateID()
		}

		c.Set(ContextKey, reqID)
		c.Writer.Header().Set(Header, reqID)

		c.Next()
	}
}

// Value returns the request ID stored in the Gin context.
func Value(c *gin.Context) string {
	if v, exists := c.Get(ContextKey); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

func generateID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
