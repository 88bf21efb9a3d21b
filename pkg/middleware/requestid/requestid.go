// Package requestid correlates log lines with individual API calls. Every
// request gets an ID that is stored on the gin context, echoed back in the
// X-Request-ID response header and attached to access-log entries, so a
// mentee or mentor support ticket can be traced through the logs by the ID
// the client received. Clients that already carry an ID (a proxy or a
// retrying mobile app) keep it; otherwise a fresh UUID is assigned.
package requestid

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Header is the HTTP header carrying the correlation ID in both directions.
const Header = "X-Request-ID"

const contextKey = "request_id"

// Middleware ensures the request has a correlation ID and exposes it to the
// client via the response header.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(Header)
		if reqID == "" {
			reqID = uuid.NewString()
		}

		c.Set(contextKey, reqID)
		c.Writer.Header().Set(Header, reqID)

		c.Next()
	}
}

// Value returns the correlation ID assigned by Middleware, or "" when the
// middleware did not run.
func Value(c *gin.Context) string {
	if v, exists := c.Get(contextKey); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
