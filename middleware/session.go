package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionHeader carries the caller's booking session across requests.
const SessionHeader = "X-Session-ID"

// SessionMiddleware resolves the booking session for the public flow.
// The draft and payment state for a visitor live under this ID in Redis.
// When the client has not sent one yet, a fresh ID is issued and echoed
// back so the client can persist it.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(SessionHeader)
		if sessionID == "" {
			sessionID = uuid.NewString()
		}

		c.Set("session_id", sessionID)
		c.Header(SessionHeader, sessionID)
		c.Next()
	}
}

// GetSessionID retrieves the booking session ID from gin context
func GetSessionID(c *gin.Context) string {
	if val, exists := c.Get("session_id"); exists {
		if id, ok := val.(string); ok {
			return id
		}
	}
	return c.GetHeader(SessionHeader)
}
