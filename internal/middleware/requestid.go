package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDContextKey contextKey = "request_id"

// RequestID tags every request with an ID, reusing a valid incoming
// X-Request-ID so callers can correlate logs.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(string(requestIDContextKey), id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// GetRequestID returns the current request's ID, or "".
func GetRequestID(c *gin.Context) string {
	return c.GetString(string(requestIDContextKey))
}
