// Package middleware provides HTTP middleware for the API.
//
// Middleware is a gin.HandlerFunc that calls c.Next() to continue the chain
// or c.Abort() to stop it.
package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/bitelist-api/internal/models"
)

type contextKey string

const clientIDContextKey contextKey = "client_id"

// APIKeyAuth returns middleware that requires the configured key in the
// X-API-Key header (or as a Bearer token). An empty key disables the check.
//
// Keys are compared by SHA-256 hash in constant time, so neither the key
// length nor a matching prefix leaks through response timing.
func APIKeyAuth(apiKey string) gin.HandlerFunc {
	if apiKey == "" {
		return func(c *gin.Context) { c.Next() }
	}
	want := []byte(HashAPIKey(apiKey))

	return func(c *gin.Context) {
		rawKey := requestKey(c)
		if rawKey == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "unauthorized",
				Message: "Missing X-API-Key header",
				Code:    http.StatusUnauthorized,
			})
			return
		}

		got := HashAPIKey(rawKey)
		if subtle.ConstantTimeCompare([]byte(got), want) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid API key",
				Code:    http.StatusUnauthorized,
			})
			return
		}

		// The hash prefix identifies the caller for rate limiting and logs.
		c.Set(string(clientIDContextKey), "key:"+got[:12])
		c.Next()
	}
}

// ClientID returns the authenticated caller's identifier, falling back to
// the client IP for open APIs.
func ClientID(c *gin.Context) string {
	if v, ok := c.Get(string(clientIDContextKey)); ok {
		if id, ok := v.(string); ok && id != "" {
			return id
		}
	}
	return "ip:" + c.ClientIP()
}

func requestKey(c *gin.Context) string {
	if key := strings.TrimSpace(c.GetHeader("X-API-Key")); key != "" {
		return key
	}
	auth := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// HashAPIKey creates a SHA-256 hash of an API key.
func HashAPIKey(key string) string {
	hash := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%x", hash)
}
