package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// APIKeyAuth is a middleware that authenticates machine-to-machine callers
// (filing software integrations) with a pre-shared API key. Only the bcrypt
// hash of the key is held in configuration. A valid key marks the request as
// authenticated so the JWT middleware is skipped.
func APIKeyAuth(apiKeyHash string, clientID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKeyHash == "" {
			c.Next() // API key auth not configured
			return
		}

		apiKey := c.GetHeader("x-api-key")
		if apiKey == "" {
			c.Next() // No api key provided, fall through to JWT auth
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(apiKeyHash), []byte(apiKey)); err != nil {
			GetLoggerFromCtx(c.Request.Context()).Warn("API key rejected")
			c.Next() // Invalid key, fall through to JWT auth
			return
		}

		c.Set(string(userIDKey), clientID)
		c.Set("authMethod", "api_key")
		c.Next()
	}
}
