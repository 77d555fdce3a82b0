// Package middleware provides gin middleware for the taskman web server.
package middleware

import (
	"net/http"
	"strings"

	"taskman/database/model"
	"taskman/logger"
	"taskman/web/service"

	"github.com/gin-gonic/gin"
)

const (
	authUserKey  = "authUser"
	authTokenKey = "authToken"
)

// TokenAuth gates every protected route. It strips the "Bearer " prefix,
// validates the token against the user's live session list and stores the
// acting user plus the raw token in the request context. All failure modes
// produce the same response so callers learn nothing about which step
// failed.
func TokenAuth(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			abortUnauthorized(c)
			return
		}

		user, err := authService.ValidateToken(token)
		if err != nil {
			logger.Debug("token validation failed:", err)
			abortUnauthorized(c)
			return
		}

		c.Set(authUserKey, user)
		c.Set(authTokenKey, token)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
}

// GetAuthUser returns the acting user resolved by TokenAuth.
func GetAuthUser(c *gin.Context) *model.User {
	v, _ := c.Get(authUserKey)
	user, _ := v.(*model.User)
	return user
}

// GetAuthToken returns the raw validated token, needed for targeted
// revocation on logout.
func GetAuthToken(c *gin.Context) string {
	return c.GetString(authTokenKey)
}
