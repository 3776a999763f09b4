package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskapp/internal/adapter/http/helper"
	"taskapp/internal/core/port"
	ct "taskapp/pkg/context"
	"taskapp/pkg/ratelimit"
)

// UserIDKey is where the authenticated caller's uuid.UUID is stored on the
// gin context.
const UserIDKey = ratelimit.UserIDContextKey

func JwtAuthMiddleware(verifier port.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		bearer := c.GetHeader("Authorization")

		if bearer == "" {
			helper.AbortWithError(c, http.StatusUnauthorized, "Access token required")
			return
		}

		token, found := strings.CutPrefix(bearer, "Bearer ")

		if !found || strings.TrimSpace(token) == "" {
			helper.AbortWithError(c, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		userID, err := verifier.VerifyToken(strings.TrimSpace(token))

		if err != nil {
			helper.AbortWithError(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(UserIDKey, userID)
		GetCurrent(c).Set(ct.UserIDKey, userID.String())

		c.Next()
	}
}

// UserID returns the caller set by JwtAuthMiddleware.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	value, ok := c.Get(UserIDKey)

	if !ok {
		return uuid.Nil, false
	}

	userID, ok := value.(uuid.UUID)

	return userID, ok
}
