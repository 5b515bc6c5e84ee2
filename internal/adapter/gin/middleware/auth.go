package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "newsfeed-service/pkg/errors"
	"newsfeed-service/pkg/logger"
	"newsfeed-service/pkg/token"
)

// userIDKey is the gin context key holding the authenticated user ID.
const userIDKey = "auth_user_id"

// Auth returns a Gin middleware that verifies the bearer token and
// attaches the authenticated user ID to the request context. A missing
// token answers 401, a tampered or expired one 403; requests never fall
// through to handler logic unauthenticated.
func Auth(tokens *token.Manager, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			log.Debug("missing authorization header", zap.String("path", c.Request.URL.Path))
			abortWithError(c, apperrors.ErrTokenMissing)
			return
		}

		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			log.Debug("malformed authorization header", zap.String("path", c.Request.URL.Path))
			abortWithError(c, apperrors.ErrTokenMissing)
			return
		}

		userID, err := tokens.Verify(tokenString)
		if err != nil {
			log.Warn("token verification failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
			abortWithError(c, apperrors.ErrTokenInvalid)
			return
		}

		c.Set(userIDKey, userID)

		// Propagate to the request context so repository logs carry it
		ctx := context.WithValue(c.Request.Context(), logger.UserIDKey, userID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// UserID returns the authenticated user ID set by the Auth middleware.
func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(apperrors.Status(err), gin.H{"error": err.Error()})
}
