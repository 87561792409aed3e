package middleware

import (
	"context"
	"net/http"
	"strings"

	"medibook/services/identity"
	"medibook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type userIDKey struct{}

// FirebaseAuth requires a "Bearer <Firebase ID token>" header and stores the
// verified uid under utils.ContextUserID. Nothing reaches the handler when
// verification fails.
func FirebaseAuth(verifier identity.TokenVerifier, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Msg: "Missing Bearer token"})
			return
		}
		idToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if idToken == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Msg: "Missing Bearer token"})
			return
		}

		id, err := verifier.Verify(c.Request.Context(), idToken)
		if err != nil {
			logger.Debug("token rejected", zap.String("path", c.FullPath()), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{
				Msg:   "Invalid or expired token",
				Error: err.Error(),
			})
			return
		}

		c.Set(utils.ContextUserID, id.UID)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), userIDKey{}, id.UID))
		c.Next()
	}
}

// UserID returns the uid set by FirebaseAuth, or "" on unauthenticated routes.
func UserID(c *gin.Context) string {
	return c.GetString(utils.ContextUserID)
}

// UserIDFromContext reads the uid from a request context.
func UserIDFromContext(ctx context.Context) string {
	uid, _ := ctx.Value(userIDKey{}).(string)
	return uid
}
