package middleware

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/build-trigger/internal/auth"
	"github.com/GoSim-25-26J-441/build-trigger/internal/auth/domain"
	"github.com/GoSim-25-26J-441/build-trigger/internal/logging"
)

// FirebaseIdentity validates Firebase ID tokens and stores the caller identity.
// It never aborts: a missing or invalid token leaves the request anonymous and
// the handler decides how to answer.
func FirebaseIdentity(verifier auth.TokenVerifier, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		decodedToken, err := verifier.VerifyIDToken(ctx, token)
		if err != nil {
			logging.FromContext(ctx, logger).LogDebug("verify_id_token", "rejected ID token", "error", err)
			c.Next()
			return
		}

		id := &domain.Identity{UID: decodedToken.UID}
		// Extract email from claims if available
		if email, ok := decodedToken.Claims["email"].(string); ok {
			id.Email = email
		}
		auth.SetIdentity(c, id)

		c.Next()
	}
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.EqualFold(bearerToken[:7], "Bearer ") {
		return strings.TrimSpace(bearerToken[7:])
	}
	return ""
}
