package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/build-trigger/internal/auth/domain"
)

// HeaderIdentity trusts the X-User-Id header as the caller identity.
// - A missing header leaves the request anonymous.
// - Use this ONLY for development/testing.
func HeaderIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := strings.TrimSpace(c.GetHeader("X-User-Id"))
		if uid != "" {
			SetIdentity(c, &domain.Identity{
				UID:   uid,
				Email: strings.TrimSpace(c.GetHeader("X-User-Email")),
			})
		}
		c.Next()
	}
}
