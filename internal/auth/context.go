package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/build-trigger/internal/auth/domain"
)

const CtxIdentity = "identity"

// SetIdentity stores a verified caller on the Gin context.
func SetIdentity(c *gin.Context, id *domain.Identity) {
	if id == nil || strings.TrimSpace(id.UID) == "" {
		return
	}
	c.Set(CtxIdentity, id)
}

// IdentityFrom returns the caller identity, or nil when the request is anonymous.
func IdentityFrom(c *gin.Context) *domain.Identity {
	v, ok := c.Get(CtxIdentity)
	if !ok {
		return nil
	}
	id, _ := v.(*domain.Identity)
	return id
}
