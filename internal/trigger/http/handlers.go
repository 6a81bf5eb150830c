package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/build-trigger/internal/auth"
	authdomain "github.com/GoSim-25-26J-441/build-trigger/internal/auth/domain"
	"github.com/GoSim-25-26J-441/build-trigger/internal/trigger"
)

// Triggerer is implemented by *trigger.Service.
type Triggerer interface {
	TriggerBuild(ctx context.Context, caller *authdomain.Identity, projectID string) (*trigger.Result, error)
}

type Handler struct {
	svc Triggerer
}

func New(svc Triggerer) *Handler {
	return &Handler{svc: svc}
}

// Register registers the trigger routes
func (h *Handler) Register(rg gin.IRouter) {
	rg.POST("/triggerBuild", h.TriggerBuild)
}

// TriggerBuild handles a callable invocation. A body that does not decode is
// treated as a missing project ID so the service still reports an anonymous
// caller first.
func (h *Handler) TriggerBuild(c *gin.Context) {
	var req CallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req = CallRequest{}
	}

	res, err := h.svc.TriggerBuild(c.Request.Context(), auth.IdentityFrom(c), req.Data.ProjectID)
	if err != nil {
		terr := trigger.AsError(err)
		c.JSON(terr.Kind.HTTPStatus(), CallResponse{Error: &CallError{Status: terr.Kind.Status(), Message: terr.Message}})
		return
	}

	c.JSON(http.StatusOK, CallResponse{Result: &CallResult{Status: res.Status, Message: res.Message}})
}
