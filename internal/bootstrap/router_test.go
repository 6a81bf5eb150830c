package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/build-trigger/internal/auth"
	authdomain "github.com/GoSim-25-26J-441/build-trigger/internal/auth/domain"
	"github.com/GoSim-25-26J-441/build-trigger/internal/dispatch"
	"github.com/GoSim-25-26J-441/build-trigger/internal/metrics"
	projectsdomain "github.com/GoSim-25-26J-441/build-trigger/internal/projects/domain"
	"github.com/GoSim-25-26J-441/build-trigger/internal/trigger"
)

type oneProject struct{}

func (oneProject) Get(_ context.Context, id string) (*projectsdomain.Project, error) {
	if id == "p1" {
		return &projectsdomain.Project{ID: "p1", OwnerUID: "u1"}, nil
	}
	return nil, projectsdomain.ErrNotFound
}

type okDispatcher struct{}

func (okDispatcher) Dispatch(context.Context, dispatch.Target) error { return nil }

func newTestRouter(t *testing.T, origins []string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reg := prometheus.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(reg)
	svc, err := trigger.New(oneProject{}, okDispatcher{},
		dispatch.Target{Owner: "o", Repo: "r", Workflow: "build.yml", Ref: "main"},
		trigger.WithRecorder(recorder))
	require.NoError(t, err)

	return BuildRouter(RouterDeps{
		ServiceName: "build-trigger",
		Version:     "test",
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Identity: func(c *gin.Context) {
			if uid := c.GetHeader("X-Test-Uid"); uid != "" {
				auth.SetIdentity(c, &authdomain.Identity{UID: uid})
			}
			c.Next()
		},
		Trigger:     svc,
		Gatherer:    reg,
		CORSOrigins: origins,
	})
}

func TestBuildRouter_TriggerAndMetrics(t *testing.T) {
	r := newTestRouter(t, []string{"*"})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/triggerBuild", strings.NewReader(`{"data":{"projectId":"p1"}}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-Uid", "u1")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))

	req = httptest.NewRequest(http.MethodPost, "/api/v1/triggerBuild", strings.NewReader(`{"data":{"projectId":"p1"}}`))
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `build_trigger_invocations_total{outcome="success"} 1`)
	assert.Contains(t, body, `build_trigger_invocations_total{outcome="unauthenticated"} 1`)
}

func TestBuildRouter_Health(t *testing.T) {
	r := newTestRouter(t, nil)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"service":"build-trigger"`)
}

func TestBuildRouter_CORS(t *testing.T) {
	r := newTestRouter(t, []string{"https://app.example.com"})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/triggerBuild", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, "https://app.example.com", rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/triggerBuild", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestCorsConfig(t *testing.T) {
	assert.True(t, corsConfig([]string{"*"}).AllowAllOrigins)
	assert.True(t, corsConfig(nil).AllowAllOrigins)

	cfg := corsConfig([]string{"https://a.example.com"})
	assert.False(t, cfg.AllowAllOrigins)
	assert.Equal(t, []string{"https://a.example.com"}, cfg.AllowOrigins)
}
