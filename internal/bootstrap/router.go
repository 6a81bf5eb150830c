package bootstrap

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpapi "github.com/GoSim-25-26J-441/build-trigger/internal/api/http"
	"github.com/GoSim-25-26J-441/build-trigger/internal/api/http/middleware"
	triggerhttp "github.com/GoSim-25-26J-441/build-trigger/internal/trigger/http"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Logger      *slog.Logger

	// Identity resolves the optional caller (Firebase token or dev headers).
	Identity    gin.HandlerFunc
	Trigger     triggerhttp.Triggerer
	StorePing   httpapi.PingFunc
	Gatherer    prometheus.Gatherer
	CORSOrigins []string
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware(dep.Logger))
	r.Use(cors.New(corsConfig(dep.CORSOrigins)))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.StorePing)
	healthHandler.RegisterRoutes(r)

	if dep.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(dep.Gatherer, promhttp.HandlerOpts{EnableOpenMetrics: true})))
	}

	api := r.Group("/api/v1")
	if dep.Identity != nil {
		api.Use(dep.Identity)
	}
	triggerhttp.New(dep.Trigger).Register(api)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders: []string{middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
