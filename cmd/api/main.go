package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/GoSim-25-26J-441/build-trigger/config"
	"github.com/GoSim-25-26J-441/build-trigger/internal/auth"
	"github.com/GoSim-25-26J-441/build-trigger/internal/auth/middleware"
	"github.com/GoSim-25-26J-441/build-trigger/internal/bootstrap"
	"github.com/GoSim-25-26J-441/build-trigger/internal/dispatch"
	"github.com/GoSim-25-26J-441/build-trigger/internal/logging"
	"github.com/GoSim-25-26J-441/build-trigger/internal/metrics"
	"github.com/GoSim-25-26J-441/build-trigger/internal/secrets"
	"github.com/GoSim-25-26J-441/build-trigger/internal/trigger"
)

const serviceName = "build-trigger"

func main() {
	if err := run(); err != nil {
		slog.Error("build-trigger exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(os.Stdout, cfg.App.LogLevel)
	slog.SetDefault(logger)
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var app *firebase.App
	if cfg.NeedsFirebase() {
		app, err = auth.InitializeFirebase(ctx, &cfg.Firebase)
		if err != nil {
			return err
		}
	}

	identity, err := identityMiddleware(ctx, cfg, app, logger)
	if err != nil {
		return err
	}

	store, err := bootstrap.OpenProjectStore(ctx, cfg, app)
	if err != nil {
		return fmt.Errorf("open project store: %w", err)
	}
	defer store.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewPrometheusRecorder(reg)

	dispatcher, err := newDispatcher(ctx, cfg, logger, recorder)
	if err != nil {
		return err
	}

	target := dispatch.Target{
		Owner:    cfg.Build.RepoOwner,
		Repo:     cfg.Build.RepoName,
		Workflow: cfg.Build.WorkflowID,
		Ref:      cfg.Build.Ref,
	}
	svc, err := trigger.New(store.Store, dispatcher, target,
		trigger.WithLogger(logger),
		trigger.WithRecorder(recorder))
	if err != nil {
		return err
	}

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Version:     cfg.App.Version,
		Logger:      logger,
		Identity:    identity,
		Trigger:     svc,
		StorePing:   store.Ping,
		Gatherer:    reg,
		CORSOrigins: cfg.Server.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			"addr", srv.Addr,
			"env", cfg.App.Environment,
			"auth_mode", cfg.App.AuthMode,
			"store", cfg.Store.Backend,
			"target", target.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func identityMiddleware(ctx context.Context, cfg *config.Config, app *firebase.App, logger *slog.Logger) (gin.HandlerFunc, error) {
	if cfg.App.AuthMode == config.AuthModeHeader {
		logger.Warn("AUTH_MODE=header: trusting X-User-Id, do not use outside development")
		return auth.HeaderIdentity(), nil
	}
	authClient, err := auth.NewAuthClient(ctx, app)
	if err != nil {
		return nil, err
	}
	return middleware.FirebaseIdentity(authClient, logger), nil
}

func newDispatcher(ctx context.Context, cfg *config.Config, logger *slog.Logger, recorder metrics.Recorder) (*dispatch.GitHubClient, error) {
	var api secrets.ManagerAPI
	if cfg.GitHub.Token == "" {
		var err error
		api, err = secrets.NewManagerAPI(ctx, cfg.GitHub.AWSRegion)
		if err != nil {
			return nil, err
		}
	}
	token, err := secrets.ResolveToken(ctx, cfg.GitHub.Token, cfg.GitHub.TokenSecretID, api)
	if err != nil {
		return nil, fmt.Errorf("resolve GitHub token: %w", err)
	}

	return dispatch.NewGitHubClient(dispatch.GitHubConfig{
		APIURL:        cfg.GitHub.APIURL,
		Token:         token,
		Timeout:       cfg.GitHub.Timeout,
		RatePerSecond: cfg.GitHub.RatePerSecond,
		Burst:         cfg.GitHub.Burst,
		UserAgent:     serviceName + "/" + cfg.App.Version,
		Logger:        logger,
		Recorder:      recorder,
	})
}
