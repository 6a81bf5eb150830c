package trigger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	authdomain "github.com/GoSim-25-26J-441/build-trigger/internal/auth/domain"
	"github.com/GoSim-25-26J-441/build-trigger/internal/dispatch"
	"github.com/GoSim-25-26J-441/build-trigger/internal/logging"
	"github.com/GoSim-25-26J-441/build-trigger/internal/metrics"
	projectsdomain "github.com/GoSim-25-26J-441/build-trigger/internal/projects/domain"
)

const (
	StatusSuccess  = "success"
	MessageQueued  = "Build successfully queued!"
	operationName  = "trigger_build"
	outcomeSuccess = "success"
)

// ProjectStore is the read side of the project records.
type ProjectStore interface {
	Get(ctx context.Context, id string) (*projectsdomain.Project, error)
}

// Result is the success payload of TriggerBuild.
type Result struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type Service struct {
	store      ProjectStore
	dispatcher dispatch.Dispatcher
	target     dispatch.Target
	logger     *slog.Logger
	recorder   metrics.Recorder
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithRecorder(recorder metrics.Recorder) Option {
	return func(s *Service) {
		if recorder != nil {
			s.recorder = recorder
		}
	}
}

func New(store ProjectStore, dispatcher dispatch.Dispatcher, target dispatch.Target, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("trigger: project store is required")
	}
	if dispatcher == nil {
		return nil, errors.New("trigger: dispatcher is required")
	}
	if err := target.Validate(); err != nil {
		return nil, fmt.Errorf("trigger: %w", err)
	}

	s := &Service{
		store:      store,
		dispatcher: dispatcher,
		target:     target,
		logger:     slog.Default(),
		recorder:   metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TriggerBuild checks that caller owns projectID and asks the build system to
// start the configured workflow. Every failure is a *Error.
func (s *Service) TriggerBuild(ctx context.Context, caller *authdomain.Identity, projectID string) (*Result, error) {
	res, err := s.triggerBuild(ctx, caller, projectID)
	if err != nil {
		s.recorder.IncTrigger(string(KindOf(err)))
		return nil, err
	}
	s.recorder.IncTrigger(outcomeSuccess)
	return res, nil
}

func (s *Service) triggerBuild(ctx context.Context, caller *authdomain.Identity, projectID string) (*Result, error) {
	if caller == nil || strings.TrimSpace(caller.UID) == "" {
		return nil, newError(Unauthenticated, nil)
	}

	if projectID == "" {
		return nil, newError(InvalidArgument, nil)
	}

	log := logging.FromContext(ctx, s.logger)

	// Missing and foreign projects are indistinguishable to the caller.
	project, err := s.store.Get(ctx, projectID)
	if errors.Is(err, projectsdomain.ErrNotFound) {
		return nil, newError(PermissionDenied, err)
	}
	if err != nil {
		log.LogError(operationName, err, "step", "lookup", "project_id", projectID, "uid", caller.UID)
		return nil, newError(Internal, err)
	}
	if !project.OwnedBy(caller.UID) {
		return nil, newError(PermissionDenied, nil)
	}

	if err := s.dispatcher.Dispatch(ctx, s.target); err != nil {
		log.LogError(operationName, err, "step", "dispatch", "project_id", projectID, "uid", caller.UID,
			"target", s.target.String(),
			"rate_limited", dispatch.IsRateLimited(err),
			"workflow_not_found", dispatch.IsNotFound(err))
		return nil, newError(Internal, err)
	}

	return &Result{Status: StatusSuccess, Message: MessageQueued}, nil
}
