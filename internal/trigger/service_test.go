package trigger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authdomain "github.com/GoSim-25-26J-441/build-trigger/internal/auth/domain"
	"github.com/GoSim-25-26J-441/build-trigger/internal/dispatch"
	"github.com/GoSim-25-26J-441/build-trigger/internal/logging"
	projectsdomain "github.com/GoSim-25-26J-441/build-trigger/internal/projects/domain"
)

type fakeStore struct {
	projects map[string]*projectsdomain.Project
	err      error
	calls    int
}

func (f *fakeStore) Get(_ context.Context, id string) (*projectsdomain.Project, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.projects[id]
	if !ok {
		return nil, projectsdomain.ErrNotFound
	}
	return p, nil
}

type fakeDispatcher struct {
	err     error
	targets []dispatch.Target
}

func (f *fakeDispatcher) Dispatch(_ context.Context, target dispatch.Target) error {
	f.targets = append(f.targets, target)
	return f.err
}

type fakeRecorder struct {
	outcomes []string
}

func (r *fakeRecorder) IncTrigger(outcome string)           { r.outcomes = append(r.outcomes, outcome) }
func (r *fakeRecorder) ObserveDispatch(time.Duration, bool) {}

var target = dispatch.Target{Owner: "WillRich89", Repo: "publisher-worker", Workflow: "build.yml", Ref: "main"}

type fixture struct {
	svc        *Service
	store      *fakeStore
	dispatcher *fakeDispatcher
	recorder   *fakeRecorder
	logs       *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store: &fakeStore{projects: map[string]*projectsdomain.Project{
			"p1": {ID: "p1", OwnerUID: "u1"},
			"p2": {ID: "p2", OwnerUID: "u2"},
		}},
		dispatcher: &fakeDispatcher{},
		recorder:   &fakeRecorder{},
		logs:       &bytes.Buffer{},
	}
	svc, err := New(f.store, f.dispatcher, target,
		WithLogger(logging.New(f.logs, "debug")),
		WithRecorder(f.recorder))
	require.NoError(t, err)
	f.svc = svc
	return f
}

func assertKind(t *testing.T, err error, kind Kind, message string) {
	t.Helper()
	require.Error(t, err)
	var terr *Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, kind, terr.Kind)
	assert.Equal(t, message, err.Error())
}

func TestTriggerBuild_Success(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.TriggerBuild(context.Background(), &authdomain.Identity{UID: "u1"}, "p1")
	require.NoError(t, err)
	assert.Equal(t, &Result{Status: "success", Message: "Build successfully queued!"}, res)
	assert.Equal(t, []dispatch.Target{target}, f.dispatcher.targets)
	assert.Equal(t, []string{"success"}, f.recorder.outcomes)
	assert.Empty(t, f.logs.String())
}

func TestTriggerBuild_Unauthenticated(t *testing.T) {
	f := newFixture(t)

	for _, caller := range []*authdomain.Identity{nil, {UID: "  "}} {
		_, err := f.svc.TriggerBuild(context.Background(), caller, "p1")
		assertKind(t, err, Unauthenticated, "You must be logged in to start a build.")
	}

	// identity is checked before the argument
	_, err := f.svc.TriggerBuild(context.Background(), nil, "")
	assertKind(t, err, Unauthenticated, "You must be logged in to start a build.")

	assert.Zero(t, f.store.calls)
	assert.Empty(t, f.dispatcher.targets)
}

func TestTriggerBuild_InvalidArgument(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.TriggerBuild(context.Background(), &authdomain.Identity{UID: "u1"}, "")
	assertKind(t, err, InvalidArgument, "A project ID must be provided.")
	assert.Zero(t, f.store.calls)
	assert.Empty(t, f.dispatcher.targets)
}

func TestTriggerBuild_PermissionDenied(t *testing.T) {
	f := newFixture(t)
	caller := &authdomain.Identity{UID: "u1"}

	_, missingErr := f.svc.TriggerBuild(context.Background(), caller, "nope")
	assertKind(t, missingErr, PermissionDenied, "You do not have permission to build this project.")

	_, foreignErr := f.svc.TriggerBuild(context.Background(), caller, "p2")
	assertKind(t, foreignErr, PermissionDenied, "You do not have permission to build this project.")

	// a missing project and someone else's project look the same to the caller
	assert.Equal(t, missingErr.Error(), foreignErr.Error())
	assert.Equal(t, KindOf(missingErr), KindOf(foreignErr))

	assert.Empty(t, f.dispatcher.targets)
	assert.Equal(t, []string{"permission-denied", "permission-denied"}, f.recorder.outcomes)
	assert.Empty(t, f.logs.String())
}

func TestTriggerBuild_DispatchFailure(t *testing.T) {
	f := newFixture(t)
	cause := &dispatch.APIError{StatusCode: http.StatusNotFound, Message: "Not Found"}
	f.dispatcher.err = cause

	res, err := f.svc.TriggerBuild(context.Background(), &authdomain.Identity{UID: "u1"}, "p1")
	assert.Nil(t, res)
	assertKind(t, err, Internal, "Failed to trigger the build process.")

	// the cause is kept for logging but never in the message
	assert.ErrorIs(t, err, cause)
	assert.NotContains(t, err.Error(), "Not Found")

	assert.Contains(t, f.logs.String(), "Not Found")
	assert.Contains(t, f.logs.String(), "step=dispatch")
	assert.Contains(t, f.logs.String(), "project_id=p1")
	assert.Contains(t, f.logs.String(), "workflow_not_found=true")
	assert.Contains(t, f.logs.String(), "rate_limited=false")
	assert.Equal(t, []string{"internal"}, f.recorder.outcomes)
}

func TestTriggerBuild_DispatchRateLimited(t *testing.T) {
	f := newFixture(t)
	f.dispatcher.err = fmt.Errorf("dispatching workflow: %w",
		&dispatch.APIError{StatusCode: http.StatusTooManyRequests, Message: "secondary rate limit"})

	_, err := f.svc.TriggerBuild(context.Background(), &authdomain.Identity{UID: "u1"}, "p1")
	assertKind(t, err, Internal, "Failed to trigger the build process.")
	assert.Contains(t, f.logs.String(), "rate_limited=true")
	assert.Contains(t, f.logs.String(), "workflow_not_found=false")
}

func TestTriggerBuild_StoreFailure(t *testing.T) {
	f := newFixture(t)
	f.store.err = errors.New("firestore unavailable")

	_, err := f.svc.TriggerBuild(context.Background(), &authdomain.Identity{UID: "u1"}, "p1")
	assertKind(t, err, Internal, "Failed to trigger the build process.")
	assert.Empty(t, f.dispatcher.targets)
	assert.Contains(t, f.logs.String(), "firestore unavailable")
	assert.Contains(t, f.logs.String(), "step=lookup")
}

func TestTriggerBuild_NotIdempotent(t *testing.T) {
	f := newFixture(t)
	caller := &authdomain.Identity{UID: "u1"}

	for i := 0; i < 2; i++ {
		_, err := f.svc.TriggerBuild(context.Background(), caller, "p1")
		require.NoError(t, err)
	}
	assert.Len(t, f.dispatcher.targets, 2)
}

func TestTriggerBuild_ProjectIDUsedAsGiven(t *testing.T) {
	f := newFixture(t)
	caller := &authdomain.Identity{UID: "u1"}

	// a non-empty ID is looked up verbatim, so padding never matches "p1"
	for _, id := range []string{"   ", " p1 "} {
		_, err := f.svc.TriggerBuild(context.Background(), caller, id)
		assertKind(t, err, PermissionDenied, "You do not have permission to build this project.")
	}
	assert.Equal(t, 2, f.store.calls)
	assert.Empty(t, f.dispatcher.targets)
}

func TestTriggerBuild_RequestIDInLogs(t *testing.T) {
	f := newFixture(t)
	f.dispatcher.err = errors.New("boom")

	ctx := logging.WithRequestID(context.Background(), "req-42")
	_, err := f.svc.TriggerBuild(ctx, &authdomain.Identity{UID: "u1"}, "p1")
	require.Error(t, err)
	assert.Contains(t, f.logs.String(), "request_id=req-42")
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, &fakeDispatcher{}, target)
	assert.Error(t, err)

	_, err = New(&fakeStore{}, nil, target)
	assert.Error(t, err)

	_, err = New(&fakeStore{}, &fakeDispatcher{}, dispatch.Target{Owner: "x"})
	assert.Error(t, err)

	svc, err := New(&fakeStore{}, &fakeDispatcher{}, target, WithLogger(nil), WithRecorder(nil))
	require.NoError(t, err)
	assert.NotNil(t, svc.logger)
	assert.NotNil(t, svc.recorder)
}

func TestKind(t *testing.T) {
	tests := []struct {
		kind   Kind
		status string
		code   int
	}{
		{Unauthenticated, "UNAUTHENTICATED", http.StatusUnauthorized},
		{InvalidArgument, "INVALID_ARGUMENT", http.StatusBadRequest},
		{PermissionDenied, "PERMISSION_DENIED", http.StatusForbidden},
		{Internal, "INTERNAL", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.kind.Status())
		assert.Equal(t, tt.code, tt.kind.HTTPStatus())
	}

	assert.Equal(t, Internal, KindOf(errors.New("plain")))
	assert.Equal(t, PermissionDenied, KindOf(newError(PermissionDenied, nil)))
}
