package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/GoSim-25-26J-441/build-trigger/internal/logging"
	"github.com/GoSim-25-26J-441/build-trigger/internal/metrics"
)

const (
	defaultAPIURL    = "https://api.github.com"
	githubAPIVersion = "2022-11-28"
	defaultUserAgent = "build-trigger/1.0"

	// DefaultTimeout is the standard timeout for a dispatch call
	DefaultTimeout = 30 * time.Second

	maxErrorBody = 1 << 20
)

// GitHubConfig holds configuration for creating a GitHubClient.
type GitHubConfig struct {
	// APIURL defaults to https://api.github.com. Must use HTTPS unless AllowInsecure is set.
	APIURL string
	Token  string

	Timeout time.Duration
	// RatePerSecond paces outgoing calls; zero or negative disables pacing.
	RatePerSecond float64
	Burst         int
	UserAgent     string

	// Transport is the base round tripper under the OAuth2 transport. Defaults to http.DefaultTransport.
	Transport     http.RoundTripper
	AllowInsecure bool

	Logger   *slog.Logger
	Recorder metrics.Recorder
}

// GitHubClient triggers GitHub Actions workflows via the workflow_dispatch event.
type GitHubClient struct {
	apiURL     string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
	recorder   metrics.Recorder
}

// NewGitHubClient creates a new GitHub dispatch client
func NewGitHubClient(cfg GitHubConfig) (*GitHubClient, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("github: token is required")
	}

	apiURL := strings.TrimRight(cfg.APIURL, "/")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	u, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("github: parse API URL: %w", err)
	}
	if u.Scheme != "https" && !cfg.AllowInsecure {
		return nil, fmt.Errorf("github: API client requires HTTPS (got %q)", apiURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	base := cfg.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	limit := rate.Inf
	burst := cfg.Burst
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
		if burst < 1 {
			burst = 1
		}
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if cfg.Recorder != nil {
		recorder = cfg.Recorder
	}

	return &GitHubClient{
		apiURL:    apiURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &oauth2.Transport{
				Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}),
				Base:   base,
			},
		},
		limiter:  rate.NewLimiter(limit, burst),
		logger:   logger,
		recorder: recorder,
	}, nil
}

type dispatchRequest struct {
	Ref    string            `json:"ref"`
	Inputs map[string]string `json:"inputs,omitempty"`
}

// Dispatch triggers the target workflow. GitHub answers 204 No Content with no
// body; the resulting run is not tracked here.
func (c *GitHubClient) Dispatch(ctx context.Context, target Target) error {
	start := time.Now()
	err := c.dispatch(ctx, target)
	c.recorder.ObserveDispatch(time.Since(start), err == nil)
	if err != nil {
		return fmt.Errorf("dispatching workflow %s in %s/%s: %w", target.Workflow, target.Owner, target.Repo, err)
	}
	logging.FromContext(ctx, c.logger).LogInfo("dispatch_workflow", "workflow dispatched",
		"target", target.String(), "duration_ms", time.Since(start).Milliseconds())
	return nil
}

func (c *GitHubClient) dispatch(ctx context.Context, target Target) error {
	if err := target.Validate(); err != nil {
		return err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("github: rate limiter: %w", err)
	}

	path := fmt.Sprintf("/repos/%s/%s/actions/workflows/%s/dispatches",
		url.PathEscape(target.Owner), url.PathEscape(target.Repo), url.PathEscape(target.Workflow))

	req, err := c.newRequest(ctx, http.MethodPost, path, dispatchRequest{Ref: target.Ref})
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("github: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return parseAPIError(resp.StatusCode, body)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *GitHubClient) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("github: encoding request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("github: creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", githubAPIVersion)
	req.Header.Set("User-Agent", c.userAgent)
	return req, nil
}
