package api

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

	"github.com/google/uuid"

	"sculptor/internal/logging"
	"sculptor/internal/services"
)

const (
	userAgent          = "Sculptor/0.1.0"
	defaultHTTPTimeout = 30 * time.Second
)

// Config captures the runtime settings required to talk to the clip service.
type Config struct {
	BaseURL        string
	UserID         int
	TimeoutSeconds int
}

// Client wraps the clip-generation service HTTP API.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient constructs a service client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			BaseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			UserID:         cfg.UserID,
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.UserID == 0 {
		client.cfg.UserID = 1
	}
	return client
}

// BaseURL returns the normalized service address.
func (c *Client) BaseURL() string {
	return c.cfg.BaseURL
}

// SubmitRequest carries the user inputs for one submission.
type SubmitRequest struct {
	SourceURL string
	MaxClips  int
}

type createJobPayload struct {
	SourceURL string `json:"source_url"`
	UserID    int    `json:"user_id"`
	MaxClips  int    `json:"max_clips,omitempty"`
}

// Submit issues one job creation request for the given pipeline mode and
// returns the assigned job and task identifiers.
func (c *Client) Submit(ctx context.Context, mode SubmitMode, req SubmitRequest) (*Job, error) {
	source := strings.TrimSpace(req.SourceURL)
	if source == "" {
		return nil, services.Wrap(services.ErrValidation, "api", "submit", "source url required", nil)
	}

	payload := createJobPayload{SourceURL: source, UserID: c.cfg.UserID}
	var path string
	switch mode {
	case ModeClips, "":
		path = "/ingest/process-with-clips"
		payload.MaxClips = req.MaxClips
	case ModeDownload:
		path = "/ingest/download"
	case ModeTranscribe:
		path = "/ingest/download-and-transcribe"
	default:
		return nil, services.Wrap(services.ErrValidation, "api", "submit", fmt.Sprintf("unknown mode %q", mode), nil)
	}

	var job Job
	if err := c.postJSON(ctx, "submit", path, payload, &job); err != nil {
		return nil, err
	}
	if job.JobID == "" || job.TaskID == "" {
		return nil, services.Wrap(services.ErrRemote, "api", "submit", "response missing job or task id", nil)
	}
	return &job, nil
}

// TaskStatus fetches the latest status snapshot for a task.
func (c *Client) TaskStatus(ctx context.Context, taskID string) (TaskStatus, error) {
	var status TaskStatus
	if strings.TrimSpace(taskID) == "" {
		return status, services.Wrap(services.ErrValidation, "api", "task status", "task id required", nil)
	}
	err := c.getJSON(ctx, "task status", "/task/"+url.PathEscape(taskID), &status)
	return status, err
}

// ListClips fetches the full clip list for a job. An empty slice is a valid
// result for jobs that produced no clips.
func (c *Client) ListClips(ctx context.Context, jobID string) ([]Clip, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, services.Wrap(services.ErrValidation, "api", "list clips", "job id required", nil)
	}
	var list clipList
	if err := c.getJSON(ctx, "list clips", "/clips/"+url.PathEscape(jobID), &list); err != nil {
		return nil, err
	}
	return list.Clips, nil
}

// ClipsPreview fetches the lightweight clip summary for a job.
func (c *Client) ClipsPreview(ctx context.Context, jobID string) (*Preview, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, services.Wrap(services.ErrValidation, "api", "clips preview", "job id required", nil)
	}
	var preview Preview
	if err := c.getJSON(ctx, "clips preview", "/clips/"+url.PathEscape(jobID)+"/preview", &preview); err != nil {
		return nil, err
	}
	return &preview, nil
}

// Transcript fetches the raw transcript document for a job.
func (c *Client) Transcript(ctx context.Context, jobID string) (json.RawMessage, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, services.Wrap(services.ErrValidation, "api", "transcript", "job id required", nil)
	}
	var raw json.RawMessage
	if err := c.getJSON(ctx, "transcript", "/transcript/"+url.PathEscape(jobID), &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Health verifies the service is reachable.
func (c *Client) Health(ctx context.Context) error {
	var payload struct {
		Status string `json:"status"`
	}
	if err := c.getJSON(ctx, "health", "/health", &payload); err != nil {
		return err
	}
	if payload.Status != "ok" {
		return services.Wrap(services.ErrRemote, "api", "health", fmt.Sprintf("unexpected status %q", payload.Status), nil)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, op, path string, out any) error {
	return c.doJSON(ctx, op, http.MethodGet, path, nil, out)
}

func (c *Client) postJSON(ctx context.Context, op, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return services.Wrap(services.ErrValidation, "api", op, "encode request", err)
	}
	return c.doJSON(ctx, op, http.MethodPost, path, body, out)
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := c.newRequest(ctx, method, path, reader)
	if err != nil {
		return services.Wrap(services.ErrValidation, "api", op, "build request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return services.Wrap(services.ErrTransient, "api", op, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return responseError(op, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return services.Wrap(services.ErrRemote, "api", op, "decode response", err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	requestID, ok := services.RequestIDFromContext(ctx)
	if !ok || requestID == "" {
		requestID = uuid.NewString()
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	logging.WithContext(ctx, c.logger).Debug("service request",
		logging.String("method", method),
		logging.String("path", path),
		logging.String(logging.FieldCorrelationID, requestID),
	)
	return req, nil
}
