package submission

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"sculptor/internal/api"
	"sculptor/internal/logging"
	"sculptor/internal/services"
)

const (
	defaultPollInterval    = 2 * time.Second
	defaultNavigationDelay = 2 * time.Second

	initialStatusMessage   = "Initializing..."
	completedStatusMessage = "Completed! Preparing gallery..."

	genericSubmitError  = "processing failed to start"
	genericFailureError = "processing failed"
	genericPollError    = "failed to get task status"
)

// Phase is the controller's lifecycle position.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSubmitting Phase = "submitting"
	PhasePolling    Phase = "polling"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
)

// InFlight reports whether a submission is currently being created or polled.
func (p Phase) InFlight() bool {
	return p == PhaseSubmitting || p == PhasePolling
}

// Snapshot is the externally visible controller state. The controller retains
// only the latest snapshot; there is no history.
type Snapshot struct {
	Phase  Phase
	JobID  string
	TaskID string
	Status api.TaskStatus
	Error  string
}

// Service is the slice of the API client the controller depends on.
type Service interface {
	Submit(ctx context.Context, mode api.SubmitMode, req api.SubmitRequest) (*api.Job, error)
	TaskStatus(ctx context.Context, taskID string) (api.TaskStatus, error)
}

// Controller owns the lifecycle of one submission at a time: validation,
// job creation, status polling, and the navigation handoff on success.
// Starting a new submission supersedes the previous one; at most one poller
// is active per controller.
type Controller struct {
	svc             Service
	logger          *slog.Logger
	pollInterval    time.Duration
	navigationDelay time.Duration
	listener        func(Snapshot)
	navigate        func(jobID string)

	mu       sync.Mutex
	snapshot Snapshot
	poller   *poller
}

// Option customizes the controller.
type Option func(*Controller)

// WithPollInterval overrides the fixed delay between status polls.
func WithPollInterval(interval time.Duration) Option {
	return func(c *Controller) {
		if interval > 0 {
			c.pollInterval = interval
		}
	}
}

// WithNavigationDelay overrides the pause between success and navigation.
// Zero is allowed and navigates immediately.
func WithNavigationDelay(delay time.Duration) Option {
	return func(c *Controller) {
		if delay >= 0 {
			c.navigationDelay = delay
		}
	}
}

// WithListener registers a callback invoked for every published snapshot.
func WithListener(listener func(Snapshot)) Option {
	return func(c *Controller) {
		c.listener = listener
	}
}

// WithNavigator registers the navigation handoff invoked with the job ID
// after a successful task completes and the navigation delay elapses.
func WithNavigator(navigate func(jobID string)) Option {
	return func(c *Controller) {
		c.navigate = navigate
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewController constructs an idle controller.
func NewController(svc Service, opts ...Option) *Controller {
	ctrl := &Controller{
		svc:             svc,
		logger:          logging.NewNop(),
		pollInterval:    defaultPollInterval,
		navigationDelay: defaultNavigationDelay,
		snapshot:        Snapshot{Phase: PhaseIdle},
	}
	for _, opt := range opts {
		opt(ctrl)
	}
	ctrl.logger = logging.NewComponentLogger(ctrl.logger, "submission")
	return ctrl
}

// SubmitOptions carries per-submission settings.
type SubmitOptions struct {
	Mode     api.SubmitMode
	MaxClips int
}

// Submit validates the source URL, issues one creation request, and starts
// polling the returned task. A non-empty URL submitted while a previous job
// is still polling supersedes it: the previous poller is stopped before the
// new request is issued. An empty URL is rejected without touching an
// in-flight submission.
func (c *Controller) Submit(ctx context.Context, sourceURL string, opts SubmitOptions) (*api.Job, error) {
	trimmed := strings.TrimSpace(sourceURL)
	if trimmed == "" {
		err := services.Wrap(services.ErrValidation, "submission", "submit", "source url required", nil)
		c.mu.Lock()
		if c.snapshot.Phase.InFlight() {
			c.mu.Unlock()
			return nil, err
		}
		c.snapshot = Snapshot{Phase: PhaseIdle, Error: "enter a source video URL"}
		snap := c.snapshot
		c.mu.Unlock()
		c.notify(snap)
		return nil, err
	}

	c.mu.Lock()
	c.stopPollerLocked()
	c.snapshot = Snapshot{Phase: PhaseSubmitting}
	snap := c.snapshot
	c.mu.Unlock()
	c.notify(snap)

	if opts.Mode == "" {
		opts.Mode = api.ModeClips
	}

	job, err := c.svc.Submit(ctx, opts.Mode, api.SubmitRequest{SourceURL: trimmed, MaxClips: opts.MaxClips})
	if err != nil {
		msg := genericSubmitError
		if detail, ok := api.ErrorDetail(err); ok {
			msg = detail
		}
		c.mu.Lock()
		c.snapshot = Snapshot{Phase: PhaseFailed, Error: msg}
		snap := c.snapshot
		c.mu.Unlock()
		c.notify(snap)
		c.logger.Warn("submission failed", logging.Error(err))
		return nil, err
	}

	p := newPoller(c, job.JobID, job.TaskID)

	c.mu.Lock()
	// A concurrent Submit may have installed its own poller while the
	// creation request was in flight; it loses to this one.
	c.stopPollerLocked()
	c.poller = p
	c.snapshot = Snapshot{
		Phase:  PhasePolling,
		JobID:  job.JobID,
		TaskID: job.TaskID,
		Status: api.TaskStatus{State: api.TaskPending, Status: initialStatusMessage},
	}
	snap = c.snapshot
	c.mu.Unlock()
	c.notify(snap)

	c.logger.Info("submission accepted",
		logging.String(logging.FieldJobID, job.JobID),
		logging.String(logging.FieldTaskID, job.TaskID),
	)

	// Poll requests inherit the job and task identity for log correlation.
	pollCtx := services.WithTaskID(services.WithJobID(ctx, job.JobID), job.TaskID)
	go p.run(pollCtx)
	return job, nil
}

// Snapshot returns the latest published controller state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

// Watch blocks until the current submission's poller finishes (terminal
// state, supersession, or transport failure) or ctx is cancelled, then
// returns the latest snapshot. With no active poller it returns immediately.
func (c *Controller) Watch(ctx context.Context) Snapshot {
	c.mu.Lock()
	p := c.poller
	c.mu.Unlock()
	if p != nil {
		select {
		case <-ctx.Done():
		case <-p.done:
		}
	}
	return c.Snapshot()
}

// Stop cancels any active poller and pending navigation. Safe to call
// multiple times and with no submission in flight.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopPollerLocked()
}

func (c *Controller) stopPollerLocked() {
	if c.poller != nil {
		c.poller.stop()
		c.poller = nil
	}
}

func (c *Controller) isActive(p *poller) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.poller == p
}

func (c *Controller) notify(snap Snapshot) {
	if c.listener != nil {
		c.listener(snap)
	}
}

// pollProgress applies a non-terminal snapshot from an active poller.
// Snapshots from superseded pollers are discarded.
func (c *Controller) pollProgress(p *poller, status api.TaskStatus) {
	c.mu.Lock()
	if c.poller != p {
		c.mu.Unlock()
		return
	}
	c.snapshot.Status = status
	snap := c.snapshot
	c.mu.Unlock()
	c.notify(snap)
}

func (c *Controller) pollSucceeded(p *poller, status api.TaskStatus) {
	c.mu.Lock()
	if c.poller != p {
		c.mu.Unlock()
		return
	}
	status.Status = completedStatusMessage
	c.snapshot.Phase = PhaseSucceeded
	c.snapshot.Status = status
	snap := c.snapshot
	c.mu.Unlock()
	c.notify(snap)
	c.logger.Info("task completed",
		logging.String(logging.FieldJobID, p.jobID),
		logging.String(logging.FieldTaskID, p.taskID),
	)
}

func (c *Controller) pollFailed(p *poller, status api.TaskStatus) {
	c.mu.Lock()
	if c.poller != p {
		c.mu.Unlock()
		return
	}
	msg := strings.TrimSpace(status.Error)
	if msg == "" {
		msg = genericFailureError
	}
	c.snapshot.Phase = PhaseFailed
	c.snapshot.Status = status
	c.snapshot.Error = msg
	snap := c.snapshot
	c.mu.Unlock()
	c.notify(snap)
	c.logger.Warn("task failed",
		logging.String(logging.FieldJobID, p.jobID),
		logging.String(logging.FieldTaskID, p.taskID),
		logging.String("reason", msg),
	)
}

// pollTransportFailure handles a poll request that itself failed. The poll is
// abandoned rather than retried; the distinction between transient and
// permanent transport errors is not made at this layer.
func (c *Controller) pollTransportFailure(p *poller, err error) {
	c.mu.Lock()
	if c.poller != p {
		c.mu.Unlock()
		return
	}
	c.snapshot.Phase = PhaseFailed
	c.snapshot.Error = genericPollError
	snap := c.snapshot
	c.mu.Unlock()
	c.notify(snap)
	c.logger.Warn("status poll failed",
		logging.String(logging.FieldTaskID, p.taskID),
		logging.Error(err),
	)
}
