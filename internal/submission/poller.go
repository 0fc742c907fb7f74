package submission

import (
	"context"
	"errors"
	"sync"
	"time"

	"sculptor/internal/api"
)

// poller runs the timed status loop for one task. It publishes snapshots
// through its controller, which discards anything arriving from a poller
// that is no longer active.
type poller struct {
	ctrl   *Controller
	jobID  string
	taskID string

	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
}

func newPoller(ctrl *Controller, jobID, taskID string) *poller {
	return &poller{
		ctrl:   ctrl,
		jobID:  jobID,
		taskID: taskID,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// stop signals the loop to exit. Idempotent and safe from any goroutine; a
// stopped poller publishes nothing further.
func (p *poller) stop() {
	p.stopOnce.Do(func() {
		close(p.stopCh)
	})
}

func (p *poller) stopped() bool {
	select {
	case <-p.stopCh:
		return true
	default:
		return false
	}
}

// run polls at the controller's fixed interval until a terminal state,
// a transport failure, cancellation, or supersession. There is no poll
// count ceiling: a task that never terminates is polled until stopped.
func (p *poller) run(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.ctrl.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopCh:
			return
		case <-ticker.C:
		}

		status, err := p.ctrl.svc.TaskStatus(ctx, p.taskID)

		// The stop signal is checked after every round trip so a response
		// for a since-cancelled task never mutates live state.
		if p.stopped() {
			return
		}
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			p.ctrl.pollTransportFailure(p, err)
			return
		}

		switch status.State {
		case api.TaskSuccess:
			p.ctrl.pollSucceeded(p, status)
			p.awaitNavigation(ctx)
			return
		case api.TaskFailure:
			p.ctrl.pollFailed(p, status)
			return
		default:
			// Unknown states are treated as still in progress.
			p.ctrl.pollProgress(p, status)
		}
	}
}

// awaitNavigation holds the success indication visible for the configured
// delay, then hands the job ID to the navigator. Supersession or teardown
// during the delay cancels the handoff.
func (p *poller) awaitNavigation(ctx context.Context) {
	navigate := p.ctrl.navigate
	if navigate == nil {
		return
	}
	if p.ctrl.navigationDelay > 0 {
		timer := time.NewTimer(p.ctrl.navigationDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-p.stopCh:
			return
		case <-timer.C:
		}
	}
	if p.stopped() || !p.ctrl.isActive(p) {
		return
	}
	navigate(p.jobID)
}
