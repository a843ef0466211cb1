// Package worker contains the poll loop and the outcome handler for
// recognition jobs. A worker owns a claimed job until it reaches a terminal
// or requeued state; workers never share claimed state.
package worker

import (
	"context"
	"time"

	"github.com/caseflow/caseflow/internal/logger"
	"github.com/caseflow/caseflow/internal/models"
)

type Worker struct {
	ID           int
	deps         Deps
	pollInterval time.Duration
	quit         chan struct{}
}

func NewWorker(id int, deps Deps, pollInterval time.Duration) *Worker {
	return &Worker{ID: id, deps: deps, pollInterval: pollInterval, quit: make(chan struct{})}
}

// Run executes the claim/process loop until Stop is called or the context is
// canceled. Blocking; the pool runs it on its own goroutine. An in-flight
// job always finishes before the loop exits.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-w.quit:
			return
		case <-ctx.Done():
			return
		default:
		}

		claimed, err := w.deps.Jobs.ClaimNext(ctx)
		if err != nil {
			logger.Errorf("worker %d: claim failed: %v", w.ID, err)
			if !w.idle(ctx) {
				return
			}
			continue
		}

		if claimed == nil {
			if !w.idle(ctx) {
				return
			}
			continue
		}

		w.process(ctx, claimed)
	}
}

// process delegates to the shared outcome handler. Job-level errors are
// contained here: they are logged and the loop keeps polling.
func (w *Worker) process(ctx context.Context, claimed *models.ClaimedJob) {
	status, err := HandleClaimed(ctx, w.deps, claimed)
	if err != nil {
		logger.Warnf("worker %d: job %d attempt %d/%d ended %s: %v",
			w.ID, claimed.JobID, claimed.Attempts, claimed.MaxAttempts, status, err)
		return
	}
	logger.Infof("worker %d: job %d completed", w.ID, claimed.JobID)
}

// idle sleeps one poll interval; returns false when the worker should exit.
func (w *Worker) idle(ctx context.Context) bool {
	select {
	case <-time.After(w.pollInterval):
		return true
	case <-w.quit:
		return false
	case <-ctx.Done():
		return false
	}
}

func (w *Worker) Stop() { close(w.quit) }
