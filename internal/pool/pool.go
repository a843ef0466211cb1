// Package pool runs a fixed-size set of job workers with cooperative
// shutdown: stopping lets each worker finish its current job.
package pool

import (
	"context"
	"sync"
	"time"

	"github.com/caseflow/caseflow/internal/logger"
	"github.com/caseflow/caseflow/internal/worker"
)

type WorkerPool struct {
	workers []*worker.Worker
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewWorkerPool(count int, deps worker.Deps, pollInterval time.Duration) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())
	p := &WorkerPool{ctx: ctx, cancel: cancel}

	for i := 1; i <= count; i++ {
		p.workers = append(p.workers, worker.NewWorker(i, deps, pollInterval))
	}
	return p
}

func (p *WorkerPool) Start() {
	for _, w := range p.workers {
		p.wg.Add(1)
		go func(w *worker.Worker) {
			defer p.wg.Done()
			w.Run(p.ctx)
		}(w)
	}
	logger.Infof("worker pool started with %d workers", len(p.workers))
}

// Stop signals every worker and waits for in-flight jobs to finish. The
// context is canceled only after the drain so outcome writes are not cut off.
func (p *WorkerPool) Stop() {
	for _, w := range p.workers {
		w.Stop()
	}
	p.wg.Wait()
	p.cancel()
	logger.Info("worker pool stopped")
}
