package backend

import (
	"context"

	"github.com/caseflow/caseflow/internal/pool"
)

// PollerBackend runs the worker pool inside this process. Dispatch is a
// no-op: pollers discover queued rows through the claim protocol.
type PollerBackend struct {
	pool *pool.WorkerPool
}

func NewPollerBackend(p *pool.WorkerPool) *PollerBackend {
	return &PollerBackend{pool: p}
}

var _ Backend = (*PollerBackend)(nil)

func (b *PollerBackend) Dispatch(ctx context.Context, jobID uint) error { return nil }

func (b *PollerBackend) Start(ctx context.Context) error {
	b.pool.Start()
	return nil
}

func (b *PollerBackend) Stop() {
	b.pool.Stop()
}
