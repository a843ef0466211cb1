// Package backend exposes the two interchangeable execution strategies
// behind one interface, chosen once at startup. Enqueuing code and status
// readers never know which one is active.
package backend

import "context"

type Backend interface {
	// Dispatch hands a freshly created job to the execution strategy.
	Dispatch(ctx context.Context, jobID uint) error
	// Start brings up whatever the strategy needs to process jobs.
	Start(ctx context.Context) error
	// Stop shuts the strategy down gracefully.
	Stop()
}
