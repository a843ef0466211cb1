package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Backend selection values for QUEUE_BACKEND.
const (
	BackendPoller   = "poller"
	BackendTemporal = "temporal"
)

// Config holds the orchestrator settings shared by all binaries. Database
// settings live separately in the postgres package.
type Config struct {
	HTTPPort string `env:"HTTP_PORT,default=8080"`

	// QueueBackend selects the execution strategy once at startup:
	// "poller" runs the in-process worker pool, "temporal" dispatches job
	// ids to a Temporal task queue consumed by broker-worker processes.
	QueueBackend string `env:"QUEUE_BACKEND,default=poller"`

	WorkerCount    int           `env:"WORKER_COUNT,default=4"`
	PollInterval   time.Duration `env:"POLL_INTERVAL,default=1s"`
	JobMaxAttempts int           `env:"JOB_MAX_ATTEMPTS,default=2"`

	DrainPollInterval time.Duration `env:"DRAIN_POLL_INTERVAL,default=2s"`
	DrainTimeout      time.Duration `env:"DRAIN_TIMEOUT,default=900s"`

	TemporalAddress   string `env:"TEMPORAL_ADDRESS,default=localhost:7233"`
	TemporalNamespace string `env:"TEMPORAL_NAMESPACE,default=default"`
	TemporalTaskQueue string `env:"TEMPORAL_TASK_QUEUE,default=caseflow-document-jobs"`
}

// Load reads the configuration from the environment and validates it.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	var errs []string

	if cfg.QueueBackend != BackendPoller && cfg.QueueBackend != BackendTemporal {
		errs = append(errs, fmt.Sprintf("QUEUE_BACKEND must be %q or %q", BackendPoller, BackendTemporal))
	}
	if cfg.WorkerCount < 1 {
		errs = append(errs, "WORKER_COUNT must be at least 1")
	}
	if cfg.PollInterval <= 0 {
		errs = append(errs, "POLL_INTERVAL must be positive")
	}
	if cfg.JobMaxAttempts < 1 {
		errs = append(errs, "JOB_MAX_ATTEMPTS must be at least 1")
	}
	if cfg.DrainPollInterval <= 0 {
		errs = append(errs, "DRAIN_POLL_INTERVAL must be positive")
	}
	if cfg.DrainTimeout <= 0 {
		errs = append(errs, "DRAIN_TIMEOUT must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}
