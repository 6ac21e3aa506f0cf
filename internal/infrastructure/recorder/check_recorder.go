package recorder

import (
	"context"
	"sync"
	"time"

	"walletprobe.com/internal/domain/entity"
	"walletprobe.com/internal/domain/port"
	"walletprobe.com/internal/infrastructure/logger"
	"walletprobe.com/internal/infrastructure/metrics"
)

// InMemoryCheckRecorder implements the CheckRecorder port
type InMemoryCheckRecorder struct {
	mu         sync.RWMutex
	tallies    map[string]*entity.CheckTally
	order      []string
	iterations int64
	logger     logger.Logger
}

var _ port.CheckRecorder = (*InMemoryCheckRecorder)(nil)

// NewInMemoryCheckRecorder creates a new in-memory check recorder
func NewInMemoryCheckRecorder(logger logger.Logger) *InMemoryCheckRecorder {
	return &InMemoryCheckRecorder{
		tallies: make(map[string]*entity.CheckTally),
		order:   make([]string, 0),
		logger:  logger,
	}
}

// RecordCheck counts one check outcome
func (r *InMemoryCheckRecorder) RecordCheck(ctx context.Context, check entity.CheckResult) {
	r.mu.Lock()
	tally := r.tallies[check.Name]
	if tally == nil {
		tally = &entity.CheckTally{Name: check.Name}
		r.tallies[check.Name] = tally
		r.order = append(r.order, check.Name)
	}
	if check.Passed {
		tally.Passes++
	} else {
		tally.Fails++
	}
	r.mu.Unlock()

	metrics.ChecksTotal.WithLabelValues(check.Name, metrics.CheckResultLabel(check.Passed)).Inc()
}

// RecordIteration counts one finished iteration
func (r *InMemoryCheckRecorder) RecordIteration(ctx context.Context, duration time.Duration) {
	r.mu.Lock()
	r.iterations++
	r.mu.Unlock()

	metrics.IterationsTotal.Inc()
	metrics.IterationDuration.Observe(duration.Seconds())
}

// Summary returns the tallies in the order checks were first seen
func (r *InMemoryCheckRecorder) Summary() entity.Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Copy so callers never observe later updates
	checks := make([]entity.CheckTally, 0, len(r.order))
	for _, name := range r.order {
		checks = append(checks, *r.tallies[name])
	}

	return entity.Summary{
		Checks:     checks,
		Iterations: r.iterations,
	}
}

// LogSummary writes one line per check
func (r *InMemoryCheckRecorder) LogSummary(ctx context.Context) {
	summary := r.Summary()
	for _, c := range summary.Checks {
		r.logger.LogInfo(ctx, "Check summary",
			"check", c.Name,
			"passes", c.Passes,
			"fails", c.Fails,
			"pass_rate", c.PassRate())
	}
	r.logger.LogInfo(ctx, "Run summary",
		"iterations", summary.Iterations,
		"failed_checks", summary.Failures())
}
