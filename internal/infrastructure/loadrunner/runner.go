package loadrunner

import (
	"context"
	"sync"
	"time"

	"walletprobe.com/internal/domain/entity"
	"walletprobe.com/internal/infrastructure/logger"
	"walletprobe.com/internal/infrastructure/metrics"
)

const (
	DefaultTick         = 50 * time.Millisecond
	DefaultGracefulStop = 30 * time.Second
)

// IterationFunc is one loop of a virtual user. vu is 1-based.
type IterationFunc func(ctx context.Context, vu int)

// Runner drives virtual users through a ramping load profile
type Runner struct {
	profile      entity.LoadProfile
	tick         time.Duration
	gracefulStop time.Duration
	logger       logger.Logger
}

// Option configures a Runner
type Option func(*Runner)

// WithTick sets how often the user count is reconciled with the profile
func WithTick(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.tick = d
		}
	}
}

// WithGracefulStop sets how long busy users may finish after the profile ends
func WithGracefulStop(d time.Duration) Option {
	return func(r *Runner) {
		if d >= 0 {
			r.gracefulStop = d
		}
	}
}

// NewRunner creates a runner for the given profile
func NewRunner(profile entity.LoadProfile, logger logger.Logger, opts ...Option) (*Runner, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	r := &Runner{
		profile:      profile,
		tick:         DefaultTick,
		gracefulStop: DefaultGracefulStop,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Profile returns the profile the runner executes
func (r *Runner) Profile() entity.LoadProfile {
	return r.profile
}

type virtualUser struct {
	id   int
	stop chan struct{}
}

// pool tracks running users; the newest user is last
type pool struct {
	wg      sync.WaitGroup
	active  []*virtualUser
	ctx     context.Context
	iterate IterationFunc
}

func (p *pool) scale(target int) {
	for len(p.active) < target {
		u := &virtualUser{id: len(p.active) + 1, stop: make(chan struct{})}
		p.active = append(p.active, u)
		p.wg.Add(1)
		go p.loop(u)
	}
	for len(p.active) > target {
		last := len(p.active) - 1
		close(p.active[last].stop)
		p.active = p.active[:last]
	}
}

func (p *pool) loop(u *virtualUser) {
	defer p.wg.Done()
	metrics.ActiveVUs.Inc()
	defer metrics.ActiveVUs.Dec()

	for {
		select {
		case <-u.stop:
			return
		case <-p.ctx.Done():
			return
		default:
		}
		p.iterate(p.ctx, u.id)
	}
}

// wait blocks until every user has returned, timeout elapses or ctx is done
func (p *pool) wait(ctx context.Context, timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return true
	case <-timer.C:
		return false
	case <-ctx.Done():
		return false
	}
}

// Run executes the profile, calling iterate in a loop on every virtual user.
// Surplus users finish their current iteration before leaving. When ctx is
// cancelled in-flight iterations are cancelled too and ctx.Err() is returned.
func (r *Runner) Run(ctx context.Context, iterate IterationFunc) error {
	runCtx, hardStop := context.WithCancel(ctx)
	defer hardStop()

	p := &pool{ctx: runCtx, iterate: iterate}
	total := r.profile.Duration()

	r.logger.LogInfo(ctx, "Load run started",
		"duration", total.String(),
		"max_vus", r.profile.MaxTarget(),
		"graceful_stop", r.gracefulStop.String())

	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()

	start := time.Now()
	current := r.profile.TargetAt(0)
	p.scale(current)

	for {
		elapsed := time.Since(start)
		if elapsed >= total {
			break
		}

		select {
		case <-ctx.Done():
			r.logger.LogWarning(ctx, "Load run interrupted",
				"elapsed", time.Since(start).String(),
				"vus", len(p.active))
			hardStop()
			p.scale(0)
			p.wg.Wait()
			return ctx.Err()
		case <-ticker.C:
		}

		target := r.profile.TargetAt(time.Since(start))
		if target != current {
			r.logger.LogDebug(ctx, "Scaling virtual users", "from", current, "to", target)
			current = target
		}
		p.scale(target)
	}

	p.scale(0)
	if !p.wait(ctx, r.gracefulStop) {
		r.logger.LogWarning(ctx, "Graceful stop expired, cancelling busy virtual users",
			"graceful_stop", r.gracefulStop.String())
		hardStop()
		p.wg.Wait()
	}

	r.logger.LogInfo(ctx, "Load run finished", "elapsed", time.Since(start).String())

	return ctx.Err()
}
