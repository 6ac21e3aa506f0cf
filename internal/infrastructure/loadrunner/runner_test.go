package loadrunner

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walletprobe.com/internal/domain/entity"
	"walletprobe.com/internal/infrastructure/logger"
	"walletprobe.com/internal/infrastructure/metrics"
)

// concurrencyTracker records how many iterations overlap and which users ran
type concurrencyTracker struct {
	mu      sync.Mutex
	current int
	peak    int
	perVU   map[int]int
}

func newConcurrencyTracker() *concurrencyTracker {
	return &concurrencyTracker{perVU: make(map[int]int)}
}

func (c *concurrencyTracker) enter(vu int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current++
	if c.current > c.peak {
		c.peak = c.current
	}
	c.perVU[vu]++
}

func (c *concurrencyTracker) leave() {
	c.mu.Lock()
	c.current--
	c.mu.Unlock()
}

func TestNewRunner_InvalidProfile(t *testing.T) {
	tests := []struct {
		name    string
		profile entity.LoadProfile
		wantErr error
	}{
		{name: "no stages", profile: entity.LoadProfile{}, wantErr: entity.ErrNoStages},
		{
			name:    "zero length",
			profile: entity.LoadProfile{Stages: []entity.Stage{{Duration: 0, Target: 10}}},
			wantErr: entity.ErrEmptyProfile,
		},
		{
			name:    "negative target",
			profile: entity.LoadProfile{Stages: []entity.Stage{{Duration: time.Second, Target: -1}}},
			wantErr: entity.ErrNegativeStageTarget,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRunner(tt.profile, logger.NewNopLogger())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRunner_Run_RampsUsers(t *testing.T) {
	profile := entity.LoadProfile{Stages: []entity.Stage{
		{Duration: 50 * time.Millisecond, Target: 4},
		{Duration: 150 * time.Millisecond, Target: 4},
		{Duration: 50 * time.Millisecond, Target: 1},
	}}
	runner, err := NewRunner(profile, logger.NewNopLogger(),
		WithTick(5*time.Millisecond),
		WithGracefulStop(time.Second))
	require.NoError(t, err)

	tracker := newConcurrencyTracker()
	gaugeBefore := testutil.ToFloat64(metrics.ActiveVUs)

	err = runner.Run(context.Background(), func(ctx context.Context, vu int) {
		tracker.enter(vu)
		defer tracker.leave()
		time.Sleep(2 * time.Millisecond)
	})
	require.NoError(t, err)

	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	assert.LessOrEqual(t, tracker.peak, profile.MaxTarget())
	assert.Equal(t, 0, tracker.current)
	for vu := 1; vu <= 4; vu++ {
		assert.Positive(t, tracker.perVU[vu], "vu %d never iterated", vu)
	}
	assert.NotContains(t, tracker.perVU, 0)
	assert.NotContains(t, tracker.perVU, 5)
	assert.Equal(t, gaugeBefore, testutil.ToFloat64(metrics.ActiveVUs))
}

func TestPool_Scale_StopsNewestFirst(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := &pool{ctx: ctx, iterate: func(ctx context.Context, vu int) {
		time.Sleep(time.Millisecond)
	}}

	p.scale(3)
	require.Len(t, p.active, 3)
	users := append([]*virtualUser(nil), p.active...)

	p.scale(1)
	require.Len(t, p.active, 1)
	assert.Equal(t, 1, p.active[0].id)

	for _, u := range users[1:] {
		select {
		case <-u.stop:
		default:
			t.Errorf("vu %d was not asked to stop", u.id)
		}
	}
	select {
	case <-users[0].stop:
		t.Error("oldest vu was asked to stop")
	default:
	}

	// scaling up again reuses the freed ids
	p.scale(2)
	assert.Equal(t, 2, p.active[1].id)

	p.scale(0)
	assert.True(t, p.wait(context.Background(), time.Second))
}

func TestRunner_Run_GracefulStopLetsIterationsFinish(t *testing.T) {
	profile := entity.LoadProfile{StartTarget: 2, Stages: []entity.Stage{{Duration: 30 * time.Millisecond, Target: 2}}}
	runner, err := NewRunner(profile, logger.NewNopLogger(),
		WithTick(5*time.Millisecond),
		WithGracefulStop(time.Second))
	require.NoError(t, err)

	var started, cancelled atomic.Int64
	err = runner.Run(context.Background(), func(ctx context.Context, vu int) {
		started.Add(1)
		select {
		case <-time.After(40 * time.Millisecond):
		case <-ctx.Done():
			cancelled.Add(1)
		}
	})
	require.NoError(t, err)

	assert.Positive(t, started.Load())
	assert.Zero(t, cancelled.Load())
}

func TestRunner_Run_GracefulStopExpires(t *testing.T) {
	profile := entity.LoadProfile{StartTarget: 2, Stages: []entity.Stage{{Duration: 20 * time.Millisecond, Target: 2}}}
	runner, err := NewRunner(profile, logger.NewNopLogger(),
		WithTick(5*time.Millisecond),
		WithGracefulStop(20*time.Millisecond))
	require.NoError(t, err)

	var cancelled atomic.Int64
	begin := time.Now()
	err = runner.Run(context.Background(), func(ctx context.Context, vu int) {
		<-ctx.Done()
		cancelled.Add(1)
	})
	require.NoError(t, err)

	assert.Less(t, time.Since(begin), 2*time.Second)
	assert.Positive(t, cancelled.Load())
}

func TestRunner_Run_ContextCancelled(t *testing.T) {
	profile := entity.LoadProfile{StartTarget: 3, Stages: []entity.Stage{{Duration: time.Minute, Target: 3}}}
	runner, err := NewRunner(profile, logger.NewNopLogger(), WithTick(5*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var aborted atomic.Int64
	begin := time.Now()
	err = runner.Run(ctx, func(ctx context.Context, vu int) {
		<-ctx.Done()
		aborted.Add(1)
	})

	assert.True(t, errors.Is(err, context.DeadlineExceeded), "error = %v", err)
	assert.Less(t, time.Since(begin), 5*time.Second)
	assert.Positive(t, aborted.Load())
}
