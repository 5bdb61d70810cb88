package device

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/raterudder/solarlog/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// instantAfter records the requested delays and fires immediately.
type instantAfter struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (a *instantAfter) after(d time.Duration) <-chan time.Time {
	a.mu.Lock()
	a.delays = append(a.delays, d)
	a.mu.Unlock()
	ch := make(chan time.Time, 1)
	ch <- time.Now()
	return ch
}

func TestSchedulerInterval(t *testing.T) {
	s := NewScheduler(types.PollConfig{RefreshInterval: 5}, func(context.Context) {})
	assert.Equal(t, 15*time.Second, s.Interval())

	s = NewScheduler(types.PollConfig{RefreshInterval: 60}, func(context.Context) {})
	assert.Equal(t, time.Minute, s.Interval())
}

func TestSchedulerRun(t *testing.T) {
	t.Run("ticks immediately and waits the floored interval", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var ticks int
		s := NewScheduler(types.PollConfig{RefreshInterval: 5}, func(context.Context) {
			ticks++
			if ticks == 3 {
				cancel()
			}
		})
		a := &instantAfter{}
		s.after = a.after

		require.NoError(t, s.Run(ctx))
		assert.Equal(t, 3, ticks)
		require.NotEmpty(t, a.delays)
		for _, d := range a.delays {
			assert.Equal(t, 15*time.Second, d)
		}
	})

	t.Run("panicking tick does not stop the loop", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var ticks int
		s := NewScheduler(types.PollConfig{RefreshInterval: 15}, func(context.Context) {
			ticks++
			if ticks == 3 {
				cancel()
			}
			panic("tick failed")
		})
		s.after = (&instantAfter{}).after

		require.NoError(t, s.Run(ctx))
		assert.Equal(t, 3, ticks)
	})

	t.Run("in flight tick is not cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var tickErr error
		s := NewScheduler(types.PollConfig{}, func(tickCtx context.Context) {
			cancel()
			tickErr = tickCtx.Err()
		})
		s.after = (&instantAfter{}).after

		require.NoError(t, s.Run(ctx))
		assert.NoError(t, tickErr)
	})

	t.Run("cancelled before start", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var ticks int
		s := NewScheduler(types.PollConfig{}, func(context.Context) { ticks++ })
		require.NoError(t, s.Run(ctx))
		assert.Zero(t, ticks)
	})

	t.Run("delay is measured from the end of a tick", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var starts []time.Time
		s := &Scheduler{
			interval: 20 * time.Millisecond,
			after:    time.After,
		}
		s.tick = func(context.Context) {
			starts = append(starts, time.Now())
			if len(starts) == 3 {
				cancel()
				return
			}
			time.Sleep(40 * time.Millisecond)
		}

		require.NoError(t, s.Run(ctx))
		require.Len(t, starts, 3)
		for i := 1; i < len(starts); i++ {
			assert.GreaterOrEqual(t, starts[i].Sub(starts[i-1]), 60*time.Millisecond)
		}
	})
}

func TestDeviceRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := &mockSink{}
	sink.On("SetChannelState", mock.Anything, "roof", mock.Anything).Return(nil)
	sink.On("SetStatus", mock.Anything, "roof", types.Online()).Return(nil).Run(func(mock.Arguments) {
		cancel()
	})

	f := &fakeFetcher{docs: [][]byte{[]byte(testSnapshot)}}
	d := New("roof", types.PollConfig{URL: f.URL(), RefreshInterval: 5}, f, sink)
	assert.Equal(t, 15*time.Second, d.scheduler.Interval())

	require.NoError(t, d.Run(ctx))
	assert.Equal(t, 1, f.calls)
	assert.Equal(t, types.Online(), d.Status())
	assert.Len(t, sink.published(), 5)
}
