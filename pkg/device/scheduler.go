package device

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/raterudder/solarlog/pkg/log"
	"github.com/raterudder/solarlog/pkg/types"
)

// Scheduler runs a tick immediately and then again each time the interval
// has passed since the previous tick finished.
type Scheduler struct {
	interval time.Duration
	tick     func(ctx context.Context)

	// after is time.After, replaced in tests
	after func(d time.Duration) <-chan time.Time
}

// NewScheduler returns a scheduler for cfg's effective interval.
func NewScheduler(cfg types.PollConfig, tick func(ctx context.Context)) *Scheduler {
	return &Scheduler{
		interval: cfg.EffectiveInterval(),
		tick:     tick,
		after:    time.After,
	}
}

// Interval returns the delay between the end of a tick and the start of the
// next.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Run blocks until ctx is cancelled. A tick that is running when ctx is
// cancelled is not interrupted.
func (s *Scheduler) Run(ctx context.Context) error {
	log.Ctx(ctx).InfoContext(ctx, "starting scheduler", slog.Duration("interval", s.interval))
	for {
		if ctx.Err() != nil {
			return nil
		}
		s.runTick(ctx)
		select {
		case <-ctx.Done():
			log.Ctx(ctx).InfoContext(ctx, "stopping scheduler")
			return nil
		case <-s.after(s.interval):
		}
	}
}

func (s *Scheduler) runTick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Ctx(ctx).ErrorContext(
				ctx,
				"tick panicked",
				slog.String("panic", fmt.Sprint(r)),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()
	s.tick(context.WithoutCancel(ctx))
}
