package device

import (
	"context"
	"log/slog"

	"github.com/levenlabs/go-lflag"
	"github.com/raterudder/solarlog/pkg/log"
	"github.com/raterudder/solarlog/pkg/solarlog"
	"github.com/raterudder/solarlog/pkg/types"
)

// Device couples a handler with the scheduler that drives it.
type Device struct {
	*Handler
	scheduler *Scheduler
}

// New returns a SolarLog device polled according to cfg.
func New(id string, cfg types.PollConfig, fetcher Fetcher, sink Sink) *Device {
	h := NewHandler(id, fetcher, solarlog.Channels(), sink)
	return &Device{
		Handler:   h,
		scheduler: NewScheduler(cfg, func(ctx context.Context) { h.Tick(ctx) }),
	}
}

// Configured sets up the polled device from flags.
func Configured(fetcher Fetcher, sink Sink) *Device {
	d := &Device{}
	id := lflag.String("device-id", "solarlog", "Identifier the device's channels and status are published under")
	interval := lflag.Int("solarlog-refresh-interval", int(types.MinRefreshInterval.Seconds()), "Seconds between refreshes of the SolarLog (minimum 15)")

	lflag.Do(func() {
		*d = *New(*id, types.PollConfig{URL: fetcher.URL(), RefreshInterval: *interval}, fetcher, sink)
	})

	return d
}

// Run polls the device until ctx is cancelled.
func (d *Device) Run(ctx context.Context) error {
	devCtx := log.Device(ctx, d.ID())
	log.Ctx(devCtx).InfoContext(devCtx, "polling device", slog.String("url", d.fetcher.URL()))
	return d.scheduler.Run(ctx)
}
