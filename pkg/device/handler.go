// Package device runs the refresh pipeline of a single polled device: fetch a
// snapshot, turn it into channel updates, publish them and derive the
// connectivity status.
package device

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/raterudder/solarlog/pkg/log"
	"github.com/raterudder/solarlog/pkg/solarlog"
	"github.com/raterudder/solarlog/pkg/types"
)

// Fetcher retrieves one raw snapshot from the device.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
	URL() string
}

// Result is the outcome of one refresh. Err is nil when the refresh
// completed, even if some channels were missing from the snapshot.
type Result struct {
	Updates []types.ChannelUpdate
	Err     error
}

// Ok returns a successful result.
func Ok(updates []types.ChannelUpdate) Result {
	return Result{Updates: updates}
}

// Fail returns a failed result.
func Fail(err error) Result {
	return Result{Err: err}
}

// OK reports whether the refresh completed.
func (r Result) OK() bool {
	return r.Err == nil
}

// Handler owns the channel table and status of one device.
type Handler struct {
	id       string
	fetcher  Fetcher
	channels []types.ChannelSpec
	sink     Sink
	status   *StatusController
}

// NewHandler returns a handler publishing the given channels to sink.
func NewHandler(id string, fetcher Fetcher, channels []types.ChannelSpec, sink Sink) *Handler {
	return &Handler{
		id:       id,
		fetcher:  fetcher,
		channels: append([]types.ChannelSpec(nil), channels...),
		sink:     sink,
		status:   NewStatusController(id, sink),
	}
}

// ID returns the device id.
func (h *Handler) ID() string {
	return h.id
}

// Status returns the current connectivity status.
func (h *Handler) Status() types.Status {
	return h.status.Current()
}

// Refresh fetches a snapshot and extracts the channel updates without
// publishing them.
func (h *Handler) Refresh(ctx context.Context) Result {
	doc, err := h.fetcher.Fetch(ctx)
	if err != nil {
		return Fail(err)
	}
	updates, err := solarlog.Extract(ctx, doc, h.channels)
	if err != nil {
		return Fail(fmt.Errorf("failed to extract snapshot: %w", err))
	}
	return Ok(updates)
}

// Tick runs one refresh, publishes its updates if it succeeded and then
// records the resulting status. A panic anywhere before the status is
// recorded turns the tick into a failure.
func (h *Handler) Tick(ctx context.Context) Result {
	ctx = log.Device(ctx, h.id)
	res := h.refreshAndPublish(ctx)
	h.status.Apply(ctx, res)
	return res
}

func (h *Handler) refreshAndPublish(ctx context.Context) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Fail(fmt.Errorf("panic during refresh: %v", r))
		}
	}()

	res = h.Refresh(ctx)
	if !res.OK() {
		return res
	}
	for _, u := range res.Updates {
		if err := h.sink.SetChannelState(ctx, h.id, u); err != nil {
			log.Ctx(ctx).ErrorContext(
				ctx,
				"failed to publish channel state",
				slog.String("channelID", u.ChannelID),
				slog.Any("error", err),
			)
		}
	}
	log.Ctx(ctx).DebugContext(ctx, "device refreshed", slog.Int("updates", len(res.Updates)))
	return res
}
