package device

import (
	"context"
	"log/slog"
	"sync"

	"github.com/raterudder/solarlog/pkg/log"
	"github.com/raterudder/solarlog/pkg/types"
)

const communicationErrorDescription = "Communication error with the device"

// StatusController derives the connectivity status from the result of the
// latest refresh. Earlier results have no influence.
type StatusController struct {
	deviceID string
	sink     Sink

	mu      sync.Mutex
	current types.Status
}

// NewStatusController returns a controller whose status is unknown until the
// first result is applied.
func NewStatusController(deviceID string, sink Sink) *StatusController {
	return &StatusController{
		deviceID: deviceID,
		sink:     sink,
	}
}

// Apply records the status for res and forwards it to the sink.
func (c *StatusController) Apply(ctx context.Context, res Result) types.Status {
	status := types.Online()
	if !res.OK() {
		log.Ctx(ctx).DebugContext(ctx, "error refreshing device", slog.Any("error", res.Err))
		status = types.Offline(types.DetailCommunicationError, communicationErrorDescription)
	}

	c.mu.Lock()
	prev := c.current
	c.current = status
	c.mu.Unlock()

	if prev.State != status.State {
		log.Ctx(ctx).InfoContext(
			ctx,
			"device status changed",
			slog.String("from", prev.String()),
			slog.String("to", status.String()),
		)
	}

	if err := c.sink.SetStatus(ctx, c.deviceID, status); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to publish device status", slog.Any("error", err))
	}
	return status
}

// Current returns the last applied status.
func (c *StatusController) Current() types.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}
