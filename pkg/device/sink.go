package device

import (
	"context"
	"errors"

	"github.com/raterudder/solarlog/pkg/types"
)

// Sink receives the channel values and connectivity status of a device.
type Sink interface {
	SetChannelState(ctx context.Context, deviceID string, update types.ChannelUpdate) error
	SetStatus(ctx context.Context, deviceID string, status types.Status) error
}

// MultiSink forwards every call to each of its sinks in order. All sinks are
// called even if one fails; the errors are joined.
type MultiSink []Sink

// SetChannelState implements Sink.
func (m MultiSink) SetChannelState(ctx context.Context, deviceID string, update types.ChannelUpdate) error {
	var errs []error
	for _, s := range m {
		if err := s.SetChannelState(ctx, deviceID, update); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SetStatus implements Sink.
func (m MultiSink) SetStatus(ctx context.Context, deviceID string, status types.Status) error {
	var errs []error
	for _, s := range m {
		if err := s.SetStatus(ctx, deviceID, status); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
