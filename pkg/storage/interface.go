package storage

import (
	"context"
	"errors"

	"github.com/raterudder/solarlog/pkg/types"
)

var (
	ErrNotFound = errors.New("not found")
)

// Database keeps the latest channel values and connectivity status of each
// device. Every write replaces the previous value; no history is kept.
type Database interface {
	// State
	SetChannelState(ctx context.Context, deviceID string, update types.ChannelUpdate) error
	SetStatus(ctx context.Context, deviceID string, status types.Status) error

	// Queries
	// GetChannelStates returns the channels of a device ordered by channel id.
	GetChannelStates(ctx context.Context, deviceID string) ([]types.ChannelState, error)
	// GetStatus returns ErrNotFound if no status was ever set for the device.
	GetStatus(ctx context.Context, deviceID string) (types.Status, error)

	// Lifecycle
	Close() error
}
