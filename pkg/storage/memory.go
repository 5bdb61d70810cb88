package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/raterudder/solarlog/pkg/types"
)

// Memory implements Database in process memory. Its contents are lost when
// the process exits.
type Memory struct {
	mu       sync.Mutex
	channels map[string]map[string]types.ChannelState
	statuses map[string]types.Status
	now      func() time.Time
}

// NewMemory returns an empty Memory database.
func NewMemory() *Memory {
	return &Memory{
		channels: make(map[string]map[string]types.ChannelState),
		statuses: make(map[string]types.Status),
		now:      time.Now,
	}
}

// SetChannelState replaces the value of the channel.
func (m *Memory) SetChannelState(ctx context.Context, deviceID string, update types.ChannelUpdate) error {
	if deviceID == "" {
		return fmt.Errorf("deviceID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	states, ok := m.channels[deviceID]
	if !ok {
		states = make(map[string]types.ChannelState)
		m.channels[deviceID] = states
	}
	states[update.ChannelID] = types.ChannelState{
		ChannelID: update.ChannelID,
		Value:     update.Value,
		Updated:   m.now(),
	}
	return nil
}

// SetStatus replaces the status of the device.
func (m *Memory) SetStatus(ctx context.Context, deviceID string, status types.Status) error {
	if deviceID == "" {
		return fmt.Errorf("deviceID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[deviceID] = status
	return nil
}

// GetChannelStates returns the channels of the device ordered by channel id.
func (m *Memory) GetChannelStates(ctx context.Context, deviceID string) ([]types.ChannelState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	states := make([]types.ChannelState, 0, len(m.channels[deviceID]))
	for _, s := range m.channels[deviceID] {
		states = append(states, s)
	}
	sort.Slice(states, func(i, j int) bool {
		return states[i].ChannelID < states[j].ChannelID
	})
	return states, nil
}

// GetStatus returns the status of the device.
func (m *Memory) GetStatus(ctx context.Context, deviceID string) (types.Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.statuses[deviceID]
	if !ok {
		return types.Status{}, ErrNotFound
	}
	return s, nil
}

// Close implements Database.
func (m *Memory) Close() error {
	return nil
}
