package storagemock

import (
	"context"

	"github.com/raterudder/solarlog/pkg/storage"
	"github.com/raterudder/solarlog/pkg/types"
	"github.com/stretchr/testify/mock"
)

type MockDatabase struct {
	mock.Mock
}

var _ storage.Database = (*MockDatabase)(nil)

func (m *MockDatabase) SetChannelState(ctx context.Context, deviceID string, update types.ChannelUpdate) error {
	args := m.Called(ctx, deviceID, update)
	return args.Error(0)
}

func (m *MockDatabase) SetStatus(ctx context.Context, deviceID string, status types.Status) error {
	args := m.Called(ctx, deviceID, status)
	return args.Error(0)
}

func (m *MockDatabase) GetChannelStates(ctx context.Context, deviceID string) ([]types.ChannelState, error) {
	args := m.Called(ctx, deviceID)
	// return empty if not specified, or checks args
	if len(args) > 0 {
		states, _ := args.Get(0).([]types.ChannelState)
		return states, args.Error(1)
	}
	return nil, nil
}

func (m *MockDatabase) GetStatus(ctx context.Context, deviceID string) (types.Status, error) {
	args := m.Called(ctx, deviceID)
	if len(args) > 0 {
		return args.Get(0).(types.Status), args.Error(1)
	}
	return types.Status{}, nil
}

func (m *MockDatabase) Close() error {
	args := m.Called()
	if len(args) > 0 {
		return args.Error(0)
	}
	return nil
}
