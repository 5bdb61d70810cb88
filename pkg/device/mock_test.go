package device

import (
	"context"
	"log/slog"

	"github.com/raterudder/solarlog/pkg/log"
	"github.com/raterudder/solarlog/pkg/types"
	"github.com/stretchr/testify/mock"
)

func init() {
	log.SetDefaultLogLevel(slog.LevelError)
}

const testSnapshot = `{"801":{"170":{
	"100":"21.06.21 13:02:00",
	"101":"1234.5",
	"102":"1301",
	"103":"n/a",
	"116":"9800"
}}}`

type mockSink struct {
	mock.Mock
}

var _ Sink = (*mockSink)(nil)

func (m *mockSink) SetChannelState(ctx context.Context, deviceID string, update types.ChannelUpdate) error {
	args := m.Called(ctx, deviceID, update)
	return args.Error(0)
}

func (m *mockSink) SetStatus(ctx context.Context, deviceID string, status types.Status) error {
	args := m.Called(ctx, deviceID, status)
	return args.Error(0)
}

// published returns the channel updates the sink received, in order.
func (m *mockSink) published() []types.ChannelUpdate {
	var updates []types.ChannelUpdate
	for _, call := range m.Calls {
		if call.Method == "SetChannelState" {
			updates = append(updates, call.Arguments.Get(2).(types.ChannelUpdate))
		}
	}
	return updates
}

type fakeFetcher struct {
	docs  [][]byte
	errs  []error
	panic bool
	calls int
}

func (f *fakeFetcher) Fetch(ctx context.Context) ([]byte, error) {
	i := f.calls
	f.calls++
	if f.panic {
		panic("boom")
	}
	var doc []byte
	var err error
	if i < len(f.docs) {
		doc = f.docs[i]
	} else if len(f.docs) > 0 {
		doc = f.docs[len(f.docs)-1]
	}
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return doc, err
}

func (f *fakeFetcher) URL() string {
	return "http://solar-log/getjp"
}
