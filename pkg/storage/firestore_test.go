package storage

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/raterudder/solarlog/pkg/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirestoreProvider(t *testing.T) {
	// run against the emulator, e.g. FIRESTORE_EMULATOR_HOST=127.0.0.1:8087
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	projectID := "test-project-id"

	// Use a random database for isolation
	randDB := fmt.Sprintf("test-db-%d", time.Now().UnixNano())
	f := &FirestoreProvider{
		projectID: projectID,
		database:  randDB,
	}

	ctx := context.Background()
	require.NoError(t, f.Init(ctx))
	defer f.Close()

	t.Run("Validate", func(t *testing.T) {
		require.NoError(t, f.Validate())
	})

	t.Run("EmptyDeviceID", func(t *testing.T) {
		_, err := f.GetStatus(ctx, "")
		assert.ErrorContains(t, err, "deviceID cannot be empty")
	})

	t.Run("StatusNotFound", func(t *testing.T) {
		_, err := f.GetStatus(ctx, "missing-device")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Status", func(t *testing.T) {
		off := types.Offline(types.DetailCommunicationError, "Communication error with the device")
		require.NoError(t, f.SetStatus(ctx, "test-device", off))

		s, err := f.GetStatus(ctx, "test-device")
		require.NoError(t, err)
		assert.Equal(t, off, s)

		require.NoError(t, f.SetStatus(ctx, "test-device", types.Online()))
		s, err = f.GetStatus(ctx, "test-device")
		require.NoError(t, err)
		assert.Equal(t, types.Online(), s)
	})

	t.Run("Channels", func(t *testing.T) {
		ts := time.Date(2021, time.June, 21, 13, 2, 0, 0, time.UTC)
		updates := []types.ChannelUpdate{
			{ChannelID: "pac", Value: types.NumberValue(decimal.RequireFromString("100"))},
			{ChannelID: "pac", Value: types.NumberValue(decimal.RequireFromString("1234.50"))},
			{ChannelID: "lastupdate", Value: types.DateTimeValue(ts)},
			{ChannelID: "uac", Value: types.TextValue("n/a")},
		}
		for _, u := range updates {
			require.NoError(t, f.SetChannelState(ctx, "test-device", u))
		}

		states, err := f.GetChannelStates(ctx, "test-device")
		require.NoError(t, err)
		require.Len(t, states, 3)
		assert.Equal(t, "lastupdate", states[0].ChannelID)
		assert.Equal(t, "2021-06-21T13:02:00", states[0].Value.String())
		assert.Equal(t, "pac", states[1].ChannelID)
		assert.Equal(t, types.ValueTypeNumber, states[1].Value.Type)
		assert.Equal(t, "1234.50", states[1].Value.String())
		assert.Equal(t, "uac", states[2].ChannelID)
		assert.Equal(t, types.TextValue("n/a"), states[2].Value)
		assert.False(t, states[2].Updated.IsZero())
	})
}
