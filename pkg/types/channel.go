package types

import (
	"fmt"
	"time"
)

// MinRefreshInterval is the shortest delay allowed between two polls of a
// device.
const MinRefreshInterval = 15 * time.Second

// ValueType selects how the raw string of a channel is coerced.
type ValueType int

const (
	ValueTypeText ValueType = iota
	ValueTypeNumber
	ValueTypeDateTime
)

// String returns the name used for the type in JSON and storage.
func (t ValueType) String() string {
	switch t {
	case ValueTypeNumber:
		return "number"
	case ValueTypeDateTime:
		return "datetime"
	case ValueTypeText:
		return "text"
	default:
		return fmt.Sprintf("ValueType(%d)", int(t))
	}
}

// ParseValueType is the inverse of ValueType.String.
func ParseValueType(name string) (ValueType, error) {
	switch name {
	case "number":
		return ValueTypeNumber, nil
	case "datetime":
		return ValueTypeDateTime, nil
	case "text":
		return ValueTypeText, nil
	default:
		return ValueTypeText, fmt.Errorf("unknown value type: %q", name)
	}
}

// ChannelSpec maps a field of the device snapshot to a channel.
type ChannelSpec struct {
	// Key is the field identifier inside the snapshot's property object.
	Key       string
	ChannelID string
	Type      ValueType
}

// ChannelUpdate is a single typed value destined for a channel.
type ChannelUpdate struct {
	ChannelID string `json:"channelID"`
	Value     Value  `json:"value"`
}

// PollConfig is the per-device polling configuration. It does not change
// after startup.
type PollConfig struct {
	URL string
	// RefreshInterval is the requested delay between polls in seconds.
	RefreshInterval int
}

// EffectiveInterval returns the requested interval raised to
// MinRefreshInterval.
func (c PollConfig) EffectiveInterval() time.Duration {
	d := time.Duration(c.RefreshInterval) * time.Second
	if c.RefreshInterval <= 0 || d < MinRefreshInterval {
		return MinRefreshInterval
	}
	return d
}

// ChannelState is the latest value published to a channel.
type ChannelState struct {
	ChannelID string    `json:"channelID"`
	Value     Value     `json:"value"`
	Updated   time.Time `json:"updated"`
}
