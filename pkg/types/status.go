package types

import "fmt"

// StatusState is the connectivity state of a device.
type StatusState int

const (
	// StatusUnknown is the state before the first poll finished.
	StatusUnknown StatusState = iota
	StatusOnline
	StatusOffline
)

// String returns the upper case name of the state.
func (s StatusState) String() string {
	switch s {
	case StatusUnknown:
		return "UNKNOWN"
	case StatusOnline:
		return "ONLINE"
	case StatusOffline:
		return "OFFLINE"
	default:
		return fmt.Sprintf("StatusState(%d)", int(s))
	}
}

// MarshalText implements the encoding.TextMarshaler interface.
func (s StatusState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (s *StatusState) UnmarshalText(b []byte) error {
	switch string(b) {
	case "UNKNOWN":
		*s = StatusUnknown
	case "ONLINE":
		*s = StatusOnline
	case "OFFLINE":
		*s = StatusOffline
	default:
		return fmt.Errorf("unknown status state: %q", string(b))
	}
	return nil
}

// StatusDetail qualifies an OFFLINE state.
type StatusDetail string

const (
	DetailNone               StatusDetail = ""
	DetailCommunicationError StatusDetail = "COMMUNICATION_ERROR"
)

// Status is the connectivity status reported for a device.
type Status struct {
	State       StatusState  `json:"state"`
	Detail      StatusDetail `json:"detail,omitempty"`
	Description string       `json:"description,omitempty"`
}

// Online returns the ONLINE status.
func Online() Status {
	return Status{State: StatusOnline}
}

// Offline returns an OFFLINE status with the given detail.
func Offline(detail StatusDetail, description string) Status {
	return Status{State: StatusOffline, Detail: detail, Description: description}
}

// String renders the status like "OFFLINE(COMMUNICATION_ERROR)".
func (s Status) String() string {
	if s.Detail == DetailNone {
		return s.State.String()
	}
	return fmt.Sprintf("%s(%s)", s.State, s.Detail)
}
