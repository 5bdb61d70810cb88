package types

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateTimeLayout is the canonical rendering of DateTime values. It carries
// no zone: device timestamps are local wall clock readings.
const DateTimeLayout = "2006-01-02T15:04:05"

// Value is the typed state of a channel. It holds exactly one of a number, a
// timestamp or a text, selected by Type.
type Value struct {
	Type ValueType

	number decimal.Decimal
	time   time.Time
	text   string
}

// NumberValue returns a number value. The decimal keeps the precision it was
// parsed with.
func NumberValue(d decimal.Decimal) Value {
	return Value{Type: ValueTypeNumber, number: d}
}

// DateTimeValue returns a timestamp value truncated to the second. Only the
// wall clock fields of t are kept.
func DateTimeValue(t time.Time) Value {
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
	return Value{Type: ValueTypeDateTime, time: wall}
}

// TextValue returns a plain text value.
func TextValue(s string) Value {
	return Value{Type: ValueTypeText, text: s}
}

// ParseValue rebuilds a Value from its type and canonical rendering as
// produced by String.
func ParseValue(t ValueType, s string) (Value, error) {
	switch t {
	case ValueTypeNumber:
		d, err := decimal.NewFromString(s)
		if err != nil {
			return Value{}, fmt.Errorf("invalid number value %q: %w", s, err)
		}
		return NumberValue(d), nil
	case ValueTypeDateTime:
		ts, err := time.Parse(DateTimeLayout, s)
		if err != nil {
			return Value{}, fmt.Errorf("invalid datetime value %q: %w", s, err)
		}
		return DateTimeValue(ts), nil
	default:
		return TextValue(s), nil
	}
}

// Number returns the decimal if v is a number value.
func (v Value) Number() (decimal.Decimal, bool) {
	if v.Type != ValueTypeNumber {
		return decimal.Decimal{}, false
	}
	return v.number, true
}

// Time returns the timestamp if v is a datetime value. The returned time is
// in UTC but represents the device's local wall clock.
func (v Value) Time() (time.Time, bool) {
	if v.Type != ValueTypeDateTime {
		return time.Time{}, false
	}
	return v.time, true
}

// String returns the canonical rendering of the value. Numbers keep their
// fractional digits, so "1234.50" stays "1234.50".
func (v Value) String() string {
	switch v.Type {
	case ValueTypeNumber:
		if exp := v.number.Exponent(); exp < 0 {
			return v.number.StringFixed(-exp)
		}
		return v.number.String()
	case ValueTypeDateTime:
		return v.time.Format(DateTimeLayout)
	default:
		return v.text
	}
}

type jsonValue struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// MarshalJSON implements the json.Marshaler interface.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonValue{Type: v.Type.String(), Value: v.String()})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (v *Value) UnmarshalJSON(b []byte) error {
	var jv jsonValue
	if err := json.Unmarshal(b, &jv); err != nil {
		return err
	}
	t, err := ParseValueType(jv.Type)
	if err != nil {
		return err
	}
	parsed, err := ParseValue(t, jv.Value)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
