package solarlog

import (
	"time"

	"github.com/raterudder/solarlog/pkg/types"
	"github.com/shopspring/decimal"
)

// dateLayout matches timestamps like "21.06.21 13:02:00". Day, month and hour
// may have one or two digits.
const dateLayout = "2.1.06 15:04:05"

// maxExponent bounds the scale of a number. Values are rendered without an
// exponent, so "1e50000000" would otherwise expand to 50 million digits.
const maxExponent = 1000

// now is time.Now, replaced in tests.
var now = time.Now

// Coerce converts a raw snapshot value to the requested type. A value that
// does not parse as its type is returned as text, so Coerce never fails.
func Coerce(raw string, t types.ValueType) types.Value {
	switch t {
	case types.ValueTypeNumber:
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return types.TextValue(raw)
		}
		if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent {
			return types.TextValue(raw)
		}
		return types.NumberValue(d)
	case types.ValueTypeDateTime:
		ts, err := time.Parse(dateLayout, raw)
		if err != nil {
			return types.TextValue(raw)
		}
		ts, ok := withinCentury(ts, now())
		if !ok {
			return types.TextValue(raw)
		}
		return types.DateTimeValue(ts)
	case types.ValueTypeText:
		return types.TextValue(raw)
	default:
		return types.TextValue(raw)
	}
}

// withinCentury moves the two-digit year of ts into the 100 years starting
// 80 years before ref, the window SolarLog timestamps are read in. It fails
// if the date does not exist in that year (29 February).
func withinCentury(ts, ref time.Time) (time.Time, bool) {
	start := ref.AddDate(-80, 0, 0)
	year := start.Year() - start.Year()%100 + ts.Year()%100
	moved := time.Date(year, ts.Month(), ts.Day(), ts.Hour(), ts.Minute(), ts.Second(), 0, time.UTC)
	startWall := time.Date(start.Year(), start.Month(), start.Day(), start.Hour(), start.Minute(), start.Second(), 0, time.UTC)
	if moved.Before(startWall) {
		year += 100
		moved = time.Date(year, ts.Month(), ts.Day(), ts.Hour(), ts.Minute(), ts.Second(), 0, time.UTC)
	}
	if moved.Day() != ts.Day() {
		return time.Time{}, false
	}
	return moved, true
}
