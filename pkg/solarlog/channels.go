// Package solarlog reads the open JSON interface of a SolarLog appliance and
// turns its snapshot into typed channel values.
package solarlog

import "github.com/raterudder/solarlog/pkg/types"

// The snapshot nests the live values under these two keys:
// {"801": {"170": {"100": "21.06.21 13:02:00", "101": "1234", ...}}}
const (
	RootKey       = "801"
	PropertiesKey = "170"
)

// Channel ids published for a SolarLog device.
const (
	ChannelLastUpdate         = "lastupdate"
	ChannelPAC                = "pac"
	ChannelPDC                = "pdc"
	ChannelUAC                = "uac"
	ChannelUDC                = "udc"
	ChannelYieldDay           = "yieldday"
	ChannelYieldYesterday     = "yieldyesterday"
	ChannelYieldMonth         = "yieldmonth"
	ChannelYieldYear          = "yieldyear"
	ChannelYieldTotal         = "yieldtotal"
	ChannelConsPAC            = "conspac"
	ChannelConsYieldDay       = "consyieldday"
	ChannelConsYieldYesterday = "consyieldyesterday"
	ChannelConsYieldMonth     = "consyieldmonth"
	ChannelConsYieldYear      = "consyieldyear"
	ChannelConsYieldTotal     = "consyieldtotal"
	ChannelTotalPower         = "totalpower"
)

var channels = []types.ChannelSpec{
	{Key: "100", ChannelID: ChannelLastUpdate, Type: types.ValueTypeDateTime},
	{Key: "101", ChannelID: ChannelPAC, Type: types.ValueTypeNumber},
	{Key: "102", ChannelID: ChannelPDC, Type: types.ValueTypeNumber},
	{Key: "103", ChannelID: ChannelUAC, Type: types.ValueTypeNumber},
	{Key: "104", ChannelID: ChannelUDC, Type: types.ValueTypeNumber},
	{Key: "105", ChannelID: ChannelYieldDay, Type: types.ValueTypeNumber},
	{Key: "106", ChannelID: ChannelYieldYesterday, Type: types.ValueTypeNumber},
	{Key: "107", ChannelID: ChannelYieldMonth, Type: types.ValueTypeNumber},
	{Key: "108", ChannelID: ChannelYieldYear, Type: types.ValueTypeNumber},
	{Key: "109", ChannelID: ChannelYieldTotal, Type: types.ValueTypeNumber},
	{Key: "110", ChannelID: ChannelConsPAC, Type: types.ValueTypeNumber},
	{Key: "111", ChannelID: ChannelConsYieldDay, Type: types.ValueTypeNumber},
	{Key: "112", ChannelID: ChannelConsYieldYesterday, Type: types.ValueTypeNumber},
	{Key: "113", ChannelID: ChannelConsYieldMonth, Type: types.ValueTypeNumber},
	{Key: "114", ChannelID: ChannelConsYieldYear, Type: types.ValueTypeNumber},
	{Key: "115", ChannelID: ChannelConsYieldTotal, Type: types.ValueTypeNumber},
	{Key: "116", ChannelID: ChannelTotalPower, Type: types.ValueTypeNumber},
}

// Channels returns the channel table in publishing order. The slice is a
// copy.
func Channels() []types.ChannelSpec {
	return append([]types.ChannelSpec(nil), channels...)
}
