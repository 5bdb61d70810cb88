// Package metrics exports device channels and connectivity as Prometheus
// metrics.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/raterudder/solarlog/pkg/types"
)

// Exporter receives channel states and statuses and keeps them as gauges.
// Text channels have no numeric form and are not exported.
type Exporter struct {
	registry *prometheus.Registry

	channelValue     *prometheus.GaugeVec
	channelTimestamp *prometheus.GaugeVec
	online           *prometheus.GaugeVec
	refreshes        *prometheus.CounterVec
	lastRefresh      *prometheus.GaugeVec
}

// NewExporter returns an exporter with its own registry.
func NewExporter() *Exporter {
	e := &Exporter{
		registry: prometheus.NewRegistry(),
		channelValue: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "solarlog_channel_value",
				Help: "Latest numeric value of a channel",
			},
			[]string{"device", "channel"},
		),
		channelTimestamp: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "solarlog_channel_timestamp_seconds",
				Help: "Latest timestamp value of a channel as seconds since the epoch, reading the device wall clock as UTC",
			},
			[]string{"device", "channel"},
		),
		online: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "solarlog_online",
				Help: "1 if the last refresh of the device succeeded, 0 if it failed",
			},
			[]string{"device"},
		),
		refreshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solarlog_refresh_total",
				Help: "Number of refreshes by resulting status",
			},
			[]string{"device", "status"},
		),
		lastRefresh: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "solarlog_last_refresh_timestamp_seconds",
				Help: "Unix timestamp of the last refresh",
			},
			[]string{"device"},
		),
	}
	e.registry.MustRegister(e.channelValue, e.channelTimestamp, e.online, e.refreshes, e.lastRefresh)
	return e
}

// SetChannelState sets the channel gauge for number and datetime values. A
// channel that degraded to text is removed so a stale reading is not
// reported.
func (e *Exporter) SetChannelState(ctx context.Context, deviceID string, update types.ChannelUpdate) error {
	switch update.Value.Type {
	case types.ValueTypeNumber:
		d, _ := update.Value.Number()
		e.channelValue.WithLabelValues(deviceID, update.ChannelID).Set(d.InexactFloat64())
	case types.ValueTypeDateTime:
		ts, _ := update.Value.Time()
		e.channelTimestamp.WithLabelValues(deviceID, update.ChannelID).Set(float64(ts.Unix()))
	case types.ValueTypeText:
		e.channelValue.DeleteLabelValues(deviceID, update.ChannelID)
		e.channelTimestamp.DeleteLabelValues(deviceID, update.ChannelID)
	}
	return nil
}

// SetStatus records the outcome of a refresh.
func (e *Exporter) SetStatus(ctx context.Context, deviceID string, status types.Status) error {
	var online float64
	if status.State == types.StatusOnline {
		online = 1
	}
	e.online.WithLabelValues(deviceID).Set(online)
	e.refreshes.WithLabelValues(deviceID, status.State.String()).Inc()
	e.lastRefresh.WithLabelValues(deviceID).SetToCurrentTime()
	return nil
}

// Handler serves the exporter's registry.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}
