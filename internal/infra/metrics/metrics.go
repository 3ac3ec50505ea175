// Package metrics collects and exposes Prometheus metrics for the expiry scan.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records scan and notification counters.
type Collector struct {
	scanTicks   prometheus.Counter
	notifSent   prometheus.Counter
	notifFailed prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		scanTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "poa_tracker_scan_ticks_total",
			Help: "Total number of completed expiry scan ticks.",
		}),
		notifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "poa_tracker_notifications_sent_total",
			Help: "Total number of expiry notifications delivered.",
		}),
		notifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "poa_tracker_notifications_failed_total",
			Help: "Total number of expiry notifications that failed to deliver.",
		}),
	}

	reg.MustRegister(c.scanTicks, c.notifSent, c.notifFailed)

	return c
}

// RecordScanTick counts one completed scan tick.
func (c *Collector) RecordScanTick() {
	c.scanTicks.Inc()
}

// RecordNotificationSent counts one delivered notification.
func (c *Collector) RecordNotificationSent() {
	c.notifSent.Inc()
}

// RecordNotificationFailed counts one failed delivery attempt.
func (c *Collector) RecordNotificationFailed() {
	c.notifFailed.Inc()
}

// Handler returns the HTTP handler serving the Prometheus scrape endpoint.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
