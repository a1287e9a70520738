package prometheus

import (
	"strconv"
	"time"
)

// Refresh outcomes used as the status label.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

var (
	DefaultHTTPDurationBuckets    = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultRefreshDurationBuckets = []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 15, 30}
	DefaultSizeBuckets            = []float64{1 << 10, 16 << 10, 128 << 10, 1 << 20, 8 << 20, 64 << 20}
)

// GrayZoneMetrics holds every series the service exports.
type GrayZoneMetrics struct {
	// HTTP
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec

	// Refresh
	RefreshTotal    CounterVec
	RefreshDuration HistogramVec
	SnapshotBytes   HistogramVec
	SkippedReports  CounterVec

	// View
	VesselsTotal       GaugeVec
	VesselsInZone      GaugeVec
	VesselsSuspicious  GaugeVec
	DarkVesselsOverall GaugeVec
	SuspiciousFlagged  GaugeVec
	IdentityEvents     GaugeVec

	// Side effects
	CacheAccessTotal CounterVec
	PublishTotal     CounterVec
}

func NewGrayZoneMetrics(collector MetricsCollector) *GrayZoneMetrics {
	m := &GrayZoneMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")

	m.RefreshTotal = collector.RegisterCounter("refresh_total", "Snapshot refresh attempts by outcome", "status")
	m.RefreshDuration = collector.RegisterHistogram("refresh_duration_seconds", "Snapshot fetch plus compose duration", DefaultRefreshDurationBuckets)
	m.SnapshotBytes = collector.RegisterHistogram("snapshot_bytes", "Size of fetched snapshot documents", DefaultSizeBuckets)
	m.SkippedReports = collector.RegisterCounter("skipped_reports_total", "Malformed snapshot records dropped", "stage")

	m.VesselsTotal = collector.RegisterGauge("vessels_total", "AIS vessels in the latest batch")
	m.VesselsInZone = collector.RegisterGauge("vessels_in_zone", "AIS vessels per drill zone", "zone")
	m.VesselsSuspicious = collector.RegisterGauge("vessels_suspicious", "AIS vessels with a suspicious flag")
	m.DarkVesselsOverall = collector.RegisterGauge("dark_vessels_overall", "Dark vessel detections in the current period")
	m.SuspiciousFlagged = collector.RegisterGauge("suspicious_flagged", "Vessels flagged by the risk analysis")
	m.IdentityEvents = collector.RegisterGauge("identity_events", "Identity change events per window", "window")

	m.CacheAccessTotal = collector.RegisterCounter("cache_access_total", "View cache operations by result", "op", "result")
	m.PublishTotal = collector.RegisterCounter("publish_total", "Kafka publishes by topic and result", "topic", "result")

	return m
}

// ── recorder methods ──

func (m *GrayZoneMetrics) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordRefresh counts one refresh.  snapshotBytes is ignored on failure.
func (m *GrayZoneMetrics) RecordRefresh(ok bool, duration time.Duration, snapshotBytes int) {
	status := StatusSuccess
	if !ok {
		status = StatusFailure
	}
	m.RefreshTotal.WithLabelValues(status).Inc()
	m.RefreshDuration.WithLabelValues().Observe(duration.Seconds())
	if ok {
		m.SnapshotBytes.WithLabelValues().Observe(float64(snapshotBytes))
	}
}

func (m *GrayZoneMetrics) RecordSkipped(stage string, n int) {
	if n > 0 {
		m.SkippedReports.WithLabelValues(stage).Add(float64(n))
	}
}

// RecordVessels replaces the AIS gauges.  Zones missing from zoneCounts are
// dropped from the vector.
func (m *GrayZoneMetrics) RecordVessels(total, suspicious int, zoneCounts map[string]int) {
	m.VesselsTotal.WithLabelValues().Set(float64(total))
	m.VesselsSuspicious.WithLabelValues().Set(float64(suspicious))
	m.VesselsInZone.Reset()
	for zone, n := range zoneCounts {
		m.VesselsInZone.WithLabelValues(zone).Set(float64(n))
	}
}

func (m *GrayZoneMetrics) RecordDarkOverall(dark int) {
	m.DarkVesselsOverall.WithLabelValues().Set(float64(dark))
}

func (m *GrayZoneMetrics) RecordSuspiciousFlagged(n int) {
	m.SuspiciousFlagged.WithLabelValues().Set(float64(n))
}

func (m *GrayZoneMetrics) RecordIdentityEvents(count24h, count7d int) {
	m.IdentityEvents.WithLabelValues("24h").Set(float64(count24h))
	m.IdentityEvents.WithLabelValues("7d").Set(float64(count7d))
}

func (m *GrayZoneMetrics) RecordCacheAccess(op string, err error) {
	result := StatusSuccess
	if err != nil {
		result = StatusFailure
	}
	m.CacheAccessTotal.WithLabelValues(op, result).Inc()
}

func (m *GrayZoneMetrics) RecordPublish(topic string, err error) {
	result := StatusSuccess
	if err != nil {
		result = StatusFailure
	}
	m.PublishTotal.WithLabelValues(topic, result).Inc()
}

//Personal.AI order the ending
