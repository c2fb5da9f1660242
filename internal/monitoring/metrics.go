package monitoring

import (
	"net/http"
	"strings"
	"time"

	"coldstore/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector exports analysis metrics on a private Prometheus registry
type MetricsCollector struct {
	registry *prometheus.Registry

	readingsAnalyzed *prometheus.CounterVec
	alertsRaised     *prometheus.CounterVec
	coolingDuty      *prometheus.GaugeVec
	zoneRisk         *prometheus.GaugeVec
	cycleDuration    *prometheus.HistogramVec
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector() *MetricsCollector {
	m := &MetricsCollector{
		registry: prometheus.NewRegistry(),
		readingsAnalyzed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coldstore_readings_analyzed_total",
				Help: "Sensor readings analysed",
			},
			[]string{"source"},
		),
		alertsRaised: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coldstore_alerts_total",
				Help: "Alerts raised by the rule engine",
			},
			[]string{"type"},
		),
		coolingDuty: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "coldstore_zone_cooling_duty_percent",
				Help: "Recommended cooling duty cycle per zone",
			},
			[]string{"zone", "source"},
		),
		zoneRisk: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "coldstore_zone_risk_rank",
				Help: "Worst spoilage risk per zone (0=low, 1=medium, 2=high)",
			},
			[]string{"zone", "source"},
		),
		cycleDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "coldstore_analysis_duration_seconds",
				Help:    "Time taken to analyse a batch",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"source"},
		),
	}

	m.registry.MustRegister(
		m.readingsAnalyzed,
		m.alertsRaised,
		m.coolingDuty,
		m.zoneRisk,
		m.cycleDuration,
	)
	return m
}

// ObserveReport records the outcome of one analysis cycle
func (m *MetricsCollector) ObserveReport(report *models.Report, elapsed time.Duration) {
	items := 0
	for name, zone := range report.Zones {
		items += zone.ItemsStored
		key := zoneKey(name)
		m.coolingDuty.WithLabelValues(key, report.Source).Set(float64(zone.CoolingDuty))
		m.zoneRisk.WithLabelValues(key, report.Source).Set(float64(zone.RiskLevel.Rank()))
	}
	for _, alert := range report.Alerts {
		m.alertsRaised.WithLabelValues(alert.Type).Inc()
	}
	m.readingsAnalyzed.WithLabelValues(report.Source).Add(float64(items))
	m.cycleDuration.WithLabelValues(report.Source).Observe(elapsed.Seconds())
}

// Registry returns the underlying Prometheus registry
func (m *MetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the collected metrics in the Prometheus exposition format
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// zoneKey turns a dashboard zone name into a label-friendly key: "Zone A" -> "zone_a"
func zoneKey(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", "_"))
}
