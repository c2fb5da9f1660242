package monitoring

import (
	"strings"
	"sync"
	"time"

	"coldstore/internal/models"
)

// Monitor keeps an in-memory snapshot of the latest analysis cycles
type Monitor struct {
	metrics      map[string]interface{}
	metricsMutex sync.RWMutex
	startTime    time.Time
}

// NewMonitor creates a new monitoring instance
func NewMonitor() *Monitor {
	return &Monitor{
		metrics:   make(map[string]interface{}),
		startTime: time.Now(),
	}
}

// RecordMetric records a metric value
func (m *Monitor) RecordMetric(name string, value interface{}) {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	m.set(name, value)
}

func (m *Monitor) set(name string, value interface{}) {
	m.metrics[name] = value
}

// GetMetric returns a specific metric value
func (m *Monitor) GetMetric(name string) (interface{}, bool) {
	m.metricsMutex.RLock()
	defer m.metricsMutex.RUnlock()
	value, exists := m.metrics[name]
	return value, exists
}

// GetMetrics returns a copy of all metrics plus the process uptime
func (m *Monitor) GetMetrics() map[string]interface{} {
	m.metricsMutex.RLock()
	defer m.metricsMutex.RUnlock()

	metrics := make(map[string]interface{}, len(m.metrics)+1)
	for k, v := range m.metrics {
		metrics[k] = v
	}
	metrics["uptime_seconds"] = time.Since(m.startTime).Seconds()

	return metrics
}

// Reset clears all metrics
func (m *Monitor) Reset() {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	m.metrics = make(map[string]interface{})
}

// RecordReport stores the summary of a report under its source prefix,
// e.g. "simulated_items", "simulated_zone_a_cooling_duty". Zone keys left by
// earlier reports of the same source are removed first, so the snapshot only
// lists zones present in the latest report.
func (m *Monitor) RecordReport(report *models.Report) {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()

	prefix := report.Source + "_"
	zonesPrefix := prefix + "zone_"
	for name := range m.metrics {
		if strings.HasPrefix(name, zonesPrefix) {
			delete(m.metrics, name)
		}
	}

	items := 0
	for name, zone := range report.Zones {
		items += zone.ItemsStored
		zonePrefix := prefix + zoneKey(name) + "_"
		m.set(zonePrefix+"risk_level", zone.RiskLevel.String())
		m.set(zonePrefix+"cooling_duty", zone.CoolingDuty)
		m.set(zonePrefix+"temperature", zone.Temperature)
	}

	m.set(prefix+"items", items)
	m.set(prefix+"zones", len(report.Zones))
	m.set(prefix+"alerts", len(report.Alerts))
	m.set(prefix+"last_report_id", report.ID)
	m.set(prefix+"last_generated", report.GeneratedAt.Format(time.RFC3339))
}
