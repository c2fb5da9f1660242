package monitoring

import (
	"testing"
	"time"

	"coldstore/internal/models"
)

func TestMonitor_GetMetrics(t *testing.T) {
	m := NewMonitor()
	m.RecordMetric("test_metric", 42)

	metrics := m.GetMetrics()

	value, exists := metrics["test_metric"]
	if !exists {
		t.Fatalf("Expected 'test_metric' to be present in metrics, but it was not")
	}
	if value != 42 {
		t.Errorf("Expected 'test_metric' to be 42, but got %v", value)
	}

	if _, exists = metrics["uptime_seconds"]; !exists {
		t.Errorf("Expected 'uptime_seconds' to be present in metrics, but it was not")
	}
}

func TestMonitor_RecordReport(t *testing.T) {
	m := NewMonitor()

	report := &models.Report{
		ID:          "report-1",
		GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Source:      models.SourceSimulated,
		Dashboard: models.Dashboard{
			Zones: map[string]*models.ZoneSummary{
				"Zone A": {RiskLevel: models.LevelMedium, ItemsStored: 2, Temperature: 13.0, CoolingDuty: 70},
				"Zone C": {RiskLevel: models.LevelLow, ItemsStored: 1, Temperature: 4.2, CoolingDuty: 50},
			},
			Alerts: []models.Alert{{Type: models.AlertWarning, Message: "Banana may spoil soon."}},
		},
	}

	m.RecordReport(report)
	metrics := m.GetMetrics()

	expected := map[string]interface{}{
		"simulated_items":               3,
		"simulated_zones":               2,
		"simulated_alerts":              1,
		"simulated_last_report_id":      "report-1",
		"simulated_last_generated":      "2026-01-02T03:04:05Z",
		"simulated_zone_a_risk_level":   "medium",
		"simulated_zone_a_cooling_duty": 70,
		"simulated_zone_c_temperature":  4.2,
	}
	for k, want := range expected {
		got, exists := metrics[k]
		if !exists {
			t.Errorf("Expected %q to be present in metrics, but it was not", k)
			continue
		}
		if got != want {
			t.Errorf("metrics[%q] = %v, want %v", k, got, want)
		}
	}
}

func TestMonitor_Reset(t *testing.T) {
	m := NewMonitor()
	m.RecordMetric("test_metric", 42)

	m.Reset()

	metrics := m.GetMetrics()
	if _, exists := metrics["test_metric"]; exists {
		t.Errorf("Expected 'test_metric' to be removed after Reset(), but it was present")
	}
	if _, exists := metrics["uptime_seconds"]; !exists {
		t.Errorf("Expected 'uptime_seconds' to be present in metrics, but it was not")
	}
}

func TestMonitor_RecordReportDropsStaleZones(t *testing.T) {
	m := NewMonitor()

	m.RecordReport(&models.Report{
		ID:     "first",
		Source: models.SourceSensor,
		Dashboard: models.Dashboard{
			Zones: map[string]*models.ZoneSummary{
				"Zone A": {RiskLevel: models.LevelHigh, ItemsStored: 1, CoolingDuty: 90},
				"Zone B": {RiskLevel: models.LevelLow, ItemsStored: 1, CoolingDuty: 50},
			},
		},
	})
	m.RecordReport(&models.Report{ID: "other", Source: models.SourceSimulated, Dashboard: models.Dashboard{
		Zones: map[string]*models.ZoneSummary{"Zone D": {RiskLevel: models.LevelLow, ItemsStored: 1, CoolingDuty: 50}},
	}})
	m.RecordReport(&models.Report{
		ID:     "second",
		Source: models.SourceSensor,
		Dashboard: models.Dashboard{
			Zones: map[string]*models.ZoneSummary{
				"Zone B": {RiskLevel: models.LevelMedium, ItemsStored: 1, CoolingDuty: 70},
			},
		},
	})

	for _, stale := range []string{"sensor_zone_a_risk_level", "sensor_zone_a_cooling_duty", "sensor_zone_a_temperature"} {
		if _, exists := m.GetMetric(stale); exists {
			t.Errorf("Expected %q to be cleared by the newer report, but it was present", stale)
		}
	}
	if got, _ := m.GetMetric("sensor_zone_b_cooling_duty"); got != 70 {
		t.Errorf("sensor_zone_b_cooling_duty = %v, want 70", got)
	}
	if got, _ := m.GetMetric("sensor_zones"); got != 1 {
		t.Errorf("sensor_zones = %v, want 1", got)
	}
	// other sources keep their own zones
	if _, exists := m.GetMetric("simulated_zone_d_risk_level"); !exists {
		t.Errorf("Expected 'simulated_zone_d_risk_level' to survive a sensor report, but it was missing")
	}
}
