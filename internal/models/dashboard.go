package models

import "time"

// ZoneSummary aggregates the items stored in one compartment
type ZoneSummary struct {
	RiskLevel   Level          `json:"risk_level"`
	ItemsStored int            `json:"items_stored"`
	Temperature float64        `json:"temperature"`
	Humidity    float64        `json:"humidity"`
	CoolingDuty int            `json:"cooling_duty"` // Percent of time the thermoelectric module runs
	Items       []ItemDecision `json:"items"`
}

// Dashboard is the result of one analysis cycle
type Dashboard struct {
	Zones  map[string]*ZoneSummary `json:"storage_compartments"`
	Alerts []Alert                 `json:"active_alerts"`
}

// Report sources
const (
	SourceSensor    = "sensor"
	SourceSimulated = "simulated"
)

// Report wraps a dashboard with the identity of the cycle that produced it
type Report struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`
	Source      string    `json:"source"`
	Dashboard
}
