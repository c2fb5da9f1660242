package analysis

import "coldstore/internal/models"

// baseCoolingDuty is the duty cycle of a zone holding only low-risk items
const baseCoolingDuty = 50

var coolingDutyIncrement = map[models.Level]int{
	models.LevelLow:    0,
	models.LevelMedium: 20,
	models.LevelHigh:   40,
}

// CoolingDuty returns the thermoelectric duty percentage for a zone risk level
func CoolingDuty(risk models.Level) int {
	return baseCoolingDuty + coolingDutyIncrement[risk]
}

// ZoneName returns the dashboard key of a zone identifier
func ZoneName(zone string) string {
	return "Zone " + zone
}

// Aggregator groups analysed items by storage zone
type Aggregator struct {
	analyzer *Analyzer
}

// NewAggregator creates an aggregator using the given analyzer
func NewAggregator(analyzer *Analyzer) *Aggregator {
	return &Aggregator{analyzer: analyzer}
}

// Aggregate analyses a batch of readings and builds the zone dashboard.
// Zones appear only when at least one reading maps to them.
func (g *Aggregator) Aggregate(readings []models.RawReading) models.Dashboard {
	dashboard := models.Dashboard{
		Zones:  make(map[string]*models.ZoneSummary),
		Alerts: make([]models.Alert, 0),
	}

	for _, reading := range readings {
		decision := g.analyzer.Analyze(reading)

		key := ZoneName(decision.Zone)
		zone, ok := dashboard.Zones[key]
		if !ok {
			zone = &models.ZoneSummary{Items: make([]models.ItemDecision, 0, 1)}
			dashboard.Zones[key] = zone
		}
		zone.Items = append(zone.Items, decision)
		dashboard.Alerts = append(dashboard.Alerts, decision.Alerts...)
	}

	for _, zone := range dashboard.Zones {
		summarize(zone)
	}
	return dashboard
}

func summarize(zone *models.ZoneSummary) {
	n := float64(len(zone.Items))
	// summing v/n instead of v keeps the mean of large finite readings finite
	var tempMean, humMean float64
	worst := zone.Items[0].SpoilageRisk.Risk
	for _, item := range zone.Items {
		tempMean += item.Temperature / n
		humMean += item.Humidity / n
		// strict comparison keeps the first member on ties
		if item.SpoilageRisk.Risk.Rank() > worst.Rank() {
			worst = item.SpoilageRisk.Risk
		}
	}

	zone.ItemsStored = len(zone.Items)
	zone.Temperature = round(tempMean, 1)
	zone.Humidity = round(humMean, 1)
	zone.RiskLevel = worst
	zone.CoolingDuty = CoolingDuty(worst)
}
