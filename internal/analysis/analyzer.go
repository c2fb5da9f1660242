// Package analysis holds the rule engine that turns cold-storage sensor
// readings into per-item decisions and per-zone dashboards.
package analysis

import (
	"fmt"
	"math"

	"coldstore/internal/models"
)

// Rule constants
const (
	optimalBand          = 1.0 // |diff| below this is considered optimal
	baseTempConfidence   = 0.8
	mediumSpoilageScore  = 0.6
	highSpoilageScore    = 1.0
	coolingScheduleConf  = 0.85
	zonePatternConf      = 0.8
	optimalAction        = "Temperature is optimal for this product."
	coolingScheduleHint  = "Schedule cooling during peak solar hours to maximize renewable energy usage."
	zonePatternHint      = "Optimize zone patterns to save energy while maintaining product quality."
	reduceActionFormat   = "Reduce temperature by %.1f°C to prevent spoilage and save energy."
	increaseActionFormat = "Increase temperature by %.1f°C to save energy while maintaining quality."
)

// Analyzer evaluates single readings against the profile registry
type Analyzer struct {
	registry *models.Registry
}

// NewAnalyzer creates an analyzer bound to a registry
func NewAnalyzer(registry *models.Registry) *Analyzer {
	return &Analyzer{registry: registry}
}

// Registry returns the registry used for profile resolution
func (a *Analyzer) Registry() *models.Registry {
	return a.registry
}

// Analyze converts one raw reading into a decision record
func (a *Analyzer) Analyze(raw models.RawReading) models.ItemDecision {
	r := raw.Normalize(a.registry)
	name := models.DisplayName(r.Label)

	temp := a.temperatureOptimization(r)
	spoilage := a.spoilageRisk(r)

	return models.ItemDecision{
		ItemName:                name,
		Zone:                    r.Profile.Zone,
		Temperature:             r.Temperature,
		Humidity:                r.Humidity,
		ShelfLifeDays:           r.Profile.ShelfLifeDays,
		TemperatureOptimization: temp,
		SpoilageRisk:            spoilage,
		EnergyOptimization:      models.Recommendation{Action: coolingScheduleHint, Confidence: coolingScheduleConf},
		EnergySavings:           models.Recommendation{Action: zonePatternHint, Confidence: zonePatternConf},
		Alerts:                  alertsFor(name, temp, spoilage),
	}
}

func (a *Analyzer) temperatureOptimization(r models.Reading) models.TemperatureOptimization {
	diff := r.Temperature - r.Profile.IdealTemperature
	abs := math.Abs(diff)

	out := models.TemperatureOptimization{
		Confidence: round(math.Min(1.0, baseTempConfidence+abs/10), 3),
	}
	switch {
	case abs < optimalBand:
		out.Priority = models.LevelLow
		out.Action = optimalAction
	case diff > 0:
		out.Priority = models.LevelHigh
		out.Action = fmt.Sprintf(reduceActionFormat, abs)
	default:
		out.Priority = models.LevelMedium
		out.Action = fmt.Sprintf(increaseActionFormat, abs)
	}
	return out
}

// GasScore is the mean of every gas reading normalised by its threshold
func (a *Analyzer) GasScore(r models.Reading) float64 {
	gases := models.Gases()
	var sum float64
	for _, g := range gases {
		sum += r.Gases[g] / a.registry.GasThreshold(g)
	}
	return sum / float64(len(gases))
}

func (a *Analyzer) spoilageRisk(r models.Reading) models.SpoilageRisk {
	score := a.GasScore(r)

	// Ratios that overflow leave no usable score. Anything not clearly
	// below zero is treated as the worst case.
	if math.IsNaN(score) || math.IsInf(score, 0) {
		if math.IsInf(score, -1) {
			return models.SpoilageRisk{Risk: models.LevelLow, Confidence: 0}
		}
		return models.SpoilageRisk{Risk: models.LevelHigh, Confidence: 1}
	}

	risk := models.LevelHigh
	switch {
	case score < mediumSpoilageScore:
		risk = models.LevelLow
	case score < highSpoilageScore:
		risk = models.LevelMedium
	}
	return models.SpoilageRisk{
		Risk:       risk,
		Confidence: round(math.Min(1.0, score), 3),
	}
}

func alertsFor(name string, temp models.TemperatureOptimization, spoilage models.SpoilageRisk) []models.Alert {
	alerts := make([]models.Alert, 0, 2)

	switch spoilage.Risk {
	case models.LevelHigh:
		alerts = append(alerts, models.Alert{Type: models.AlertCritical, Message: name + " spoilage risk detected!"})
	case models.LevelMedium:
		alerts = append(alerts, models.Alert{Type: models.AlertWarning, Message: name + " may spoil soon."})
	}

	if temp.Priority == models.LevelHigh {
		alerts = append(alerts, models.Alert{Type: models.AlertWarning, Message: name + " zone temperature exceeds safe range!"})
	}
	return alerts
}

// round keeps values too large to scale as they are; they carry no
// fractional digits anyway.
func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	scaled := v * scale
	if math.IsInf(scaled, 0) || math.IsNaN(scaled) {
		return v
	}
	return math.Round(scaled) / scale
}
