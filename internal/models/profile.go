package models

import "fmt"

// ItemProfile describes the ideal storage conditions of a perishable item
type ItemProfile struct {
	Label            string  `json:"label" yaml:"label"`
	IdealTemperature float64 `json:"ideal_temperature" yaml:"ideal_temperature"` // Celsius
	IdealHumidity    float64 `json:"ideal_humidity" yaml:"ideal_humidity"`       // Relative humidity, percent
	ShelfLifeDays    int     `json:"shelf_life_days" yaml:"shelf_life_days"`
	Zone             string  `json:"zone" yaml:"zone"` // Single-letter compartment identifier
}

// Validate checks the profile invariants
func (p ItemProfile) Validate() error {
	if p.Label == "" {
		return fmt.Errorf("%w: empty label", ErrInvalidProfile)
	}
	if p.ShelfLifeDays <= 0 {
		return fmt.Errorf("%w: %s shelf life must be positive, got %d", ErrInvalidProfile, p.Label, p.ShelfLifeDays)
	}
	if len(p.Zone) != 1 {
		return fmt.Errorf("%w: %s zone must be a single letter, got %q", ErrInvalidProfile, p.Label, p.Zone)
	}
	return nil
}

// Gas identifies one of the monitored spoilage gases
type Gas string

const (
	GasEthylene Gas = "ethylene"
	GasAmmonia  Gas = "ammonia"
	GasH2S      Gas = "h2s"
	GasCO2      Gas = "co2"
)

// Gases returns the closed set of monitored gases in scoring order
func Gases() []Gas {
	return []Gas{GasEthylene, GasAmmonia, GasH2S, GasCO2}
}

// GasThresholds holds the concentration at which each gas indicates spoilage
type GasThresholds struct {
	Ethylene float64 `json:"ethylene" yaml:"ethylene"`
	Ammonia  float64 `json:"ammonia" yaml:"ammonia"`
	H2S      float64 `json:"h2s" yaml:"h2s"`
	CO2      float64 `json:"co2" yaml:"co2"`
}

// Get returns the threshold for a gas
func (t GasThresholds) Get(g Gas) float64 {
	switch g {
	case GasEthylene:
		return t.Ethylene
	case GasAmmonia:
		return t.Ammonia
	case GasH2S:
		return t.H2S
	case GasCO2:
		return t.CO2
	}
	panic(fmt.Sprintf("models: unknown gas %q", g))
}

// Validate checks that every threshold is strictly positive
func (t GasThresholds) Validate() error {
	for _, g := range Gases() {
		if t.Get(g) <= 0 {
			return fmt.Errorf("%w: %s threshold must be positive, got %v", ErrInvalidThreshold, g, t.Get(g))
		}
	}
	return nil
}

// Built-in storage profiles
var (
	DefaultProfiles = []ItemProfile{
		{Label: "banana", IdealTemperature: 13, IdealHumidity: 85, ShelfLifeDays: 5, Zone: "A"},
		{Label: "tomato", IdealTemperature: 10, IdealHumidity: 80, ShelfLifeDays: 7, Zone: "B"},
		{Label: "onion", IdealTemperature: 4, IdealHumidity: 65, ShelfLifeDays: 30, Zone: "C"},
		{Label: "potato", IdealTemperature: 6, IdealHumidity: 90, ShelfLifeDays: 25, Zone: "D"},
	}

	DefaultGasThresholds = GasThresholds{
		Ethylene: 0.4,
		Ammonia:  0.05,
		H2S:      0.06,
		CO2:      0.2,
	}
)

// DefaultLabel is the profile used for unknown or missing labels
const DefaultLabel = "banana"
