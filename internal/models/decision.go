package models

import "fmt"

// Level is an ordered severity shared by temperature priority and spoilage risk
type Level int

const (
	LevelLow Level = iota
	LevelMedium
	LevelHigh
)

var levelNames = [...]string{"low", "medium", "high"}

// Rank returns the integer position of the level in low < medium < high
func (l Level) Rank() int {
	return int(l)
}

func (l Level) String() string {
	if l < LevelLow || l > LevelHigh {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// MarshalText encodes the level as its lowercase name
func (l Level) MarshalText() ([]byte, error) {
	if l < LevelLow || l > LevelHigh {
		return nil, fmt.Errorf("invalid level %d", int(l))
	}
	return []byte(levelNames[l]), nil
}

// UnmarshalText decodes a lowercase level name
func (l *Level) UnmarshalText(text []byte) error {
	for i, name := range levelNames {
		if string(text) == name {
			*l = Level(i)
			return nil
		}
	}
	return fmt.Errorf("invalid level %q", string(text))
}

// Alert types
const (
	AlertCritical = "Critical Alert"
	AlertWarning  = "Warning Alert"
)

// Alert is a notification raised for an item
type Alert struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// TemperatureOptimization is the temperature adjustment guidance for an item
type TemperatureOptimization struct {
	Priority   Level   `json:"priority"`
	Action     string  `json:"action"`
	Confidence float64 `json:"confidence"`
}

// SpoilageRisk is the gas-based spoilage classification for an item
type SpoilageRisk struct {
	Risk       Level   `json:"risk"`
	Confidence float64 `json:"confidence"`
}

// Recommendation is a textual hint with a confidence score
type Recommendation struct {
	Action     string  `json:"action"`
	Confidence float64 `json:"confidence"`
}

// ItemDecision is the analysis result for one reading
type ItemDecision struct {
	ItemName                string                  `json:"item"`
	Zone                    string                  `json:"zone"`
	Temperature             float64                 `json:"temperature"`
	Humidity                float64                 `json:"humidity"`
	ShelfLifeDays           int                     `json:"shelf_life_days"`
	TemperatureOptimization TemperatureOptimization `json:"temperature_optimization"`
	SpoilageRisk            SpoilageRisk            `json:"spoilage_risk"`
	EnergyOptimization      Recommendation          `json:"energy_optimization"`
	EnergySavings           Recommendation          `json:"energy_savings"`
	Alerts                  []Alert                 `json:"active_alerts"`
}
