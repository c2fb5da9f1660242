package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoReadings is returned when a payload carries no usable reading
var ErrNoReadings = errors.New("no sensor readings supplied")

// RawReading is one sensor observation of an item. Every field is optional;
// nil values are replaced by profile defaults during analysis.
type RawReading struct {
	Label       *string  `json:"label,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"` // Celsius
	Humidity    *float64 `json:"humidity,omitempty"`    // Percent
	Ethylene    *float64 `json:"ethylene,omitempty"`    // ppm
	Ammonia     *float64 `json:"ammonia,omitempty"`     // ppm
	H2S         *float64 `json:"h2s,omitempty"`         // ppm
	CO2         *float64 `json:"co2,omitempty"`         // percent
}

// Reading is a RawReading with every default applied
type Reading struct {
	Label       string
	Profile     ItemProfile
	Temperature float64
	Humidity    float64
	Gases       map[Gas]float64
}

// Normalize substitutes defaults for missing fields. Unknown labels keep
// their own name but borrow the default profile.
func (r RawReading) Normalize(reg *Registry) Reading {
	label := reg.DefaultLabel()
	if r.Label != nil && *r.Label != "" {
		label = *r.Label
	}
	profile := reg.Resolve(label)

	return Reading{
		Label:       label,
		Profile:     profile,
		Temperature: valueOr(r.Temperature, profile.IdealTemperature),
		Humidity:    valueOr(r.Humidity, profile.IdealHumidity),
		Gases: map[Gas]float64{
			GasEthylene: valueOr(r.Ethylene, 0),
			GasAmmonia:  valueOr(r.Ammonia, 0),
			GasH2S:      valueOr(r.H2S, 0),
			GasCO2:      valueOr(r.CO2, 0),
		},
	}
}

// NewReading builds a fully populated RawReading
func NewReading(label string, temperature, humidity, ethylene, ammonia, h2s, co2 float64) RawReading {
	return RawReading{
		Label:       &label,
		Temperature: &temperature,
		Humidity:    &humidity,
		Ethylene:    &ethylene,
		Ammonia:     &ammonia,
		H2S:         &h2s,
		CO2:         &co2,
	}
}

// ReadingBatch is the wire shape of a batch submission
type ReadingBatch struct {
	Items []RawReading `json:"items"`
}

// ParseReadings decodes either a single reading object or a batch under "items"
func ParseReadings(data []byte) ([]RawReading, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrNoReadings
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode readings: %w", err)
	}
	if fields == nil {
		return nil, ErrNoReadings
	}

	if _, isBatch := fields["items"]; isBatch {
		var batch ReadingBatch
		if err := json.Unmarshal(data, &batch); err != nil {
			return nil, fmt.Errorf("failed to decode reading batch: %w", err)
		}
		if batch.Items == nil {
			batch.Items = []RawReading{}
		}
		return batch.Items, nil
	}

	var reading RawReading
	if err := json.Unmarshal(data, &reading); err != nil {
		return nil, fmt.Errorf("failed to decode reading: %w", err)
	}
	return []RawReading{reading}, nil
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
