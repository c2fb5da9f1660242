// Package simulation produces synthetic sensor readings for every registered
// item when no live sensor feed is available.
package simulation

import (
	"math/rand"
	"sync"
	"time"

	"coldstore/internal/models"
)

// Window sizes around the profile ideals
const (
	TemperatureSpread = 3.0
	HumiditySpread    = 5.0
)

// Range is a closed interval sampled uniformly
type Range struct {
	Min float64
	Max float64
}

// GasRanges are the plausible concentrations sampled for each gas. The upper
// bounds sit at 1.5x the default thresholds so every risk tier shows up.
var GasRanges = map[models.Gas]Range{
	models.GasEthylene: {Min: 0, Max: 0.6},
	models.GasAmmonia:  {Min: 0, Max: 0.08},
	models.GasH2S:      {Min: 0, Max: 0.09},
	models.GasCO2:      {Min: 0, Max: 0.3},
}

// Simulator generates readings around the ideal parameters of each profile
type Simulator struct {
	registry *models.Registry
	mu       sync.Mutex
	rng      *rand.Rand
}

// NewSimulator creates a simulator. A zero seed uses the current time.
func NewSimulator(registry *models.Registry, seed int64) *Simulator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Simulator{
		registry: registry,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Simulate returns one synthetic reading for a label
func (s *Simulator) Simulate(label string) models.RawReading {
	p := s.registry.Resolve(label)

	s.mu.Lock()
	defer s.mu.Unlock()

	return models.NewReading(
		label,
		s.uniform(Range{p.IdealTemperature - TemperatureSpread, p.IdealTemperature + TemperatureSpread}),
		s.uniform(Range{p.IdealHumidity - HumiditySpread, p.IdealHumidity + HumiditySpread}),
		s.uniform(GasRanges[models.GasEthylene]),
		s.uniform(GasRanges[models.GasAmmonia]),
		s.uniform(GasRanges[models.GasH2S]),
		s.uniform(GasRanges[models.GasCO2]),
	)
}

// Batch returns exactly one reading per registered label
func (s *Simulator) Batch() []models.RawReading {
	labels := s.registry.Labels()
	readings := make([]models.RawReading, 0, len(labels))
	for _, label := range labels {
		readings = append(readings, s.Simulate(label))
	}
	return readings
}

func (s *Simulator) uniform(r Range) float64 {
	return r.Min + s.rng.Float64()*(r.Max-r.Min)
}
