package analysis

import (
	"encoding/json"
	"math"
	"testing"

	"coldstore/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAggregator() *Aggregator {
	return NewAggregator(NewAnalyzer(models.DefaultRegistry()))
}

func TestCoolingDuty_Monotonic(t *testing.T) {
	assert.Equal(t, 50, CoolingDuty(models.LevelLow))
	assert.Equal(t, 70, CoolingDuty(models.LevelMedium))
	assert.Equal(t, 90, CoolingDuty(models.LevelHigh))
	assert.Less(t, CoolingDuty(models.LevelLow), CoolingDuty(models.LevelMedium))
	assert.Less(t, CoolingDuty(models.LevelMedium), CoolingDuty(models.LevelHigh))
}

func TestAggregate_EmptyBatch(t *testing.T) {
	g := newTestAggregator()

	for _, batch := range [][]models.RawReading{nil, {}} {
		d := g.Aggregate(batch)
		assert.NotNil(t, d.Zones)
		assert.Empty(t, d.Zones)
		assert.NotNil(t, d.Alerts)
		assert.Empty(t, d.Alerts)
	}
}

func TestAggregate_SingleItemIsIdentity(t *testing.T) {
	g := newTestAggregator()

	d := g.Aggregate([]models.RawReading{models.NewReading("potato", 7.5, 88.2, 0, 0, 0, 0)})

	require.Len(t, d.Zones, 1)
	zone := d.Zones["Zone D"]
	require.NotNil(t, zone)
	assert.Equal(t, 1, zone.ItemsStored)
	assert.Equal(t, 7.5, zone.Temperature)
	assert.Equal(t, 88.2, zone.Humidity)
	assert.Equal(t, models.LevelLow, zone.RiskLevel)
	assert.Equal(t, 50, zone.CoolingDuty)
}

func TestAggregate_AveragesTwoBananas(t *testing.T) {
	g := newTestAggregator()

	d := g.Aggregate([]models.RawReading{
		models.NewReading("banana", 12, 84, 0, 0, 0, 0),
		models.NewReading("banana", 14, 87, 0, 0, 0, 0),
	})

	zone := d.Zones["Zone A"]
	require.NotNil(t, zone)
	assert.Equal(t, 2, zone.ItemsStored)
	assert.Equal(t, 13.0, zone.Temperature)
	assert.Equal(t, 85.5, zone.Humidity)
}

func TestAggregate_WorstRiskAndDuty(t *testing.T) {
	g := newTestAggregator()
	th := models.DefaultGasThresholds

	d := g.Aggregate([]models.RawReading{
		models.NewReading("tomato", 10, 80, 0, 0, 0, 0),
		models.NewReading("tomato", 10, 80, th.Ethylene*0.7, th.Ammonia*0.7, th.H2S*0.7, th.CO2*0.7),
		models.NewReading("onion", 4, 65, th.Ethylene, th.Ammonia, th.H2S, th.CO2),
	})

	require.Len(t, d.Zones, 2)
	assert.Equal(t, models.LevelMedium, d.Zones["Zone B"].RiskLevel)
	assert.Equal(t, 70, d.Zones["Zone B"].CoolingDuty)
	assert.Equal(t, models.LevelHigh, d.Zones["Zone C"].RiskLevel)
	assert.Equal(t, 90, d.Zones["Zone C"].CoolingDuty)
	assert.NotContains(t, d.Zones, "Zone A")
	assert.NotContains(t, d.Zones, "Zone D")
}

func TestAggregate_PreservesOrder(t *testing.T) {
	g := newTestAggregator()
	th := models.DefaultGasThresholds

	d := g.Aggregate([]models.RawReading{
		models.NewReading("banana", 20, 85, th.Ethylene, th.Ammonia, th.H2S, th.CO2),
		models.NewReading("potato", 6, 90, 0, 0, 0, 0),
		models.NewReading("kiwi", 13, 85, 0, 0, 0, 0),
		models.NewReading("tomato", 15, 80, 0, 0, 0, 0),
	})

	zoneA := d.Zones["Zone A"]
	require.Len(t, zoneA.Items, 2)
	assert.Equal(t, "Banana", zoneA.Items[0].ItemName)
	assert.Equal(t, "Kiwi", zoneA.Items[1].ItemName)

	assert.Equal(t, []models.Alert{
		{Type: models.AlertCritical, Message: "Banana spoilage risk detected!"},
		{Type: models.AlertWarning, Message: "Banana zone temperature exceeds safe range!"},
		{Type: models.AlertWarning, Message: "Tomato zone temperature exceeds safe range!"},
	}, d.Alerts)
}

func TestAggregate_RoundsAverages(t *testing.T) {
	g := newTestAggregator()

	d := g.Aggregate([]models.RawReading{
		models.NewReading("onion", 4.04, 64, 0, 0, 0, 0),
		models.NewReading("onion", 4.1, 65, 0, 0, 0, 0),
		models.NewReading("onion", 4.2, 65, 0, 0, 0, 0),
	})

	zone := d.Zones["Zone C"]
	assert.Equal(t, 4.1, zone.Temperature)
	assert.Equal(t, 64.7, zone.Humidity)
}

func TestAggregate_LargeReadingsKeepFiniteAverages(t *testing.T) {
	g := newTestAggregator()

	d := g.Aggregate([]models.RawReading{
		models.NewReading("banana", 1.7e308, 1e308, 0, 0, 0, 0),
		models.NewReading("banana", 1.7e308, 1e308, 0, 0, 0, 0),
	})

	zone := d.Zones["Zone A"]
	assert.False(t, math.IsInf(zone.Temperature, 0))
	assert.InDelta(t, 1.7e308, zone.Temperature, 1e294)
	assert.InDelta(t, 1e308, zone.Humidity, 1e294)

	_, err := json.Marshal(d)
	assert.NoError(t, err)
}
