package database

import (
	"errors"
	"testing"

	"coldstore/internal/models"

	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *gorm.DB {
	db, err := Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// every sqlite :memory: connection is its own database
	db.DB().SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, Migrate(db))
	return db
}

func TestSeedAndLoadRegistry(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, SeedDefaults(db))
	// seeding twice must not duplicate rows
	require.NoError(t, SeedDefaults(db))

	var count int
	db.Model(&ProfileRecord{}).Count(&count)
	assert.Equal(t, len(models.DefaultProfiles), count)

	reg, err := LoadRegistry(db)
	require.NoError(t, err)

	assert.Equal(t, models.DefaultRegistry().Labels(), reg.Labels())
	assert.Equal(t, "banana", reg.DefaultLabel())
	assert.Equal(t, models.DefaultGasThresholds, reg.Thresholds())
	assert.Equal(t, "C", reg.Resolve("onion").Zone)
}

func TestLoadRegistry_CustomRows(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.Create(&ProfileRecord{Label: "apple", IdealTemperature: 1, IdealHumidity: 92, ShelfLifeDays: 60, Zone: "E", IsDefault: true}).Error)
	for _, g := range models.Gases() {
		require.NoError(t, db.Create(&GasThresholdRecord{Gas: string(g), Threshold: 1}).Error)
	}

	reg, err := LoadRegistry(db)
	require.NoError(t, err)
	assert.Equal(t, []string{"apple"}, reg.Labels())
	assert.Equal(t, "apple", reg.Resolve("unknown").Label)
	assert.Equal(t, 1.0, reg.GasThreshold(models.GasCO2))
}

func TestLoadRegistry_MissingThreshold(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.Create(&ProfileRecord{Label: "apple", ShelfLifeDays: 60, Zone: "E", IsDefault: true}).Error)
	require.NoError(t, db.Create(&GasThresholdRecord{Gas: "ethylene", Threshold: 0.4}).Error)

	_, err := LoadRegistry(db)
	assert.True(t, errors.Is(err, models.ErrInvalidThreshold), "got %v", err)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("mysql", "whatever")
	assert.Error(t, err)
}
