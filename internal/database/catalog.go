package database

import (
	"fmt"

	"coldstore/internal/models"

	"github.com/jinzhu/gorm"
)

// ProfileRecord is the stored form of an item profile
type ProfileRecord struct {
	gorm.Model
	Label            string  `gorm:"column:label;unique_index"`
	IdealTemperature float64 `gorm:"column:ideal_temperature"`
	IdealHumidity    float64 `gorm:"column:ideal_humidity"`
	ShelfLifeDays    int     `gorm:"column:shelf_life_days"`
	Zone             string  `gorm:"column:zone;size:1"`
	IsDefault        bool    `gorm:"column:is_default"`
}

// TableName sets the profile table name
func (ProfileRecord) TableName() string {
	return "item_profiles"
}

// GasThresholdRecord is the stored spoilage threshold of one gas
type GasThresholdRecord struct {
	gorm.Model
	Gas       string  `gorm:"column:gas;unique_index"`
	Threshold float64 `gorm:"column:threshold"`
}

// TableName sets the threshold table name
func (GasThresholdRecord) TableName() string {
	return "gas_thresholds"
}

// Migrate creates the catalog tables
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&ProfileRecord{}, &GasThresholdRecord{}).Error; err != nil {
		return fmt.Errorf("failed to migrate catalog: %w", err)
	}
	return nil
}

// SeedDefaults fills empty catalog tables with the built-in profiles and thresholds
func SeedDefaults(db *gorm.DB) error {
	var profileCount int
	if err := db.Model(&ProfileRecord{}).Count(&profileCount).Error; err != nil {
		return fmt.Errorf("failed to count profiles: %w", err)
	}
	if profileCount == 0 {
		for _, p := range models.DefaultProfiles {
			rec := ProfileRecord{
				Label:            p.Label,
				IdealTemperature: p.IdealTemperature,
				IdealHumidity:    p.IdealHumidity,
				ShelfLifeDays:    p.ShelfLifeDays,
				Zone:             p.Zone,
				IsDefault:        p.Label == models.DefaultLabel,
			}
			if err := db.Create(&rec).Error; err != nil {
				return fmt.Errorf("failed to seed profile %s: %w", p.Label, err)
			}
		}
	}

	var thresholdCount int
	if err := db.Model(&GasThresholdRecord{}).Count(&thresholdCount).Error; err != nil {
		return fmt.Errorf("failed to count gas thresholds: %w", err)
	}
	if thresholdCount == 0 {
		for _, g := range models.Gases() {
			rec := GasThresholdRecord{Gas: string(g), Threshold: models.DefaultGasThresholds.Get(g)}
			if err := db.Create(&rec).Error; err != nil {
				return fmt.Errorf("failed to seed %s threshold: %w", g, err)
			}
		}
	}
	return nil
}

// LoadRegistry reads the catalog tables and builds an immutable registry
func LoadRegistry(db *gorm.DB) (*models.Registry, error) {
	var records []ProfileRecord
	if err := db.Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}

	profiles := make([]models.ItemProfile, 0, len(records))
	defaultLabel := ""
	for _, r := range records {
		profiles = append(profiles, models.ItemProfile{
			Label:            r.Label,
			IdealTemperature: r.IdealTemperature,
			IdealHumidity:    r.IdealHumidity,
			ShelfLifeDays:    r.ShelfLifeDays,
			Zone:             r.Zone,
		})
		if r.IsDefault && defaultLabel == "" {
			defaultLabel = r.Label
		}
	}

	var thresholdRecords []GasThresholdRecord
	if err := db.Find(&thresholdRecords).Error; err != nil {
		return nil, fmt.Errorf("failed to load gas thresholds: %w", err)
	}
	thresholds, err := collectThresholds(thresholdRecords)
	if err != nil {
		return nil, err
	}

	return models.NewRegistry(profiles, defaultLabel, thresholds)
}

func collectThresholds(records []GasThresholdRecord) (models.GasThresholds, error) {
	var t models.GasThresholds
	for _, r := range records {
		switch models.Gas(r.Gas) {
		case models.GasEthylene:
			t.Ethylene = r.Threshold
		case models.GasAmmonia:
			t.Ammonia = r.Threshold
		case models.GasH2S:
			t.H2S = r.Threshold
		case models.GasCO2:
			t.CO2 = r.Threshold
		default:
			return t, fmt.Errorf("%w: unknown gas %q in catalog", models.ErrInvalidThreshold, r.Gas)
		}
	}
	return t, nil
}
