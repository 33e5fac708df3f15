package migration

import (
	"fmt"

	"gorm.io/gorm"

	"EcoScan-Backend/entities"
)

func Migrate(db *gorm.DB) error {
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
			return fmt.Errorf("creating uuid extension: %w", err)
		}
	}

	models := []struct {
		name  string
		model interface{}
	}{
		{"food", &entities.Food{}},
		{"nutrition fact", &entities.NutritionFact{}},
		{"recycling info", &entities.RecyclingInfo{}},
		{"additive", &entities.Additive{}},
		{"scan history", &entities.ScanHistory{}},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m.model); err != nil {
			return fmt.Errorf("migrating %s table: %w", m.name, err)
		}
	}
	return nil
}
