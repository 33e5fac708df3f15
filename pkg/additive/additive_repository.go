package additive

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"EcoScan-Backend/entities"
)

type (
	AdditiveRepository interface {
		LoadAdditiveNames(ctx context.Context) ([]string, error)
		AddAdditives(ctx context.Context, names []string) error
	}

	additiveRepository struct {
		db *gorm.DB
	}
)

func NewAdditiveRepository(db *gorm.DB) AdditiveRepository {
	return &additiveRepository{db: db}
}

func (r *additiveRepository) LoadAdditiveNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := r.db.WithContext(ctx).Model(&entities.Additive{}).Order("name asc").Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

// AddAdditives inserts names that are not stored yet.
func (r *additiveRepository) AddAdditives(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	rows := make([]entities.Additive, 0, len(names))
	for _, n := range names {
		rows = append(rows, entities.Additive{Name: n})
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&rows).Error
}
