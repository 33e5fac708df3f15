package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"EcoScan-Backend/domain"
	"EcoScan-Backend/entities"
)

type (
	ProductRepository interface {
		FindByBarcode(ctx context.Context, barcode string) (*entities.Food, error)
		FindByReportNo(ctx context.Context, reportNo string) (*entities.Food, error)
		FindByCategory(ctx context.Context, categoryCode, excludeReportNo string, limit int) ([]*entities.Food, error)
		InsertProductTriple(ctx context.Context, food *entities.Food) error
		UpdateImageURL(ctx context.Context, barcode, imageURL string) error
		RefreshDerived(ctx context.Context, barcode string, scores domain.SubScores, additiveCount int, additiveNames []string) error
	}

	productRepository struct {
		db *gorm.DB
	}
)

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// joined loads the product row with its nutrition and recycling rows in a
// single LEFT JOIN query.
func (r *productRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Joins("Nutrition").Joins("Recycling")
}

func (r *productRepository) FindByBarcode(ctx context.Context, barcode string) (*entities.Food, error) {
	var food entities.Food
	if err := r.joined(ctx).Where("foods.barcode = ?", barcode).First(&food).Error; err != nil {
		return nil, err
	}
	return &food, nil
}

func (r *productRepository) FindByReportNo(ctx context.Context, reportNo string) (*entities.Food, error) {
	var food entities.Food
	if err := r.joined(ctx).Where("foods.report_no = ?", reportNo).First(&food).Error; err != nil {
		return nil, err
	}
	return &food, nil
}

func (r *productRepository) FindByCategory(ctx context.Context, categoryCode, excludeReportNo string, limit int) ([]*entities.Food, error) {
	var foods []*entities.Food
	err := r.db.WithContext(ctx).
		Where("category_code = ? AND report_no <> ?", categoryCode, excludeReportNo).
		Order("barcode asc").
		Limit(limit).
		Find(&foods).Error
	if err != nil {
		return nil, err
	}
	return foods, nil
}

// InsertProductTriple writes the product, nutrition and recycling rows
// atomically. A barcode that is already stored yields ErrProductConflict.
func (r *productRepository) InsertProductTriple(ctx context.Context, food *entities.Food) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(food).Error; err != nil {
			return err
		}
		if food.Nutrition != nil {
			food.Nutrition.Barcode = food.Barcode
			if err := tx.Create(food.Nutrition).Error; err != nil {
				return err
			}
		}
		if food.Recycling != nil {
			food.Recycling.Barcode = food.Barcode
			if err := tx.Create(food.Recycling).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s", domain.ErrProductConflict, food.Barcode)
	}
	return err
}

func (r *productRepository) UpdateImageURL(ctx context.Context, barcode, imageURL string) error {
	res := r.db.WithContext(ctx).
		Model(&entities.Food{}).
		Where("barcode = ?", barcode).
		Update("image_url", imageURL)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepository) RefreshDerived(ctx context.Context, barcode string, scores domain.SubScores, additiveCount int, additiveNames []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entities.Food{}).
			Where("barcode = ?", barcode).
			Updates(map[string]interface{}{
				"base_nutrition_score": scores.Nutrition,
				"base_packaging_score": scores.Packaging,
				"base_additives_score": scores.Additives,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&entities.NutritionFact{}).
			Where("barcode = ?", barcode).
			Updates(map[string]interface{}{
				"additive_count": additiveCount,
				"additive_names": strings.Join(additiveNames, ","),
			}).Error
	})
}
