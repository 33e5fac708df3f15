package product

import (
	"strings"

	"EcoScan-Backend/domain"
	"EcoScan-Backend/entities"
)

func toProduct(f *entities.Food) domain.Product {
	p := domain.Product{
		Barcode:      f.Barcode,
		ReportNo:     f.ReportNo,
		Name:         f.Name,
		Brand:        f.Brand,
		CategoryCode: f.CategoryCode,
		CategoryName: f.CategoryName,
		ImageURL:     f.ImageURL,
		Scores: domain.SubScores{
			Nutrition: f.BaseNutritionScore,
			Packaging: f.BasePackagingScore,
			Additives: f.BaseAdditivesScore,
		},
	}
	if n := f.Nutrition; n != nil {
		p.ServingSize = n.ServingSize
		p.Sodium = n.Sodium
		p.Sugar = n.Sugar
		p.SaturatedFat = n.SaturatedFat
		p.TransFat = n.TransFat
		p.RawMaterials = n.RawMaterials
		p.AdditiveCount = n.AdditiveCount
		p.AdditiveNames = splitNames(n.AdditiveNames)
	}
	if r := f.Recycling; r != nil {
		p.PackagingMaterial = r.Material
	}
	return p
}

func toFood(p domain.Product) *entities.Food {
	return &entities.Food{
		Barcode:            p.Barcode,
		ReportNo:           p.ReportNo,
		Name:               p.Name,
		Brand:              p.Brand,
		CategoryCode:       p.CategoryCode,
		CategoryName:       p.CategoryName,
		ImageURL:           p.ImageURL,
		BaseNutritionScore: p.Scores.Nutrition,
		BasePackagingScore: p.Scores.Packaging,
		BaseAdditivesScore: p.Scores.Additives,
		Nutrition: &entities.NutritionFact{
			Barcode:       p.Barcode,
			ServingSize:   p.ServingSize,
			Sodium:        p.Sodium,
			Sugar:         p.Sugar,
			SaturatedFat:  p.SaturatedFat,
			TransFat:      p.TransFat,
			RawMaterials:  p.RawMaterials,
			AdditiveCount: p.AdditiveCount,
			AdditiveNames: strings.Join(p.AdditiveNames, ","),
		},
		Recycling: &entities.RecyclingInfo{
			Barcode:  p.Barcode,
			Material: p.PackagingMaterial,
		},
	}
}

func splitNames(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
