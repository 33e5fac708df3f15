package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Food is the product row keyed by barcode. Nutrition and Recycling are
// written together with it in one transaction.
type Food struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Barcode      string    `gorm:"size:50;uniqueIndex;not null" json:"barcode"`
	ReportNo     string    `gorm:"size:50;index" json:"report_no"`
	Name         string    `gorm:"size:300" json:"name"`
	Brand        string    `gorm:"size:300" json:"brand"`
	CategoryCode string    `gorm:"size:32;index" json:"category_code"`
	CategoryName string    `gorm:"size:100" json:"category_name"`
	ImageURL     *string   `gorm:"size:1000" json:"image_url,omitempty"`

	BaseNutritionScore float64 `json:"base_nutrition_score"`
	BasePackagingScore float64 `json:"base_packaging_score"`
	BaseAdditivesScore float64 `json:"base_additives_score"`

	Nutrition *NutritionFact `gorm:"foreignKey:Barcode;references:Barcode;constraint:OnDelete:CASCADE" json:"nutrition,omitempty"`
	Recycling *RecyclingInfo `gorm:"foreignKey:Barcode;references:Barcode;constraint:OnDelete:CASCADE" json:"recycling,omitempty"`
	Timestamp
}

func (f *Food) BeforeCreate(_ *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// NutritionFact keeps the supplier values per serving as received, plus the
// ingredient text and the additives found in it.
type NutritionFact struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Barcode       string    `gorm:"size:50;uniqueIndex;not null" json:"barcode"`
	ServingSize   string    `gorm:"size:50" json:"serving_size"`
	Sodium        string    `gorm:"size:32" json:"sodium"`
	Sugar         string    `gorm:"size:32" json:"sugar"`
	SaturatedFat  string    `gorm:"size:32" json:"saturated_fat"`
	TransFat      string    `gorm:"size:32" json:"trans_fat"`
	RawMaterials  string    `gorm:"type:text" json:"raw_materials"`
	AdditiveCount int       `json:"additive_count"`
	AdditiveNames string    `gorm:"type:text" json:"additive_names"` // comma separated
	Timestamp
}

func (n *NutritionFact) BeforeCreate(_ *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

type RecyclingInfo struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Barcode  string    `gorm:"size:50;uniqueIndex;not null" json:"barcode"`
	Material string    `gorm:"size:200" json:"material"`
	Timestamp
}

func (r *RecyclingInfo) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
