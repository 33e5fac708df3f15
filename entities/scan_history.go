package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ScanHistory struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID      string    `gorm:"size:64;index;not null" json:"user_id"`
	Barcode     string    `gorm:"size:50;index" json:"barcode"`
	ReportNo    string    `gorm:"size:50" json:"report_no"`
	ProductName string    `gorm:"size:300" json:"product_name"`

	NutritionScore float64 `json:"nutrition_score"`
	PackagingScore float64 `json:"packaging_score"`
	AdditivesScore float64 `json:"additives_score"`

	PackagingWeight float64 `json:"packaging_weight"`
	AdditivesWeight float64 `json:"additives_weight"`
	NutritionWeight float64 `json:"nutrition_weight"`

	TotalScore float64   `json:"total_score"`
	Grade      string    `gorm:"size:2" json:"grade"`
	ScannedAt  time.Time `gorm:"index" json:"scanned_at"`
	Timestamp
}

func (s *ScanHistory) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
