package domain

import (
	"errors"
	"time"
)

const (
	MinPriority = -8
	MaxPriority = 8
)

var (
	MessageSuccessGradeProduct   = "product graded successfully"
	MessageSuccessCalculateGrade = "grade calculated successfully"

	MessageFailedGradeProduct   = "failed to grade product"
	MessageFailedCalculateGrade = "failed to calculate grade"

	ErrInvalidPriority = errors.New("priority must be between -8 and 8")
)

type (
	// Weights are the relative importance of each sub-score and sum to 1.
	Weights struct {
		Packaging float64 `json:"packaging"`
		Additives float64 `json:"additives"`
		Nutrition float64 `json:"nutrition"`
	}

	// Priorities are signed pairwise comparisons. Zero means equal; a
	// positive value favours the right-hand factor, a negative one the left.
	Priorities struct {
		PkgVsAdd int `json:"pkg_vs_add" query:"pkg_vs_add" validate:"min=-8,max=8"`
		PkgVsNut int `json:"pkg_vs_nut" query:"pkg_vs_nut" validate:"min=-8,max=8"`
		AddVsNut int `json:"add_vs_nut" query:"add_vs_nut" validate:"min=-8,max=8"`
	}

	GradeResult struct {
		ID          string    `json:"id,omitempty"`
		UserID      string    `json:"user_id,omitempty"`
		Barcode     string    `json:"barcode,omitempty"`
		ReportNo    string    `json:"report_no,omitempty"`
		ProductName string    `json:"product_name,omitempty"`
		Scores      SubScores `json:"scores"`
		Weights     Weights   `json:"weights"`
		TotalScore  float64   `json:"total_score"`
		Grade       string    `json:"grade"`
		ScannedAt   time.Time `json:"scanned_at"`
	}

	// ComputeGradeInput carries one grading action. Product is nil when the
	// sub-scores were supplied directly by the caller.
	ComputeGradeInput struct {
		UserID     string
		Product    *Product
		Scores     SubScores
		Priorities *Priorities
		Save       bool
	}

	GradeProductRequest struct {
		Priorities  *Priorities `json:"priorities"`
		SaveHistory *bool       `json:"save_history"`
	}

	CalculateGradeRequest struct {
		NutritionScore float64     `json:"nutrition_score" validate:"gte=-100,lte=100"`
		PackagingScore float64     `json:"packaging_score" validate:"gte=0,lte=100"`
		AdditivesScore float64     `json:"additives_score" validate:"gte=0,lte=100"`
		Priorities     *Priorities `json:"priorities"`
	}
)
