package domain

import (
	"errors"
	"mime/multipart"
)

var (
	MessageSuccessGetProduct     = "product retrieved successfully"
	MessageSuccessAnalyzeProduct = "product analyzed successfully"
	MessageSuccessUpdateImage    = "product image updated successfully"
	MessageSuccessRescoreProduct = "product scores refreshed successfully"
	MessageSuccessReloadAdditive = "additive vocabulary reloaded successfully"

	MessageFailedGetProduct     = "failed to retrieve product"
	MessageFailedAnalyzeProduct = "failed to analyze product"
	MessageFailedUpdateImage    = "failed to update product image"
	MessageFailedRescoreProduct = "failed to refresh product scores"
	MessageFailedReloadAdditive = "failed to reload additive vocabulary"

	ErrProductNotFound     = errors.New("product not found")
	ErrNutritionNotFound   = errors.New("nutrition facts not found")
	ErrUpstreamUnavailable = errors.New("upstream data source unavailable")
	ErrProductConflict     = errors.New("product already stored")
	ErrInvalidBarcode      = errors.New("invalid barcode")
	ErrMissingImage        = errors.New("either image_url or image is required")
)

type (
	// Product is the normalized record of one barcode. Supplier values are
	// kept as received; Scores holds the base sub-scores derived from them.
	Product struct {
		Barcode      string  `json:"barcode"`
		ReportNo     string  `json:"report_no"`
		Name         string  `json:"name"`
		Brand        string  `json:"brand"`
		CategoryCode string  `json:"category_code"`
		CategoryName string  `json:"category_name"`
		ImageURL     *string `json:"image_url"`

		ServingSize  string `json:"serving_size"`
		Sodium       string `json:"sodium"`
		Sugar        string `json:"sugar"`
		SaturatedFat string `json:"saturated_fat"`
		TransFat     string `json:"trans_fat"`

		PackagingMaterial string   `json:"packaging_material"`
		RawMaterials      string   `json:"raw_materials"`
		AdditiveCount     int      `json:"additive_count"`
		AdditiveNames     []string `json:"additive_names"`

		Scores SubScores `json:"scores"`
	}

	SubScores struct {
		Nutrition float64 `json:"nutrition"`
		Packaging float64 `json:"packaging"`
		Additives float64 `json:"additives"`
	}

	ComponentScore struct {
		Value *float64 `json:"value"`
		Score float64  `json:"score"`
	}

	NutritionBreakdown struct {
		ServingML    float64        `json:"serving_ml"`
		Scale        float64        `json:"scale"`
		Sodium       ComponentScore `json:"sodium"`
		Sugar        ComponentScore `json:"sugar"`
		SaturatedFat ComponentScore `json:"saturated_fat"`
		TransFat     ComponentScore `json:"trans_fat"`
		Score        float64        `json:"score"`
	}

	PackagingBreakdown struct {
		Raw      string  `json:"raw"`
		Material string  `json:"material"`
		Score    float64 `json:"score"`
	}

	AdditivesBreakdown struct {
		Count int      `json:"count"`
		Names []string `json:"names"`
		Score float64  `json:"score"`
	}

	Analysis struct {
		Barcode   string             `json:"barcode"`
		Name      string             `json:"name"`
		Scores    SubScores          `json:"scores"`
		Nutrition NutritionBreakdown `json:"nutrition"`
		Packaging PackagingBreakdown `json:"packaging"`
		Additives AdditivesBreakdown `json:"additives"`
	}

	UpdateImageRequest struct {
		ImageURL string                `json:"image_url" form:"image_url" validate:"omitempty,url"`
		Image    *multipart.FileHeader `json:"-" form:"image"`
	}

	UpdateImageResponse struct {
		Barcode  string `json:"barcode"`
		ImageURL string `json:"image_url"`
	}

	ReloadAdditivesResponse struct {
		Count int `json:"count"`
	}
)
