package scoring

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"EcoScan-Backend/domain"
)

type band struct {
	low, high float64
	score     float64
}

var (
	sodiumBands = []band{
		{0, 50, 100}, {50, 120, 85}, {120, 200, 70},
		{200, 400, 50}, {400, 600, 25}, {600, math.Inf(1), 0},
	}
	sugarBands = []band{
		{0, 1, 100}, {1, 5, 85}, {5, 10, 70},
		{10, 15, 50}, {15, 22.5, 25}, {22.5, math.Inf(1), 0},
	}
	saturatedFatBands = []band{
		{0, 1, 40}, {1, 3, 25}, {3, 5, 10}, {5, math.Inf(1), -15},
	}

	packagingScores = map[Material]float64{
		MaterialGlass:     95,
		MaterialMetal:     95,
		MaterialPET:       85,
		MaterialPP:        60,
		MaterialPS:        20,
		MaterialComposite: 10,
	}

	servingNumber = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
)

const (
	transFatFreeScore  = 25
	transFatHighScore  = -50
	transFatHighLimit  = 0.1
	additivePenalty    = 10
	referenceServingML = 100
)

// Calculate derives the three base sub-scores of a product together with the
// intermediate values they were computed from.
func Calculate(p domain.Product) domain.Analysis {
	nutrition := NutritionBreakdown(p.ServingSize, p.Sodium, p.Sugar, p.SaturatedFat, p.TransFat)

	material := NormalizeMaterial(p.PackagingMaterial)
	packaging := domain.PackagingBreakdown{
		Raw:      p.PackagingMaterial,
		Material: string(material),
		Score:    PackagingScore(material),
	}

	additives := domain.AdditivesBreakdown{
		Count: p.AdditiveCount,
		Names: p.AdditiveNames,
		Score: AdditivesScore(p.AdditiveCount),
	}

	return domain.Analysis{
		Barcode: p.Barcode,
		Name:    p.Name,
		Scores: domain.SubScores{
			Nutrition: nutrition.Score,
			Packaging: packaging.Score,
			Additives: additives.Score,
		},
		Nutrition: nutrition,
		Packaging: packaging,
		Additives: additives,
	}
}

// NutritionBreakdown scales the per-serving amounts to 100 ml and averages
// the four banded component scores.
func NutritionBreakdown(serving, sodium, sugar, saturatedFat, transFat string) domain.NutritionBreakdown {
	ml := ParseServingSize(serving)
	scale := 1.0
	if ml > 0 {
		scale = referenceServingML / ml
	}

	out := domain.NutritionBreakdown{ServingML: ml, Scale: scale}
	out.Sodium = banded(sodium, scale, sodiumBands)
	out.Sugar = banded(sugar, scale, sugarBands)
	out.SaturatedFat = banded(saturatedFat, scale, saturatedFatBands)
	out.TransFat = transFatComponent(transFat, scale)
	out.Score = (out.Sodium.Score + out.Sugar.Score + out.SaturatedFat.Score + out.TransFat.Score) / 4
	return out
}

// ParseServingSize returns the first number in s, or 0 when there is none.
func ParseServingSize(s string) float64 {
	token := servingNumber.FindString(s)
	if token == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(token, ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseAmount reads a supplier value, tolerating thousands separators.
// Empty or unparsable values are reported as missing.
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

func PackagingScore(m Material) float64 {
	return packagingScores[m]
}

func AdditivesScore(count int) float64 {
	return math.Max(0, 100-additivePenalty*float64(count))
}

func banded(raw string, scale float64, bands []band) domain.ComponentScore {
	v, ok := ParseAmount(raw)
	if !ok {
		return domain.ComponentScore{}
	}
	v *= scale
	return domain.ComponentScore{Value: &v, Score: lookupBand(v, bands)}
}

func lookupBand(v float64, bands []band) float64 {
	for _, b := range bands {
		if v >= b.low && v < b.high {
			return b.score
		}
	}
	return 0
}

func transFatComponent(raw string, scale float64) domain.ComponentScore {
	v, ok := ParseAmount(raw)
	if !ok {
		return domain.ComponentScore{}
	}
	v *= scale
	score := 0.0
	switch {
	case v == 0:
		score = transFatFreeScore
	case v >= transFatHighLimit:
		score = transFatHighScore
	}
	return domain.ComponentScore{Value: &v, Score: score}
}
