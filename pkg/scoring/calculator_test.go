package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EcoScan-Backend/domain"
)

func TestParseServingSize(t *testing.T) {
	assert.Equal(t, 50.0, ParseServingSize("50ml"))
	assert.Equal(t, 100.0, ParseServingSize("100 ML"))
	assert.Equal(t, 12.5, ParseServingSize("12.5g"))
	assert.Equal(t, 1000.0, ParseServingSize("1,000ml"))
	assert.Equal(t, 0.0, ParseServingSize(""))
	assert.Equal(t, 0.0, ParseServingSize("약 ml"))
}

func TestParseAmount(t *testing.T) {
	v, ok := ParseAmount("1,200")
	require.True(t, ok)
	assert.Equal(t, 1200.0, v)

	_, ok = ParseAmount("")
	assert.False(t, ok)

	_, ok = ParseAmount("N/A")
	assert.False(t, ok)
}

func TestNutritionBreakdown_ScalesToReferenceServing(t *testing.T) {
	// 250 ml serving: everything is scaled by 0.4.
	n := NutritionBreakdown("250ml", "100", "10", "2", "0")

	assert.InDelta(t, 0.4, n.Scale, 1e-9)
	require.NotNil(t, n.Sodium.Value)
	assert.InDelta(t, 40.0, *n.Sodium.Value, 1e-9)
	assert.Equal(t, 100.0, n.Sodium.Score)
	assert.Equal(t, 85.0, n.Sugar.Score)
	assert.Equal(t, 40.0, n.SaturatedFat.Score)
	assert.Equal(t, 25.0, n.TransFat.Score)
	assert.InDelta(t, (100.0+85+40+25)/4, n.Score, 1e-9)
}

func TestNutritionBreakdown_BandEdgesAreHalfOpen(t *testing.T) {
	n := NutritionBreakdown("100ml", "50", "22.5", "5", "0.1")

	assert.Equal(t, 85.0, n.Sodium.Score)
	assert.Equal(t, 0.0, n.Sugar.Score)
	assert.Equal(t, -15.0, n.SaturatedFat.Score)
	assert.Equal(t, -50.0, n.TransFat.Score)
}

func TestNutritionBreakdown_MissingValuesScoreZero(t *testing.T) {
	n := NutritionBreakdown("", "", "", "", "")

	assert.Equal(t, 1.0, n.Scale)
	assert.Nil(t, n.Sodium.Value)
	assert.Zero(t, n.Score)
}

func TestNutritionBreakdown_SmallTransFatIsNeutral(t *testing.T) {
	n := NutritionBreakdown("100ml", "", "", "", "0.05")

	assert.Equal(t, 0.0, n.TransFat.Score)
}

func TestPackagingScore(t *testing.T) {
	assert.Equal(t, 95.0, PackagingScore(MaterialGlass))
	assert.Equal(t, 95.0, PackagingScore(MaterialMetal))
	assert.Equal(t, 85.0, PackagingScore(MaterialPET))
	assert.Equal(t, 60.0, PackagingScore(MaterialPP))
	assert.Equal(t, 20.0, PackagingScore(MaterialPS))
	assert.Equal(t, 10.0, PackagingScore(MaterialComposite))
	assert.Equal(t, 0.0, PackagingScore(MaterialOther))
	assert.Equal(t, 0.0, PackagingScore(MaterialPaper))
	assert.Equal(t, 0.0, PackagingScore(MaterialPE))
}

func TestAdditivesScore(t *testing.T) {
	assert.Equal(t, 100.0, AdditivesScore(0))
	assert.Equal(t, 70.0, AdditivesScore(3))
	assert.Equal(t, 0.0, AdditivesScore(10))
	assert.Equal(t, 0.0, AdditivesScore(14))
}

func TestCalculate(t *testing.T) {
	p := domain.Product{
		Barcode:           "8801234567890",
		Name:              "sparkling water",
		ServingSize:       "100ml",
		Sodium:            "10",
		Sugar:             "0",
		SaturatedFat:      "0",
		TransFat:          "0",
		PackagingMaterial: "유리",
		AdditiveCount:     2,
		AdditiveNames:     []string{"A", "B"},
	}

	a := Calculate(p)

	assert.Equal(t, "8801234567890", a.Barcode)
	assert.InDelta(t, (100.0+100+40+25)/4, a.Scores.Nutrition, 1e-9)
	assert.Equal(t, 95.0, a.Scores.Packaging)
	assert.Equal(t, 80.0, a.Scores.Additives)
	assert.Equal(t, string(MaterialGlass), a.Packaging.Material)
	assert.Equal(t, []string{"A", "B"}, a.Additives.Names)
}
