package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"EcoScan-Backend/domain"
)

func TestGrade_EqualWeights(t *testing.T) {
	total, letter := Grade(domain.SubScores{Nutrition: 60, Packaging: 60, Additives: 60}, DefaultWeights())

	assert.Equal(t, 60.0, total)
	assert.Equal(t, GradeD, letter)
}

func TestGrade_WeightedSum(t *testing.T) {
	w := domain.Weights{Packaging: 0.5, Additives: 0.25, Nutrition: 0.25}

	total, letter := Grade(domain.SubScores{Nutrition: 80, Packaging: 100, Additives: 100}, w)

	assert.InDelta(t, 95.0, total, 1e-9)
	assert.Equal(t, GradeA, letter)
}

func TestLetterFor_Thresholds(t *testing.T) {
	assert.Equal(t, GradeA, LetterFor(90))
	assert.Equal(t, GradeB, LetterFor(89.99))
	assert.Equal(t, GradeB, LetterFor(80))
	assert.Equal(t, GradeC, LetterFor(79.5))
	assert.Equal(t, GradeD, LetterFor(60))
	assert.Equal(t, GradeE, LetterFor(59.99))
	assert.Equal(t, GradeE, LetterFor(-10))
}
