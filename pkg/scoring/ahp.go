package scoring

import (
	"fmt"

	"EcoScan-Backend/domain"
)

// Order of the comparison matrix rows and columns.
const (
	idxPackaging = iota
	idxAdditives
	idxNutrition
	factorCount
)

func DefaultWeights() domain.Weights {
	return domain.Weights{Packaging: 1.0 / 3, Additives: 1.0 / 3, Nutrition: 1.0 / 3}
}

// ResolveWeights returns the default weights when no priorities are given.
func ResolveWeights(p *domain.Priorities) (domain.Weights, error) {
	if p == nil {
		return DefaultWeights(), nil
	}
	return SolveAHP(*p)
}

// SolveAHP turns three signed pairwise priorities into weights using the
// column-normalized row-mean approximation of the principal eigenvector.
func SolveAHP(p domain.Priorities) (domain.Weights, error) {
	pairs := []struct {
		left, right int
		value       int
	}{
		{idxPackaging, idxAdditives, p.PkgVsAdd},
		{idxPackaging, idxNutrition, p.PkgVsNut},
		{idxAdditives, idxNutrition, p.AddVsNut},
	}

	var m [factorCount][factorCount]float64
	for i := range m {
		m[i][i] = 1
	}
	for _, pair := range pairs {
		if pair.value < domain.MinPriority || pair.value > domain.MaxPriority {
			return domain.Weights{}, fmt.Errorf("%w: got %d", domain.ErrInvalidPriority, pair.value)
		}
		left, right := intensity(pair.value)
		m[pair.left][pair.right] = left
		m[pair.right][pair.left] = right
	}

	var colSum [factorCount]float64
	for j := 0; j < factorCount; j++ {
		for i := 0; i < factorCount; i++ {
			colSum[j] += m[i][j]
		}
	}

	var w [factorCount]float64
	for i := 0; i < factorCount; i++ {
		for j := 0; j < factorCount; j++ {
			w[i] += m[i][j] / colSum[j]
		}
		w[i] /= factorCount
	}

	return domain.Weights{
		Packaging: w[idxPackaging],
		Additives: w[idxAdditives],
		Nutrition: w[idxNutrition],
	}, nil
}

// intensity converts a signed priority into the matrix entries for
// (left, right) and (right, left).
func intensity(s int) (float64, float64) {
	switch {
	case s > 0:
		v := float64(s + 1)
		return 1 / v, v
	case s < 0:
		v := float64(-s + 1)
		return v, 1 / v
	}
	return 1, 1
}
