package recommendation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EcoScan-Backend/domain"
	"EcoScan-Backend/entities"
	"EcoScan-Backend/pkg/product"
	"EcoScan-Backend/pkg/scoring"
)

type fakeRepository struct {
	product.ProductRepository
	foods        []*entities.Food
	lastCategory string
	lastExclude  string
	lastLimit    int
}

func (r *fakeRepository) FindByCategory(ctx context.Context, categoryCode, excludeReportNo string, limit int) ([]*entities.Food, error) {
	r.lastCategory, r.lastExclude, r.lastLimit = categoryCode, excludeReportNo, limit
	return r.foods, nil
}

type fakeProductService struct {
	product.ProductService
	p domain.Product
}

func (s *fakeProductService) ResolveProduct(ctx context.Context, barcode string) (domain.Product, error) {
	return s.p, nil
}

func (s *fakeProductService) Evaluate(p domain.Product) domain.SubScores {
	return p.Scores
}

func food(barcode, reportNo string, score float64) *entities.Food {
	return &entities.Food{
		Barcode:            barcode,
		ReportNo:           reportNo,
		Name:               "product " + barcode,
		BaseNutritionScore: score,
		BasePackagingScore: score,
		BaseAdditivesScore: score,
	}
}

func TestRank_FiltersDedupesSortsAndTruncates(t *testing.T) {
	repo := &fakeRepository{foods: []*entities.Food{
		food("1", "R1", 95),
		food("2", "R2", 50), // not above baseline
		food("3", "R3", 70),
		food("4", "R3", 85), // same report number, better score
		food("5", "R5", 60),
		food("6", "EXCL", 99),
		food("7", "R7", 75),
		food("8", "R8", 80),
		food("9", "R9", 65),
	}}
	svc := NewRecommendationService(repo, nil)

	ranked, err := svc.Rank(context.Background(), "C1", "EXCL", 55, scoring.DefaultWeights())
	require.NoError(t, err)

	assert.Equal(t, "C1", repo.lastCategory)
	assert.Equal(t, "EXCL", repo.lastExclude)
	assert.Equal(t, domain.CandidatePoolSize, repo.lastLimit)

	require.Len(t, ranked, domain.MaxRecommendations)
	var got []string
	seen := map[string]bool{}
	for i, c := range ranked {
		got = append(got, c.Barcode)
		assert.Greater(t, c.TotalScore, 55.0)
		assert.NotEqual(t, "EXCL", c.ReportNo)
		assert.False(t, seen[c.ReportNo], "report number %s repeated", c.ReportNo)
		seen[c.ReportNo] = true
		if i > 0 {
			assert.Greater(t, ranked[i-1].TotalScore, c.TotalScore)
		}
	}
	assert.Equal(t, []string{"1", "4", "8", "7", "9"}, got)
	assert.Equal(t, "A", ranked[0].Grade)
	assert.Equal(t, "B", ranked[1].Grade)
}

func TestRank_EmptyCategory(t *testing.T) {
	repo := &fakeRepository{foods: []*entities.Food{food("1", "R1", 95)}}
	svc := NewRecommendationService(repo, nil)

	ranked, err := svc.Rank(context.Background(), "", "R0", 0, scoring.DefaultWeights())

	require.NoError(t, err)
	assert.Empty(t, ranked)
	assert.Empty(t, repo.lastCategory)
}

func TestRank_NothingBeatsBaseline(t *testing.T) {
	repo := &fakeRepository{foods: []*entities.Food{food("1", "R1", 40), food("2", "R2", 50)}}
	svc := NewRecommendationService(repo, nil)

	ranked, err := svc.Rank(context.Background(), "C1", "R0", 50, scoring.DefaultWeights())

	require.NoError(t, err)
	assert.Empty(t, ranked)
}

func TestRecommendFor_UsesProductAsBaseline(t *testing.T) {
	repo := &fakeRepository{foods: []*entities.Food{food("1", "R1", 95), food("2", "R2", 40)}}
	ps := &fakeProductService{p: domain.Product{
		Barcode:      "8801",
		ReportNo:     "R0",
		CategoryCode: "C1",
		Scores:       domain.SubScores{Nutrition: 50, Packaging: 50, Additives: 50},
	}}
	svc := NewRecommendationService(repo, ps)

	res, err := svc.RecommendFor(context.Background(), "8801", &domain.Priorities{})
	require.NoError(t, err)

	assert.InDelta(t, 50.0, res.BaselineScore, 1e-9)
	assert.Equal(t, "E", res.BaselineGrade)
	assert.Equal(t, "R0", repo.lastExclude)
	require.Len(t, res.Alternatives, 1)
	assert.Equal(t, "1", res.Alternatives[0].Barcode)
}

func TestRecommendFor_InvalidPriorities(t *testing.T) {
	svc := NewRecommendationService(&fakeRepository{}, &fakeProductService{})

	_, err := svc.RecommendFor(context.Background(), "8801", &domain.Priorities{PkgVsNut: -9})

	assert.ErrorIs(t, err, domain.ErrInvalidPriority)
}
