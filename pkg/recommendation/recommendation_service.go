package recommendation

import (
	"context"
	"sort"

	"EcoScan-Backend/domain"
	"EcoScan-Backend/pkg/product"
	"EcoScan-Backend/pkg/scoring"
)

type (
	RecommendationService interface {
		Rank(ctx context.Context, categoryCode, excludeReportNo string, baseline float64, weights domain.Weights) ([]domain.RankedCandidate, error)
		RecommendFor(ctx context.Context, barcode string, priorities *domain.Priorities) (domain.RecommendationResponse, error)
	}

	recommendationService struct {
		productRepository product.ProductRepository
		productService    product.ProductService
	}
)

func NewRecommendationService(productRepository product.ProductRepository, productService product.ProductService) RecommendationService {
	return &recommendationService{
		productRepository: productRepository,
		productService:    productService,
	}
}

// Rank scores stored products of the category with the caller's weights and
// returns at most five that beat the baseline, best first, one per report
// number.
func (s *recommendationService) Rank(ctx context.Context, categoryCode, excludeReportNo string, baseline float64, weights domain.Weights) ([]domain.RankedCandidate, error) {
	if categoryCode == "" {
		return []domain.RankedCandidate{}, nil
	}
	foods, err := s.productRepository.FindByCategory(ctx, categoryCode, excludeReportNo, domain.CandidatePoolSize)
	if err != nil {
		return nil, err
	}

	best := make(map[string]domain.RankedCandidate)
	for _, f := range foods {
		if f.ReportNo == excludeReportNo {
			continue
		}
		scores := domain.SubScores{
			Nutrition: f.BaseNutritionScore,
			Packaging: f.BasePackagingScore,
			Additives: f.BaseAdditivesScore,
		}
		total, letter := scoring.Grade(scores, weights)
		if total <= baseline {
			continue
		}
		if prev, ok := best[f.ReportNo]; ok && prev.TotalScore >= total {
			continue
		}
		best[f.ReportNo] = domain.RankedCandidate{
			Barcode:    f.Barcode,
			ReportNo:   f.ReportNo,
			Name:       f.Name,
			Brand:      f.Brand,
			ImageURL:   f.ImageURL,
			Scores:     scores,
			TotalScore: total,
			Grade:      string(letter),
		}
	}

	ranked := make([]domain.RankedCandidate, 0, len(best))
	for _, c := range best {
		ranked = append(ranked, c)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TotalScore != ranked[j].TotalScore {
			return ranked[i].TotalScore > ranked[j].TotalScore
		}
		return ranked[i].ReportNo < ranked[j].ReportNo
	})
	if len(ranked) > domain.MaxRecommendations {
		ranked = ranked[:domain.MaxRecommendations]
	}
	return ranked, nil
}

// RecommendFor ranks alternatives to the product behind barcode using the
// product's own weighted score as the baseline.
func (s *recommendationService) RecommendFor(ctx context.Context, barcode string, priorities *domain.Priorities) (domain.RecommendationResponse, error) {
	weights, err := scoring.ResolveWeights(priorities)
	if err != nil {
		return domain.RecommendationResponse{}, err
	}
	p, err := s.productService.ResolveProduct(ctx, barcode)
	if err != nil {
		return domain.RecommendationResponse{}, err
	}

	baseline, letter := scoring.Grade(s.productService.Evaluate(p), weights)
	alternatives, err := s.Rank(ctx, p.CategoryCode, p.ReportNo, baseline, weights)
	if err != nil {
		return domain.RecommendationResponse{}, err
	}

	return domain.RecommendationResponse{
		Barcode:       p.Barcode,
		CategoryCode:  p.CategoryCode,
		BaselineScore: baseline,
		BaselineGrade: string(letter),
		Weights:       weights,
		Alternatives:  alternatives,
	}, nil
}
