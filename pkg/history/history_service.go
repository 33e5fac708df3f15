package history

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"EcoScan-Backend/domain"
	"EcoScan-Backend/entities"
	"EcoScan-Backend/internal/utils/logger"
	"EcoScan-Backend/pkg/scoring"
)

type (
	HistoryService interface {
		ComputeGrade(ctx context.Context, in domain.ComputeGradeInput) (domain.GradeResult, error)
		GetUserHistory(ctx context.Context, userID string, page, limit int) ([]domain.GradeResult, int64, error)
		GetHistoryByID(ctx context.Context, id, userID string) (domain.GradeResult, error)
		DeleteHistory(ctx context.Context, id, userID string) error
	}

	historyService struct {
		historyRepository HistoryRepository
		log               *logger.Logger
		now               func() time.Time
	}
)

func NewHistoryService(historyRepository HistoryRepository, log *logger.Logger) HistoryService {
	return &historyService{
		historyRepository: historyRepository,
		log:               log,
		now:               time.Now,
	}
}

// ComputeGrade weighs the sub-scores with the caller's priorities, or equal
// weights when none are given, and records the result when asked to.
func (s *historyService) ComputeGrade(ctx context.Context, in domain.ComputeGradeInput) (domain.GradeResult, error) {
	weights, err := scoring.ResolveWeights(in.Priorities)
	if err != nil {
		return domain.GradeResult{}, err
	}
	total, letter := scoring.Grade(in.Scores, weights)

	res := domain.GradeResult{
		Scores:     in.Scores,
		Weights:    weights,
		TotalScore: total,
		Grade:      string(letter),
		ScannedAt:  s.now().UTC(),
	}
	if in.Product != nil {
		res.Barcode = in.Product.Barcode
		res.ReportNo = in.Product.ReportNo
		res.ProductName = in.Product.Name
	}
	if !in.Save {
		return res, nil
	}
	if in.UserID == "" {
		return domain.GradeResult{}, domain.ErrMissingUser
	}

	history := toEntity(in.UserID, res)
	if err := s.historyRepository.CreateHistory(ctx, history); err != nil {
		return domain.GradeResult{}, err
	}
	s.log.Debug("scan history saved", "user_id", in.UserID, "barcode", res.Barcode, "grade", res.Grade)
	return toGradeResult(history), nil
}

func (s *historyService) GetUserHistory(ctx context.Context, userID string, page, limit int) ([]domain.GradeResult, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = domain.DefaultHistoryLimit
	}
	histories, count, err := s.historyRepository.GetUserHistory(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	results := make([]domain.GradeResult, 0, len(histories))
	for _, h := range histories {
		results = append(results, toGradeResult(h))
	}
	return results, count, nil
}

func (s *historyService) GetHistoryByID(ctx context.Context, id, userID string) (domain.GradeResult, error) {
	history, err := s.owned(ctx, id, userID)
	if err != nil {
		return domain.GradeResult{}, err
	}
	return toGradeResult(history), nil
}

func (s *historyService) DeleteHistory(ctx context.Context, id, userID string) error {
	if _, err := s.owned(ctx, id, userID); err != nil {
		return err
	}
	if err := s.historyRepository.DeleteHistory(ctx, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrHistoryNotFound
		}
		return err
	}
	return nil
}

func (s *historyService) owned(ctx context.Context, id, userID string) (*entities.ScanHistory, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrHistoryNotFound
	}
	history, err := s.historyRepository.GetHistoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrHistoryNotFound
		}
		return nil, err
	}
	if history.UserID != userID {
		return nil, domain.ErrUnauthorizedHistoryAccess
	}
	return history, nil
}

func toEntity(userID string, r domain.GradeResult) *entities.ScanHistory {
	return &entities.ScanHistory{
		UserID:          userID,
		Barcode:         r.Barcode,
		ReportNo:        r.ReportNo,
		ProductName:     r.ProductName,
		NutritionScore:  r.Scores.Nutrition,
		PackagingScore:  r.Scores.Packaging,
		AdditivesScore:  r.Scores.Additives,
		PackagingWeight: r.Weights.Packaging,
		AdditivesWeight: r.Weights.Additives,
		NutritionWeight: r.Weights.Nutrition,
		TotalScore:      r.TotalScore,
		Grade:           r.Grade,
		ScannedAt:       r.ScannedAt,
	}
}

func toGradeResult(h *entities.ScanHistory) domain.GradeResult {
	return domain.GradeResult{
		ID:          h.ID.String(),
		UserID:      h.UserID,
		Barcode:     h.Barcode,
		ReportNo:    h.ReportNo,
		ProductName: h.ProductName,
		Scores: domain.SubScores{
			Nutrition: h.NutritionScore,
			Packaging: h.PackagingScore,
			Additives: h.AdditivesScore,
		},
		Weights: domain.Weights{
			Packaging: h.PackagingWeight,
			Additives: h.AdditivesWeight,
			Nutrition: h.NutritionWeight,
		},
		TotalScore: h.TotalScore,
		Grade:      h.Grade,
		ScannedAt:  h.ScannedAt,
	}
}
