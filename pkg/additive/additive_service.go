package additive

import (
	"context"
	"strings"

	"EcoScan-Backend/internal/utils/logger"
	"EcoScan-Backend/pkg/scoring"
)

type (
	// AdditiveService keeps the in-memory detector in step with the stored
	// vocabulary.
	AdditiveService interface {
		Reload(ctx context.Context) (int, error)
		AddAndReload(ctx context.Context, names []string) (int, error)
	}

	additiveService struct {
		repo     AdditiveRepository
		detector *scoring.AdditiveDetector
		log      *logger.Logger
	}
)

func NewAdditiveService(repo AdditiveRepository, detector *scoring.AdditiveDetector, log *logger.Logger) AdditiveService {
	return &additiveService{repo: repo, detector: detector, log: log}
}

// LoadDetector builds a detector from the stored vocabulary.
func LoadDetector(ctx context.Context, repo AdditiveRepository) (*scoring.AdditiveDetector, error) {
	names, err := repo.LoadAdditiveNames(ctx)
	if err != nil {
		return nil, err
	}
	return scoring.NewAdditiveDetector(names), nil
}

func (s *additiveService) Reload(ctx context.Context) (int, error) {
	names, err := s.repo.LoadAdditiveNames(ctx)
	if err != nil {
		return 0, err
	}
	n := s.detector.Reload(names)
	s.log.Info("additive vocabulary reloaded", "names", n)
	return n, nil
}

func (s *additiveService) AddAndReload(ctx context.Context, names []string) (int, error) {
	cleaned := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			cleaned = append(cleaned, n)
		}
	}
	if err := s.repo.AddAdditives(ctx, cleaned); err != nil {
		return 0, err
	}
	return s.Reload(ctx)
}
