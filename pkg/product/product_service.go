package product

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"EcoScan-Backend/domain"
	"EcoScan-Backend/internal/utils"
	"EcoScan-Backend/internal/utils/logger"
	"EcoScan-Backend/internal/utils/metrics"
	"EcoScan-Backend/internal/utils/storage"
	"EcoScan-Backend/pkg/scoring"
)

const imageFolder = "foods"

type (
	ProductService interface {
		ResolveProduct(ctx context.Context, barcode string) (domain.Product, error)
		Evaluate(p domain.Product) domain.SubScores
		Analyze(ctx context.Context, barcode string) (domain.Analysis, error)
		UpdateImage(ctx context.Context, barcode string, req domain.UpdateImageRequest) (domain.UpdateImageResponse, error)
		Rescore(ctx context.Context, barcode string) (domain.Product, error)
	}

	productService struct {
		repo     ProductRepository
		cache    ProductCache
		gateway  UpstreamGateway
		detector *scoring.AdditiveDetector
		s3       storage.AwsS3
		metrics  *metrics.Metrics
		log      *logger.Logger
		cacheTTL time.Duration
		inflight singleflight.Group
	}
)

// NewProductService wires the resolver. s3 may be nil when object storage
// is not configured; image uploads are then rejected.
func NewProductService(
	repo ProductRepository,
	cache ProductCache,
	gateway UpstreamGateway,
	detector *scoring.AdditiveDetector,
	s3 storage.AwsS3,
	m *metrics.Metrics,
	log *logger.Logger,
	cacheTTL time.Duration,
) ProductService {
	return &productService{
		repo:     repo,
		cache:    cache,
		gateway:  gateway,
		detector: detector,
		s3:       s3,
		metrics:  m,
		log:      log,
		cacheTTL: cacheTTL,
	}
}

// ResolveProduct answers from the cache, then the store, then the upstream
// chain. Concurrent first lookups of one barcode share a single upstream
// fetch.
func (s *productService) ResolveProduct(ctx context.Context, barcode string) (domain.Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return domain.Product{}, domain.ErrInvalidBarcode
	}

	if p, ok := s.fromCache(ctx, barcode); ok {
		s.metrics.IncResolution(metrics.SourceCache)
		return p, nil
	}

	food, err := s.repo.FindByBarcode(ctx, barcode)
	switch {
	case err == nil:
		p := toProduct(food)
		s.toCache(ctx, p)
		s.metrics.IncResolution(metrics.SourceStore)
		return p, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		s.log.Warn("store lookup failed, trying upstream", "barcode", barcode, "error", err)
	}

	v, err, _ := s.inflight.Do(barcode, func() (interface{}, error) {
		return s.fetchAndPersist(ctx, barcode)
	})
	if err != nil {
		return domain.Product{}, err
	}
	s.metrics.IncResolution(metrics.SourceUpstream)
	return v.(domain.Product), nil
}

func (s *productService) Evaluate(p domain.Product) domain.SubScores {
	return scoring.Calculate(p).Scores
}

func (s *productService) Analyze(ctx context.Context, barcode string) (domain.Analysis, error) {
	p, err := s.ResolveProduct(ctx, barcode)
	if err != nil {
		return domain.Analysis{}, err
	}
	return scoring.Calculate(p), nil
}

func (s *productService) fetchAndPersist(ctx context.Context, barcode string) (domain.Product, error) {
	log := s.log.With("barcode", barcode)

	identity, err := s.gateway.FetchIdentity(ctx, barcode)
	if err != nil {
		return domain.Product{}, err
	}
	if identity == nil || identity.ReportNo == "" {
		return domain.Product{}, fmt.Errorf("%w: %s", domain.ErrProductNotFound, barcode)
	}
	reportNo := identity.ReportNo
	log = log.With("report_no", reportNo)

	p := domain.Product{
		Barcode:      barcode,
		ReportNo:     reportNo,
		Name:         identity.Name,
		Brand:        identity.Brand,
		CategoryName: identity.CategoryName,
	}

	var image *string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		row, err := s.gateway.FetchImage(gctx, reportNo)
		if err != nil {
			log.Warn("image lookup failed", "error", err)
			return nil
		}
		if row != nil {
			u := row.URL
			image = &u
		}
		return nil
	})
	g.Go(func() error {
		p.PackagingMaterial = s.fetchPackaging(gctx, log, reportNo)
		p.RawMaterials, p.AdditiveCount, p.AdditiveNames = s.fetchIngredients(gctx, log, reportNo)

		row, err := s.gateway.FetchNutrition(gctx, reportNo)
		if err != nil {
			return err
		}
		if row == nil {
			return fmt.Errorf("%w: report %s", domain.ErrNutritionNotFound, reportNo)
		}
		p.ServingSize = row.ServingSize
		p.Sodium = row.Sodium
		p.Sugar = row.Sugar
		p.SaturatedFat = row.SaturatedFat
		p.TransFat = row.TransFat
		p.CategoryCode = row.CategoryCode
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.Product{}, err
	}

	p.ImageURL = image
	if p.CategoryCode == "" {
		p.CategoryCode = identity.CategoryName
	}
	p.Scores = s.Evaluate(p)

	stored := s.persist(ctx, log, p)
	s.toCache(ctx, stored)
	return stored, nil
}

func (s *productService) fetchPackaging(ctx context.Context, log *logger.Logger, reportNo string) string {
	row, err := s.gateway.FetchPackaging(ctx, reportNo)
	if err != nil {
		log.Warn("packaging lookup failed, using default", "error", err)
		return scoring.DefaultPackagingMaterial
	}
	if row == nil {
		return scoring.DefaultPackagingMaterial
	}
	return row.Material
}

func (s *productService) fetchIngredients(ctx context.Context, log *logger.Logger, reportNo string) (string, int, []string) {
	row, err := s.gateway.FetchIngredients(ctx, reportNo)
	if err != nil {
		log.Warn("ingredient lookup failed, assuming no additives", "error", err)
		return "", 0, nil
	}
	if row == nil {
		return "", 0, nil
	}
	count, names := s.detector.DetectCount(row.RawMaterials)
	return row.RawMaterials, count, names
}

// persist stores the freshly fetched record. A concurrent insert of the same
// barcode is resolved by returning the row that won; any other failure is
// logged and the unpersisted record is returned.
func (s *productService) persist(ctx context.Context, log *logger.Logger, p domain.Product) domain.Product {
	err := s.repo.InsertProductTriple(ctx, toFood(p))
	if err == nil {
		return p
	}
	if errors.Is(err, domain.ErrProductConflict) {
		s.metrics.IncPersistConflict()
		food, readErr := s.repo.FindByBarcode(ctx, p.Barcode)
		if readErr == nil {
			return toProduct(food)
		}
		log.Warn("re-reading conflicting product failed", "error", readErr)
		return p
	}
	log.Error("persisting product failed", "error", err)
	return p
}

func (s *productService) fromCache(ctx context.Context, barcode string) (domain.Product, bool) {
	raw, err := s.cache.Get(ctx, cacheKey(barcode))
	if err != nil {
		s.metrics.IncCacheError("get")
		s.log.Warn("cache read failed", "barcode", barcode, "error", err)
		return domain.Product{}, false
	}
	if raw == nil {
		return domain.Product{}, false
	}
	var p domain.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		s.metrics.IncCacheError("decode")
		s.log.Warn("cached product is unreadable", "barcode", barcode, "error", err)
		return domain.Product{}, false
	}
	return p, true
}

func (s *productService) toCache(ctx context.Context, p domain.Product) {
	raw, err := json.Marshal(p)
	if err != nil {
		s.metrics.IncCacheError("encode")
		return
	}
	if err := s.cache.SetWithTTL(ctx, cacheKey(p.Barcode), raw, s.cacheTTL); err != nil {
		s.metrics.IncCacheError("set")
		s.log.Warn("cache write failed", "barcode", p.Barcode, "error", err)
	}
}

func (s *productService) UpdateImage(ctx context.Context, barcode string, req domain.UpdateImageRequest) (domain.UpdateImageResponse, error) {
	food, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UpdateImageResponse{}, domain.ErrProductNotFound
		}
		return domain.UpdateImageResponse{}, err
	}

	var imageURL string
	switch {
	case req.Image != nil:
		if s.s3 == nil {
			return domain.UpdateImageResponse{}, storage.ErrStorageDisabled
		}
		objectKey, err := s.s3.UploadFile(ctx, barcode, req.Image, imageFolder, storage.AllowImage...)
		if err != nil {
			return domain.UpdateImageResponse{}, err
		}
		imageURL = s.s3.GetPublicLinkKey(objectKey)
	case req.ImageURL != "":
		imageURL = utils.ConvertDriveLink(req.ImageURL)
	default:
		return domain.UpdateImageResponse{}, domain.ErrMissingImage
	}

	if err := s.repo.UpdateImageURL(ctx, barcode, imageURL); err != nil {
		return domain.UpdateImageResponse{}, err
	}

	// drop the previous upload once the new link is stored
	if s.s3 != nil && food.ImageURL != nil && *food.ImageURL != imageURL {
		if key := s.s3.GetObjectKeyFromLink(*food.ImageURL); key != "" {
			if err := s.s3.DeleteFile(ctx, key); err != nil {
				s.log.Warn("deleting previous product image failed", "barcode", barcode, "key", key, "error", err)
			}
		}
	}

	return domain.UpdateImageResponse{Barcode: barcode, ImageURL: imageURL}, nil
}

// Rescore re-runs additive detection against the current vocabulary and
// refreshes the stored base sub-scores.
func (s *productService) Rescore(ctx context.Context, barcode string) (domain.Product, error) {
	food, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, err
	}

	p := toProduct(food)
	p.AdditiveCount, p.AdditiveNames = s.detector.DetectCount(p.RawMaterials)
	p.Scores = s.Evaluate(p)

	if err := s.repo.RefreshDerived(ctx, barcode, p.Scores, p.AdditiveCount, p.AdditiveNames); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}
