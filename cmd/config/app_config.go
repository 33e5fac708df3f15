package config

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberLogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/gorm"

	"EcoScan-Backend/internal/api/handlers"
	"EcoScan-Backend/internal/api/routes"
	"EcoScan-Backend/internal/middleware"
	"EcoScan-Backend/internal/utils"
	"EcoScan-Backend/internal/utils/logger"
	"EcoScan-Backend/internal/utils/metrics"
	"EcoScan-Backend/internal/utils/storage"
	"EcoScan-Backend/pkg/additive"
	"EcoScan-Backend/pkg/history"
	"EcoScan-Backend/pkg/product"
	"EcoScan-Backend/pkg/recommendation"
)

// App bundles the HTTP server with the resources it must release on
// shutdown.
type App struct {
	Fiber     *fiber.App
	AccessLog *lumberjack.Logger
}

func NewApp(ctx context.Context, cfg *utils.Config, db *gorm.DB, rdb *goredis.Client, log *logger.Logger) (*App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: !cfg.IsProd(),
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	accessLog := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    50,
		MaxBackups: 5,
		MaxAge:     28,
		Compress:   true,
	}
	app.Use(fiberLogger.New(fiberLogger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Seoul",
		Output:     accessLog,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics()
	if err := m.Register(registry); err != nil {
		return nil, fmt.Errorf("registering metrics: %w", err)
	}

	// utils
	var s3 storage.AwsS3
	if cfg.S3Enabled() {
		var err error
		s3, err = storage.NewAwsS3(ctx, storage.S3Config{
			Bucket:    cfg.AWSS3Bucket,
			Region:    cfg.AWSS3Region,
			AccessKey: cfg.AWSAccessKey,
			SecretKey: cfg.AWSSecretKey,
			Endpoint:  cfg.AWSEndpoint,
		})
		if err != nil {
			return nil, err
		}
	} else {
		log.Warn("object storage not configured, image uploads disabled")
	}

	// Repository
	productRepository := product.NewProductRepository(db)
	additiveRepository := additive.NewAdditiveRepository(db)
	historyRepository := history.NewHistoryRepository(db)

	detector, err := additive.LoadDetector(ctx, additiveRepository)
	if err != nil {
		return nil, fmt.Errorf("loading additive vocabulary: %w", err)
	}
	log.Info("additive vocabulary loaded", "names", detector.Size())

	gateway := product.NewUpstreamGateway(product.GatewayConfig{
		FoodSafetyBaseURL: cfg.FoodSafetyBaseURL,
		FoodSafetyAPIKey:  cfg.FoodSafetyAPIKey,
		NutritionAPIURL:   cfg.NutritionAPIURL,
		ImageAPIURL:       cfg.ImageAPIURL,
		ServiceKey:        cfg.DataGoKrServiceKey,
		RatePerSecond:     cfg.UpstreamRate,
		Burst:             cfg.UpstreamBurst,
		Timeouts: product.Timeouts{
			Identity:    cfg.IdentityTimeout,
			Packaging:   cfg.PackagingTimeout,
			Ingredients: cfg.IngredientsTimeout,
			Nutrition:   cfg.NutritionTimeout,
			Image:       cfg.ImageTimeout,
		},
	}, &http.Client{}, m, log.With("component", "gateway"))

	// Service
	productService := product.NewProductService(
		productRepository,
		product.NewProductCache(rdb),
		gateway,
		detector,
		s3,
		m,
		log.With("component", "resolver"),
		cfg.CacheTTL(),
	)
	historyService := history.NewHistoryService(historyRepository, log.With("component", "history"))
	recommendationService := recommendation.NewRecommendationService(productRepository, productService)
	additiveService := additive.NewAdditiveService(additiveRepository, detector, log.With("component", "additive"))

	// Handler
	productHandler := handlers.NewProductHandler(productService, historyService, recommendationService, validator)
	historyHandler := handlers.NewHistoryHandler(historyService, validator)
	adminHandler := handlers.NewAdminHandler(productService, additiveService, validator)
	healthHandler := handlers.NewHealthHandler(db, rdb)

	// routes
	routesConfig := routes.Config{
		App:            app,
		ProductHandler: productHandler,
		HistoryHandler: historyHandler,
		AdminHandler:   adminHandler,
		HealthHandler:  healthHandler,
		Middleware:     middlewares,
		Registry:       registry,
	}
	routesConfig.Setup()
	return &App{Fiber: app, AccessLog: accessLog}, nil
}
