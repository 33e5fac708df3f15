package utils

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	// Application
	AppPort string `yaml:"APP_PORT" validate:"required"`
	AppEnv  string `yaml:"APP_ENV" validate:"omitempty,oneof=dev development prod production test"`
	LogFile string `yaml:"LOG_FILE"`

	// Database configuration
	DBUser     string `yaml:"DB_USER" validate:"required"`
	DBName     string `yaml:"DB_NAME" validate:"required"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT" validate:"required"`
	DBHost     string `yaml:"DB_HOST" validate:"required"`

	// Redis cache
	RedisAddr       string `yaml:"REDIS_ADDR" validate:"required"`
	RedisPassword   string `yaml:"REDIS_PASSWORD"`
	RedisDB         int    `yaml:"REDIS_DB" validate:"gte=0"`
	CacheTTLSeconds int    `yaml:"CACHE_TTL_SECONDS" validate:"gte=0"`

	// Public food data APIs
	FoodSafetyBaseURL  string  `yaml:"FOOD_SAFETY_BASE_URL" validate:"required,url"`
	FoodSafetyAPIKey   string  `yaml:"FOOD_SAFETY_API_KEY"`
	NutritionAPIURL    string  `yaml:"NUTRITION_API_URL" validate:"required,url"`
	ImageAPIURL        string  `yaml:"IMAGE_API_URL" validate:"required,url"`
	DataGoKrServiceKey string  `yaml:"DATA_GO_KR_SERVICE_KEY"`
	UpstreamRate       float64 `yaml:"UPSTREAM_RATE_PER_SECOND" validate:"gte=0"`
	UpstreamBurst      int     `yaml:"UPSTREAM_BURST" validate:"gte=0"`

	// Per-call upstream timeouts ("5s", "1500ms"); unset keeps the built-in default
	IdentityTimeout    time.Duration `yaml:"UPSTREAM_IDENTITY_TIMEOUT" validate:"gte=0"`
	PackagingTimeout   time.Duration `yaml:"UPSTREAM_PACKAGING_TIMEOUT" validate:"gte=0"`
	IngredientsTimeout time.Duration `yaml:"UPSTREAM_INGREDIENTS_TIMEOUT" validate:"gte=0"`
	NutritionTimeout   time.Duration `yaml:"UPSTREAM_NUTRITION_TIMEOUT" validate:"gte=0"`
	ImageTimeout       time.Duration `yaml:"UPSTREAM_IMAGE_TIMEOUT" validate:"gte=0"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`
	AWSEndpoint  string `yaml:"AWS_ENDPOINT" validate:"omitempty,url"`
}

// secrets may be supplied through the environment instead of config.yaml.
var secrets = map[string]func(c *Config) *string{
	"DB_PASSWORD":            func(c *Config) *string { return &c.DBPassword },
	"REDIS_PASSWORD":         func(c *Config) *string { return &c.RedisPassword },
	"FOOD_SAFETY_API_KEY":    func(c *Config) *string { return &c.FoodSafetyAPIKey },
	"DATA_GO_KR_SERVICE_KEY": func(c *Config) *string { return &c.DataGoKrServiceKey },
	"AWS_ACCESS_KEY":         func(c *Config) *string { return &c.AWSAccessKey },
	"AWS_SECRET_KEY":         func(c *Config) *string { return &c.AWSSecretKey },
}

func LoadConfig(path string) (*Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(file, &config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	for env, field := range secrets {
		if v, ok := os.LookupEnv(env); ok {
			*field(&config) = v
		}
	}
	config.applyDefaults()

	InitValidator()
	if err := Validate.Struct(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.AppEnv == "" {
		c.AppEnv = "development"
	}
	if c.LogFile == "" {
		c.LogFile = "./logs/app.log"
	}
	if c.CacheTTLSeconds == 0 {
		c.CacheTTLSeconds = 3600
	}
	if c.UpstreamRate == 0 {
		c.UpstreamRate = 10
	}
	if c.UpstreamBurst == 0 {
		c.UpstreamBurst = 5
	}
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func (c *Config) IsProd() bool {
	return strings.HasPrefix(c.AppEnv, "prod")
}

func (c *Config) S3Enabled() bool {
	return c.AWSS3Bucket != "" && c.AWSS3Region != ""
}
