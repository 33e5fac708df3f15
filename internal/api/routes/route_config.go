package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"EcoScan-Backend/internal/api/handlers"
	"EcoScan-Backend/internal/middleware"
)

type Config struct {
	App            *fiber.App
	ProductHandler handlers.ProductHandler
	HistoryHandler handlers.HistoryHandler
	AdminHandler   handlers.AdminHandler
	HealthHandler  handlers.HealthHandler
	Middleware     middleware.Middleware
	Registry       *prometheus.Registry
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.Products()
	c.History()
	c.Admin()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", c.HealthHandler.Ping)
	c.App.Get("/api/health", c.HealthHandler.Health)
	c.App.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{})))
}

func (c *Config) Products() {
	products := c.App.Group("/api/v1/products")
	{
		products.Get("/:barcode", c.ProductHandler.GetProduct)
		products.Get("/:barcode/analysis", c.ProductHandler.AnalyzeProduct)
		products.Post("/:barcode/grade", c.ProductHandler.GradeProduct)
		products.Get("/:barcode/alternatives", c.ProductHandler.GetAlternatives)
	}
	c.App.Post("/api/v1/grades/calculate", c.ProductHandler.CalculateGrade)
}

func (c *Config) History() {
	history := c.App.Group("/api/v1/history", c.Middleware.RequireUser())
	{
		history.Get("/", c.HistoryHandler.GetHistory)
		history.Get("/:id", c.HistoryHandler.GetHistoryDetail)
		history.Delete("/:id", c.HistoryHandler.DeleteHistory)
	}
}

func (c *Config) Admin() {
	admin := c.App.Group("/api/v1/admin")
	{
		admin.Patch("/foods/:barcode/image", c.AdminHandler.UpdateImage)
		admin.Post("/foods/:barcode/rescore", c.AdminHandler.RescoreProduct)
		admin.Post("/additives/reload", c.AdminHandler.ReloadAdditives)
		admin.Post("/additives", c.AdminHandler.AddAdditives)
	}
}
