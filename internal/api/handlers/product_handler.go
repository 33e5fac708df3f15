package handlers

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"EcoScan-Backend/domain"
	"EcoScan-Backend/internal/api/presenters"
	"EcoScan-Backend/pkg/history"
	"EcoScan-Backend/pkg/product"
	"EcoScan-Backend/pkg/recommendation"
)

type (
	ProductHandler interface {
		GetProduct(c *fiber.Ctx) error
		AnalyzeProduct(c *fiber.Ctx) error
		GradeProduct(c *fiber.Ctx) error
		CalculateGrade(c *fiber.Ctx) error
		GetAlternatives(c *fiber.Ctx) error
	}

	productHandler struct {
		productService        product.ProductService
		historyService        history.HistoryService
		recommendationService recommendation.RecommendationService
		validator             *validator.Validate
	}
)

func NewProductHandler(
	productService product.ProductService,
	historyService history.HistoryService,
	recommendationService recommendation.RecommendationService,
	validator *validator.Validate,
) ProductHandler {
	return &productHandler{
		productService:        productService,
		historyService:        historyService,
		recommendationService: recommendationService,
		validator:             validator,
	}
}

func (h *productHandler) GetProduct(c *fiber.Ctx) error {
	p, err := h.productService.ResolveProduct(c.Context(), c.Params("barcode"))
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetProduct, err)
	}

	return presenters.SuccessResponse(c, p, fiber.StatusOK, domain.MessageSuccessGetProduct)
}

func (h *productHandler) AnalyzeProduct(c *fiber.Ctx) error {
	analysis, err := h.productService.Analyze(c.Context(), c.Params("barcode"))
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedAnalyzeProduct, err)
	}

	return presenters.SuccessResponse(c, analysis, fiber.StatusOK, domain.MessageSuccessAnalyzeProduct)
}

func (h *productHandler) GradeProduct(c *fiber.Ctx) error {
	req := new(domain.GradeProductRequest)

	// an empty body grades with equal weights
	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
		}
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGradeProduct, err)
	}

	save := req.SaveHistory == nil || *req.SaveHistory
	userID := strings.TrimSpace(c.Get(domain.HeaderUserID))
	if save && userID == "" {
		return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedMissingUser, domain.ErrMissingUser)
	}

	p, err := h.productService.ResolveProduct(c.Context(), c.Params("barcode"))
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGradeProduct, err)
	}

	res, err := h.historyService.ComputeGrade(c.Context(), domain.ComputeGradeInput{
		UserID:     userID,
		Product:    &p,
		Scores:     h.productService.Evaluate(p),
		Priorities: req.Priorities,
		Save:       save,
	})
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGradeProduct, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGradeProduct)
}

func (h *productHandler) CalculateGrade(c *fiber.Ctx) error {
	req := new(domain.CalculateGradeRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCalculateGrade, err)
	}

	res, err := h.historyService.ComputeGrade(c.Context(), domain.ComputeGradeInput{
		Scores: domain.SubScores{
			Nutrition: req.NutritionScore,
			Packaging: req.PackagingScore,
			Additives: req.AdditivesScore,
		},
		Priorities: req.Priorities,
	})
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedCalculateGrade, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessCalculateGrade)
}

func (h *productHandler) GetAlternatives(c *fiber.Ctx) error {
	var priorities *domain.Priorities
	if len(c.Request().URI().QueryString()) > 0 {
		priorities = new(domain.Priorities)
		if err := c.QueryParser(priorities); err != nil {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
		}
		if err := h.validator.Struct(priorities); err != nil {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRecommendations, err)
		}
	}

	res, err := h.recommendationService.RecommendFor(c.Context(), c.Params("barcode"), priorities)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetRecommendations, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecommendations)
}
