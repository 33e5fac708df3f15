package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"EcoScan-Backend/domain"
	"EcoScan-Backend/internal/api/presenters"
	"EcoScan-Backend/pkg/additive"
	"EcoScan-Backend/pkg/product"
)

type (
	AdminHandler interface {
		UpdateImage(c *fiber.Ctx) error
		RescoreProduct(c *fiber.Ctx) error
		ReloadAdditives(c *fiber.Ctx) error
		AddAdditives(c *fiber.Ctx) error
	}

	adminHandler struct {
		productService  product.ProductService
		additiveService additive.AdditiveService
		validator       *validator.Validate
	}
)

func NewAdminHandler(productService product.ProductService, additiveService additive.AdditiveService, validator *validator.Validate) AdminHandler {
	return &adminHandler{
		productService:  productService,
		additiveService: additiveService,
		validator:       validator,
	}
}

// UpdateImage accepts either a multipart "image" file or an image_url,
// JSON or form encoded.
func (h *adminHandler) UpdateImage(c *fiber.Ctx) error {
	req := new(domain.UpdateImageRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if file, err := c.FormFile("image"); err == nil {
		req.Image = file
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateImage, err)
	}

	res, err := h.productService.UpdateImage(c.Context(), c.Params("barcode"), *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedUpdateImage, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateImage)
}

func (h *adminHandler) RescoreProduct(c *fiber.Ctx) error {
	p, err := h.productService.Rescore(c.Context(), c.Params("barcode"))
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedRescoreProduct, err)
	}

	return presenters.SuccessResponse(c, p, fiber.StatusOK, domain.MessageSuccessRescoreProduct)
}

func (h *adminHandler) ReloadAdditives(c *fiber.Ctx) error {
	count, err := h.additiveService.Reload(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedReloadAdditive, err)
	}

	return presenters.SuccessResponse(c, domain.ReloadAdditivesResponse{Count: count}, fiber.StatusOK, domain.MessageSuccessReloadAdditive)
}

func (h *adminHandler) AddAdditives(c *fiber.Ctx) error {
	req := new(domain.AddAdditivesRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddAdditives, err)
	}

	count, err := h.additiveService.AddAndReload(c.Context(), req.Names)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedAddAdditives, err)
	}

	return presenters.SuccessResponse(c, domain.ReloadAdditivesResponse{Count: count}, fiber.StatusCreated, domain.MessageSuccessAddAdditives)
}
