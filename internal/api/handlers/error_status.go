package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"EcoScan-Backend/domain"
	"EcoScan-Backend/internal/utils/storage"
)

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrNutritionNotFound),
		errors.Is(err, domain.ErrHistoryNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return fiber.StatusBadGateway
	case errors.Is(err, domain.ErrUnauthorizedHistoryAccess):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrMissingUser):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrInvalidPriority),
		errors.Is(err, domain.ErrInvalidBarcode),
		errors.Is(err, domain.ErrMissingImage),
		errors.Is(err, storage.ErrFileTypeNotAllowed),
		errors.As(err, &validationErrs):
		return fiber.StatusBadRequest
	case errors.Is(err, storage.ErrStorageDisabled):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
