package handlers

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"EcoScan-Backend/domain"
	"EcoScan-Backend/internal/api/presenters"
	"EcoScan-Backend/pkg/history"
)

type (
	HistoryHandler interface {
		GetHistory(c *fiber.Ctx) error
		GetHistoryDetail(c *fiber.Ctx) error
		DeleteHistory(c *fiber.Ctx) error
	}

	historyHandler struct {
		historyService history.HistoryService
		validator      *validator.Validate
	}
)

func NewHistoryHandler(historyService history.HistoryService, validator *validator.Validate) HistoryHandler {
	return &historyHandler{
		historyService: historyService,
		validator:      validator,
	}
}

func (h *historyHandler) GetHistory(c *fiber.Ctx) error {
	userID := c.Locals(domain.LocalsUserID).(string)

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(domain.DefaultHistoryLimit)))
	if err != nil || limit < 1 {
		limit = domain.DefaultHistoryLimit
	}

	items, count, err := h.historyService.GetUserHistory(c.Context(), userID, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetHistory, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"items": items,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetHistory)
}

func (h *historyHandler) GetHistoryDetail(c *fiber.Ctx) error {
	userID := c.Locals(domain.LocalsUserID).(string)

	item, err := h.historyService.GetHistoryByID(c.Context(), c.Params("id"), userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetHistory, err)
	}

	return presenters.SuccessResponse(c, item, fiber.StatusOK, domain.MessageSuccessGetHistory)
}

func (h *historyHandler) DeleteHistory(c *fiber.Ctx) error {
	userID := c.Locals(domain.LocalsUserID).(string)

	if err := h.historyService.DeleteHistory(c.Context(), c.Params("id"), userID); err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedDeleteHistory, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteHistory)
}
