package handlers

import (
	"context"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EcoScan-Backend/domain"
	"EcoScan-Backend/internal/middleware"
	"EcoScan-Backend/internal/utils"
	"EcoScan-Backend/pkg/history"
)

type stubHistoryService struct {
	history.HistoryService
	page, limit int
	owner       string
}

func (s *stubHistoryService) GetUserHistory(ctx context.Context, userID string, page, limit int) ([]domain.GradeResult, int64, error) {
	s.page, s.limit = page, limit
	return []domain.GradeResult{{UserID: userID, Grade: "A"}}, 1, nil
}

func (s *stubHistoryService) GetHistoryByID(ctx context.Context, id, userID string) (domain.GradeResult, error) {
	switch {
	case id == "missing":
		return domain.GradeResult{}, domain.ErrHistoryNotFound
	case userID != s.owner:
		return domain.GradeResult{}, domain.ErrUnauthorizedHistoryAccess
	}
	return domain.GradeResult{ID: id, UserID: userID}, nil
}

func newHistoryApp(t *testing.T, svc *stubHistoryService) *fiber.App {
	t.Helper()
	utils.InitValidator()
	h := NewHistoryHandler(svc, utils.Validate)

	app := fiber.New()
	group := app.Group("/history", middleware.NewMiddleware().RequireUser())
	group.Get("/", h.GetHistory)
	group.Get("/:id", h.GetHistoryDetail)
	return app
}

func TestGetHistory_Pagination(t *testing.T) {
	svc := &stubHistoryService{}
	app := newHistoryApp(t, svc)
	user := map[string]string{domain.HeaderUserID: "user-1"}

	status, body := doRequest(t, app, "GET", "/history?page=2&limit=5", "", user)
	assert.Equal(t, fiber.StatusOK, status)
	assert.True(t, body.Status)
	assert.Equal(t, 2, svc.page)
	assert.Equal(t, 5, svc.limit)

	status, _ = doRequest(t, app, "GET", "/history?page=x&limit=-1", "", user)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 1, svc.page)
	assert.Equal(t, domain.DefaultHistoryLimit, svc.limit)
}

func TestGetHistory_RequiresUser(t *testing.T) {
	app := newHistoryApp(t, &stubHistoryService{})

	status, body := doRequest(t, app, "GET", "/history", "", nil)

	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.False(t, body.Status)
}

func TestGetHistoryDetail_StatusMapping(t *testing.T) {
	app := newHistoryApp(t, &stubHistoryService{owner: "user-1"})

	status, body := doRequest(t, app, "GET", "/history/h1", "", map[string]string{domain.HeaderUserID: "user-1"})
	require.Equal(t, fiber.StatusOK, status)
	assert.True(t, body.Status)

	status, _ = doRequest(t, app, "GET", "/history/h1", "", map[string]string{domain.HeaderUserID: "user-2"})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = doRequest(t, app, "GET", "/history/missing", "", map[string]string{domain.HeaderUserID: "user-1"})
	assert.Equal(t, fiber.StatusNotFound, status)
}
