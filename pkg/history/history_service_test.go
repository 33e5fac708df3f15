package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EcoScan-Backend/domain"
	"EcoScan-Backend/internal/testutil"
	"EcoScan-Backend/pkg/scoring"
)

func newTestService(t *testing.T) *historyService {
	t.Helper()
	svc := NewHistoryService(NewHistoryRepository(testutil.DB(t)), testutil.Logger(t)).(*historyService)
	return svc
}

func TestHistoryService_ComputeGradeWithoutSaving(t *testing.T) {
	svc := newTestService(t)

	res, err := svc.ComputeGrade(context.Background(), domain.ComputeGradeInput{
		Scores: domain.SubScores{Nutrition: 60, Packaging: 60, Additives: 60},
	})
	require.NoError(t, err)

	assert.Empty(t, res.ID)
	assert.Equal(t, scoring.DefaultWeights(), res.Weights)
	assert.Equal(t, 60.0, res.TotalScore)
	assert.Equal(t, "D", res.Grade)
}

func TestHistoryService_ComputeGradeRejectsBadPriorities(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.ComputeGrade(context.Background(), domain.ComputeGradeInput{
		Priorities: &domain.Priorities{PkgVsAdd: 12},
	})

	assert.ErrorIs(t, err, domain.ErrInvalidPriority)
}

func TestHistoryService_SaveRequiresUser(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.ComputeGrade(context.Background(), domain.ComputeGradeInput{Save: true})

	assert.ErrorIs(t, err, domain.ErrMissingUser)
}

func TestHistoryService_SaveAndRead(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	product := &domain.Product{Barcode: "8801", ReportNo: "R1", Name: "콜라"}

	saved, err := svc.ComputeGrade(ctx, domain.ComputeGradeInput{
		UserID:     "user-1",
		Product:    product,
		Scores:     domain.SubScores{Nutrition: 50, Packaging: 85, Additives: 90},
		Priorities: &domain.Priorities{PkgVsNut: 2},
		Save:       true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	assert.Equal(t, "user-1", saved.UserID)
	assert.Equal(t, "8801", saved.Barcode)

	got, err := svc.GetHistoryByID(ctx, saved.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, saved.Grade, got.Grade)
	assert.InDelta(t, saved.TotalScore, got.TotalScore, 1e-9)

	_, err = svc.GetHistoryByID(ctx, saved.ID, "user-2")
	assert.ErrorIs(t, err, domain.ErrUnauthorizedHistoryAccess)

	_, err = svc.GetHistoryByID(ctx, "not-a-uuid", "user-1")
	assert.ErrorIs(t, err, domain.ErrHistoryNotFound)
}

func TestHistoryService_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for i, barcode := range []string{"old", "mid", "new"} {
		at := base.Add(time.Duration(i) * time.Hour)
		svc.now = func() time.Time { return at }
		_, err := svc.ComputeGrade(ctx, domain.ComputeGradeInput{
			UserID:  "user-1",
			Product: &domain.Product{Barcode: barcode},
			Save:    true,
		})
		require.NoError(t, err)
	}
	_, err := svc.ComputeGrade(ctx, domain.ComputeGradeInput{UserID: "someone-else", Save: true})
	require.NoError(t, err)

	results, count, err := svc.GetUserHistory(ctx, "user-1", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	require.Len(t, results, 2)
	assert.Equal(t, "new", results[0].Barcode)
	assert.Equal(t, "mid", results[1].Barcode)

	rest, _, err := svc.GetUserHistory(ctx, "user-1", 2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "old", rest[0].Barcode)
}

func TestHistoryService_Delete(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	saved, err := svc.ComputeGrade(ctx, domain.ComputeGradeInput{UserID: "user-1", Save: true})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteHistory(ctx, saved.ID, "user-2"), domain.ErrUnauthorizedHistoryAccess)
	require.NoError(t, svc.DeleteHistory(ctx, saved.ID, "user-1"))
	assert.ErrorIs(t, svc.DeleteHistory(ctx, saved.ID, "user-1"), domain.ErrHistoryNotFound)
}
