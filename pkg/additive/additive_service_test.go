package additive

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EcoScan-Backend/internal/testutil"
)

func TestAdditiveRepository_AddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewAdditiveRepository(testutil.DB(t))

	require.NoError(t, repo.AddAdditives(ctx, []string{"수크랄로스", "카라멜색소"}))
	require.NoError(t, repo.AddAdditives(ctx, []string{"수크랄로스"}))

	names, err := repo.LoadAdditiveNames(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"수크랄로스", "카라멜색소"}, names)
}

func TestAdditiveService_AddAndReload(t *testing.T) {
	ctx := context.Background()
	repo := NewAdditiveRepository(testutil.DB(t))
	detector, err := LoadDetector(ctx, repo)
	require.NoError(t, err)
	require.Zero(t, detector.Size())

	svc := NewAdditiveService(repo, detector, testutil.Logger(t))
	n, err := svc.AddAndReload(ctx, []string{" 수크랄로스(감미료) ", "", "카라멜색소"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	count, names := detector.DetectCount("정제수, 수크랄로스, 카라멜색소")
	assert.Equal(t, 2, count)
	assert.Equal(t, []string{"수크랄로스", "카라멜색소"}, names)
}
