package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nguyentranbao-ct/merch-api/internal/models"
	"github.com/nguyentranbao-ct/merch-api/pkg/util"
)

func TestUniversityUsecase(t *testing.T) {
	h := newHarness(t)
	uc := h.universities()
	ctx := context.Background()

	mit, err := uc.Create(ctx, models.CreateUniversityRequest{Name: "MIT", Location: "Cambridge, MA"})
	require.NoError(t, err)
	assert.True(t, mit.IsActive)

	_, err = uc.Create(ctx, models.CreateUniversityRequest{Name: "MIT"})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	yale, err := uc.Create(ctx, models.CreateUniversityRequest{Name: "Yale"})
	require.NoError(t, err)

	_, err = uc.Update(ctx, models.UpdateUniversityRequest{ID: yale.ID, Name: util.Ptr("MIT")})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	rctx := requestContext()
	list, err := uc.List(rctx)
	require.NoError(t, err)
	assert.Equal(t, CacheMiss, cacheStatus(t, rctx))
	assert.Len(t, list, 2)
	h.waitCached(t, h.keys.Key(RouteUniversities, nil))

	updated, err := uc.Update(ctx, models.UpdateUniversityRequest{ID: yale.ID, Location: util.Ptr("New Haven, CT")})
	require.NoError(t, err)
	assert.Equal(t, "New Haven, CT", updated.Location)
	assert.False(t, h.mr.Exists(h.keys.Key(RouteUniversities, nil)))

	require.NoError(t, uc.Deactivate(ctx, yale.ID))
	list, err = uc.List(requestContext())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "MIT", list[0].Name)

	// deactivation keeps the record
	got, err := uc.Get(ctx, yale.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	_, err = uc.Get(ctx, "00000000-0000-0000-0000-000000000000")
	assert.Equal(t, codes.NotFound, status.Code(err))

	for _, event := range h.publisher.Events() {
		assert.Equal(t, []string{RouteUniversities, RouteProducts}, event.Routes)
	}
}
