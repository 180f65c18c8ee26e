package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nguyentranbao-ct/merch-api/internal/models"
	"github.com/nguyentranbao-ct/merch-api/internal/repo/cache"
	"github.com/nguyentranbao-ct/merch-api/pkg/util"
)

var baseTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func defaultListRequest() models.ProductListRequest {
	req, _ := models.RawProductListQuery{}.Normalize()
	return req
}

func TestProductList_HitMatchesMiss(t *testing.T) {
	h := newHarness(t)
	uc := h.products()
	u := h.createUniversity(t, "MIT")
	for i := 0; i < 12; i++ {
		h.createProduct(t, u.ID, fmt.Sprintf("Hoodie %02d", i), baseTime.Add(time.Duration(i)*time.Hour))
	}
	req := defaultListRequest()

	ctx := requestContext()
	miss, err := uc.List(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, CacheMiss, cacheStatus(t, ctx))
	require.Len(t, miss.Items, 10)
	assert.Equal(t, models.Pagination{
		CurrentPage: 1, PageSize: 10, TotalItems: 12, TotalPages: 2, HasNext: true, HasPrev: false,
	}, miss.Pagination)
	assert.Equal(t, "Hoodie 11", miss.Items[0].Name)
	require.NotNil(t, miss.Items[0].University)
	assert.Equal(t, "MIT", miss.Items[0].University.Name)

	h.waitCached(t, h.keys.Key(RouteProducts, req.Values()))
	assert.Equal(t, 300*time.Second, h.mr.TTL(h.keys.Key(RouteProducts, req.Values())))

	ctx = requestContext()
	hit, err := uc.List(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, CacheHit, cacheStatus(t, ctx))
	assert.JSONEq(t, mustJSON(t, miss), mustJSON(t, hit))
}

func TestProductList_CacheDown(t *testing.T) {
	h := newHarness(t)
	uc := h.products()
	u := h.createUniversity(t, "MIT")
	h.createProduct(t, u.ID, "Hoodie", baseTime)
	h.mr.Close()

	ctx := requestContext()
	res, err := uc.List(ctx, defaultListRequest())
	require.NoError(t, err)
	assert.Equal(t, CacheBypass, cacheStatus(t, ctx))
	require.Len(t, res.Items, 1)

	// writes keep working while the cache is gone
	created, err := uc.Create(requestContext(), models.CreateProductRequest{
		Name:         "Cap",
		Category:     "Accessories",
		Price:        util.Ptr(9.99),
		UniversityID: u.ID,
	})
	require.NoError(t, err)

	ctx = requestContext()
	res, err = uc.List(ctx, defaultListRequest())
	require.NoError(t, err)
	assert.Equal(t, CacheBypass, cacheStatus(t, ctx))
	require.Len(t, res.Items, 2)
	assert.Equal(t, created.ID, res.Items[0].ID)
}

func TestProductCreate_InvalidatesListing(t *testing.T) {
	h := newHarness(t)
	uc := h.products()
	u := h.createUniversity(t, "MIT")
	h.createProduct(t, u.ID, "Hoodie", baseTime)
	req := defaultListRequest()

	_, err := uc.List(requestContext(), req)
	require.NoError(t, err)
	h.waitCached(t, h.keys.Key(RouteProducts, req.Values()))
	_, err = uc.Categories(requestContext())
	require.NoError(t, err)
	h.waitCached(t, h.keys.Key(RouteCategories, nil))

	created, err := uc.Create(requestContext(), models.CreateProductRequest{
		Name:         "New Hoodie",
		Category:     "Limited",
		Price:        util.Ptr(49.99),
		Stock:        util.Ptr(5),
		UniversityID: u.ID,
	})
	require.NoError(t, err)
	assert.True(t, created.IsActive)
	require.NotNil(t, created.University)
	assert.Equal(t, u.ID, created.University.ID)

	assert.False(t, h.mr.Exists(h.keys.Key(RouteProducts, req.Values())))
	assert.False(t, h.mr.Exists(h.keys.Key(RouteCategories, nil)))

	ctx := requestContext()
	res, err := uc.List(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, CacheMiss, cacheStatus(t, ctx))
	require.Len(t, res.Items, 2)
	assert.Equal(t, "New Hoodie", res.Items[0].Name)

	categories, err := uc.Categories(requestContext())
	require.NoError(t, err)
	assert.Equal(t, []string{"Apparel", "Limited"}, categories)

	events := h.publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, models.EventCatalogInvalidated, events[0].Type)
	assert.Equal(t, []string{RouteProducts}, events[0].Routes)
	assert.Equal(t, "test-instance", events[0].Origin)
}

func TestProductCreate_QueuedListingWriteIsNotRestored(t *testing.T) {
	h := newHarness(t)
	store := cache.NewMemoryStore(cache.MemoryConfig{})
	h.useCacheStore(t, slowWrites{Store: store, delay: 50 * time.Millisecond})
	uc := h.products()
	u := h.createUniversity(t, "MIT")
	h.createProduct(t, u.ID, "Hoodie", baseTime)
	req := defaultListRequest()

	ctx := requestContext()
	res, err := uc.List(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, CacheMiss, cacheStatus(t, ctx))
	require.Len(t, res.Items, 1)

	// the listing write is still queued when the create invalidates
	_, err = uc.Create(requestContext(), models.CreateProductRequest{
		Name:         "Cap",
		Category:     "Accessories",
		Price:        util.Ptr(9.99),
		UniversityID: u.ID,
	})
	require.NoError(t, err)

	// drain every pending write before reading again
	h.cache.Close()
	_, err = store.Get(context.Background(), h.keys.Key(RouteProducts, req.Values()))
	assert.ErrorIs(t, err, cache.ErrMiss)

	ctx = requestContext()
	res, err = uc.List(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, CacheMiss, cacheStatus(t, ctx))
	require.Len(t, res.Items, 2)
	assert.Equal(t, "Cap", res.Items[0].Name)
}

func TestProductUpdateDelete(t *testing.T) {
	h := newHarness(t)
	uc := h.products()
	mit := h.createUniversity(t, "MIT")
	yale := h.createUniversity(t, "Yale")
	p := h.createProduct(t, mit.ID, "Hoodie", baseTime)
	ctx := context.Background()

	updated, err := uc.Update(ctx, models.UpdateProductRequest{
		ID:           p.ID,
		Price:        util.Ptr(25.5),
		UniversityID: util.Ptr(yale.ID),
	})
	require.NoError(t, err)
	assert.Equal(t, 25.5, updated.Price)
	assert.Equal(t, "Hoodie", updated.Name)
	require.NotNil(t, updated.University)
	assert.Equal(t, "Yale", updated.University.Name)

	got, err := uc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, yale.ID, got.UniversityID)

	require.NoError(t, uc.Delete(ctx, p.ID))
	_, err = uc.Get(ctx, p.ID)
	assert.Equal(t, codes.NotFound, status.Code(err))

	res, err := uc.List(requestContext(), defaultListRequest())
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.NotNil(t, res.Items)
}

func TestProductUsecase_Errors(t *testing.T) {
	h := newHarness(t)
	uc := h.products()
	u := h.createUniversity(t, "MIT")
	p := h.createProduct(t, u.ID, "Hoodie", baseTime)
	ctx := context.Background()
	missing := "00000000-0000-0000-0000-000000000000"

	tests := []struct {
		name string
		call func() error
		code codes.Code
	}{
		{
			name: "create with unknown university",
			call: func() error {
				_, err := uc.Create(ctx, models.CreateProductRequest{
					Name: "X", Category: "Apparel", Price: util.Ptr(1.0), UniversityID: missing,
				})
				return err
			},
			code: codes.InvalidArgument,
		},
		{
			name: "update unknown product",
			call: func() error {
				_, err := uc.Update(ctx, models.UpdateProductRequest{ID: missing, Name: util.Ptr("New")})
				return err
			},
			code: codes.NotFound,
		},
		{
			name: "move product to unknown university",
			call: func() error {
				_, err := uc.Update(ctx, models.UpdateProductRequest{ID: p.ID, UniversityID: util.Ptr(missing)})
				return err
			},
			code: codes.InvalidArgument,
		},
		{
			name: "delete unknown product",
			call: func() error { return uc.Delete(ctx, missing) },
			code: codes.NotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, status.Code(tt.call()))
		})
	}
	assert.Empty(t, h.publisher.Events())
}
