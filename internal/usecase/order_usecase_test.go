package usecase

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nguyentranbao-ct/merch-api/internal/models"
	"github.com/nguyentranbao-ct/merch-api/pkg/util"
)

func TestOrderAmount(t *testing.T) {
	tests := []struct {
		price    float64
		quantity int
		want     float64
	}{
		{59.99, 5, 299.95},
		{29.99, 10, 299.9},
		{0.1, 3, 0.3},
		{12.99, 15, 194.85},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, orderAmount(tt.price, tt.quantity))
	}
}

func TestOrderUsecase_CreateAndRank(t *testing.T) {
	h := newHarness(t)
	uc := h.orders()
	ctx := context.Background()
	mit := h.createUniversity(t, "MIT")
	yale := h.createUniversity(t, "Yale")
	hoodie := h.createProduct(t, mit.ID, "Hoodie", baseTime)
	polo := h.createProduct(t, yale.ID, "Polo", baseTime)

	order, err := uc.Create(ctx, models.CreateOrderRequest{ProductID: hoodie.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, mit.ID, order.UniversityID)
	assert.Equal(t, 39.98, order.Amount)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	require.NotNil(t, order.Product)
	assert.Equal(t, "Hoodie", order.Product.Name)

	_, err = uc.Create(ctx, models.CreateOrderRequest{
		ProductID: polo.ID, Quantity: 10, Status: models.OrderStatusDelivered,
	})
	require.NoError(t, err)

	rctx := requestContext()
	ranking, err := uc.TopUniversities(rctx, 0)
	require.NoError(t, err)
	assert.Equal(t, CacheMiss, cacheStatus(t, rctx))
	require.Len(t, ranking, 2)
	assert.Equal(t, "Yale", ranking[0].Name)
	assert.Equal(t, 199.9, ranking[0].TotalSales)
	assert.Equal(t, int64(1), ranking[0].OrderCount)

	key := h.keys.Key(RouteTopUniversities, url.Values{"top": []string{"5"}})
	h.waitCached(t, key)

	rctx = requestContext()
	_, err = uc.TopUniversities(rctx, DefaultTopUniversities)
	require.NoError(t, err)
	assert.Equal(t, CacheHit, cacheStatus(t, rctx))

	// a new order makes the ranking stale
	_, err = uc.Create(ctx, models.CreateOrderRequest{ProductID: hoodie.ID, Quantity: 100})
	require.NoError(t, err)
	assert.False(t, h.mr.Exists(key))

	ranking, err = uc.TopUniversities(requestContext(), 1)
	require.NoError(t, err)
	require.Len(t, ranking, 1)
	assert.Equal(t, "MIT", ranking[0].Name)

	orders, err := uc.ListByUniversity(ctx, mit.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	orders, err = uc.ListByUniversity(ctx, "00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestOrderUsecase_CreateRejectsUnavailableProduct(t *testing.T) {
	h := newHarness(t)
	uc := h.orders()
	ctx := context.Background()
	u := h.createUniversity(t, "MIT")
	p := h.createProduct(t, u.ID, "Hoodie", baseTime)

	_, err := h.products().Update(ctx, models.UpdateProductRequest{ID: p.ID, IsActive: util.Ptr(false)})
	require.NoError(t, err)

	_, err = uc.Create(ctx, models.CreateOrderRequest{ProductID: p.ID, Quantity: 1})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = uc.Create(ctx, models.CreateOrderRequest{ProductID: "00000000-0000-0000-0000-000000000000", Quantity: 1})
	assert.Equal(t, codes.NotFound, status.Code(err))
}
