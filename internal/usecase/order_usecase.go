package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/nguyentranbao-ct/merch-api/internal/config"
	"github.com/nguyentranbao-ct/merch-api/internal/models"
	"github.com/nguyentranbao-ct/merch-api/internal/repo"
)

const DefaultTopUniversities = 5

type OrderUsecase interface {
	Create(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error)
	ListByUniversity(ctx context.Context, universityID string) ([]*models.Order, error)
	// TopUniversities ranks universities by total order amount.
	TopUniversities(ctx context.Context, top int) ([]*models.UniversitySales, error)
}

type orderUsecase struct {
	orders      repo.OrderRepository
	products    repo.ProductRepository
	cache       *ResultCache
	invalidator Invalidator
	ttl         time.Duration
}

func NewOrderUsecase(
	conf *config.Config,
	orders repo.OrderRepository,
	products repo.ProductRepository,
	cache *ResultCache,
	invalidator Invalidator,
) OrderUsecase {
	return &orderUsecase{
		orders:      orders,
		products:    products,
		cache:       cache,
		invalidator: invalidator,
		ttl:         conf.Cache.ListingTTL,
	}
}

func (uc *orderUsecase) Create(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error) {
	product, err := uc.products.GetByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewNotFoundError("product", req.ProductID)
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if !product.IsActive {
		return nil, models.NewValidationError("product %s is not available", product.ID)
	}

	status := req.Status
	if status == "" {
		status = models.OrderStatusPending
	}
	now := time.Now().UTC()
	order := &models.Order{
		ID:           uuid.NewString(),
		ProductID:    product.ID,
		UniversityID: product.UniversityID,
		Quantity:     req.Quantity,
		Amount:       orderAmount(product.Price, req.Quantity),
		Status:       status,
		OrderDate:    now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	order.Product = product.Summary()

	uc.invalidator.Invalidate(ctx, RouteOrders)
	return order, nil
}

func (uc *orderUsecase) ListByUniversity(ctx context.Context, universityID string) ([]*models.Order, error) {
	orders, err := uc.orders.ListByUniversity(ctx, universityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	return orders, nil
}

func (uc *orderUsecase) TopUniversities(ctx context.Context, top int) ([]*models.UniversitySales, error) {
	if top <= 0 {
		top = DefaultTopUniversities
	}
	query := url.Values{"top": []string{strconv.Itoa(top)}}
	return GetOrLoad(ctx, uc.cache, RouteTopUniversities, query, uc.ttl,
		func(ctx context.Context) ([]*models.UniversitySales, error) {
			sales, err := uc.orders.TopUniversities(ctx, top)
			if err != nil {
				return nil, fmt.Errorf("failed to rank universities: %w", err)
			}
			if sales == nil {
				sales = []*models.UniversitySales{}
			}
			return sales, nil
		})
}

// orderAmount rounds to cents.
func orderAmount(price float64, quantity int) float64 {
	return math.Round(price*float64(quantity)*100) / 100
}
