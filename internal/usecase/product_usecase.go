package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nguyentranbao-ct/merch-api/internal/config"
	"github.com/nguyentranbao-ct/merch-api/internal/models"
	"github.com/nguyentranbao-ct/merch-api/internal/repo"
)

type ProductUsecase interface {
	// List returns one page of active products. Results are cached per
	// normalized query.
	List(ctx context.Context, req models.ProductListRequest) (*models.ListingResult[*models.Product], error)
	Categories(ctx context.Context) ([]string, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, req models.CreateProductRequest) (*models.Product, error)
	Update(ctx context.Context, req models.UpdateProductRequest) (*models.Product, error)
	Delete(ctx context.Context, id string) error
}

type productUsecase struct {
	products     repo.ProductRepository
	universities repo.UniversityRepository
	cache        *ResultCache
	invalidator  Invalidator
	listingTTL   time.Duration
	categoryTTL  time.Duration
}

func NewProductUsecase(
	conf *config.Config,
	products repo.ProductRepository,
	universities repo.UniversityRepository,
	cache *ResultCache,
	invalidator Invalidator,
) ProductUsecase {
	return &productUsecase{
		products:     products,
		universities: universities,
		cache:        cache,
		invalidator:  invalidator,
		listingTTL:   conf.Cache.ListingTTL,
		categoryTTL:  conf.Cache.CategoryTTL,
	}
}

func (uc *productUsecase) List(ctx context.Context, req models.ProductListRequest) (*models.ListingResult[*models.Product], error) {
	return GetOrLoad(ctx, uc.cache, RouteProducts, req.Values(), uc.listingTTL,
		func(ctx context.Context) (*models.ListingResult[*models.Product], error) {
			items, total, err := uc.products.FetchPage(ctx, BuildProductFetchSpec(req))
			if err != nil {
				return nil, fmt.Errorf("failed to fetch products: %w", err)
			}
			return models.NewListingResult(items, total, req.Page, req.Limit), nil
		})
}

func (uc *productUsecase) Categories(ctx context.Context) ([]string, error) {
	return GetOrLoad(ctx, uc.cache, RouteCategories, nil, uc.categoryTTL,
		func(ctx context.Context) ([]string, error) {
			categories, err := uc.products.Categories(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to list categories: %w", err)
			}
			if categories == nil {
				categories = []string{}
			}
			return categories, nil
		})
}

func (uc *productUsecase) Get(ctx context.Context, id string) (*models.Product, error) {
	product, err := uc.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewNotFoundError("product", id)
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

func (uc *productUsecase) Create(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	university, err := uc.requireUniversity(ctx, req.UniversityID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &models.Product{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		Price:        *req.Price,
		ImageURL:     req.ImageURL,
		IsActive:     true,
		UniversityID: university.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if err := uc.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	product.University = university.Summary()

	uc.invalidator.Invalidate(ctx, RouteProducts)
	return product, nil
}

func (uc *productUsecase) Update(ctx context.Context, req models.UpdateProductRequest) (*models.Product, error) {
	product, err := uc.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	previousUniversity := product.UniversityID
	req.Apply(product)
	if product.UniversityID != previousUniversity {
		university, err := uc.requireUniversity(ctx, product.UniversityID)
		if err != nil {
			return nil, err
		}
		product.University = university.Summary()
	}
	product.UpdatedAt = time.Now().UTC()

	if err := uc.products.Update(ctx, product); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewNotFoundError("product", req.ID)
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	uc.invalidator.Invalidate(ctx, RouteProducts)
	return product, nil
}

func (uc *productUsecase) Delete(ctx context.Context, id string) error {
	if err := uc.products.Delete(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.NewNotFoundError("product", id)
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}

	uc.invalidator.Invalidate(ctx, RouteProducts)
	return nil
}

func (uc *productUsecase) requireUniversity(ctx context.Context, id string) (*models.University, error) {
	university, err := uc.universities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewValidationError("university %s does not exist", id)
		}
		return nil, fmt.Errorf("failed to get university: %w", err)
	}
	return university, nil
}
