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

type UniversityUsecase interface {
	List(ctx context.Context) ([]*models.University, error)
	Get(ctx context.Context, id string) (*models.University, error)
	Create(ctx context.Context, req models.CreateUniversityRequest) (*models.University, error)
	Update(ctx context.Context, req models.UpdateUniversityRequest) (*models.University, error)
	// Deactivate hides the university from listings. Its products and orders
	// are kept.
	Deactivate(ctx context.Context, id string) error
}

type universityUsecase struct {
	universities repo.UniversityRepository
	cache        *ResultCache
	invalidator  Invalidator
	ttl          time.Duration
}

func NewUniversityUsecase(
	conf *config.Config,
	universities repo.UniversityRepository,
	cache *ResultCache,
	invalidator Invalidator,
) UniversityUsecase {
	return &universityUsecase{
		universities: universities,
		cache:        cache,
		invalidator:  invalidator,
		ttl:          conf.Cache.ListingTTL,
	}
}

func (uc *universityUsecase) List(ctx context.Context) ([]*models.University, error) {
	return GetOrLoad(ctx, uc.cache, RouteUniversities, nil, uc.ttl,
		func(ctx context.Context) ([]*models.University, error) {
			universities, err := uc.universities.ListActive(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to list universities: %w", err)
			}
			if universities == nil {
				universities = []*models.University{}
			}
			return universities, nil
		})
}

func (uc *universityUsecase) Get(ctx context.Context, id string) (*models.University, error) {
	university, err := uc.universities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewNotFoundError("university", id)
		}
		return nil, fmt.Errorf("failed to get university: %w", err)
	}
	return university, nil
}

func (uc *universityUsecase) Create(ctx context.Context, req models.CreateUniversityRequest) (*models.University, error) {
	if err := uc.ensureNameFree(ctx, req.Name); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	university := &models.University{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Location:     req.Location,
		ContactEmail: req.ContactEmail,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.universities.Create(ctx, university); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.NewConflictError("university %q already exists", req.Name)
		}
		return nil, fmt.Errorf("failed to create university: %w", err)
	}

	uc.invalidate(ctx)
	return university, nil
}

func (uc *universityUsecase) Update(ctx context.Context, req models.UpdateUniversityRequest) (*models.University, error) {
	university, err := uc.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil && *req.Name != university.Name {
		if err := uc.ensureNameFree(ctx, *req.Name); err != nil {
			return nil, err
		}
	}

	req.Apply(university)
	university.UpdatedAt = time.Now().UTC()
	if err := uc.universities.Update(ctx, university); err != nil {
		return nil, fmt.Errorf("failed to update university: %w", err)
	}

	uc.invalidate(ctx)
	return university, nil
}

func (uc *universityUsecase) Deactivate(ctx context.Context, id string) error {
	university, err := uc.Get(ctx, id)
	if err != nil {
		return err
	}
	if !university.IsActive {
		return nil
	}

	university.IsActive = false
	university.UpdatedAt = time.Now().UTC()
	if err := uc.universities.Update(ctx, university); err != nil {
		return fmt.Errorf("failed to deactivate university: %w", err)
	}

	uc.invalidate(ctx)
	return nil
}

func (uc *universityUsecase) ensureNameFree(ctx context.Context, name string) error {
	_, err := uc.universities.GetByName(ctx, name)
	switch {
	case err == nil:
		return models.NewConflictError("university %q already exists", name)
	case errors.Is(err, models.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("failed to check university name: %w", err)
	}
}

// Product listings embed the university, so they go stale too.
func (uc *universityUsecase) invalidate(ctx context.Context) {
	uc.invalidator.Invalidate(ctx, RouteUniversities, RouteProducts)
}
