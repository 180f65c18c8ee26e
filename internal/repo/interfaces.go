// Package repo declares the backing store contracts. Implementations live in
// sqldb (postgres, sqlite via bun) and mongodb.
package repo

import (
	"context"

	"github.com/nguyentranbao-ct/merch-api/internal/models"
)

type ProductRepository interface {
	// FetchPage returns one page of products matching spec and the total
	// number of matches ignoring offset and limit.
	FetchPage(ctx context.Context, spec models.FetchSpec) ([]*models.Product, int64, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	// Delete soft deletes the product.
	Delete(ctx context.Context, id string) error
	Categories(ctx context.Context) ([]string, error)
}

type UniversityRepository interface {
	ListActive(ctx context.Context) ([]*models.University, error)
	GetByID(ctx context.Context, id string) (*models.University, error)
	GetByName(ctx context.Context, name string) (*models.University, error)
	Create(ctx context.Context, university *models.University) error
	Update(ctx context.Context, university *models.University) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	ListByUniversity(ctx context.Context, universityID string) ([]*models.Order, error)
	TopUniversities(ctx context.Context, limit int) ([]*models.UniversitySales, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// Store bundles the repositories of one backing store.
type Store struct {
	Products     ProductRepository
	Universities UniversityRepository
	Orders       OrderRepository
	Users        UserRepository

	// Migrate creates tables or indexes. It is safe to run repeatedly.
	Migrate func(ctx context.Context) error
	Ping    func(ctx context.Context) error
	Close   func(ctx context.Context) error
}
