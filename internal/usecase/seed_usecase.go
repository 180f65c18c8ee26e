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
	"github.com/nguyentranbao-ct/merch-api/pkg/logger"
)

const (
	SeedAdminEmail    = "admin@test.com"
	SeedAdminPassword = "Admin@123"
	SeedUserEmail     = "user@test.com"
	SeedUserPassword  = "User@123"
)

type SeedUsecase interface {
	// Seed loads the demo catalog. It does nothing when the demo admin
	// already exists.
	Seed(ctx context.Context) (*models.SeedResult, error)
}

type seedUsecase struct {
	store       *repo.Store
	invalidator Invalidator
	bcryptCost  int
}

func NewSeedUsecase(conf *config.Config, store *repo.Store, invalidator Invalidator) SeedUsecase {
	return &seedUsecase{
		store:       store,
		invalidator: invalidator,
		bcryptCost:  conf.Auth.BcryptCost,
	}
}

type seedProduct struct {
	name, description, category string
	price                       float64
	stock, university           int
}

type seedOrder struct {
	product, quantity int
	amount            float64
	status            models.OrderStatus
	date              string
}

var (
	seedUniversities = []models.University{
		{Name: "MIT", Location: "Cambridge, MA", ContactEmail: "merch@mit.edu"},
		{Name: "Stanford University", Location: "Stanford, CA", ContactEmail: "store@stanford.edu"},
		{Name: "Harvard University", Location: "Cambridge, MA", ContactEmail: "shop@harvard.edu"},
		{Name: "Yale University", Location: "New Haven, CT", ContactEmail: "store@yale.edu"},
		{Name: "Princeton University", Location: "Princeton, NJ", ContactEmail: "shop@princeton.edu"},
	}

	seedProducts = []seedProduct{
		{"MIT Premium Hoodie", "Premium cotton hoodie with embroidered MIT logo", "Apparel", 59.99, 100, 0},
		{"MIT Baseball Cap", "Classic fitted baseball cap", "Accessories", 24.99, 200, 0},
		{"Stanford T-Shirt", "Comfortable cotton t-shirt", "Apparel", 29.99, 150, 1},
		{"Stanford Notebook", "Premium leather notebook", "Stationery", 15.99, 300, 1},
		{"Harvard Sweatshirt", "Warm fleece sweatshirt", "Apparel", 54.99, 80, 2},
		{"Harvard Coffee Mug", "Ceramic mug with Harvard crest", "Accessories", 12.99, 500, 2},
		{"Yale Polo Shirt", "Smart casual polo", "Apparel", 44.99, 120, 3},
		{"Princeton Backpack", "Durable canvas backpack", "Accessories", 69.99, 60, 4},
		{"MIT Water Bottle", "Stainless steel insulated bottle", "Accessories", 19.99, 250, 0},
		{"Stanford Jacket", "Lightweight windbreaker jacket", "Apparel", 79.99, 40, 1},
	}

	seedOrders = []seedOrder{
		{0, 5, 299.95, models.OrderStatusDelivered, "2026-01-15"},
		{2, 10, 299.90, models.OrderStatusDelivered, "2026-01-20"},
		{4, 3, 164.97, models.OrderStatusShipped, "2026-02-01"},
		{1, 20, 499.80, models.OrderStatusDelivered, "2026-02-05"},
		{5, 15, 194.85, models.OrderStatusConfirmed, "2026-02-10"},
		{7, 8, 559.92, models.OrderStatusDelivered, "2026-01-25"},
		{3, 25, 399.75, models.OrderStatusDelivered, "2026-02-08"},
		{9, 6, 479.94, models.OrderStatusPending, "2026-02-15"},
	}
)

func (uc *seedUsecase) Seed(ctx context.Context) (*models.SeedResult, error) {
	_, err := uc.store.Users.GetByEmail(ctx, SeedAdminEmail)
	if err == nil {
		return &models.SeedResult{AlreadySeeded: true}, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to check seed state: %w", err)
	}

	now := time.Now().UTC()
	result := &models.SeedResult{}

	for _, u := range []struct {
		username, email, password string
		role                      models.Role
	}{
		{"admin", SeedAdminEmail, SeedAdminPassword, models.RoleAdmin},
		{"testuser", SeedUserEmail, SeedUserPassword, models.RoleUser},
	} {
		hash, err := hashPassword(u.password, uc.bcryptCost)
		if err != nil {
			return nil, err
		}
		user := &models.User{
			ID:           uuid.NewString(),
			Username:     u.username,
			Email:        u.email,
			PasswordHash: hash,
			Role:         u.role,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := uc.store.Users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to seed user %s: %w", u.email, err)
		}
		result.Users++
	}

	universities := make([]*models.University, len(seedUniversities))
	for i, tmpl := range seedUniversities {
		university := tmpl
		university.ID = uuid.NewString()
		university.IsActive = true
		university.CreatedAt = now
		university.UpdatedAt = now
		if err := uc.store.Universities.Create(ctx, &university); err != nil {
			return nil, fmt.Errorf("failed to seed university %s: %w", university.Name, err)
		}
		universities[i] = &university
		result.Universities++
	}

	products := make([]*models.Product, len(seedProducts))
	for i, sp := range seedProducts {
		product := &models.Product{
			ID:           uuid.NewString(),
			Name:         sp.name,
			Description:  sp.description,
			Category:     sp.category,
			Price:        sp.price,
			Stock:        sp.stock,
			IsActive:     true,
			UniversityID: universities[sp.university].ID,
			// distinct timestamps keep the default createdAt ordering stable
			CreatedAt: now.Add(time.Duration(i) * time.Millisecond),
			UpdatedAt: now,
		}
		if err := uc.store.Products.Create(ctx, product); err != nil {
			return nil, fmt.Errorf("failed to seed product %s: %w", sp.name, err)
		}
		products[i] = product
		result.Products++
	}

	for _, so := range seedOrders {
		date, err := time.Parse(time.DateOnly, so.date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse seed order date: %w", err)
		}
		product := products[so.product]
		order := &models.Order{
			ID:           uuid.NewString(),
			ProductID:    product.ID,
			UniversityID: product.UniversityID,
			Quantity:     so.quantity,
			Amount:       so.amount,
			Status:       so.status,
			OrderDate:    date,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := uc.store.Orders.Create(ctx, order); err != nil {
			return nil, fmt.Errorf("failed to seed order: %w", err)
		}
		result.Orders++
	}

	uc.invalidator.Invalidate(ctx, RouteProducts, RouteUniversities, RouteOrders)
	logger.Infow(ctx, "database seeded",
		"users", result.Users,
		"universities", result.Universities,
		"products", result.Products,
		"orders", result.Orders,
	)
	return result, nil
}
