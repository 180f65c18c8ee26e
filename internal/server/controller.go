package server

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"github.com/nguyentranbao-ct/merch-api/internal/repo"
	"github.com/nguyentranbao-ct/merch-api/internal/repo/cache"
	pkgmdw "github.com/nguyentranbao-ct/merch-api/internal/server/middleware"
	"github.com/nguyentranbao-ct/merch-api/internal/usecase"
)

// Controllers groups every HTTP controller for route registration.
type Controllers struct {
	fx.In

	Health     HealthController
	Auth       AuthController
	Product    ProductController
	University UniversityController
	Order      OrderController
	Seed       SeedController
}

type HealthController interface {
	Health(c echo.Context, req struct{}) (*pkgmdw.Response, error)
}

type healthController struct {
	store *repo.Store
	cache cache.Store
}

func NewHealthController(store *repo.Store, cache cache.Store) HealthController {
	return &healthController{
		store: store,
		cache: cache,
	}
}

type healthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

// Health reports 503 only when the database is down; a dead cache only
// slows the service down.
func (h *healthController) Health(c echo.Context, _ struct{}) (*pkgmdw.Response, error) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := healthStatus{Status: "ok", Database: "up", Cache: "up"}
	code := http.StatusOK
	if err := h.store.Ping(ctx); err != nil {
		status.Status, status.Database = "degraded", "down"
		code = http.StatusServiceUnavailable
	}
	if err := h.cache.Ping(ctx); err != nil {
		status.Cache = "down"
	}

	return &pkgmdw.Response{
		Status:  code,
		Success: code == http.StatusOK,
		Data:    status,
	}, nil
}

// setCacheHeader exposes how a cached read was served.
func setCacheHeader(c echo.Context) {
	if status, ok := usecase.CacheStatusFromContext(c.Request().Context()); ok {
		c.Response().Header().Set(pkgmdw.HeaderXCache, string(status))
	}
}

func respondOK(data any) *pkgmdw.Response {
	return &pkgmdw.Response{Status: http.StatusOK, Success: true, Data: data}
}

func respondCreated(data any, message string) *pkgmdw.Response {
	return &pkgmdw.Response{Status: http.StatusCreated, Success: true, Message: message, Data: data}
}

func respondDone(message string) *pkgmdw.Response {
	return &pkgmdw.Response{Status: http.StatusOK, Success: true, Message: message}
}
