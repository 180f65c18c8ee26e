package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
	"golang.org/x/time/rate"

	"github.com/nguyentranbao-ct/merch-api/internal/config"
	"github.com/nguyentranbao-ct/merch-api/internal/models"
	pkgmdw "github.com/nguyentranbao-ct/merch-api/internal/server/middleware"
	"github.com/nguyentranbao-ct/merch-api/internal/usecase"
	"github.com/nguyentranbao-ct/merch-api/pkg/ctxval"
	"github.com/nguyentranbao-ct/merch-api/pkg/logger"
)

func StartServer(
	lc fx.Lifecycle,
	sd fx.Shutdowner,
	conf *config.Config,
	auth usecase.AuthUsecase,
	handlers Controllers,
) error {
	e, err := NewRouter(conf, auth, handlers)
	if err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Infow(ctx, "starting HTTP server", "addr", conf.Server.Addr)
				if err := e.Start(conf.Server.Addr); !errors.Is(err, http.ErrServerClosed) {
					logger.Errorw(ctx, "HTTP server stopped", "error", err)
					_ = sd.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})
	return nil
}

// NewRouter builds the echo instance with the middleware chain and every route.
func NewRouter(conf *config.Config, verifier pkgmdw.TokenVerifier, h Controllers) (*echo.Echo, error) {
	origins, err := regexp.Compile(conf.Server.CORSOrigin)
	if err != nil {
		return nil, fmt.Errorf("compile cors origin: %w", err)
	}

	httpLog := logger.MustNamed("http")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = pkgmdw.NewValidator()
	e.HTTPErrorHandler = pkgmdw.ErrorHandler(httpLog)

	logConfig := pkgmdw.LogRequestConfig{
		Logger: httpLog,
		Enabled: func(c echo.Context) bool {
			return !isProbe(c)
		},
	}
	metricsConfig := pkgmdw.DefaultMetricsConfig
	metricsConfig.Skipper = isProbe

	e.Use(wrapContext)
	e.Use(pkgmdw.MetricsWithConfig(metricsConfig))
	e.Use(pkgmdw.RequestID())
	e.Use(pkgmdw.LogRequest(logConfig))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Errorw(c.Request().Context(), "PANIC RECOVER", "error", err, "stack", string(stack))
			return nil
		},
	}))
	e.Use(pkgmdw.CORS(origins))

	authn := pkgmdw.JWTAuth(verifier)
	admin := pkgmdw.Authorize(models.RoleAdmin)

	if conf.Server.PprofEnabled {
		pkgmdw.Pprof(e, authn, admin)
	}

	health := pkgmdw.WrapHandler(h.Health.Health)
	e.GET("/health", health)

	api := e.Group("/api")
	if conf.Server.RateLimit > 0 {
		api.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: middleware.NewRateLimiterMemoryStore(rate.Limit(conf.Server.RateLimit)),
		}))
	}
	api.GET("/health", health)

	auth := api.Group("/auth")
	auth.POST("/register", pkgmdw.WrapHandler(h.Auth.Register))
	auth.POST("/login", pkgmdw.WrapHandler(h.Auth.Login))
	auth.POST("/refresh", pkgmdw.WrapHandler(h.Auth.Refresh))
	auth.GET("/profile", pkgmdw.WrapHandler(h.Auth.Profile), authn)

	products := api.Group("/products")
	products.GET("", pkgmdw.WrapHandler(h.Product.List))
	products.GET("/categories", pkgmdw.WrapHandler(h.Product.Categories))
	products.GET("/:id", pkgmdw.WrapHandler(h.Product.Get))
	products.POST("", pkgmdw.WrapHandler(h.Product.Create), authn)
	products.PUT("/:id", pkgmdw.WrapHandler(h.Product.Update), authn)
	products.DELETE("/:id", pkgmdw.WrapHandler(h.Product.Delete), authn, admin)

	universities := api.Group("/universities")
	universities.GET("", pkgmdw.WrapHandler(h.University.List))
	universities.GET("/:id", pkgmdw.WrapHandler(h.University.Get))
	universities.POST("", pkgmdw.WrapHandler(h.University.Create), authn, admin)
	universities.PUT("/:id", pkgmdw.WrapHandler(h.University.Update), authn, admin)
	universities.DELETE("/:id", pkgmdw.WrapHandler(h.University.Delete), authn, admin)

	orders := api.Group("/orders")
	orders.GET("/top-universities", pkgmdw.WrapHandler(h.Order.TopUniversities))
	orders.GET("/university/:universityId", pkgmdw.WrapHandler(h.Order.ListByUniversity))
	orders.POST("", pkgmdw.WrapHandler(h.Order.Create), authn)

	api.POST("/seed", pkgmdw.WrapHandler(h.Seed.Seed))

	return e, nil
}

// wrapContext lets handlers report values, like the cache status, back to
// the outer middleware through the request context.
func wrapContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		c.SetRequest(req.WithContext(ctxval.Wrap(req.Context())))
		return next(c)
	}
}

// isProbe matches health checks, kept out of the access log and metrics.
func isProbe(c echo.Context) bool {
	return strings.HasSuffix(c.Path(), "/health")
}
