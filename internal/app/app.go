package app

import (
	"context"

	"github.com/nguyentranbao-ct/merch-api/internal/config"
	"github.com/nguyentranbao-ct/merch-api/internal/kafka"
	"github.com/nguyentranbao-ct/merch-api/internal/repo"
	"github.com/nguyentranbao-ct/merch-api/internal/server"
	"github.com/nguyentranbao-ct/merch-api/internal/usecase"
	"github.com/nguyentranbao-ct/merch-api/pkg/logger"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"
)

func Invoke(funcs ...any) *fx.App {
	log := logger.MustNamed("app")
	conf := config.MustLoad()
	if err := logger.SetLevel(conf.Log.Level); err != nil {
		log.Warnw("invalid log level, keeping default", "level", conf.Log.Level, "error", err)
	}
	log.Debugw("config loaded", log.Reflect("config", conf))
	return fx.New(
		fx.WithLogger(func() fxevent.Logger {
			l := &fxevent.ZapLogger{
				Logger: log.Unwrap().Desugar(),
			}
			l.UseLogLevel(zapcore.DebugLevel)
			return l
		}),
		fx.Provide(
			newStore,
			newCacheStore,
			newKeyBuilder,
			newResultCache,
			newInstanceID,

			repositories,

			kafka.NewPublisher,

			usecase.NewInvalidator,
			usecase.NewAuthUsecase,
			usecase.NewProductUsecase,
			usecase.NewUniversityUsecase,
			usecase.NewOrderUsecase,
			usecase.NewSeedUsecase,

			server.NewHealthController,
			server.NewAuthController,
			server.NewProductController,
			server.NewUniversityController,
			server.NewOrderController,
			server.NewSeedController,
		),
		fx.Supply(conf),
		fx.Invoke(funcs...),
	)
}

// Migrate creates the schema before the server starts accepting requests.
func Migrate(lc fx.Lifecycle, store *repo.Store) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := store.Migrate(ctx); err != nil {
				return err
			}
			logger.Infow(ctx, "schema is up to date")
			return nil
		},
	})
}

// RunOnce runs fn after every start hook and stops the app when it returns.
func RunOnce(fn func(ctx context.Context) error) func(fx.Lifecycle, fx.Shutdowner) {
	return func(lc fx.Lifecycle, sd fx.Shutdowner) {
		lc.Append(fx.Hook{
			OnStart: func(context.Context) error {
				go func() {
					code := 0
					if err := fn(context.Background()); err != nil {
						logger.Errorw(context.Background(), "command failed", "error", err)
						code = 1
					}
					_ = sd.Shutdown(fx.ExitCode(code))
				}()
				return nil
			},
		})
	}
}
