package cmd

import (
	"context"
	"os"

	"github.com/nguyentranbao-ct/merch-api/internal/app"
	"github.com/nguyentranbao-ct/merch-api/internal/kafka"
	"github.com/nguyentranbao-ct/merch-api/internal/server"
	"github.com/nguyentranbao-ct/merch-api/internal/usecase"
	"github.com/nguyentranbao-ct/merch-api/pkg/logger"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "merch-api",
	Short:         "University merchandise API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server and the catalog event consumer",
	Run: func(cmd *cobra.Command, args []string) {
		app.Invoke(
			app.Migrate,
			server.StartServer,
			kafka.StartConsumeInvalidations,
		).Run()
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database schema",
	Run: func(cmd *cobra.Command, args []string) {
		app.Invoke(
			app.Migrate,
			app.RunOnce(func(context.Context) error { return nil }),
		).Run()
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo catalog",
	Run: func(cmd *cobra.Command, args []string) {
		var seeder usecase.SeedUsecase
		app.Invoke(
			app.Migrate,
			func(s usecase.SeedUsecase) { seeder = s },
			app.RunOnce(func(ctx context.Context) error {
				res, err := seeder.Seed(ctx)
				if err != nil {
					return err
				}
				logger.Infow(ctx, "seed finished", "result", res)
				return nil
			}),
		).Run()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.MustNamed("cmd").Errorw("command failed", "error", err)
		os.Exit(1)
	}
}
