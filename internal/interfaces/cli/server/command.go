package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/fylo-cloud/fylo/internal/infrastructure/config"
	"github.com/fylo-cloud/fylo/internal/infrastructure/database"
	"github.com/fylo-cloud/fylo/internal/infrastructure/migration"
	httpRouter "github.com/fylo-cloud/fylo/internal/interfaces/http"
	"github.com/fylo-cloud/fylo/internal/shared/biztime"
	"github.com/fylo-cloud/fylo/internal/shared/logger"
	"github.com/fylo-cloud/fylo/internal/shared/version"
)

var (
	env                string
	configPath         string
	autoMigrate        bool
	skipMigrationCheck bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the Fylo storefront and admin API with the specified configuration.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Create the schema with GORM AutoMigrate instead of the versioned scripts (development only)")
	cmd.Flags().BoolVar(&skipMigrationCheck, "skip-migration-check", false, "Skip applying pending migrations on startup")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(mapEnvToGinMode(env), configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode == gin.DebugMode); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	if err := checkJWTSecret(cfg, log); err != nil {
		return err
	}

	log.Infow("starting server",
		"environment", env,
		"version", version.String(),
		"auto_migrate", autoMigrate)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {
		log.Debugw("route registered", "method", httpMethod, "path", absolutePath)
	}

	db, err := openOrderStore(cfg, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer database.Close()
	}

	container, err := httpRouter.NewContainer(cfg, db, log)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}

	srv := &http.Server{
		Addr:        cfg.Server.GetAddr(),
		Handler:     container.Engine(),
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: the admin order stream is long-lived.
		IdleTimeout: 60 * time.Second,
	}
	// Open order streams never go idle on their own.
	srv.RegisterOnShutdown(container.CloseStreams)

	serveErr := make(chan error, 1)
	go func() {
		log.Infow("server starting",
			"address", cfg.Server.GetAddr(),
			"mode", cfg.Server.Mode,
			"storage", container.StorageConfigured())

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		container.Shutdown(context.Background())
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	}

	log.Infow("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		container.Shutdown(ctx)
		return err
	}
	container.Shutdown(ctx)

	log.Infow("server exited gracefully")
	return nil
}

// checkJWTSecret refuses the placeholder secret in release mode and warns
// about it otherwise.
func checkJWTSecret(cfg *config.Config, log logger.Interface) error {
	if !cfg.UsesDefaultJWTSecret() {
		return nil
	}
	if cfg.Server.Mode == gin.ReleaseMode {
		return fmt.Errorf("auth.jwt.secret is the default placeholder; set FYLO_AUTH_JWT_SECRET before running in release mode")
	}
	log.Warnw("admin tokens are signed with the default JWT secret", "mode", cfg.Server.Mode)
	return nil
}

// openOrderStore returns nil when no database is configured.
func openOrderStore(cfg *config.Config, log logger.Interface) (*gorm.DB, error) {
	if !cfg.Database.IsConfigured() {
		log.Warnw("database not configured, orders will not be stored")
		return nil, nil
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := handleMigrations(database.Get(), cfg.Database.Driver, log); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("migration handling failed: %w", err)
	}

	return database.Get(), nil
}

func handleMigrations(db *gorm.DB, driver string, log logger.Interface) error {
	if skipMigrationCheck {
		log.Infow("skipping migration check")
		return nil
	}

	if autoMigrate && env == "production" {
		log.Warnw("auto-migration is enabled in production environment - this is not recommended!")
	}

	manager, err := migration.NewManager(driver, autoMigrate, log)
	if err != nil {
		return err
	}
	return manager.Migrate(db)
}

func mapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return gin.ReleaseMode
	case "test", "testing":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
