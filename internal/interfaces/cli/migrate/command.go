package migrate

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/fylo-cloud/fylo/internal/infrastructure/config"
	"github.com/fylo-cloud/fylo/internal/infrastructure/database"
	"github.com/fylo-cloud/fylo/internal/infrastructure/migration"
	"github.com/fylo-cloud/fylo/internal/shared/biztime"
	"github.com/fylo-cloud/fylo/internal/shared/logger"
)

var (
	env        string
	configPath string
	name       string
	steps      int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage database migrations including running migrations, checking status, and creating new migration files.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
		newCreateCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Long:  `Apply all pending database migrations to bring the database schema up to date.`,
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		Long:  `Rollback a specified number of database migrations.`,
		RunE:  runDown,
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long:  `Display the current migration version and status of the database.`,
		RunE:  runStatus,
	}
}

func newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new migration",
		Long:  `Create new migration files with the specified name.`,
		RunE:  runCreate,
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the migration (required)")
	cmd.MarkFlagRequired("name")

	return cmd
}

// migrationEnv is the loaded configuration plus an open database.
type migrationEnv struct {
	driver   string
	log      logger.Interface
	strategy *migration.GooseStrategy
}

func initEnv(connect bool) (*migrationEnv, error) {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, false); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	log := logger.NewLogger()

	// Initialize business timezone for date boundary calculations
	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	strategy, err := migration.NewGooseStrategy(cfg.Database.Driver, log)
	if err != nil {
		return nil, err
	}

	if connect {
		if err := database.Init(&cfg.Database); err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
	}

	return &migrationEnv{driver: cfg.Database.Driver, log: log, strategy: strategy}, nil
}

func runUp(cmd *cobra.Command, args []string) error {
	me, err := initEnv(true)
	if err != nil {
		return err
	}
	defer database.Close()

	me.log.Infow("running up migrations", "environment", env, "driver", me.driver)

	if err := me.strategy.Migrate(database.Get()); err != nil {
		me.log.Errorw("migration failed", "error", err)
		return fmt.Errorf("migration failed: %w", err)
	}

	me.log.Infow("migrations completed successfully")
	return nil
}

func runDown(cmd *cobra.Command, args []string) error {
	me, err := initEnv(true)
	if err != nil {
		return err
	}
	defer database.Close()

	me.log.Infow("running down migrations", "environment", env, "steps", steps)

	if err := me.strategy.MigrateDown(database.Get(), steps); err != nil {
		me.log.Errorw("down migration failed", "error", err)
		return fmt.Errorf("down migration failed: %w", err)
	}

	me.log.Infow("down migration completed successfully")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	me, err := initEnv(true)
	if err != nil {
		return err
	}
	defer database.Close()

	me.log.Infow("checking migration status", "environment", env)

	return printStatus(cmd, me, database.Get())
}

func printStatus(cmd *cobra.Command, me *migrationEnv, db *gorm.DB) error {
	version, err := me.strategy.GetVersion(db)
	if err != nil {
		me.log.Errorw("failed to get migration version", "error", err)
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nMigration Status:\n")
	fmt.Fprintf(out, "  Environment:     %s\n", env)
	fmt.Fprintf(out, "  Driver:          %s\n", me.driver)
	fmt.Fprintf(out, "  Current Version: %d\n", version)

	if err := me.strategy.Status(db); err != nil {
		me.log.Errorw("failed to get detailed status", "error", err)
		return fmt.Errorf("failed to get detailed status: %w", err)
	}

	return nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	me, err := initEnv(false)
	if err != nil {
		return err
	}

	sourceDir, err := filepath.Abs(filepath.Join("internal", "infrastructure", "migration", "scripts", me.driver))
	if err != nil {
		return fmt.Errorf("failed to get scripts path: %w", err)
	}

	me.log.Infow("creating new migration", "name", name, "dir", sourceDir)

	if err := me.strategy.Create(sourceDir, name); err != nil {
		me.log.Errorw("failed to create migration", "error", err)
		return fmt.Errorf("failed to create migration: %w", err)
	}

	me.log.Infow("migration created successfully", "name", name)
	fmt.Fprintf(cmd.OutOrStdout(), "Migration '%s' created in %s\n", name, sourceDir)

	return nil
}
