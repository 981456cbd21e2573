// Command migrate manages the AgriFarma database schema and seed data.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	identityapp "github.com/agrifarma/backend/internal/application/identity"
	taxonomyapp "github.com/agrifarma/backend/internal/application/taxonomy"
	"github.com/agrifarma/backend/internal/infrastructure/config"
	"github.com/agrifarma/backend/internal/infrastructure/event"
	"github.com/agrifarma/backend/internal/infrastructure/logger"
	"github.com/agrifarma/backend/internal/infrastructure/migration"
	"github.com/agrifarma/backend/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	migrationsDir string
	logLevel      string
	fromDisk      bool

	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "AgriFarma database migration tool",
	Long: `Apply, roll back and inspect the versioned SQL schema, and seed the
default categories and administrator account.

Connection settings come from config.toml and AGRI_* environment
variables, the same sources the API server reads.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logger.New(logger.Config{
			Level:   logLevel,
			Format:  "console",
			Output:  "stdout",
			Service: "agrifarma-migrate",
		})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		log = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migration.Migrator) error { return m.Up() })
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back all migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migration.Migrator) error { return m.Down() })
	},
}

var stepsCmd = &cobra.Command{
	Use:   "steps <n>",
	Short: "Apply n migrations (negative n rolls back)",
	Example: `  migrate steps 1
  migrate steps -- -1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid step count %q", args[0])
		}
		return withMigrator(func(m *migration.Migrator) error { return m.Steps(n) })
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the current schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migration.Migrator) error {
			version, dirty, err := m.Version()
			if err != nil {
				return err
			}
			if version == 0 {
				log.Info("No migrations applied")
				return nil
			}
			log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
			return nil
		})
	},
}

var forceCmd = &cobra.Command{
	Use:   "force <version>",
	Short: "Set the schema version without running migrations",
	Long:  "Marks the schema as clean at the given version. Use only to repair a dirty database after a failed migration.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		return withMigrator(func(m *migration.Migrator) error { return m.Force(version) })
	},
}

var createCmd = &cobra.Command{
	Use:     "create <name> [description]",
	Short:   "Create a new up/down migration pair",
	Example: `  migrate create add_product_tags "Tag table for marketplace products"`,
	Args:    cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		description := ""
		if len(args) > 1 {
			description = args[1]
		}
		dir, err := filepath.Abs(migrationsDir)
		if err != nil {
			return fmt.Errorf("failed to resolve migrations directory: %w", err)
		}
		mf, err := migration.CreateMigration(dir, args[0], description)
		if err != nil {
			return err
		}
		log.Info("Migration created",
			zap.Uint("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List migrations found in the migrations directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := migration.ListMigrations(migrationsDir)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			log.Info("No migrations found", zap.String("dir", migrationsDir))
			return nil
		}
		for _, f := range files {
			fmt.Fprintln(cmd.OutOrStdout(), f.BaseName())
		}
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the default categories and the administrator account",
	Long:  "Idempotent: existing categories and an existing administrator are left untouched.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		db, err := persistence.NewDatabase(&cfg.Database)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		bus := event.NewInMemoryEventBus(log)
		bus.Subscribe(event.NewAuditLogHandler(log))
		if err := bus.Start(ctx); err != nil {
			return err
		}
		defer func() { _ = bus.Stop(context.Background()) }()

		categories := taxonomyapp.NewCategoryService(persistence.NewGormCategoryRepository(db.DB), log)
		users := identityapp.NewUserService(persistence.NewGormUserRepository(db.DB), bus, log)

		created, err := categories.SeedDefaultCategories(ctx)
		if err != nil {
			return fmt.Errorf("failed to seed categories: %w", err)
		}
		log.Info("Categories seeded", zap.Int("created", created))

		adminCreated, err := users.SeedAdmin(ctx, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword, cfg.Bootstrap.AdminName)
		if err != nil {
			return fmt.Errorf("failed to seed admin account: %w", err)
		}
		log.Info("Admin account ready", zap.String("email", cfg.Bootstrap.AdminEmail), zap.Bool("created", adminCreated))
		if cfg.Bootstrap.AdminPassword == config.DefaultAdminPassword {
			log.Warn("Admin account uses the default password, change it before going live")
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&migrationsDir, "dir", "migrations", "migrations directory for create, list and --from-disk")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&fromDisk, "from-disk", false, "read migrations from --dir instead of the embedded copy")

	rootCmd.AddCommand(upCmd, downCmd, stepsCmd, versionCmd, forceCmd, createCmd, listCmd, seedCmd)
}

// withMigrator opens the configured database, builds a migrator and runs fn
func withMigrator(fn func(m *migration.Migrator) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Database.Driver == persistence.DriverSQLite {
		return fmt.Errorf("versioned migrations target postgres; sqlite databases use auto-migrate")
	}

	var m *migration.Migrator
	if fromDisk {
		dir, err := filepath.Abs(migrationsDir)
		if err != nil {
			return fmt.Errorf("failed to resolve migrations directory: %w", err)
		}
		m, err = migration.NewFromDir(cfg.Database.DSN(), dir, log)
		if err != nil {
			return err
		}
	} else {
		db, err := persistence.NewDatabase(&cfg.Database)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			return fmt.Errorf("failed to ping database: %w", err)
		}

		sqlDB, err := db.DB.DB()
		if err != nil {
			return fmt.Errorf("failed to get underlying sql.DB: %w", err)
		}
		m, err = migration.New(sqlDB, log)
		if err != nil {
			return err
		}
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
	}()

	return fn(m)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if log != nil {
			log.Error("Command failed", zap.Error(err))
		}
		os.Exit(1)
	}
}
