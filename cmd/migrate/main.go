package main

import (
	"fmt"
	"net/url"
	"os"

	"github.com/getmentor/mentor-application-api/config"
	"github.com/getmentor/mentor-application-api/pkg/db"
	"github.com/getmentor/mentor-application-api/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrationsPath string

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "Manage the mentor applications database schema",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runMigrations(db.DirectionUp)
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runMigrations(db.DirectionDown)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&migrationsPath, "path", "file://migrations", "migrations source URL")
	rootCmd.AddCommand(upCmd, downCmd)
}

func main() {
	// Running without a subcommand applies pending migrations
	if len(os.Args) == 1 {
		rootCmd.SetArgs([]string{"up"})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runMigrations(direction string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: "mentor-application-migrate",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required to run migrations")
	}

	logger.Info("Starting database migrations",
		zap.String("database", maskDatabaseURL(cfg.Database.URL)),
		zap.String("direction", direction))

	if err := db.RunMigrations(cfg.Database.URL, cfg.Database.CACertPath, migrationsPath, direction); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// maskDatabaseURL hides credentials in the database URL for logging
func maskDatabaseURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "***"
	}
	if u.User != nil {
		u.User = url.User(u.User.Username())
	}
	return u.Redacted()
}
