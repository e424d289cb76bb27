// Package cmd implements the CLI commands for the terrenos server.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/donaldgifford/terrenos/internal/config"
	"github.com/donaldgifford/terrenos/internal/store"
	"github.com/donaldgifford/terrenos/pkg/logger"
)

var (
	cfgFile string
	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "terrenos",
	Short: "Filter, rank and search land listings",
	Long: "terrenos serves a catalog of land listings from portals and judicial\n" +
		"auctions. It filters and ranks the catalog, derives a search query\n" +
		"from the active filters and links it to every portal.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (defaults apply when empty)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env",
		"dotenv file loaded before ${VAR} expansion; a missing file is ignored")

	rootCmd.AddCommand(
		serveCommand(),
		migrateCommand(),
		ingestCommand(),
		aggregateCommand(),
		queryCommand(),
		versionCommand(),
	)
}

// Root returns the root command, for documentation generators.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig loads --env-file into the environment, then reads --config, or
// returns the defaults when it is unset. Variables already set in the
// environment win over the dotenv file.
func loadConfig() (*config.Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}
	if cfgFile == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*slog.Logger, error) {
	return logger.New(logger.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Writer:  os.Stderr,
		Service: "terrenos",
	})
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}

// openStore connects to the catalog store named by kind (postgres or sqlite).
func openStore(ctx context.Context, cfg *config.Config, kind string) (store.Store, error) {
	switch kind {
	case config.SourcePostgres:
		if err := cfg.Database.Validate(); err != nil {
			return nil, fmt.Errorf("database config: %w", err)
		}
		st, err := store.NewPostgresStore(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		return st, nil
	case config.SourceSQLite:
		st, err := store.NewSQLiteStore(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return st, nil
	default:
		return nil, fmt.Errorf("no catalog store for %q: use --store postgres or --store sqlite", kind)
	}
}
