package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vjranagit/queryeditor/internal/config"
	"github.com/vjranagit/queryeditor/pkg/catalog"
	"github.com/vjranagit/queryeditor/pkg/editor"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	version = "0.1.0"
)

var (
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:     "queryeditor",
	Short:   "Synthetic-data query editor",
	Version: version,
	Long: `queryeditor edits synthetic-data queries: pick a generation scenario,
set its parameters and enter manual time series point by point.

The serve command exposes editor sessions over a JSON HTTP API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			cfg.Log.Level = logLevel
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		logger, err = buildLogger(cfg.Log)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd, scenariosCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildLogger(lc config.LogConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if lc.Development {
		zc = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(lc.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", lc.Level, err)
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	l, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return l, nil
}

// openCatalog returns the configured scenario provider and its cleanup
func openCatalog(ctx context.Context) (editor.ScenarioLister, func(), error) {
	if cfg.Catalog.Source == "builtin" {
		return catalog.NewStatic(nil), func() {}, nil
	}

	store, err := catalog.Open(cfg.ToCatalogConfig(), logger.Named("catalog"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("Closing catalog failed", zap.Error(err))
		}
	}

	if cfg.Catalog.SeedBuiltin {
		n, err := store.Count()
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to inspect catalog: %w", err)
		}
		if n == 0 {
			if err := store.Replace(ctx, catalog.Builtin()); err != nil {
				cleanup()
				return nil, nil, err
			}
		}
	}

	if cfg.Catalog.CacheTTL > 0 {
		return catalog.NewCached(store, cfg.Catalog.CacheTTL), cleanup, nil
	}
	return store, cleanup, nil
}
