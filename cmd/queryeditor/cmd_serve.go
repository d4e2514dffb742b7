package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vjranagit/queryeditor/pkg/api"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve editor sessions over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	logger.Info("Configuration loaded",
		zap.String("listen_addr", cfg.Server.ListenAddr),
		zap.String("catalog_source", cfg.Catalog.Source),
		zap.String("catalog_path", cfg.Catalog.Path),
		zap.Int("compression_level", cfg.Catalog.CompressionLevel))

	lister, cleanup, err := openCatalog(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	server := api.NewServer(cfg.Server.ListenAddr, lister, cfg.Server.Timeout, logger.Named("api"))

	errCh := make(chan error, 1)
	go func() {
		logger.Info("API server listening", zap.String("addr", cfg.Server.ListenAddr))
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		logger.Info("Shutdown signal received, stopping server")
	case err := <-errCh:
		logger.Error("Server error", zap.Error(err))
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		logger.Warn("Server shutdown error", zap.Error(err))
		return err
	}

	logger.Info("Server stopped")
	return nil
}
