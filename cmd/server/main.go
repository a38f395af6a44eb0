package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/youruser/decklist/internal/api"
	"github.com/youruser/decklist/internal/cards"
	"github.com/youruser/decklist/internal/config"
	"github.com/youruser/decklist/internal/logging"
	"github.com/youruser/decklist/internal/lookup"
	"github.com/youruser/decklist/internal/store"
	"github.com/youruser/decklist/internal/util"
)

func main() {
	var configPath string
	cmd := &cobra.Command{
		Use:           "decklist-server",
		Short:         "Serve the decklist editing and rendering API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config.toml")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("configuration loaded", zap.String("path", resolved), zap.Bool("exists", exists))

	source, err := cards.NewConfiguredSource(cfg, logger)
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	// Warm the name list (best-effort)
	go func() {
		if _, err := source.Names(context.Background()); err != nil {
			logger.Warn("failed to load catalog names at startup", zap.Error(err))
		}
	}()

	st, err := store.Load(store.Config{Dir: cfg.Store.Dir, CacheBytes: cfg.Store.CacheBytes}, logger)
	if err != nil {
		return err
	}

	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery(), api.RequestLogger(logger))
	api.RegisterRoutes(r, api.NewHandler(api.Options{
		Store:    st,
		Catalog:  source,
		Resolver: lookup.NewResolver(source, cfg.Catalog.SearchLimit, logger),
		HTTP:     util.NewHTTPClient(cfg.CatalogTimeout()),
		QRSize:   cfg.Share.QRSize,
		MaxArt:   cfg.Share.MaxArt,
		Logger:   logger,
	}))

	srv := &http.Server{Addr: cfg.Server.Bind, Handler: r}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", cfg.Server.Bind))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
