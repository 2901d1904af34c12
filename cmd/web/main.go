package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"anhdu.dev/wyd-web/internal/catalog"
	"anhdu.dev/wyd-web/internal/catalog/postgres"
	"anhdu.dev/wyd-web/internal/catalog/rest"
	"anhdu.dev/wyd-web/internal/catalog/sqlite"
	"anhdu.dev/wyd-web/internal/cms"
	"anhdu.dev/wyd-web/internal/config"
	"anhdu.dev/wyd-web/internal/handlers"
	"anhdu.dev/wyd-web/internal/i18n"
	mw "anhdu.dev/wyd-web/internal/middleware"
	"anhdu.dev/wyd-web/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg.BindFlags(flag.CommandLine)
	flag.Parse()

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	for _, w := range cfg.Warnings {
		logger.Warn("config value ignored", zap.String("detail", w))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("web exited", zap.Error(err))
		os.Exit(1)
	}
}

// run serves until ctx is cancelled, then drains in-flight requests.
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	a, cleanup, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	var limiter *mw.RateLimiter
	if cfg.RateLimit > 0 {
		limiter = mw.NewRateLimiter(ctx, cfg.RateLimit, cfg.RateBurst, time.Minute, 10*time.Minute)
		limiter.SetMessage(func(r *http.Request) string {
			return a.bundle.T(mw.Lang(r), "error.rate_limited")
		})
		defer limiter.Shutdown()
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(a, limiter),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("web listening", zap.String("addr", cfg.Addr), zap.Bool("dev", cfg.Dev))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		logger.Info("web shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// app carries the dependencies shared by every handler.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	bundle    *i18n.Bundle
	catalog   catalog.Source
	content   *cms.Client
	views     *views
	analytics handlers.Analytics
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, func(), error) {
	bundle, err := i18n.Load(cfg.LocalesDir, cfg.DefaultLocale, cfg.SupportedLocales)
	if err != nil {
		return nil, nil, fmt.Errorf("i18n: %w", err)
	}

	v, err := newViews(cfg.TemplatesDir, cfg.Dev, bundle)
	if err != nil {
		return nil, nil, fmt.Errorf("templates: %w", err)
	}

	src, closeCatalog, err := openCatalog(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("catalog ready", zap.String("backend", catalogBackend(cfg)))

	content := cms.NewClient(cfg.ContentURL)
	content.SetContentDir(cfg.ContentDir)
	if cfg.Dev {
		content.SetCacheDuration(0)
	}

	a := &app{
		cfg:       cfg,
		logger:    logger,
		bundle:    bundle,
		catalog:   src,
		content:   content,
		views:     v,
		analytics: handlers.LoadAnalyticsFromEnv(),
	}
	return a, closeCatalog, nil
}

// openCatalog picks the backend from the configuration: a DSN selects Postgres or
// SQLite by scheme, a URL selects the REST data service, and nothing selects the
// built-in sample catalog. Every backend is wrapped in the snapshot cache.
func openCatalog(ctx context.Context, cfg *config.Config) (catalog.Source, func(), error) {
	noop := func() {}
	dsn := strings.TrimSpace(cfg.CatalogDSN)
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		store, err := postgres.Open(ctx, dsn, postgres.Options{
			MaxConns:        cfg.DBMaxConns,
			MinConns:        cfg.DBMinConns,
			MaxConnIdleTime: cfg.DBMaxConnIdleTime,
		})
		if err != nil {
			return nil, nil, err
		}
		return catalog.NewCached(store, cfg.CacheTTL), store.Close, nil
	case strings.HasPrefix(dsn, "sqlite:"), strings.HasPrefix(dsn, "file:"):
		store, err := sqlite.Open(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		if cfg.CatalogSeed {
			cats, products := catalog.SampleData()
			if err := store.Seed(ctx, cats, products); err != nil {
				_ = store.Close()
				return nil, nil, err
			}
		}
		return catalog.NewCached(store, cfg.CacheTTL), func() { _ = store.Close() }, nil
	case dsn != "":
		return nil, nil, fmt.Errorf("catalog: unsupported dsn scheme in %q", redactDSN(dsn))
	case cfg.CatalogURL != "":
		return catalog.NewCached(rest.NewClient(cfg.CatalogURL, cfg.CatalogKey), cfg.CacheTTL), noop, nil
	}
	return catalog.NewCached(catalog.Sample{}, cfg.CacheTTL), noop, nil
}

func catalogBackend(cfg *config.Config) string {
	dsn := strings.TrimSpace(cfg.CatalogDSN)
	switch {
	case strings.HasPrefix(dsn, "postgres"):
		return "postgres"
	case dsn != "":
		return "sqlite"
	case cfg.CatalogURL != "":
		return "rest"
	}
	return "sample"
}

// redactDSN keeps only the scheme so credentials never reach logs.
func redactDSN(dsn string) string {
	if i := strings.Index(dsn, "://"); i >= 0 {
		return dsn[:i+3] + "…"
	}
	if i := strings.Index(dsn, ":"); i >= 0 {
		return dsn[:i+1] + "…"
	}
	return "…"
}
