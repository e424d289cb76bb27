package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/terrenos/internal/api"
	"github.com/donaldgifford/terrenos/internal/api/middleware"
	"github.com/donaldgifford/terrenos/internal/catalog"
	"github.com/donaldgifford/terrenos/internal/config"
	"github.com/donaldgifford/terrenos/internal/engine"
	"github.com/donaldgifford/terrenos/internal/store"
	"github.com/donaldgifford/terrenos/internal/telemetry"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server and the catalog reload scheduler",
		RunE:  runServe,
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := telemetry.New(ctx, telemetry.Config{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		ServiceName: cfg.Tracing.ServiceName,
		SampleRatio: cfg.Tracing.SampleRatio,
		Version:     Version,
	})
	if err != nil {
		return fmt.Errorf("setting up tracing: %w", err)
	}
	tp.Install()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Warn("tracer shutdown failed", "error", err)
		}
	}()

	deps := api.Deps{
		Logger:  log,
		Tracer:  tp.Tracer(telemetry.InstrumentationName + "/api"),
		Version: Version,
	}

	var st store.Store
	if cfg.Catalog.UsesStore() {
		st, err = openStore(ctx, cfg, cfg.Catalog.Source)
		if err != nil {
			return err
		}
		defer st.Close()
		deps.Store = st
	}

	eng := engine.NewEngine(nil,
		engine.WithLogger(log),
		engine.WithTracer(tp.Tracer(telemetry.InstrumentationName+"/engine")),
	)
	deps.Engine = eng

	sched, err := startCatalog(ctx, cfg, eng, catalogLoader(cfg, st), log)
	if err != nil {
		return err
	}
	if sched != nil {
		defer func() { <-sched.Stop().Done() }()
	}

	if cfg.Server.RateLimit.Enabled {
		deps.RateLimiter = middleware.NewRateLimiter(cfg.Server.RateLimit.PerSecond, cfg.Server.RateLimit.Burst)
	}

	e := api.NewRouter(deps)
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", "addr", cfg.Server.Addr(), "catalog_source", cfg.Catalog.Source)
		if err := e.Start(cfg.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serving: %w", err)
		}
	}

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// catalogLoader returns the loader for the configured catalog source.
func catalogLoader(cfg *config.Config, st store.Store) engine.Loader {
	if cfg.Catalog.UsesStore() {
		return st.LoadCatalog
	}
	listings, sources := cfg.Catalog.ListingsPath, cfg.Catalog.SourcesPath
	return func(ctx context.Context) (*catalog.Catalog, error) {
		return catalog.Load(ctx, listings, sources)
	}
}

// startCatalog performs the first load and, when a reload interval is set,
// starts the reload scheduler. Without a scheduler a failed first load is
// fatal; with one the server starts unready and the next reload retries.
func startCatalog(
	ctx context.Context,
	cfg *config.Config,
	eng *engine.Engine,
	load engine.Loader,
	log *slog.Logger,
) (*engine.Scheduler, error) {
	if cfg.Catalog.ReloadInterval <= 0 {
		loadCtx, cancel := context.WithTimeout(ctx, cfg.Catalog.LoadTimeout)
		defer cancel()

		c, err := load(loadCtx)
		if err != nil {
			return nil, fmt.Errorf("loading catalog: %w", err)
		}
		eng.SetCatalog(c)
		return nil, nil
	}

	sched, err := engine.NewScheduler(eng, load, cfg.Catalog.ReloadInterval, cfg.Catalog.LoadTimeout, log)
	if err != nil {
		return nil, fmt.Errorf("creating scheduler: %w", err)
	}
	if err := sched.Reload(ctx); err != nil {
		log.Error("initial catalog load failed; serving unready until the next reload", "error", err)
	}
	sched.Start()
	return sched, nil
}
