package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/donaldgifford/terrenos/internal/catalog"
	"github.com/donaldgifford/terrenos/internal/metrics"
)

// Loader produces a fresh catalog snapshot.
type Loader func(ctx context.Context) (*catalog.Catalog, error)

// Scheduler periodically reloads the catalog into the engine.
type Scheduler struct {
	cron    *cron.Cron
	engine  *Engine
	load    Loader
	timeout time.Duration
	log     *slog.Logger
}

// NewScheduler creates a Scheduler that reloads the catalog every interval.
// Each reload is bounded by timeout.
func NewScheduler(
	eng *Engine,
	load Loader,
	interval time.Duration,
	timeout time.Duration,
	log *slog.Logger,
) (*Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("reload interval must be positive, got %s", interval)
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	s := &Scheduler{
		cron:    c,
		engine:  eng,
		load:    load,
		timeout: timeout,
		log:     log,
	}

	if _, err := c.AddFunc("@every "+interval.String(), s.runReload); err != nil {
		return nil, err
	}

	return s, nil
}

// Start begins running scheduled reloads.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started")
	s.cron.Start()
}

// Stop stops the scheduler; the returned context is done once a running
// reload has finished.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

// Reload loads a catalog and installs it. On failure the previous snapshot
// stays active.
func (s *Scheduler) Reload(ctx context.Context) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	c, err := s.load(ctx)
	if err != nil {
		metrics.CatalogReloadErrorsTotal.Inc()
		return fmt.Errorf("reloading catalog: %w", err)
	}

	s.engine.SetCatalog(c)
	metrics.CatalogReloadsTotal.Inc()
	metrics.CatalogLastReloadTimestamp.SetToCurrentTime()
	return nil
}

func (s *Scheduler) runReload() {
	s.log.Info("scheduled catalog reload starting")
	if err := s.Reload(context.Background()); err != nil {
		s.log.Error("scheduled catalog reload failed", "error", err)
	}
}
