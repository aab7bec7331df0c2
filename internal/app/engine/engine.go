package engine

import (
	"context"
	"sync"
	"time"

	ledgerv1 "github.com/muhammadchandra19/venue-ledger/internal/domain/ledger/v1"
	snapshotv1 "github.com/muhammadchandra19/venue-ledger/internal/domain/snapshot/v1"
	"github.com/muhammadchandra19/venue-ledger/internal/usecase/registry"
	"github.com/muhammadchandra19/venue-ledger/pkg/errors"
	"github.com/muhammadchandra19/venue-ledger/pkg/logger"
)

// Engine drives the registry's matching passes and persists ledger
// snapshots on a fixed schedule.
type Engine struct {
	registry      *registry.Registry
	snapshotStore snapshotv1.Store
	logger        *logger.Logger
	options       *Options

	// venues changed since their last stored snapshot
	mu    sync.Mutex
	dirty map[string]struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	statsMu     sync.RWMutex
	ticks       int64
	totalSolves int64
}

// NewEngine creates an engine with the default options.
func NewEngine(reg *registry.Registry, snapshotStore snapshotv1.Store, logger *logger.Logger) *Engine {
	return NewEngineWithOptions(reg, snapshotStore, logger, DefaultEngineOptions())
}

// NewEngineWithOptions creates a new engine with custom options
func NewEngineWithOptions(reg *registry.Registry, snapshotStore snapshotv1.Store, log *logger.Logger, options *Options) *Engine {
	if log == nil {
		log = logger.NewNop()
	}
	if options == nil {
		options = DefaultEngineOptions()
	}
	e := &Engine{
		registry:      reg,
		snapshotStore: snapshotStore,
		logger:        log,
		options:       options,
		dirty:         make(map[string]struct{}),
	}
	reg.OnChange(func(ev ledgerv1.ChangeEvent) {
		e.mu.Lock()
		e.dirty[ev.Venue] = struct{}{}
		e.mu.Unlock()
	})
	return e
}

// Restore loads every stored snapshot into the registry and opens the
// configured venues. Restored venues are not dirty.
func (e *Engine) Restore(ctx context.Context) error {
	venues, err := e.snapshotStore.Venues(ctx)
	if err != nil {
		return errors.NewTracer("list_snapshots_error").Wrap(err)
	}

	for _, venue := range venues {
		snapshot, err := e.snapshotStore.Load(ctx, venue)
		if err != nil {
			return errors.NewTracer("load_snapshot_error").Wrap(err)
		}
		if snapshot == nil {
			continue
		}
		if err := e.registry.Open(venue).Restore(snapshot); err != nil {
			return errors.NewTracer("restore_snapshot_error").Wrap(err)
		}
		e.logger.InfoContext(ctx, "Ledger restored from snapshot",
			logger.NewField("venue", venue),
			logger.NewField("orders", len(snapshot.Orders)),
		)
	}
	for _, venue := range e.options.Venues {
		e.registry.Open(venue)
	}

	e.mu.Lock()
	clear(e.dirty)
	e.mu.Unlock()
	return nil
}

// Start restores the ledgers and starts the scheduler and snapshot loops.
func (e *Engine) Start(ctx context.Context) error {
	if err := e.Restore(ctx); err != nil {
		return err
	}

	e.ctx, e.cancel = context.WithCancel(ctx)

	e.wg.Add(2)
	go e.runScheduler()
	go e.runSnapshotManager()

	e.logger.Info("Engine started",
		logger.NewField("venues", e.registry.Venues()),
		logger.NewField("tickInterval", e.options.TickInterval),
	)
	return nil
}

// Stop shuts the loops down and stores a final snapshot of every changed venue.
func (e *Engine) Stop(ctx context.Context) error {
	if e.cancel != nil {
		e.cancel()
	}

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		e.logger.Warn("Engine stop timeout exceeded")
		return ctx.Err()
	}

	if err := e.SnapshotDirty(ctx); err != nil {
		return err
	}
	e.logger.Info("Engine stopped gracefully")
	return nil
}

func (e *Engine) runScheduler() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.ctx.Done():
			e.logger.Info("Scheduler shutting down")
			return
		case <-ticker.C:
			e.Tick(e.ctx)
		}
	}
}

// Tick runs one matching pass over the venues touched since the last one.
func (e *Engine) Tick(ctx context.Context) registry.TickResult {
	result := e.registry.Tick(ctx)

	e.statsMu.Lock()
	e.ticks++
	e.totalSolves += int64(result.Solves)
	e.statsMu.Unlock()

	if result.Solves > 0 {
		e.logger.DebugContext(ctx, "Matching pass settled trades",
			logger.NewField("venues", result.Venues),
			logger.NewField("solves", result.Solves),
		)
	}
	return result
}

func (e *Engine) runSnapshotManager() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.options.SnapshotInterval)
	defer ticker.Stop()

	e.logger.Info("Starting snapshot manager")

	for {
		select {
		case <-e.ctx.Done():
			e.logger.Info("Snapshot manager shutting down")
			return
		case <-ticker.C:
			if err := e.SnapshotDirty(e.ctx); err != nil {
				e.logger.ErrorContext(e.ctx, err, logger.NewField("action", "store_snapshot"))
			}
		}
	}
}

// SnapshotDirty stores a snapshot of every venue changed since its last one.
// A venue whose store fails stays dirty and is retried next time.
func (e *Engine) SnapshotDirty(ctx context.Context) error {
	e.mu.Lock()
	venues := make([]string, 0, len(e.dirty))
	for venue := range e.dirty {
		venues = append(venues, venue)
	}
	clear(e.dirty)
	e.mu.Unlock()

	var firstErr error
	for _, venue := range venues {
		l, ok := e.registry.Ledger(venue)
		if !ok {
			continue
		}
		if err := e.snapshotStore.Store(ctx, l.Snapshot()); err != nil {
			e.mu.Lock()
			e.dirty[venue] = struct{}{}
			e.mu.Unlock()
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		e.logger.DebugContext(ctx, "Snapshot stored", logger.NewField("venue", venue))
	}
	return firstErr
}

// Dirty returns the number of venues waiting for a snapshot.
func (e *Engine) Dirty() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.dirty)
}

// GetTotalSolves returns the number of trades settled by matching passes.
func (e *Engine) GetTotalSolves() int64 {
	e.statsMu.RLock()
	defer e.statsMu.RUnlock()
	return e.totalSolves
}

// GetTicks returns the number of matching passes run.
func (e *Engine) GetTicks() int64 {
	e.statsMu.RLock()
	defer e.statsMu.RUnlock()
	return e.ticks
}
