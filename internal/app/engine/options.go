package engine

import (
	"time"

	"github.com/muhammadchandra19/venue-ledger/pkg/config"
)

// Options represents configuration options for the Engine.
type Options struct {
	TickInterval     time.Duration
	SnapshotInterval time.Duration
	// Venues are opened at start even when no snapshot exists for them.
	Venues []string
}

// DefaultEngineOptions returns the default engine options.
func DefaultEngineOptions() *Options {
	return &Options{
		TickInterval:     time.Second,
		SnapshotInterval: 30 * time.Second,
	}
}

// OptionsFromConfig builds engine options from the server configuration.
func OptionsFromConfig(cfg *config.Config) *Options {
	opts := DefaultEngineOptions()
	if cfg.Scheduler.TickInterval > 0 {
		opts.TickInterval = cfg.Scheduler.TickInterval
	}
	if cfg.Scheduler.SnapshotInterval > 0 {
		opts.SnapshotInterval = cfg.Scheduler.SnapshotInterval
	}
	opts.Venues = append(opts.Venues, cfg.App.Venues...)
	return opts
}
