package config

import (
	"log/slog"
	"sync"
)

// Reloading is a Source that re-reads the configuration file on every
// lookup, so edits made while the application is running take effect on
// the next scan. If a reload fails the last good configuration is used.
type Reloading struct {
	path   string
	logger *slog.Logger

	mu   sync.Mutex
	last *Config
}

// NewReloading returns a Source backed by the file at path. initial is the
// configuration loaded at startup and serves as the fallback.
func NewReloading(path string, initial *Config, logger *slog.Logger) *Reloading {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reloading{path: path, last: initial, logger: logger}
}

// Lookup implements Source.
func (r *Reloading) Lookup(section, key, def string) string {
	return r.current().Lookup(section, key, def)
}

// Snapshot reads the file once and returns the resulting values, which do
// not change afterwards.
func (r *Reloading) Snapshot() Source {
	return r.current()
}

func (r *Reloading) current() *Config {
	r.mu.Lock()
	defer r.mu.Unlock()

	cfg, err := Load(r.path)
	if err != nil {
		r.logger.Warn("config reload failed, keeping previous values",
			"source", "config", "path", r.path, "error", err)
		if r.last == nil {
			r.last = &Config{}
		}
		return r.last
	}
	r.last = cfg
	return cfg
}

// Snapshotter is a Source that can pin its current values.
type Snapshotter interface {
	Snapshot() Source
}

// Snapshot returns a Source whose values stay fixed for the caller's use.
// Sources that are not Snapshotters are returned as is.
func Snapshot(src Source) Source {
	if s, ok := src.(Snapshotter); ok {
		return s.Snapshot()
	}
	return src
}
