package domain

import (
	"path/filepath"

	"go.trai.ch/zerr"
)

// Snapshot backend names accepted in configuration.
const (
	SnapshotBackendFile   = "file"
	SnapshotBackendBadger = "badger"
	SnapshotBackendOff    = "off"
)

// Telemetry modes accepted in configuration.
const (
	TelemetryOff      = "off"
	TelemetryProgress = "progress"
	TelemetryOTel     = "otel"
)

// CacheConfig bounds the in-memory store.
type CacheConfig struct {
	MaxEntries  int
	MaxMemoryMB int
}

// MaxMemoryBytes returns the memory budget in bytes.
func (c CacheConfig) MaxMemoryBytes() int64 {
	return int64(c.MaxMemoryMB) << 20
}

// SnapshotConfig selects and locates the persistent backend.
type SnapshotConfig struct {
	Backend string
	Dir     string
}

// Enabled reports whether a persistent backend is configured.
func (c SnapshotConfig) Enabled() bool {
	return c.Backend != SnapshotBackendOff
}

// LogConfig controls the logging adapter.
type LogConfig struct {
	Level  string
	Format string
}

// Config is the resolved stash configuration. Root is the directory the
// configuration was discovered in (or the working directory when no file was
// found); relative paths resolve against it.
type Config struct {
	Root      string
	Cache     CacheConfig
	Snapshot  SnapshotConfig
	Include   []string
	Telemetry string
	Log       LogConfig
}

// DefaultConfig returns the configuration used when no stash.yml is found.
func DefaultConfig(root string) Config {
	return Config{
		Root: root,
		Cache: CacheConfig{
			MaxEntries:  100,
			MaxMemoryMB: 50,
		},
		Snapshot: SnapshotConfig{
			Backend: SnapshotBackendFile,
			Dir:     ".stash",
		},
		Include:   []string{"*.scr"},
		Telemetry: TelemetryOff,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks the configuration for values no component can work with.
func (c Config) Validate() error {
	if c.Cache.MaxEntries <= 0 {
		return zerr.With(ErrConfigInvalid, "max_entries", c.Cache.MaxEntries)
	}
	if c.Cache.MaxMemoryMB <= 0 {
		return zerr.With(ErrConfigInvalid, "max_memory_mb", c.Cache.MaxMemoryMB)
	}
	switch c.Snapshot.Backend {
	case SnapshotBackendFile, SnapshotBackendBadger, SnapshotBackendOff:
	default:
		return zerr.With(ErrConfigInvalid, "snapshot_backend", c.Snapshot.Backend)
	}
	switch c.Telemetry {
	case TelemetryOff, TelemetryProgress, TelemetryOTel:
	default:
		return zerr.With(ErrConfigInvalid, "telemetry", c.Telemetry)
	}
	if len(c.Include) == 0 {
		return zerr.With(ErrConfigInvalid, "include", "empty")
	}
	for _, pattern := range c.Include {
		if _, err := filepath.Match(pattern, "probe"); err != nil {
			return zerr.With(ErrConfigInvalid, "include", pattern)
		}
	}
	return nil
}
