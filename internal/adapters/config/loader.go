// Package config loads and validates the stash configuration from a
// stash.yml discovered above the working directory.
package config

import (
	"context"
	"os"
	"path/filepath"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"go.scriptor.dev/stash/internal/core/domain"
)

// Filename is the configuration file Load discovers.
const Filename = "stash.yml"

// Overrides carries command line settings that take precedence over the
// configuration file. The zero value applies nothing.
type Overrides struct {
	// File is an explicit configuration path. When set, discovery is
	// skipped and a missing file is an error.
	File string
	// LogLevel replaces log.level when non-empty.
	LogLevel string
	// LogFormat replaces log.format when non-empty.
	LogFormat string
}

type overridesContextKey struct{}

// ContextWithOverrides returns a context carrying the given overrides for
// the configuration node.
func ContextWithOverrides(ctx context.Context, o Overrides) context.Context {
	return context.WithValue(ctx, overridesContextKey{}, o)
}

func overridesFromContext(ctx context.Context) Overrides {
	o, _ := ctx.Value(overridesContextKey{}).(Overrides)
	return o
}

// Discover walks from dir toward the filesystem root and returns the first
// directory containing a stash.yml.
func Discover(dir string) (string, bool) {
	for {
		if _, err := os.Stat(filepath.Join(dir, Filename)); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Load resolves the configuration for cwd. A missing stash.yml is not an
// error: defaults rooted at cwd apply. An unreadable or invalid file is.
func Load(cwd string, o Overrides) (domain.Config, error) {
	root, err := filepath.Abs(cwd)
	if err != nil {
		return domain.Config{}, zerr.Wrap(err, "failed to resolve working directory")
	}

	path := ""
	switch {
	case o.File != "":
		if path, err = filepath.Abs(o.File); err != nil {
			return domain.Config{}, zerr.Wrap(err, "failed to resolve config path")
		}
		root = filepath.Dir(path)
	default:
		if found, ok := Discover(root); ok {
			root = found
			path = filepath.Join(root, Filename)
		}
	}

	file := defaultStashfile(root)
	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // Explicit flag value or discovered stash.yml
		if err != nil {
			return domain.Config{}, zerr.With(zerr.Wrap(err, "failed to read config file"), "path", path)
		}
		if err := yaml.Unmarshal(data, &file); err != nil {
			return domain.Config{}, zerr.With(zerr.Wrap(err, "failed to parse config file"), "path", path)
		}
	}

	cfg := file.toDomain(root)
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		cfg.Log.Format = o.LogFormat
	}
	if !filepath.IsAbs(cfg.Snapshot.Dir) {
		cfg.Snapshot.Dir = filepath.Join(root, cfg.Snapshot.Dir)
	}

	if err := cfg.Validate(); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}
