package config

import "go.scriptor.dev/stash/internal/core/domain"

// stashfile is the YAML shape of stash.yml. Load unmarshals the file over a
// DTO prefilled with defaults, so absent keys keep their default while an
// explicit zero still reaches validation.
type stashfile struct {
	Cache     cacheDTO    `yaml:"cache"`
	Snapshot  snapshotDTO `yaml:"snapshot"`
	Scripts   scriptsDTO  `yaml:"scripts"`
	Telemetry string      `yaml:"telemetry"`
	Log       logDTO      `yaml:"log"`
}

type cacheDTO struct {
	MaxEntries  int `yaml:"max_entries"`
	MaxMemoryMB int `yaml:"max_memory_mb"`
}

type snapshotDTO struct {
	Backend string `yaml:"backend"`
	Dir     string `yaml:"dir"`
}

type scriptsDTO struct {
	Include []string `yaml:"include"`
}

type logDTO struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func defaultStashfile(root string) stashfile {
	def := domain.DefaultConfig(root)
	return stashfile{
		Cache: cacheDTO{
			MaxEntries:  def.Cache.MaxEntries,
			MaxMemoryMB: def.Cache.MaxMemoryMB,
		},
		Snapshot: snapshotDTO{
			Backend: def.Snapshot.Backend,
			Dir:     def.Snapshot.Dir,
		},
		Scripts: scriptsDTO{
			Include: def.Include,
		},
		Telemetry: def.Telemetry,
		Log: logDTO{
			Level:  def.Log.Level,
			Format: def.Log.Format,
		},
	}
}

func (f stashfile) toDomain(root string) domain.Config {
	return domain.Config{
		Root: root,
		Cache: domain.CacheConfig{
			MaxEntries:  f.Cache.MaxEntries,
			MaxMemoryMB: f.Cache.MaxMemoryMB,
		},
		Snapshot: domain.SnapshotConfig{
			Backend: f.Snapshot.Backend,
			Dir:     f.Snapshot.Dir,
		},
		Include:   f.Scripts.Include,
		Telemetry: f.Telemetry,
		Log: domain.LogConfig{
			Level:  f.Log.Level,
			Format: f.Log.Format,
		},
	}
}
