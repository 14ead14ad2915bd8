// Package app implements the session layer for stash. One App spans one
// editor session: Open restores the previous session's artifacts, the
// operations in between serve and maintain the cache, Close persists it.
package app

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"

	"go.scriptor.dev/stash/internal/core/domain"
	"go.scriptor.dev/stash/internal/core/ports"
	"go.scriptor.dev/stash/internal/engine/cache"
	"go.scriptor.dev/stash/internal/engine/snapshot"
)

// App ties the cache engine to the editor-facing operations.
type App struct {
	cache     *cache.Store
	snapshots *snapshot.Manager
	builder   ports.GraphBuilder
	reader    ports.ContentReader
	scanner   ports.Scanner
	watcher   ports.Watcher
	telemetry ports.Telemetry
	logger    ports.Logger
	cfg       domain.Config
}

// New creates a new App instance.
func New(
	store *cache.Store,
	snapshots *snapshot.Manager,
	builder ports.GraphBuilder,
	reader ports.ContentReader,
	scanner ports.Scanner,
	watch ports.Watcher,
	tel ports.Telemetry,
	log ports.Logger,
	cfg domain.Config,
) *App {
	return &App{
		cache:     store,
		snapshots: snapshots,
		builder:   builder,
		reader:    reader,
		scanner:   scanner,
		watcher:   watch,
		telemetry: tel,
		logger:    log,
		cfg:       cfg,
	}
}

// Root returns the project root relative operations resolve against.
func (a *App) Root() string {
	return a.cfg.Root
}

// Open starts the session. With a persistence backend configured, the last
// snapshot is loaded and revalidated against the current content of every
// recorded path; paths whose files changed or vanished come back cold.
func (a *App) Open(ctx context.Context) error {
	ctx, vertex := a.telemetry.Record(ctx, "load snapshot", ports.WithInternal())

	_, err := a.snapshots.Load(ctx, a.cache, a.contentLookup())
	vertex.Complete(err)
	if err != nil {
		return zerr.Wrap(err, "failed to open session")
	}
	return nil
}

// Close ends the session: the cache is persisted, then the telemetry
// recorder and the snapshot backend release their resources. Every step
// runs even when an earlier one fails.
func (a *App) Close(ctx context.Context) error {
	var errs error
	if err := a.snapshots.Save(ctx, a.cache); err != nil {
		errs = errors.Join(errs, err)
	}
	if err := a.telemetry.Close(); err != nil {
		errs = errors.Join(errs, zerr.Wrap(err, "failed to close telemetry"))
	}
	if err := a.snapshots.Close(); err != nil {
		errs = errors.Join(errs, err)
	}
	return errs
}

// StructureFor returns the parsed structure of the script at path, serving
// repeat requests for unchanged content from cache.
func (a *App) StructureFor(_ context.Context, path string) (*domain.Structure, error) {
	content, err := a.readScript(path)
	if err != nil {
		return nil, err
	}
	return a.cache.GetStructure(path, content)
}

// GraphFor returns the navigation graph of the script at path. The graph is
// keyed by the same content digest as the structure, so both share one
// recency slot.
func (a *App) GraphFor(_ context.Context, path string) (*domain.Graph, error) {
	content, err := a.readScript(path)
	if err != nil {
		return nil, err
	}

	structure, err := a.cache.GetStructure(path, content)
	if err != nil {
		return nil, err
	}
	return a.cache.GetGraph(domain.HashContent(content), func() (*domain.Graph, error) {
		return a.builder.Build(structure)
	})
}

// WarmResult counts what one Warm pass did.
type WarmResult struct {
	// Parsed counts scripts whose artifacts were derived fresh.
	Parsed int
	// Cached counts scripts whose artifacts were already live.
	Cached int
	// Failed counts scripts that could not be read, parsed or built.
	Failed int
}

// Total returns the number of scripts the pass visited.
func (r WarmResult) Total() int {
	return r.Parsed + r.Cached + r.Failed
}

// Warm pre-derives structure and graph for every script under root.
// Scripts are processed concurrently, bounded by the CPU count; a script
// that fails is counted and skipped, never fatal to the pass.
func (a *App) Warm(ctx context.Context, root string) (WarmResult, error) {
	paths, err := a.scanner.Scan(root)
	if err != nil {
		return WarmResult{}, zerr.Wrap(err, "failed to scan for scripts")
	}

	ctx, vertex := a.telemetry.Record(ctx, fmt.Sprintf("warm %s", root))

	var (
		mu     sync.Mutex
		result WarmResult
	)
	count := func(n *int) {
		mu.Lock()
		defer mu.Unlock()
		*n++
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for _, path := range paths {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			switch a.warmOne(ctx, path) {
			case warmParsed:
				count(&result.Parsed)
			case warmCached:
				count(&result.Cached)
			case warmFailed:
				count(&result.Failed)
			}
			return nil
		})
	}
	_ = g.Wait() // workers report through result, never through errors

	vertex.Complete(ctx.Err())
	if err := ctx.Err(); err != nil {
		return result, err
	}

	a.logger.Info(fmt.Sprintf("warmed %d script(s): %d parsed, %d cached, %d failed",
		result.Total(), result.Parsed, result.Cached, result.Failed))
	return result, nil
}

type warmOutcome int

const (
	warmParsed warmOutcome = iota
	warmCached
	warmFailed
)

// warmOne derives both artifacts for one script. The outcome is cached only
// when structure and graph were both live before the pass touched them; the
// cache calls still run so the pass refreshes recency and path mappings.
func (a *App) warmOne(ctx context.Context, path string) warmOutcome {
	_, vertex := a.telemetry.Record(ctx, fmt.Sprintf("parse %s", path))

	content, ok, err := a.reader.Read(path)
	if err == nil && !ok {
		err = zerr.With(domain.ErrFileRead, "path", path)
	}
	if err != nil {
		vertex.Complete(err)
		a.logger.Warn(fmt.Sprintf("warm skipped %s: %v", path, err))
		return warmFailed
	}

	digest := domain.HashContent(content)
	live := a.cache.HasStructure(digest) && a.cache.HasGraph(digest)
	if live {
		vertex.Cached()
	}

	structure, err := a.cache.GetStructure(path, content)
	if err == nil {
		_, err = a.cache.GetGraph(digest, func() (*domain.Graph, error) {
			return a.builder.Build(structure)
		})
	}
	vertex.Complete(err)
	if err != nil {
		a.logger.Warn(fmt.Sprintf("warm skipped %s: %v", path, err))
		return warmFailed
	}

	if live {
		return warmCached
	}
	return warmParsed
}

// InvalidatePath drops the cached artifacts recorded for path.
func (a *App) InvalidatePath(path string) {
	a.cache.Invalidate(path)
}

// Stats reports current cache effectiveness and footprint.
func (a *App) Stats() domain.CacheStats {
	return a.cache.Stats()
}

// ClearCache empties the in-memory cache. With alsoSnapshot set the
// persisted snapshot is discarded too, so the next session starts cold.
func (a *App) ClearCache(ctx context.Context, alsoSnapshot bool) error {
	a.cache.Clear()
	a.logger.Info("cache cleared")

	if !alsoSnapshot {
		return nil
	}
	if err := a.snapshots.Reset(ctx); err != nil {
		return err
	}
	a.logger.Info("snapshot cleared")
	return nil
}

// Watch blocks watching root for script changes until ctx is cancelled.
// Each change invalidates the path and re-derives its artifacts, so the
// cache tracks the working set while the session stays open.
func (a *App) Watch(ctx context.Context, root string) error {
	a.logger.Info(fmt.Sprintf("watching %s", root))
	return a.watcher.Watch(ctx, root, func(path string) {
		a.refresh(ctx, path)
	})
}

// refresh re-derives the artifacts for a changed path. Failures are logged
// and the loop keeps going; a syntax error mid-edit is routine.
func (a *App) refresh(ctx context.Context, path string) {
	a.cache.Invalidate(path)

	_, vertex := a.telemetry.Record(ctx, fmt.Sprintf("refresh %s", path))

	content, ok, err := a.reader.Read(path)
	if err != nil {
		vertex.Complete(err)
		a.logger.Error(err)
		return
	}
	if !ok {
		// Deleted: invalidation was the whole job.
		vertex.Complete(nil)
		a.logger.Info(fmt.Sprintf("dropped %s", path))
		return
	}

	structure, err := a.cache.GetStructure(path, content)
	if err == nil {
		_, err = a.cache.GetGraph(domain.HashContent(content), func() (*domain.Graph, error) {
			return a.builder.Build(structure)
		})
	}
	vertex.Complete(err)
	if err != nil {
		a.logger.Error(err)
		return
	}
	a.logger.Info(fmt.Sprintf("refreshed %s", path))
}

// readScript loads path for an editor-facing operation, where a vanished
// file is a failure: the caller asked for a file that is not there.
func (a *App) readScript(path string) (string, error) {
	content, ok, err := a.reader.Read(path)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", zerr.With(domain.ErrFileRead, "path", path)
	}
	return content, nil
}

// contentLookup adapts the reader for snapshot revalidation. Read failures
// count as missing: the mapping is pruned rather than trusted blind.
func (a *App) contentLookup() cache.ContentLookup {
	return func(path string) (string, bool) {
		content, ok, err := a.reader.Read(path)
		if err != nil {
			return "", false
		}
		return content, ok
	}
}
