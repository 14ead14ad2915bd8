// Package snapshot drives the save and load cycle between the in-memory
// cache store and the configured persistence backend.
package snapshot

import (
	"context"
	"fmt"
	"io"

	"go.trai.ch/zerr"

	"go.scriptor.dev/stash/internal/core/domain"
	"go.scriptor.dev/stash/internal/core/ports"
	"go.scriptor.dev/stash/internal/engine/cache"
)

// Manager owns snapshot persistence policy: the version gate, staleness
// reporting and the decision to skip persistence entirely when the backend
// reports itself unavailable. It never retries; every operation here is
// idempotent and the caller can simply run it again.
type Manager struct {
	store ports.SnapshotStore
	log   ports.Logger
}

// NewManager creates a Manager backed by store.
func NewManager(store ports.SnapshotStore, log ports.Logger) *Manager {
	return &Manager{store: store, log: log}
}

// Save exports the cache and hands the snapshot to the backing store. With
// an unavailable backend the call is a quiet no-op.
func (m *Manager) Save(ctx context.Context, c *cache.Store) error {
	if !m.store.Available() {
		return nil
	}

	snap, err := c.Export()
	if err != nil {
		return zerr.Wrap(err, "failed to export cache")
	}
	if err := m.store.Save(ctx, snap); err != nil {
		return zerr.Wrap(err, "failed to persist snapshot")
	}

	m.log.Info(fmt.Sprintf("snapshot saved: %d structures, %d graphs, %d paths",
		len(snap.StructureEntries), len(snap.GraphEntries), len(snap.PathEntries)))
	return nil
}

// Load pulls the latest snapshot, validates it against the current content
// of the recorded paths and hydrates the cache. The boolean reports whether
// a snapshot was applied; a workspace with nothing saved yet is (false, nil)
// and the cache is left untouched.
//
// A snapshot written by an incompatible version fails with
// domain.ErrSnapshotVersion before the cache is modified.
func (m *Manager) Load(ctx context.Context, c *cache.Store, lookup cache.ContentLookup) (bool, error) {
	if !m.store.Available() {
		return false, nil
	}

	snap, err := m.store.Load(ctx)
	if err != nil {
		return false, zerr.Wrap(err, "failed to load snapshot")
	}
	if snap == nil {
		return false, nil
	}

	if snap.Metadata.Version != domain.SnapshotVersion {
		return false, zerr.With(zerr.With(domain.ErrSnapshotVersion,
			"found", snap.Metadata.Version),
			"supported", domain.SnapshotVersion)
	}

	// Stale paths on load are a condition, not an error: files change while
	// the editor is closed and the import simply drops what no longer holds.
	pruned := c.Import(snap, lookup)
	if pruned > 0 {
		m.log.Warn(fmt.Sprintf("snapshot loaded, pruned %d stale path(s)", pruned))
	} else {
		m.log.Info("snapshot loaded")
	}
	return true, nil
}

// Reset discards the persisted snapshot. The in-memory store is not
// touched; clearing it is the caller's decision.
func (m *Manager) Reset(ctx context.Context) error {
	if !m.store.Available() {
		return nil
	}

	if err := m.store.Clear(ctx); err != nil {
		return zerr.Wrap(err, "failed to clear snapshot store")
	}
	return nil
}

// Close releases the backing store when it holds external resources, such
// as an open database handle.
func (m *Manager) Close() error {
	closer, ok := m.store.(io.Closer)
	if !ok {
		return nil
	}
	if err := closer.Close(); err != nil {
		return zerr.Wrap(err, "failed to close snapshot store")
	}
	return nil
}
