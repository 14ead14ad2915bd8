// Package badgerstore persists cache snapshots in a local BadgerDB. It
// trades the file backend's greppability for crash-safe transactional
// writes, which matters once snapshots grow past a few megabytes.
package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/badger/v4"
	"go.trai.ch/zerr"

	"go.scriptor.dev/stash/internal/core/domain"
	"go.scriptor.dev/stash/internal/core/ports"
)

// Keys of the single snapshot slot. The version is part of the key so a
// future format can live alongside this one during a migration.
var (
	keySnapshot = []byte("snapshot/v1")
	keyChecksum = []byte("snapshot/v1.sum")
)

// errNoSnapshot distinguishes "nothing saved yet" from real failures inside
// the read transaction.
var errNoSnapshot = errors.New("no snapshot")

// Store implements ports.SnapshotStore on BadgerDB. The database holds one
// snapshot at a time.
type Store struct {
	db *badger.DB
}

var _ ports.SnapshotStore = (*Store)(nil)

// Open creates a store backed by a Badger database under dir. The caller
// owns the returned store and must Close it.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to open badger database")
	}
	return &Store{db: db}, nil
}

// OpenInMemory creates a store with no disk footprint, for tests.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to open in-memory badger database")
	}
	return &Store{db: db}, nil
}

// Available implements ports.SnapshotStore.
func (s *Store) Available() bool {
	return true
}

// Save implements ports.SnapshotStore. Snapshot and checksum are written in
// one transaction, so a reader never sees one without the other.
func (s *Store) Save(_ context.Context, snap *domain.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return zerr.Wrap(err, "failed to marshal snapshot")
	}
	sum := checksum(payload)

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(keySnapshot, payload); err != nil {
			return err
		}
		return txn.Set(keyChecksum, []byte(sum))
	})
	if err != nil {
		return zerr.Wrap(err, "failed to write snapshot transaction")
	}
	return nil
}

// Load implements ports.SnapshotStore.
func (s *Store) Load(_ context.Context) (*domain.Snapshot, error) {
	var payload, sum []byte

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keySnapshot)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return errNoSnapshot
		}
		if err != nil {
			return err
		}
		if payload, err = item.ValueCopy(nil); err != nil {
			return err
		}

		item, err = txn.Get(keyChecksum)
		if errors.Is(err, badger.ErrKeyNotFound) {
			// Snapshot without its checksum cannot come from Save.
			return zerr.Wrap(domain.ErrSnapshotCorrupt, "checksum missing")
		}
		if err != nil {
			return err
		}
		sum, err = item.ValueCopy(nil)
		return err
	})
	switch {
	case errors.Is(err, errNoSnapshot):
		return nil, nil
	case errors.Is(err, domain.ErrSnapshotCorrupt):
		return nil, err
	case err != nil:
		return nil, zerr.Wrap(err, "failed to read snapshot transaction")
	}

	if got := checksum(payload); got != string(sum) {
		return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrSnapshotCorrupt, "checksum mismatch"),
			"want", string(sum)), "got", got)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrSnapshotCorrupt, "undecodable snapshot"), "cause", err.Error())
	}
	return &snap, nil
}

// Clear implements ports.SnapshotStore. Deleting absent keys is a no-op in
// Badger, so clearing an empty database succeeds.
func (s *Store) Clear(context.Context) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(keySnapshot); err != nil {
			return err
		}
		return txn.Delete(keyChecksum)
	})
	if err != nil {
		return zerr.Wrap(err, "failed to clear snapshot keys")
	}
	return nil
}

// Close releases the database. The wiring layer calls this on shutdown.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return zerr.Wrap(err, "failed to close badger database")
	}
	return nil
}

// checksum renders the 64-bit xxhash of data as fixed-width hex.
func checksum(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}
