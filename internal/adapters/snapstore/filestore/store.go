// Package filestore persists cache snapshots as a single checksummed JSON
// file under the stash directory.
package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"

	"go.scriptor.dev/stash/internal/core/domain"
	"go.scriptor.dev/stash/internal/core/ports"
)

// snapshotFile is the file name inside the stash directory.
const snapshotFile = "snapshot.json"

// envelope is the on-disk frame around a snapshot. The checksum covers the
// canonical (compact) snapshot bytes, so truncation and hand edits are
// caught before any content is trusted.
type envelope struct {
	Checksum string          `json:"checksum"`
	Snapshot json.RawMessage `json:"snapshot"`
}

// Store implements ports.SnapshotStore on a plain file.
type Store struct {
	mu  sync.Mutex
	dir string
}

var _ ports.SnapshotStore = (*Store)(nil)

// NewStore creates a snapshot store rooted at dir. The directory is created
// lazily on the first save.
func NewStore(dir string) *Store {
	return &Store{dir: filepath.Clean(dir)}
}

// Available implements ports.SnapshotStore.
func (s *Store) Available() bool {
	return true
}

// Save implements ports.SnapshotStore. The envelope is written to a temp
// file and renamed into place, so a crashed save leaves the previous
// snapshot intact rather than a half-written one.
func (s *Store) Save(_ context.Context, snap *domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(snap)
	if err != nil {
		return zerr.Wrap(err, "failed to marshal snapshot")
	}

	env := envelope{
		Checksum: checksum(payload),
		Snapshot: payload,
	}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal snapshot envelope")
	}

	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return zerr.Wrap(err, "failed to create snapshot directory")
	}

	tmp, err := os.CreateTemp(s.dir, snapshotFile+".tmp-*")
	if err != nil {
		return zerr.Wrap(err, "failed to create snapshot temp file")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return zerr.Wrap(err, "failed to write snapshot temp file")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return zerr.Wrap(err, "failed to close snapshot temp file")
	}
	if err := os.Rename(tmpName, s.path()); err != nil {
		_ = os.Remove(tmpName)
		return zerr.Wrap(err, "failed to replace snapshot file")
	}
	return nil
}

// Load implements ports.SnapshotStore. A missing file means nothing was
// ever saved and is not an error.
func (s *Store) Load(_ context.Context) (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // Path is derived from the configured stash directory
	data, err := os.ReadFile(s.path())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, "failed to read snapshot file")
	}
	if len(data) == 0 {
		return nil, zerr.Wrap(domain.ErrSnapshotCorrupt, "empty snapshot file")
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrSnapshotCorrupt, "malformed envelope"), "cause", err.Error())
	}

	// The envelope serializer may have re-indented the payload; the
	// checksum is defined over its compact form.
	canonical, err := compact(env.Snapshot)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrSnapshotCorrupt, "malformed snapshot payload"), "cause", err.Error())
	}
	if got := checksum(canonical); got != env.Checksum {
		return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrSnapshotCorrupt, "checksum mismatch"),
			"want", env.Checksum), "got", got)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(canonical, &snap); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrSnapshotCorrupt, "undecodable snapshot"), "cause", err.Error())
	}
	return &snap, nil
}

// Clear implements ports.SnapshotStore. Clearing an absent snapshot is not
// an error.
func (s *Store) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.Wrap(err, "failed to remove snapshot file")
	}
	return nil
}

func (s *Store) path() string {
	return filepath.Join(s.dir, snapshotFile)
}

// checksum renders the 64-bit xxhash of data as fixed-width hex.
func checksum(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// compact strips insignificant whitespace so checksums are stable across
// pretty-printing.
func compact(raw json.RawMessage) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
