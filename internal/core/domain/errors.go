package domain

import "go.trai.ch/zerr"

var (
	// ErrParse is returned when a script cannot be parsed into a structure.
	ErrParse = zerr.New("script parse failed")

	// ErrSnapshotVersion is returned when a persisted snapshot declares a
	// layout version this build does not understand.
	ErrSnapshotVersion = zerr.New("unsupported snapshot version")

	// ErrSnapshotCorrupt is returned when a persisted snapshot fails its
	// integrity check.
	ErrSnapshotCorrupt = zerr.New("snapshot integrity check failed")

	// ErrSnapshotUnavailable is returned when the snapshot backend cannot
	// serve requests.
	ErrSnapshotUnavailable = zerr.New("snapshot store unavailable")

	// ErrConfigInvalid is returned when stash.yml contains settings no
	// component can work with.
	ErrConfigInvalid = zerr.New("invalid configuration")

	// ErrFileRead is returned when a script file cannot be read.
	ErrFileRead = zerr.New("failed to read script file")

	// ErrWatcherClosed is returned when a watch is requested on a watcher
	// that has already shut down.
	ErrWatcherClosed = zerr.New("watcher closed")
)
