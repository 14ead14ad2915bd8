package ports

// ContentReader supplies the current content of a script file. It backs the
// snapshot revalidation pass and every editor-facing file operation.
//
//go:generate mockgen -source=reader.go -destination=mocks/mock_reader.go -package=mocks
type ContentReader interface {
	// Read returns the current content of path. ok is false when the file
	// no longer exists; other failures are returned as errors.
	Read(path string) (content string, ok bool, err error)
}
