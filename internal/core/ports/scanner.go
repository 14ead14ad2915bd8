package ports

// Scanner discovers script files for bulk operations such as warming.
//
//go:generate mockgen -source=scanner.go -destination=mocks/mock_scanner.go -package=mocks
type Scanner interface {
	// Scan walks root and returns the paths of all script files matching
	// the configured include patterns, in walk order.
	Scan(root string) ([]string, error)
}
