// Package ports defines the interfaces between the cache engine and its
// collaborators. Implementations live under internal/adapters.
package ports

import "go.scriptor.dev/stash/internal/core/domain"

// Parser turns script text into its structural representation.
//
//go:generate mockgen -source=parser.go -destination=mocks/mock_parser.go -package=mocks
type Parser interface {
	// Parse parses content into a Structure. The path is carried for error
	// context only and never influences the result; identical content must
	// parse to deeply equal structures regardless of origin.
	Parse(content string, path string) (*domain.Structure, error)
}
