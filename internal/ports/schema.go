package ports

import (
	"context"

	"bods-validate/internal/types"
)

// SchemaRegistryPort resolves a dialect version to its schema documents.
//
// Documents of a dialect are loaded and compiled once, on first use, and
// kept for the lifetime of the registry.  Documents reference each other
// through $ref, resolved against the $id of each loaded document.
type SchemaRegistryPort interface {
	// Dialects lists every configured dialect.
	Dialects() []types.Dialect

	// DefaultVersion is used for data that declares no version.
	DefaultVersion() string

	// Dialect looks up one dialect by exact version.
	Dialect(version string) (types.Dialect, bool)

	// KnownFieldPaths returns every JSON pointer path, without array
	// indices, that the dialect's schema declares.
	KnownFieldPaths(ctx context.Context, version string) (map[string]struct{}, error)
}

// StructuralValidatorPort validates a whole document against the schema of
// a dialect.  A document that violates the schema is not an error; the
// violations are returned as values.
type StructuralValidatorPort interface {
	Validate(ctx context.Context, dialect types.Dialect, raw []byte) ([]types.ValidationError, error)
}
