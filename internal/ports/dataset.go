package ports

import "context"

// DatasetLoaderPort reads the JSON document to check.
type DatasetLoaderPort interface {
	// Load returns the document as stored.
	Load(ctx context.Context, path string) ([]byte, error)

	// LoadSample streams the top-level array and keeps at most limit
	// statements of each statement type, plus limit of unknown type.  The
	// result is re-encoded as a JSON array in original order.  truncated
	// reports whether any statement was dropped.
	LoadSample(ctx context.Context, path string, limit int) (raw []byte, truncated bool, err error)
}
