package ports

import "context"

// PrefixListPort provides the set of known org-id scheme prefixes.
type PrefixListPort interface {
	Prefixes(ctx context.Context) (map[string]struct{}, error)
}
