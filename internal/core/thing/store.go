package thing

import "context"

// Repository is the durable store of Things and their links.
type Repository interface {
	// FindByBggIDs returns every stored Thing whose upstream id is in ids.
	// Callers keep len(ids) at or below the store's lookup cap.
	FindByBggIDs(context context.Context, ids []string) ([]Thing, error)

	// Store persists a freshly parsed Thing with its alternate names and links
	// in one transaction. stored is false when a Thing with the same upstream
	// id already existed, in which case nothing is written.
	Store(context context.Context, thing *Thing) (id int64, stored bool, err error)
}

// Upstream is the remote metadata API the pipeline reads through to.
type Upstream interface {
	Search(context context.Context, query string) ([]SearchItem, error)
	FetchThings(context context.Context, ids []string) ([]Thing, error)
}

// SearchCache keeps recent upstream search candidate lists.
type SearchCache interface {
	Get(context context.Context, query string) (items []SearchItem, found bool, err error)
	Set(context context.Context, query string, items []SearchItem) error
}
