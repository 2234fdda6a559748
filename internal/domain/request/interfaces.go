package request

import "context"

// Store is the authoritative source of requests. The service reads it only
// when building a snapshot; lookups by ID are served from the snapshot.
type Store interface {
	// List returns every request in the store's own order.
	List(ctx context.Context) ([]Request, error)
}
