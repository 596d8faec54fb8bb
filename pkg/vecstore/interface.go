// Package vecstore provides a unified client layer over vector database
// providers. It exposes one canonical record shape and one canonical result
// shape regardless of which backing store is used, translating between the
// canonical operations and each provider's native call convention.
//
// Two providers are built in: Qdrant (remote, gRPC, API-key configured) and
// chromem-go (local embedded store, persistence-directory configured). Both
// satisfy the same two interfaces:
//
//	reg := vecstore.DefaultRegistry()
//	provider, err := vecstore.Open(reg, "chromem", vecstore.Options{
//	    Chromem: &vecstore.ChromemConfig{Path: "./bevec_db"},
//	}, logger)
//	...
//	coll, err := provider.Collection(ctx, "documents")
//	err = coll.Upsert(ctx, []vecstore.Record{...})
//	results, err := coll.Query(ctx, queryVector, 10)
//
// All operations are synchronous single calls; blocking, cancellation and
// timeout semantics are whatever the wrapped SDK offers. Handles impose no
// additional locking and may be shared across goroutines as long as the
// underlying provider client is thread-safe.
package vecstore

import "context"

// Client is the canonical protocol every collection or index handle satisfies.
type Client interface {
	// Upsert validates the full batch of records, reshapes it into the
	// provider's native format and issues one provider call. Validation
	// failures are ErrValidation and happen before any provider call;
	// provider-side failures are ErrVectorOperation.
	Upsert(ctx context.Context, records []Record) error

	// Query requests topK nearest neighbors for the given vector and returns
	// canonical results ordered by descending relevance as reported by the
	// provider. Fewer than topK matches is not an error.
	Query(ctx context.Context, vector []float32, topK int) ([]Result, error)
}

// Provider is the client-level surface shared by all backends: collection
// lifecycle plus handle construction. Each handle wraps a single underlying
// provider object and is independently constructible.
type Provider interface {
	// ListCollections returns the names of all collections.
	ListCollections(ctx context.Context) ([]string, error)

	// CreateCollection creates a collection with the given embedding
	// dimension and distance metric. The metric is restricted to the
	// Metric enum; anything else is ErrValidation.
	CreateCollection(ctx context.Context, name string, dimension int, metric Metric) error

	// DeleteCollection deletes a collection. Deleting a collection that
	// does not exist is success, not an error.
	DeleteCollection(ctx context.Context, name string) error

	// CollectionInfo returns metadata about a collection.
	CollectionInfo(ctx context.Context, name string) (*CollectionInfo, error)

	// Collection returns a canonical handle for the named collection.
	Collection(ctx context.Context, name string) (Client, error)

	// Close releases the underlying provider connection.
	Close() error
}
