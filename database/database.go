package database

import (
	"context"

	"knowledge-rag-be/types"
)

// VectorFilter selects records for deletion. The zero value matches
// the whole collection.
type VectorFilter struct {
	SourceFileID string
}

// CollectionHandle is a bound view over one vector store collection.
type CollectionHandle interface {
	// Upsert writes the records, overwriting by id. The collection is
	// created on first write if it does not exist yet.
	Upsert(ctx context.Context, records []types.VectorRecord) error
	// Query returns up to limit nearest neighbours ordered ascending
	// by distance. An absent collection yields no results, not an
	// error.
	Query(ctx context.Context, embedding []float32, limit int) ([]types.ScoredDocument, error)
	// DeleteByFilter removes all records matching the filter. Absence
	// of the collection or an unreachable store counts as "nothing to
	// delete" and is swallowed.
	DeleteByFilter(ctx context.Context, filter VectorFilter) error
}

// VectorStore binds collection ids to the underlying vector index.
type VectorStore interface {
	// Open binds to a collection. It never fails because the
	// collection is absent; creation is deferred to the first write.
	Open(ctx context.Context, collectionID string) (CollectionHandle, error)
}
