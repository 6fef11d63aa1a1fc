package repository

import (
	"context"
	"log"
	"os"

	"knowledge-rag-be/types"
)

// DefaultKnowledgeBaseID is the placeholder knowledge base seeded on
// first start. A chat request targeting it is treated as unscoped.
const DefaultKnowledgeBaseID = "default"

// KnowledgeBaseRegistry is the durable record of knowledge bases and
// their file memberships. It is the source of truth for existence:
// deleting here must succeed regardless of vector store cleanup.
type KnowledgeBaseRegistry interface {
	ListKnowledgeBases(ctx context.Context) ([]types.KnowledgeBase, error)
	GetKnowledgeBase(ctx context.Context, id string) (*types.KnowledgeBase, error)
	CreateKnowledgeBase(ctx context.Context, name, description string) (*types.KnowledgeBase, error)
	// DeleteKnowledgeBase removes the knowledge base and every file
	// record that references it. Staged files are unlinked best-effort.
	DeleteKnowledgeBase(ctx context.Context, id string) error

	ListFiles(ctx context.Context, kbID string) ([]types.FileRecord, error)
	AddFile(ctx context.Context, kbID, filename, path, fileType string) (*types.FileRecord, error)
	// DeleteFile removes the single record matching both ids and
	// returns it, or types.ErrFileNotFound.
	DeleteFile(ctx context.Context, kbID, fileID string) (*types.FileRecord, error)
}

// removeStagedFile unlinks a staged upload. Failure is logged, never
// raised: the registry record is already gone and stays gone.
func removeStagedFile(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to remove staged file %s: %v", path, err)
	}
}
