package services

import (
	"context"
	"log"
	"strings"

	"knowledge-rag-be/database"
	"knowledge-rag-be/repository"
	"knowledge-rag-be/types"
)

// KnowledgeService manages knowledge base metadata and keeps the
// vector store in line with it. Metadata changes commit first; vector
// cleanup follows best-effort and is safe to retry.
type KnowledgeService struct {
	registry repository.KnowledgeBaseRegistry
	vectorDB database.VectorStore
}

func NewKnowledgeService(registry repository.KnowledgeBaseRegistry, vectorDB database.VectorStore) *KnowledgeService {
	return &KnowledgeService{
		registry: registry,
		vectorDB: vectorDB,
	}
}

func (k *KnowledgeService) CreateKnowledgeBase(ctx context.Context, name, description string) (*types.KnowledgeBase, error) {
	if strings.TrimSpace(name) == "" {
		return nil, types.ErrNameRequired
	}
	return k.registry.CreateKnowledgeBase(ctx, name, description)
}

func (k *KnowledgeService) ListKnowledgeBases(ctx context.Context) ([]types.KnowledgeBase, error) {
	return k.registry.ListKnowledgeBases(ctx)
}

func (k *KnowledgeService) GetKnowledgeBase(ctx context.Context, id string) (*types.KnowledgeBase, error) {
	return k.registry.GetKnowledgeBase(ctx, id)
}

// DeleteKnowledgeBase removes a knowledge base, its file records and
// its vectors. The registry delete is the committing step; a failed
// vector cleanup only logs, and re-running the cleanup is harmless.
func (k *KnowledgeService) DeleteKnowledgeBase(ctx context.Context, id string) error {
	if err := k.registry.DeleteKnowledgeBase(ctx, id); err != nil {
		return err
	}
	if err := k.CleanupKnowledgeBaseVectors(ctx, id); err != nil {
		log.Printf("failed to clean up vectors for knowledge base %s: %v", id, err)
	}
	return nil
}

func (k *KnowledgeService) ListFiles(ctx context.Context, kbID string) ([]types.FileRecord, error) {
	if _, err := k.registry.GetKnowledgeBase(ctx, kbID); err != nil {
		return nil, err
	}
	return k.registry.ListFiles(ctx, kbID)
}

// DeleteFile removes a file record and its vectors from the
// containing knowledge base.
func (k *KnowledgeService) DeleteFile(ctx context.Context, kbID, fileID string) error {
	if _, err := k.registry.DeleteFile(ctx, kbID, fileID); err != nil {
		return err
	}
	if err := k.CleanupFileVectors(ctx, kbID, fileID); err != nil {
		log.Printf("failed to clean up vectors for file %s: %v", fileID, err)
	}
	return nil
}

// CleanupKnowledgeBaseVectors drops the whole vector collection for a
// knowledge base. Idempotent: a missing collection is not an error.
func (k *KnowledgeService) CleanupKnowledgeBaseVectors(ctx context.Context, kbID string) error {
	collection, err := k.vectorDB.Open(ctx, kbID)
	if err != nil {
		return err
	}
	return collection.DeleteByFilter(ctx, database.VectorFilter{})
}

// CleanupFileVectors removes all vectors belonging to one file.
// Idempotent: already-removed vectors are not an error.
func (k *KnowledgeService) CleanupFileVectors(ctx context.Context, kbID, fileID string) error {
	collection, err := k.vectorDB.Open(ctx, kbID)
	if err != nil {
		return err
	}
	return collection.DeleteByFilter(ctx, database.VectorFilter{SourceFileID: fileID})
}
