package services

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"knowledge-rag-be/database"
	"knowledge-rag-be/types"
)

// DocumentService turns raw documents into embedded chunks inside a
// knowledge base collection.
type DocumentService struct {
	splitter *RecursiveSplitter
	embedder EmbeddingService
	vectorDB database.VectorStore
}

func NewDocumentService(splitter *RecursiveSplitter, embedder EmbeddingService, vectorDB database.VectorStore) *DocumentService {
	return &DocumentService{
		splitter: splitter,
		embedder: embedder,
		vectorDB: vectorDB,
	}
}

// IngestFile reads a staged file and ingests its content. Only text
// files are supported.
func (d *DocumentService) IngestFile(ctx context.Context, file *types.FileRecord) (int, error) {
	if file.Type != types.FileTypeText {
		return 0, types.ErrUnsupportedFileType
	}
	data, err := os.ReadFile(file.Path)
	if err != nil {
		return 0, fmt.Errorf("failed to read file %s: %w", file.Filename, err)
	}
	return d.IngestText(ctx, file.KBID, file.ID, string(data))
}

// IngestText splits, embeds and stores a document's content into the
// knowledge base collection. Returns the number of chunks stored.
func (d *DocumentService) IngestText(ctx context.Context, kbID, fileID, content string) (int, error) {
	if strings.TrimSpace(content) == "" {
		return 0, types.ErrEmptyDocument
	}
	chunks := d.splitter.Split(content)
	if len(chunks) == 0 {
		return 0, types.ErrEmptySplit
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	embeddings, err := d.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("failed to embed document: %w", err)
	}

	records := make([]types.VectorRecord, len(chunks))
	for i, c := range chunks {
		records[i] = types.VectorRecord{
			ID:        uuid.NewString(),
			Content:   c.Text,
			Embedding: embeddings[i],
			Metadata: types.ChunkMetadata{
				SourceFileID: fileID,
				SourceKBID:   kbID,
				LineFrom:     lineNumber(content, c.Start),
				LineTo:       lineNumber(content, c.End-1),
			},
		}
	}

	collection, err := d.vectorDB.Open(ctx, kbID)
	if err != nil {
		return 0, fmt.Errorf("failed to open collection for %s: %w", kbID, err)
	}
	if err := collection.Upsert(ctx, records); err != nil {
		return 0, fmt.Errorf("failed to store document chunks: %w", err)
	}
	return len(records), nil
}

// lineNumber reports the 1-based line a byte offset falls on.
func lineNumber(text string, offset int) int {
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}
	return strings.Count(text[:offset], "\n") + 1
}
