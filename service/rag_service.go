package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"knowledge-rag-be/database"
	"knowledge-rag-be/repository"
	"knowledge-rag-be/types"
)

// DefaultTopK is the number of chunks kept after retrieval.
const DefaultTopK = 4

// NoContextSentinel stands in for the context block when retrieval
// finds nothing.
const NoContextSentinel = "No relevant context found."

const answerPromptTemplate = `You are a helpful assistant. Answer the question using only the context below. If the context does not contain the answer, say you don't know.

Context:
%s

Question: %s

Answer:`

const (
	searchHit = iota
	searchEmpty
	searchFailed
)

// searchOutcome tags a collection search so callers can tell an empty
// result from a failed one.
type searchOutcome struct {
	status int
	docs   []types.ScoredDocument
	err    error
}

// RAGService answers questions over the knowledge base collections:
// a targeted search against the requested collection first, then a
// fan-out over every collection when that yields nothing.
type RAGService struct {
	registry   repository.KnowledgeBaseRegistry
	vectorDB   database.VectorStore
	embedder   EmbeddingService
	completion CompletionService
	topK       int
}

func NewRAGService(
	registry repository.KnowledgeBaseRegistry,
	vectorDB database.VectorStore,
	embedder EmbeddingService,
	completion CompletionService,
	topK int,
) *RAGService {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &RAGService{
		registry:   registry,
		vectorDB:   vectorDB,
		embedder:   embedder,
		completion: completion,
		topK:       topK,
	}
}

// Retrieve finds the chunks most relevant to the question. When kbID
// names a specific collection it is searched first; an empty or
// failed targeted search falls through to all collections.
func (r *RAGService) Retrieve(ctx context.Context, question, kbID string) ([]types.ScoredDocument, error) {
	embedding, err := r.embedder.EmbedText(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	if kbID != "" && kbID != repository.DefaultKnowledgeBaseID {
		outcome := r.searchCollection(ctx, kbID, embedding)
		switch outcome.status {
		case searchHit:
			return outcome.docs, nil
		case searchFailed:
			log.Printf("targeted search on %s failed, falling back: %v", kbID, outcome.err)
		}
	}
	return r.searchAll(ctx, embedding)
}

// searchCollection queries one collection and tags the outcome.
func (r *RAGService) searchCollection(ctx context.Context, kbID string, embedding []float32) searchOutcome {
	collection, err := r.vectorDB.Open(ctx, kbID)
	if err != nil {
		return searchOutcome{status: searchFailed, err: err}
	}
	docs, err := collection.Query(ctx, embedding, r.topK)
	if err != nil {
		return searchOutcome{status: searchFailed, err: err}
	}
	if len(docs) == 0 {
		return searchOutcome{status: searchEmpty}
	}
	return searchOutcome{status: searchHit, docs: docs}
}

// searchAll queries every registered collection and merges the
// results by ascending distance, keeping topK.
func (r *RAGService) searchAll(ctx context.Context, embedding []float32) ([]types.ScoredDocument, error) {
	kbs, err := r.registry.ListKnowledgeBases(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list knowledge bases: %w", err)
	}

	var merged []types.ScoredDocument
	for _, kb := range kbs {
		outcome := r.searchCollection(ctx, kb.ID, embedding)
		if outcome.status == searchFailed {
			log.Printf("search on %s failed, skipping: %v", kb.ID, outcome.err)
			continue
		}
		merged = append(merged, outcome.docs...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score < merged[j].Score
	})
	if len(merged) > r.topK {
		merged = merged[:r.topK]
	}
	return merged, nil
}

// Ask retrieves context for the question and asks the completion
// model to answer from it.
func (r *RAGService) Ask(ctx context.Context, question, kbID string) (string, error) {
	docs, err := r.Retrieve(ctx, question, kbID)
	if err != nil {
		return "", err
	}

	contextBlock := NoContextSentinel
	if len(docs) > 0 {
		parts := make([]string, len(docs))
		for i, doc := range docs {
			parts[i] = doc.Content
		}
		contextBlock = strings.Join(parts, "\n\n")
	}

	prompt := fmt.Sprintf(answerPromptTemplate, contextBlock, question)
	answer, err := r.completion.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate answer: %w", err)
	}
	return answer, nil
}
