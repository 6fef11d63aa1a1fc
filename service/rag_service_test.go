package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"knowledge-rag-be/repository"
	"knowledge-rag-be/types"
)

func scored(content string, score float64) types.ScoredDocument {
	return types.ScoredDocument{
		Document: types.Document{Content: content},
		Score:    score,
	}
}

func TestRetrieveTargetedHit(t *testing.T) {
	registry := newFakeRegistry(repository.DefaultKnowledgeBaseID, "kb-1", "kb-2")
	store := newFakeVectorStore()
	store.collection("kb-1").results = []types.ScoredDocument{scored("hit", 0.1)}

	svc := NewRAGService(registry, store, &fakeEmbedder{}, &fakeCompletion{}, 4)
	docs, err := svc.Retrieve(context.Background(), "question", "kb-1")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "hit", docs[0].Content)

	// A targeted hit never touches the other collections.
	assert.Equal(t, 0, store.collection("kb-2").queries)
	assert.Equal(t, 0, store.collection(repository.DefaultKnowledgeBaseID).queries)
}

func TestRetrieveEmptyTargetedFallsBackToAll(t *testing.T) {
	registry := newFakeRegistry(repository.DefaultKnowledgeBaseID, "kb-1", "kb-2")
	store := newFakeVectorStore()
	store.collection("kb-2").results = []types.ScoredDocument{scored("global", 0.3)}

	svc := NewRAGService(registry, store, &fakeEmbedder{}, &fakeCompletion{}, 4)
	docs, err := svc.Retrieve(context.Background(), "question", "kb-1")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "global", docs[0].Content)

	// The fallback queried every registered collection.
	assert.Equal(t, 1, store.collection(repository.DefaultKnowledgeBaseID).queries)
	assert.Equal(t, 2, store.collection("kb-1").queries)
	assert.Equal(t, 1, store.collection("kb-2").queries)
}

func TestRetrieveFailedTargetedFallsBackToAll(t *testing.T) {
	registry := newFakeRegistry(repository.DefaultKnowledgeBaseID, "kb-1", "kb-2")
	store := newFakeVectorStore()
	store.collection("kb-1").queryErr = errUnavailable
	store.collection("kb-2").results = []types.ScoredDocument{scored("rescued", 0.2)}

	svc := NewRAGService(registry, store, &fakeEmbedder{}, &fakeCompletion{}, 4)
	docs, err := svc.Retrieve(context.Background(), "question", "kb-1")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "rescued", docs[0].Content)
}

func TestRetrieveDefaultKBSkipsTargetedPhase(t *testing.T) {
	registry := newFakeRegistry(repository.DefaultKnowledgeBaseID, "kb-1")
	store := newFakeVectorStore()

	svc := NewRAGService(registry, store, &fakeEmbedder{}, &fakeCompletion{}, 4)
	_, err := svc.Retrieve(context.Background(), "question", repository.DefaultKnowledgeBaseID)
	require.NoError(t, err)

	// Straight to fan-out, one query per collection.
	assert.Equal(t, 1, store.collection(repository.DefaultKnowledgeBaseID).queries)
	assert.Equal(t, 1, store.collection("kb-1").queries)
}

func TestRetrieveMergesAscendingAndCaps(t *testing.T) {
	registry := newFakeRegistry("kb-1", "kb-2")
	store := newFakeVectorStore()
	store.collection("kb-1").results = []types.ScoredDocument{
		scored("a", 0.5), scored("b", 0.1),
	}
	store.collection("kb-2").results = []types.ScoredDocument{
		scored("c", 0.3), scored("d", 0.2), scored("e", 0.9),
	}

	svc := NewRAGService(registry, store, &fakeEmbedder{}, &fakeCompletion{}, 3)
	docs, err := svc.Retrieve(context.Background(), "question", "")
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "b", docs[0].Content)
	assert.Equal(t, "d", docs[1].Content)
	assert.Equal(t, "c", docs[2].Content)
}

func TestRetrieveSkipsFailingCollections(t *testing.T) {
	registry := newFakeRegistry("kb-1", "kb-2")
	store := newFakeVectorStore()
	store.collection("kb-1").queryErr = errUnavailable
	store.collection("kb-2").results = []types.ScoredDocument{scored("ok", 0.4)}

	svc := NewRAGService(registry, store, &fakeEmbedder{}, &fakeCompletion{}, 4)
	docs, err := svc.Retrieve(context.Background(), "question", "")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "ok", docs[0].Content)
}

func TestAskBuildsPromptFromContext(t *testing.T) {
	registry := newFakeRegistry("kb-1")
	store := newFakeVectorStore()
	store.collection("kb-1").results = []types.ScoredDocument{
		scored("chunk one", 0.1), scored("chunk two", 0.2),
	}
	completion := &fakeCompletion{answer: "the answer"}

	svc := NewRAGService(registry, store, &fakeEmbedder{}, completion, 4)
	answer, err := svc.Ask(context.Background(), "what is it?", "")
	require.NoError(t, err)
	assert.Equal(t, "the answer", answer)
	assert.Contains(t, completion.lastPrompt, "chunk one\n\nchunk two")
	assert.Contains(t, completion.lastPrompt, "what is it?")
	assert.NotContains(t, completion.lastPrompt, NoContextSentinel)
}

func TestAskUsesSentinelWhenNothingFound(t *testing.T) {
	registry := newFakeRegistry("kb-1")
	store := newFakeVectorStore()
	completion := &fakeCompletion{answer: "I don't know."}

	svc := NewRAGService(registry, store, &fakeEmbedder{}, completion, 4)
	answer, err := svc.Ask(context.Background(), "anything?", "")
	require.NoError(t, err)
	assert.Equal(t, "I don't know.", answer)
	assert.Contains(t, completion.lastPrompt, NoContextSentinel)
}

func TestAskEmbedsQuestionOnce(t *testing.T) {
	registry := newFakeRegistry("kb-1", "kb-2", "kb-3")
	store := newFakeVectorStore()
	embedder := &fakeEmbedder{}

	svc := NewRAGService(registry, store, embedder, &fakeCompletion{answer: "ok"}, 4)
	_, err := svc.Ask(context.Background(), "question", "")
	require.NoError(t, err)
	assert.Equal(t, 1, embedder.calls)
}

func TestAnswerPromptTemplateShape(t *testing.T) {
	assert.Equal(t, 2, strings.Count(answerPromptTemplate, "%s"))
}
