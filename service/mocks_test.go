package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"knowledge-rag-be/database"
	"knowledge-rag-be/repository"
	"knowledge-rag-be/types"
)

// fakeEmbedder maps every text to a fixed-size embedding derived from
// its length, so distinct texts stay distinguishable.
type fakeEmbedder struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeEmbedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return []float32{float32(len(text)), 1}, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := f.EmbedText(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// fakeCompletion records the last prompt and echoes a canned answer.
type fakeCompletion struct {
	answer     string
	err        error
	lastPrompt string
}

func (f *fakeCompletion) Complete(_ context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

// fakeCollection is an in-memory vector collection with scripted
// results and failures.
type fakeCollection struct {
	mu       sync.Mutex
	records  []types.VectorRecord
	results  []types.ScoredDocument
	queries  int
	queryErr error
	upsertEr error
	deleteEr error
	deleted  []database.VectorFilter
}

func (f *fakeCollection) Upsert(_ context.Context, records []types.VectorRecord) error {
	if f.upsertEr != nil {
		return f.upsertEr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, records...)
	return nil
}

func (f *fakeCollection) Query(_ context.Context, _ []float32, limit int) ([]types.ScoredDocument, error) {
	f.mu.Lock()
	f.queries++
	f.mu.Unlock()
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	docs := f.results
	sort.SliceStable(docs, func(i, j int) bool { return docs[i].Score < docs[j].Score })
	if len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

func (f *fakeCollection) DeleteByFilter(_ context.Context, filter database.VectorFilter) error {
	if f.deleteEr != nil {
		return f.deleteEr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, filter)
	return nil
}

// fakeVectorStore hands out one fakeCollection per collection id.
type fakeVectorStore struct {
	mu          sync.Mutex
	collections map[string]*fakeCollection
	openErr     error
}

func newFakeVectorStore() *fakeVectorStore {
	return &fakeVectorStore{collections: make(map[string]*fakeCollection)}
}

func (f *fakeVectorStore) Open(_ context.Context, collectionID string) (database.CollectionHandle, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.collections[collectionID]
	if !ok {
		c = &fakeCollection{}
		f.collections[collectionID] = c
	}
	return c, nil
}

func (f *fakeVectorStore) collection(id string) *fakeCollection {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.collections[id]
	if !ok {
		c = &fakeCollection{}
		f.collections[id] = c
	}
	return c
}

// fakeRegistry is an in-memory KnowledgeBaseRegistry.
type fakeRegistry struct {
	mu    sync.Mutex
	kbs   []types.KnowledgeBase
	files []types.FileRecord
	seq   int
}

func newFakeRegistry(kbIDs ...string) *fakeRegistry {
	r := &fakeRegistry{}
	for _, id := range kbIDs {
		r.kbs = append(r.kbs, types.KnowledgeBase{ID: id, Name: id})
	}
	return r
}

func (r *fakeRegistry) ListKnowledgeBases(_ context.Context) ([]types.KnowledgeBase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]types.KnowledgeBase, len(r.kbs))
	copy(out, r.kbs)
	return out, nil
}

func (r *fakeRegistry) GetKnowledgeBase(_ context.Context, id string) (*types.KnowledgeBase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.kbs {
		if r.kbs[i].ID == id {
			kb := r.kbs[i]
			return &kb, nil
		}
	}
	return nil, types.ErrKnowledgeBaseNotFound
}

func (r *fakeRegistry) CreateKnowledgeBase(_ context.Context, name, description string) (*types.KnowledgeBase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	kb := types.KnowledgeBase{ID: fmt.Sprintf("kb-%d", r.seq), Name: name, Description: description}
	r.kbs = append(r.kbs, kb)
	return &kb, nil
}

func (r *fakeRegistry) DeleteKnowledgeBase(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.kbs {
		if r.kbs[i].ID == id {
			r.kbs = append(r.kbs[:i], r.kbs[i+1:]...)
			kept := r.files[:0]
			for _, f := range r.files {
				if f.KBID != id {
					kept = append(kept, f)
				}
			}
			r.files = kept
			return nil
		}
	}
	return types.ErrKnowledgeBaseNotFound
}

func (r *fakeRegistry) ListFiles(_ context.Context, kbID string) ([]types.FileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []types.FileRecord
	for _, f := range r.files {
		if f.KBID == kbID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeRegistry) AddFile(_ context.Context, kbID, filename, path, fileType string) (*types.FileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	rec := types.FileRecord{ID: fmt.Sprintf("file-%d", r.seq), KBID: kbID, Filename: filename, Path: path, Type: fileType}
	r.files = append(r.files, rec)
	return &rec, nil
}

func (r *fakeRegistry) DeleteFile(_ context.Context, kbID, fileID string) (*types.FileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, f := range r.files {
		if f.KBID == kbID && f.ID == fileID {
			r.files = append(r.files[:i], r.files[i+1:]...)
			return &f, nil
		}
	}
	return nil, types.ErrFileNotFound
}

var errUnavailable = errors.New("store unavailable")

var _ repository.KnowledgeBaseRegistry = (*fakeRegistry)(nil)
var _ database.VectorStore = (*fakeVectorStore)(nil)
