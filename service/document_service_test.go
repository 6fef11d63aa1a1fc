package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"knowledge-rag-be/types"
)

func newTestDocumentService(store *fakeVectorStore) *DocumentService {
	return NewDocumentService(NewRecursiveSplitter(1000, 200), &fakeEmbedder{}, store)
}

func TestIngestTextEmptyDocument(t *testing.T) {
	svc := newTestDocumentService(newFakeVectorStore())

	_, err := svc.IngestText(context.Background(), "kb-1", "file-1", "   \n\t  ")
	assert.ErrorIs(t, err, types.ErrEmptyDocument)
}

func TestIngestTextStoresChunksWithProvenance(t *testing.T) {
	store := newFakeVectorStore()
	svc := newTestDocumentService(store)

	content := "first line\nsecond line\nthird line\n"
	count, err := svc.IngestText(context.Background(), "kb-1", "file-1", content)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	records := store.collection("kb-1").records
	require.Len(t, records, 1)
	rec := records[0]
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, content, rec.Content)
	assert.NotEmpty(t, rec.Embedding)
	assert.Equal(t, "file-1", rec.Metadata.SourceFileID)
	assert.Equal(t, "kb-1", rec.Metadata.SourceKBID)
	assert.Equal(t, 1, rec.Metadata.LineFrom)
	assert.Equal(t, 3, rec.Metadata.LineTo)
}

func TestIngestTextChunkLineSpans(t *testing.T) {
	store := newFakeVectorStore()
	svc := newTestDocumentService(store)

	var content string
	for i := 0; i < 100; i++ {
		content += "a line that is around forty characters!\n"
	}
	count, err := svc.IngestText(context.Background(), "kb-1", "file-1", content)
	require.NoError(t, err)
	assert.Greater(t, count, 1)

	records := store.collection("kb-1").records
	require.Len(t, records, count)
	assert.Equal(t, 1, records[0].Metadata.LineFrom)
	for _, rec := range records {
		assert.GreaterOrEqual(t, rec.Metadata.LineTo, rec.Metadata.LineFrom)
	}
}

func TestIngestFileUnsupportedType(t *testing.T) {
	svc := newTestDocumentService(newFakeVectorStore())

	_, err := svc.IngestFile(context.Background(), &types.FileRecord{
		ID:   "file-1",
		KBID: "kb-1",
		Type: "pdf",
	})
	assert.ErrorIs(t, err, types.ErrUnsupportedFileType)
}

func TestIngestFileReadsFromDisk(t *testing.T) {
	store := newFakeVectorStore()
	svc := newTestDocumentService(store)

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello from disk"), 0644))

	count, err := svc.IngestFile(context.Background(), &types.FileRecord{
		ID:   "file-1",
		KBID: "kb-1",
		Path: path,
		Type: types.FileTypeText,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, "hello from disk", store.collection("kb-1").records[0].Content)
}

func TestLineNumber(t *testing.T) {
	text := "one\ntwo\nthree"
	assert.Equal(t, 1, lineNumber(text, 0))
	assert.Equal(t, 1, lineNumber(text, 3))
	assert.Equal(t, 2, lineNumber(text, 4))
	assert.Equal(t, 3, lineNumber(text, len(text)))
}
