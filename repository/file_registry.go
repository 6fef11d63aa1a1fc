package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"knowledge-rag-be/types"
)

// registryData is the whole registry as persisted on disk.
type registryData struct {
	KnowledgeBases []types.KnowledgeBase `json:"knowledgeBases"`
	Files          []types.FileRecord    `json:"files"`
}

// FileRegistry keeps the registry in a single JSON document that is
// read and rewritten as one unit per mutation. The mutex makes each
// call atomic within this process; concurrent processes sharing the
// file still race (last write wins).
type FileRegistry struct {
	path string
	mu   sync.Mutex
}

func NewFileRegistry(path string) (*FileRegistry, error) {
	r := &FileRegistry{path: path}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create registry directory: %w", err)
		}
		seed := &registryData{
			KnowledgeBases: []types.KnowledgeBase{
				{
					ID:          DefaultKnowledgeBaseID,
					Name:        "Default knowledge base",
					Description: "System default knowledge base",
					CreatedAt:   time.Now().UTC(),
				},
			},
			Files: []types.FileRecord{},
		}
		if err := r.write(seed); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *FileRegistry) read() (*registryData, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry: %w", err)
	}
	var data registryData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode registry: %w", err)
	}
	return &data, nil
}

func (r *FileRegistry) write(data *registryData) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode registry: %w", err)
	}
	if err := os.WriteFile(r.path, raw, 0644); err != nil {
		return fmt.Errorf("failed to write registry: %w", err)
	}
	return nil
}

func (r *FileRegistry) ListKnowledgeBases(_ context.Context) ([]types.KnowledgeBase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, err := r.read()
	if err != nil {
		return nil, err
	}
	return data.KnowledgeBases, nil
}

func (r *FileRegistry) GetKnowledgeBase(_ context.Context, id string) (*types.KnowledgeBase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, err := r.read()
	if err != nil {
		return nil, err
	}
	for i := range data.KnowledgeBases {
		if data.KnowledgeBases[i].ID == id {
			return &data.KnowledgeBases[i], nil
		}
	}
	return nil, types.ErrKnowledgeBaseNotFound
}

func (r *FileRegistry) CreateKnowledgeBase(_ context.Context, name, description string) (*types.KnowledgeBase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, err := r.read()
	if err != nil {
		return nil, err
	}
	// Duplicate names are permitted; only the id is unique.
	kb := types.KnowledgeBase{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	data.KnowledgeBases = append(data.KnowledgeBases, kb)
	if err := r.write(data); err != nil {
		return nil, err
	}
	return &kb, nil
}

func (r *FileRegistry) DeleteKnowledgeBase(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, err := r.read()
	if err != nil {
		return err
	}
	found := false
	kept := data.KnowledgeBases[:0]
	for _, kb := range data.KnowledgeBases {
		if kb.ID != id {
			kept = append(kept, kb)
		} else {
			found = true
		}
	}
	if !found {
		return types.ErrKnowledgeBaseNotFound
	}
	data.KnowledgeBases = kept

	var removed []types.FileRecord
	keptFiles := data.Files[:0]
	for _, f := range data.Files {
		if f.KBID == id {
			removed = append(removed, f)
		} else {
			keptFiles = append(keptFiles, f)
		}
	}
	data.Files = keptFiles

	if err := r.write(data); err != nil {
		return err
	}
	for _, f := range removed {
		removeStagedFile(f.Path)
	}
	return nil
}

func (r *FileRegistry) ListFiles(_ context.Context, kbID string) ([]types.FileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, err := r.read()
	if err != nil {
		return nil, err
	}
	files := make([]types.FileRecord, 0)
	for _, f := range data.Files {
		if f.KBID == kbID {
			files = append(files, f)
		}
	}
	return files, nil
}

func (r *FileRegistry) AddFile(_ context.Context, kbID, filename, path, fileType string) (*types.FileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, err := r.read()
	if err != nil {
		return nil, err
	}
	record := types.FileRecord{
		ID:         uuid.NewString(),
		KBID:       kbID,
		Filename:   filename,
		Path:       path,
		Type:       fileType,
		UploadedAt: time.Now().UTC(),
	}
	data.Files = append(data.Files, record)
	if err := r.write(data); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *FileRegistry) DeleteFile(_ context.Context, kbID, fileID string) (*types.FileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, err := r.read()
	if err != nil {
		return nil, err
	}
	idx := -1
	for i, f := range data.Files {
		if f.ID == fileID && f.KBID == kbID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, types.ErrFileNotFound
	}
	removed := data.Files[idx]
	data.Files = append(data.Files[:idx], data.Files[idx+1:]...)
	if err := r.write(data); err != nil {
		return nil, err
	}
	removeStagedFile(removed.Path)
	return &removed, nil
}
