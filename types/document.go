package types

import "time"

// FileTypeText is the only declared document type the ingestion
// pipeline accepts. Binary formats are rejected at the boundary.
const FileTypeText = "text"

// KnowledgeBase is a named, isolated partition of ingested documents.
// Its id doubles as the vector store collection key.
type KnowledgeBase struct {
	ID          string    `bson:"_id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description" json:"description"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
}

// FileRecord ties one uploaded file to its owning knowledge base.
type FileRecord struct {
	ID         string    `bson:"_id" json:"id"`
	KBID       string    `bson:"kb_id" json:"kbId"`
	Filename   string    `bson:"filename" json:"filename"`
	Path       string    `bson:"path" json:"path"`
	Type       string    `bson:"type" json:"type"`
	UploadedAt time.Time `bson:"uploaded_at" json:"uploadedAt"`
}

// ChunkMetadata is the provenance attached to every stored chunk.
type ChunkMetadata struct {
	SourceFileID string `json:"sourceFileId"`
	SourceKBID   string `json:"sourceKbId"`
	LineFrom     int    `json:"lineFrom"`
	LineTo       int    `json:"lineTo"`
}

// VectorRecord is the durable form of a chunk in the vector index.
type VectorRecord struct {
	ID        string
	Content   string
	Embedding []float32
	Metadata  ChunkMetadata
}

// Document is a retrieved passage.
type Document struct {
	Content  string        `json:"content"`
	Metadata ChunkMetadata `json:"metadata"`
}

// ScoredDocument pairs a retrieved passage with its distance to the
// query embedding. Lower score means more similar.
type ScoredDocument struct {
	Document
	Score float64
}
