package services

import "context"

// EmbeddingService maps text to fixed-dimension vectors.
type EmbeddingService interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// CompletionService maps a prompt to a generated answer.
type CompletionService interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// AIService is a provider exposing both capabilities.
type AIService interface {
	EmbeddingService
	CompletionService
}
