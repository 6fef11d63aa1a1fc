package types

import "errors"

var (
	ErrNameRequired          = errors.New("name is required")
	ErrKnowledgeBaseNotFound = errors.New("knowledge base not found")
	ErrFileNotFound          = errors.New("file not found in knowledge base")
	ErrEmptyDocument         = errors.New("document content is empty")
	ErrEmptySplit            = errors.New("text splitting produced no chunks")
	ErrUnsupportedFileType   = errors.New("unsupported file type")
)
