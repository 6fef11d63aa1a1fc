package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"knowledge-rag-be/repository"
	"knowledge-rag-be/types"
	"knowledge-rag-be/utils"
)

// FileService stages uploads on disk, records them in the registry
// and feeds them through ingestion.
type FileService struct {
	uploadDir string
	registry  repository.KnowledgeBaseRegistry
	documents *DocumentService
}

func NewFileService(
	uploadDir string,
	registry repository.KnowledgeBaseRegistry,
	documents *DocumentService,
) *FileService {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		panic(err)
	}
	return &FileService{
		uploadDir: uploadDir,
		registry:  registry,
		documents: documents,
	}
}

// UploadDocument stages an uploaded file, records it under the
// knowledge base and ingests its content. Returns the file record
// and the number of chunks stored.
func (s *FileService) UploadDocument(ctx context.Context, kbID string, file *multipart.FileHeader) (*types.FileRecord, int, error) {
	fileType, err := fileTypeForExt(file.Filename)
	if err != nil {
		return nil, 0, err
	}
	if _, err := s.registry.GetKnowledgeBase(ctx, kbID); err != nil {
		return nil, 0, err
	}

	path, err := s.stageUpload(file)
	if err != nil {
		return nil, 0, err
	}

	record, err := s.registry.AddFile(ctx, kbID, file.Filename, path, fileType)
	if err != nil {
		return nil, 0, err
	}

	count, err := s.documents.IngestFile(ctx, record)
	if err != nil {
		return nil, 0, err
	}
	return record, count, nil
}

// IngestLocalFile stages a file already on disk and ingests it. Used
// by the CLI ingest command.
func (s *FileService) IngestLocalFile(ctx context.Context, kbID, sourcePath string) (*types.FileRecord, int, error) {
	fileType, err := fileTypeForExt(sourcePath)
	if err != nil {
		return nil, 0, err
	}
	if _, err := s.registry.GetKnowledgeBase(ctx, kbID); err != nil {
		return nil, 0, err
	}

	path, err := utils.CopyFileWithTimestamp(sourcePath, s.uploadDir)
	if err != nil {
		return nil, 0, err
	}

	record, err := s.registry.AddFile(ctx, kbID, filepath.Base(sourcePath), path, fileType)
	if err != nil {
		return nil, 0, err
	}

	count, err := s.documents.IngestFile(ctx, record)
	if err != nil {
		return nil, 0, err
	}
	return record, count, nil
}

// stageUpload writes the uploaded file into the upload directory
// under a timestamped name.
func (s *FileService) stageUpload(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %v", err)
	}
	defer src.Close()

	destPath := filepath.Join(s.uploadDir, utils.TimestampedFilename(file.Filename))
	dst, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %v", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save uploaded file: %v", err)
	}
	return destPath, nil
}

func fileTypeForExt(filename string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".md":
		return types.FileTypeText, nil
	default:
		return "", types.ErrUnsupportedFileType
	}
}
