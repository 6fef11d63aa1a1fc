package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"knowledge-rag-be/repository"
	services "knowledge-rag-be/service"
	"knowledge-rag-be/types"
)

const maxUploadSize = 10 << 20

type UploadHandler struct {
	fileService *services.FileService
}

func NewUploadHandler(fileService *services.FileService) *UploadHandler {
	return &UploadHandler{
		fileService: fileService,
	}
}

func (h *UploadHandler) HandleUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "No file uploaded",
		})
		return
	}

	kbID := c.PostForm("kb_id")
	if kbID == "" {
		kbID = repository.DefaultKnowledgeBaseID
	}

	record, count, err := h.fileService.UploadDocument(c, kbID, file)
	if err != nil {
		c.JSON(statusForError(err), types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data: types.UploadResponse{
			File:       record,
			ChunkCount: count,
		},
	})
}
