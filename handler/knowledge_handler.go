package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	services "knowledge-rag-be/service"
	"knowledge-rag-be/types"
)

type KnowledgeHandler struct {
	knowledgeService *services.KnowledgeService
}

func NewKnowledgeHandler(knowledgeService *services.KnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{
		knowledgeService: knowledgeService,
	}
}

func (h *KnowledgeHandler) HandleCreateKnowledgeBase(c *gin.Context) {
	var req types.CreateKnowledgeBaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}

	kb, err := h.knowledgeService.CreateKnowledgeBase(c, req.Name, req.Description)
	if err != nil {
		c.JSON(statusForError(err), types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, types.DataResponse{
		Status: true,
		Data:   kb,
	})
}

func (h *KnowledgeHandler) HandleListKnowledgeBases(c *gin.Context) {
	kbs, err := h.knowledgeService.ListKnowledgeBases(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   kbs,
	})
}

func (h *KnowledgeHandler) HandleGetKnowledgeBase(c *gin.Context) {
	kb, err := h.knowledgeService.GetKnowledgeBase(c, c.Param("id"))
	if err != nil {
		c.JSON(statusForError(err), types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   kb,
	})
}

func (h *KnowledgeHandler) HandleDeleteKnowledgeBase(c *gin.Context) {
	if err := h.knowledgeService.DeleteKnowledgeBase(c, c.Param("id")); err != nil {
		c.JSON(statusForError(err), types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status:  true,
		Message: "Knowledge base deleted",
	})
}

func (h *KnowledgeHandler) HandleListFiles(c *gin.Context) {
	files, err := h.knowledgeService.ListFiles(c, c.Param("id"))
	if err != nil {
		c.JSON(statusForError(err), types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   files,
	})
}

func (h *KnowledgeHandler) HandleDeleteFile(c *gin.Context) {
	if err := h.knowledgeService.DeleteFile(c, c.Param("id"), c.Param("fileId")); err != nil {
		c.JSON(statusForError(err), types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status:  true,
		Message: "File deleted",
	})
}

// statusForError maps service errors onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, types.ErrKnowledgeBaseNotFound),
		errors.Is(err, types.ErrFileNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrNameRequired),
		errors.Is(err, types.ErrEmptyDocument),
		errors.Is(err, types.ErrEmptySplit),
		errors.Is(err, types.ErrUnsupportedFileType):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
