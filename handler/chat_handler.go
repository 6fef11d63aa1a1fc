package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	services "knowledge-rag-be/service"
	"knowledge-rag-be/types"
)

type ChatHandler struct {
	ragService       *services.RAGService
	knowledgeService *services.KnowledgeService
}

func NewChatHandler(ragService *services.RAGService, knowledgeService *services.KnowledgeService) *ChatHandler {
	return &ChatHandler{
		ragService:       ragService,
		knowledgeService: knowledgeService,
	}
}

func (h *ChatHandler) HandleChat(c *gin.Context) {
	var req types.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Question is required",
		})
		return
	}

	if req.KBID != "" {
		if _, err := h.knowledgeService.GetKnowledgeBase(c, req.KBID); err != nil {
			c.JSON(statusForError(err), types.DataResponse{
				Status:  false,
				Message: err.Error(),
			})
			return
		}
	}

	answer, err := h.ragService.Ask(c, req.Question, req.KBID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data: types.ChatResponse{
			Answer: answer,
		},
	})
}
