package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"knowledge-rag-be/types"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{types.ErrKnowledgeBaseNotFound, http.StatusNotFound},
		{types.ErrFileNotFound, http.StatusNotFound},
		{types.ErrNameRequired, http.StatusBadRequest},
		{types.ErrEmptyDocument, http.StatusBadRequest},
		{types.ErrEmptySplit, http.StatusBadRequest},
		{types.ErrUnsupportedFileType, http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", types.ErrKnowledgeBaseNotFound), http.StatusNotFound},
		{errors.New("anything else"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusForError(tt.err), tt.err.Error())
	}
}

func TestHandleChatRejectsInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewChatHandler(nil, nil)

	router := gin.New()
	router.POST("/chat", h.HandleChat)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleChatRequiresQuestion(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewChatHandler(nil, nil)

	router := gin.New()
	router.POST("/chat", h.HandleChat)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"question":"   "}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
