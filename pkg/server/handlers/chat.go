// Package handlers implements the HTTP API endpoints.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tunegraph/tunegraph"
	"github.com/tunegraph/tunegraph/pkg/server/dto"
)

// ChatHandler answers questions over the knowledge graph.
type ChatHandler struct {
	client *tunegraph.Client
}

// NewChatHandler creates a new chat handler
func NewChatHandler(client *tunegraph.Client) *ChatHandler {
	return &ChatHandler{client: client}
}

// Chat handles POST /api/v1/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid request",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid request",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	answerText, result, err := h.client.Ask(c.Request.Context(), req.Question)
	if err != nil {
		if errors.Is(err, tunegraph.ErrNoAnswerer) {
			c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{
				Error:   "chat model not configured",
				Message: "set answer.api_key or OPENAI_API_KEY to enable chat",
				Code:    http.StatusServiceUnavailable,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "failed to generate answer",
			Message: err.Error(),
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, dto.ChatResponse{
		Answer:    answerText,
		Context:   result.ContextText,
		Entities:  result.Entities,
		PathCount: result.RankedPathsCount,
	})
}
