package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lexiai-backend/service"
)

// MessageHandler handles HTTP requests for case chat
type MessageHandler struct {
	chat *service.ChatService
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(chat *service.ChatService) *MessageHandler {
	return &MessageHandler{chat: chat}
}

// ListMessages handles GET /api/cases/:id/messages
func (h *MessageHandler) ListMessages(c *gin.Context) {
	messages, err := h.chat.Transcript(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "LIST_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    messages,
	})
}

// SendMessageRequest represents the request body for a chat turn
type SendMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

// SendMessage handles POST /api/cases/:id/messages
func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	result, err := h.chat.SendMessage(c.Request.Context(), c.Param("id"), req.Message)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyMessage):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "EMPTY_MESSAGE",
					"message": err.Error(),
				},
			})
		case errors.Is(err, service.ErrCaseNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Case not found",
				},
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "CHAT_FAILED",
					"message": err.Error(),
				},
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}
