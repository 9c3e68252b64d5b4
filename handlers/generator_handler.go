package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lexiai-backend/service"
)

// GeneratorHandler handles HTTP requests for standalone document drafting
type GeneratorHandler struct {
	generator *service.GeneratorService
}

// NewGeneratorHandler creates a new generator handler
func NewGeneratorHandler(generator *service.GeneratorService) *GeneratorHandler {
	return &GeneratorHandler{generator: generator}
}

// ListDocumentTypes handles GET /api/generator/types
func (h *GeneratorHandler) ListDocumentTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    service.DocumentTypes,
	})
}

// Generate handles POST /api/generator
func (h *GeneratorHandler) Generate(c *gin.Context) {
	var req service.GenerateRequest
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

	result, err := h.generator.Generate(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownDocumentType):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNKNOWN_DOCUMENT_TYPE",
					"message": err.Error(),
				},
			})
		case errors.Is(err, service.ErrMissingDetails):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "MISSING_DETAILS",
					"message": err.Error(),
				},
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "GENERATION_FAILED",
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
