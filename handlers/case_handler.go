package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lexiai-backend/models"
	"lexiai-backend/repository"
	"lexiai-backend/store"
)

// CaseHandler handles HTTP requests for legal cases
type CaseHandler struct {
	cases     *repository.CaseRepository
	documents *repository.DocumentRepository
	messages  *repository.MessageRepository
	log       *zap.SugaredLogger
}

// NewCaseHandler creates a new case handler
func NewCaseHandler(cases *repository.CaseRepository, documents *repository.DocumentRepository, messages *repository.MessageRepository, log *zap.SugaredLogger) *CaseHandler {
	return &CaseHandler{
		cases:     cases,
		documents: documents,
		messages:  messages,
		log:       log,
	}
}

// ListCases handles GET /api/cases
func (h *CaseHandler) ListCases(c *gin.Context) {
	order := c.DefaultQuery("order", "-created_date")

	cases, err := h.cases.List(c.Request.Context(), order)
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
		"data":    cases,
	})
}

// CreateCase handles POST /api/cases
func (h *CaseHandler) CreateCase(c *gin.Context) {
	var req models.Case
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

	created, err := h.cases.Create(c.Request.Context(), &req)
	if err != nil {
		status := http.StatusInternalServerError
		code := "CREATE_FAILED"
		if errors.Is(err, repository.ErrValidation) {
			status = http.StatusBadRequest
			code = "VALIDATION_ERROR"
		}
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    created,
	})
}

// GetCase handles GET /api/cases/:id
func (h *CaseHandler) GetCase(c *gin.Context) {
	legalCase, err := h.cases.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Case not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "RETRIEVAL_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    legalCase,
	})
}

// UpdateCase handles PATCH /api/cases/:id
func (h *CaseHandler) UpdateCase(c *gin.Context) {
	var patch map[string]any
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	updated, err := h.cases.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Case not found",
				},
			})
		case errors.Is(err, repository.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": err.Error(),
				},
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UPDATE_FAILED",
					"message": err.Error(),
				},
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    updated,
	})
}

// DeleteCase handles DELETE /api/cases/:id. Deleting a case also removes
// its documents and chat messages.
func (h *CaseHandler) DeleteCase(c *gin.Context) {
	ctx := c.Request.Context()
	caseID := c.Param("id")

	documents, err := h.documents.Filter(ctx, map[string]any{"case_id": caseID}, "")
	if err == nil {
		for _, doc := range documents {
			if err := h.documents.Delete(ctx, doc.ID); err != nil {
				h.log.Warnw("cascade document delete failed", "case", caseID, "document", doc.ID, "error", err)
			}
		}
	}
	messages, err := h.messages.Filter(ctx, map[string]any{"case_id": caseID}, "")
	if err == nil {
		for _, msg := range messages {
			if err := h.messages.Delete(ctx, msg.ID); err != nil {
				h.log.Warnw("cascade message delete failed", "case", caseID, "message", msg.ID, "error", err)
			}
		}
	}

	if err := h.cases.Delete(ctx, caseID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DELETE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"id": caseID},
	})
}
