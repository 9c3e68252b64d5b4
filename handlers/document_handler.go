package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"lexiai-backend/models"
	"lexiai-backend/repository"
	"lexiai-backend/service"
	"lexiai-backend/storage"
	"lexiai-backend/store"
)

// DocumentHandler handles HTTP requests for case documents
type DocumentHandler struct {
	documents *repository.DocumentRepository
	cases     *repository.CaseRepository
	files     storage.Storage
	extractor service.Extractor
	log       *zap.SugaredLogger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documents *repository.DocumentRepository, cases *repository.CaseRepository, files storage.Storage, extractor service.Extractor, log *zap.SugaredLogger) *DocumentHandler {
	return &DocumentHandler{
		documents: documents,
		cases:     cases,
		files:     files,
		extractor: extractor,
		log:       log,
	}
}

// ListDocuments handles GET /api/cases/:id/documents
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	documents, err := h.documents.Filter(c.Request.Context(), map[string]any{"case_id": c.Param("id")}, "-created_date")
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
		"data":    documents,
	})
}

// UploadDocument handles POST /api/cases/:id/documents. The request is
// multipart: a "file" part plus "title" and "document_category" fields.
// Content extraction failures leave the document with empty content.
func (h *DocumentHandler) UploadDocument(c *gin.Context) {
	ctx := c.Request.Context()
	caseID := c.Param("id")

	if _, err := h.cases.Get(ctx, caseID); err != nil {
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

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "A file is required",
			},
		})
		return
	}

	if errs := service.ValidateFile(header.Filename, header.Size); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_FILE",
				"message": strings.Join(errs, "; "),
			},
		})
		return
	}

	title := c.PostForm("title")
	category := c.PostForm("document_category")
	if title == "" || category == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Please select a file, title, and category.",
			},
		})
		return
	}

	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_FILE",
				"message": err.Error(),
			},
		})
		return
	}
	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_FILE",
				"message": err.Error(),
			},
		})
		return
	}

	fileURL, err := h.files.Upload(ctx, uuid.New(), header.Filename, bytes.NewReader(data))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": "Failed to upload or process document.",
			},
		})
		return
	}

	content, err := h.extractor.Extract(ctx, fileURL, header.Filename)
	if err != nil {
		h.log.Warnw("document extraction failed", "case", caseID, "file", header.Filename, "error", err)
		content = ""
	}

	created, err := h.documents.Create(ctx, &models.Document{
		CaseID:           caseID,
		Title:            title,
		FileURL:          fileURL,
		FileType:         strings.ToLower(strings.TrimPrefix(filepath.Ext(header.Filename), ".")),
		ExtractedContent: content,
		DocumentCategory: models.DocumentCategory(category),
	})
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

// DeleteDocument handles DELETE /api/documents/:id
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	if err := h.documents.Delete(c.Request.Context(), c.Param("id")); err != nil {
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
		"data":    gin.H{"id": c.Param("id")},
	})
}
