package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"lexiai-backend/service"
)

// IntakeHandler handles HTTP requests for the case-creation workflow
type IntakeHandler struct {
	intake *service.IntakeService
}

// NewIntakeHandler creates a new intake handler
func NewIntakeHandler(intake *service.IntakeService) *IntakeHandler {
	return &IntakeHandler{intake: intake}
}

// StartIntake handles POST /api/cases/intake. The request is multipart:
// a "description" field plus zero or more "files" parts.
func (h *IntakeHandler) StartIntake(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	description := c.PostForm("description")

	var files []service.IntakeFile
	for _, header := range form.File["files"] {
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
		files = append(files, service.IntakeFile{
			Name: header.Filename,
			Size: header.Size,
			Data: data,
		})
	}

	job, err := h.intake.StartIntake(description, files)
	if err != nil {
		status := http.StatusInternalServerError
		code := "INTAKE_FAILED"
		if errors.Is(err, service.ErrEmptyDescription) {
			status = http.StatusBadRequest
			code = "EMPTY_DESCRIPTION"
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

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"data":    job,
	})
}

// GetIntake handles GET /api/intake/:id
func (h *IntakeHandler) GetIntake(c *gin.Context) {
	job, err := h.intake.GetJob(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Intake job not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    job,
	})
}

// RetryIntake handles POST /api/intake/:id/retry
func (h *IntakeHandler) RetryIntake(c *gin.Context) {
	job, err := h.intake.Retry(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Intake job not found",
			},
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"data":    job,
	})
}
