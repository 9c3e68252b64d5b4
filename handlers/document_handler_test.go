package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lexiai-backend/models"
	"lexiai-backend/repository"
	"lexiai-backend/store"
)

type stubStorage struct{}

func (stubStorage) Upload(ctx context.Context, fileID uuid.UUID, filename string, data io.Reader) (string, error) {
	return "/files/" + fileID.String() + "/" + filename, nil
}

func (stubStorage) Download(ctx context.Context, fileURL string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(nil)), nil
}

func (stubStorage) Delete(ctx context.Context, fileURL string) error { return nil }

type stubExtractor struct{ content string }

func (s stubExtractor) Extract(ctx context.Context, fileURL, filename string) (string, error) {
	return s.content, nil
}

func newUploadRouter(t *testing.T) (*gin.Engine, string, *repository.DocumentRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	blobs, err := store.NewLocalBlobStore(t.TempDir())
	require.NoError(t, err)
	st := store.New(blobs)
	cases := repository.NewCaseRepository(st)
	documents := repository.NewDocumentRepository(st)

	legalCase, err := cases.Create(context.Background(), &models.Case{
		Title:    "Smith v. Jones",
		CaseType: models.CaseTypeContractDispute,
	})
	require.NoError(t, err)

	h := NewDocumentHandler(documents, cases, stubStorage{}, stubExtractor{content: "lease text"}, zap.NewNop().Sugar())
	r := gin.New()
	r.POST("/api/cases/:id/documents", h.UploadDocument)
	return r, legalCase.ID, documents
}

func multipartUpload(t *testing.T, fields map[string]string, filename string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		fw, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte("content"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestUploadDocumentRequiresTitleAndCategory(t *testing.T) {
	r, caseID, _ := newUploadRouter(t)

	for _, fields := range []map[string]string{
		{"document_category": "contract"},
		{"title": "Lease"},
	} {
		body, contentType := multipartUpload(t, fields, "lease.pdf")
		req := httptest.NewRequest(http.MethodPost, "/api/cases/"+caseID+"/documents", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var resp struct {
			Success bool `json:"success"`
			Error   struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, "Please select a file, title, and category.", resp.Error.Message)
	}
}

func TestUploadDocumentCreatesRecord(t *testing.T) {
	r, caseID, documents := newUploadRouter(t)

	body, contentType := multipartUpload(t, map[string]string{
		"title":             "Lease Agreement",
		"document_category": "contract",
	}, "lease.pdf")
	req := httptest.NewRequest(http.MethodPost, "/api/cases/"+caseID+"/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	docs, err := documents.Filter(context.Background(), map[string]any{"case_id": caseID}, "")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Lease Agreement", docs[0].Title)
	assert.Equal(t, models.CategoryContract, docs[0].DocumentCategory)
	assert.Equal(t, "pdf", docs[0].FileType)
	assert.Equal(t, "lease text", docs[0].ExtractedContent)
}
