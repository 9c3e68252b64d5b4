package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/generative-ai-go/genai"

	"lexiai-backend/models"
	"lexiai-backend/storage"
)

// Extractor is the content extraction collaborator: it turns an uploaded
// file reference into plain text. Failures are recoverable per file; the
// caller substitutes a placeholder and continues.
type Extractor interface {
	Extract(ctx context.Context, fileURL, filename string) (string, error)
}

// GeminiExtractor implements Extractor by downloading the stored file and
// asking Gemini for its text content. Plain text files are read directly.
type GeminiExtractor struct {
	client    *genai.Client
	files     storage.Storage
	modelName string
}

// NewGeminiExtractor creates a Gemini-backed extractor
func NewGeminiExtractor(client *genai.Client, files storage.Storage, modelName string) *GeminiExtractor {
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}
	return &GeminiExtractor{client: client, files: files, modelName: modelName}
}

// Extract returns the text content of an uploaded file
func (e *GeminiExtractor) Extract(ctx context.Context, fileURL, filename string) (string, error) {
	reader, err := e.files.Download(ctx, fileURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch file: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	mimeType := storage.ContentType(filename)
	if mimeType == "text/plain" {
		return string(data), nil
	}

	model := e.client.GenerativeModel(e.modelName)
	model.GenerationConfig.ResponseMIMEType = "application/json"
	model.GenerationConfig.ResponseSchema = toGenaiSchema(&models.Schema{
		Type: models.TypeObject,
		Properties: map[string]*models.Schema{
			"content": {Type: models.TypeString},
		},
	})

	resp, err := model.GenerateContent(ctx,
		genai.Blob{MIMEType: mimeType, Data: data},
		genai.Text("Extract the full text content of this document."),
	)
	if err != nil {
		return "", fmt.Errorf("extraction request failed: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyAIResponse
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}

	content, err := parseExtraction(sb.String())
	if err != nil {
		return "", err
	}
	return content, nil
}

func parseExtraction(raw string) (string, error) {
	var out struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return "", fmt.Errorf("failed to parse extraction output: %w", err)
	}
	return out.Content, nil
}
