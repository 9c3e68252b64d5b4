package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"

	"lexiai-backend/models"
)

// InvokeRequest represents a structured LLM invocation: a prompt and an
// optional response schema the output must conform to.
type InvokeRequest struct {
	Prompt         string
	ResponseSchema *models.Schema
}

// Invoker is the LLM collaborator. Invoke requests a JSON object
// conforming (best-effort) to the response schema; GenerateText requests
// free-form text.
type Invoker interface {
	Invoke(ctx context.Context, req InvokeRequest) (map[string]any, error)
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// GeminiInvoker implements Invoker using the Gemini API
type GeminiInvoker struct {
	client    *genai.Client
	modelName string
}

// NewGeminiInvoker creates a Gemini-backed invoker
func NewGeminiInvoker(client *genai.Client, modelName string) *GeminiInvoker {
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}
	return &GeminiInvoker{client: client, modelName: modelName}
}

// Invoke sends the prompt with a JSON response schema and parses the result
func (g *GeminiInvoker) Invoke(ctx context.Context, req InvokeRequest) (map[string]any, error) {
	model := g.client.GenerativeModel(g.modelName)
	model.GenerationConfig.ResponseMIMEType = "application/json"
	if req.ResponseSchema != nil {
		model.GenerationConfig.ResponseSchema = toGenaiSchema(req.ResponseSchema)
	}

	text, err := g.generate(ctx, model, req.Prompt)
	if err != nil {
		return nil, err
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, fmt.Errorf("failed to parse model output: %w", err)
	}
	return out, nil
}

// GenerateText sends the prompt and returns the model's free-form reply
func (g *GeminiInvoker) GenerateText(ctx context.Context, prompt string) (string, error) {
	model := g.client.GenerativeModel(g.modelName)
	return g.generate(ctx, model, prompt)
}

func (g *GeminiInvoker) generate(ctx context.Context, model *genai.GenerativeModel, prompt string) (string, error) {
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
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
	if sb.Len() == 0 {
		return "", ErrEmptyAIResponse
	}
	return sb.String(), nil
}

// toGenaiSchema converts a schema descriptor to the Gemini schema type
func toGenaiSchema(s *models.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Description: s.Description,
		Format:      s.Format,
		Enum:        s.Enum,
		Required:    s.Required,
	}
	switch s.Type {
	case models.TypeObject:
		out.Type = genai.TypeObject
	case models.TypeArray:
		out.Type = genai.TypeArray
	default:
		out.Type = genai.TypeString
	}
	if s.Items != nil {
		out.Items = toGenaiSchema(s.Items)
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
	}
	return out
}
