package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRejectsUnknownType(t *testing.T) {
	svc := NewGeneratorService(GeneratorWithInvoker(&fakeInvoker{}))
	_, err := svc.Generate(context.Background(), GenerateRequest{
		DocumentType: "ransom_note",
		Details:      "some details",
	})
	assert.ErrorIs(t, err, ErrUnknownDocumentType)
}

func TestGenerateRequiresDetails(t *testing.T) {
	svc := NewGeneratorService(GeneratorWithInvoker(&fakeInvoker{}))
	_, err := svc.Generate(context.Background(), GenerateRequest{
		DocumentType: "nda",
		Details:      "   ",
	})
	assert.ErrorIs(t, err, ErrMissingDetails)
}

func TestGenerateDraftsDocument(t *testing.T) {
	llm := &fakeInvoker{text: "NON-DISCLOSURE AGREEMENT\n\nThis Agreement..."}
	svc := NewGeneratorService(GeneratorWithInvoker(llm))

	result, err := svc.Generate(context.Background(), GenerateRequest{
		DocumentType: "nda",
		Parties:      "Acme Corp and Jane Doe",
		Details:      "Protect trade secrets shared during contract negotiations.",
	})
	require.NoError(t, err)

	assert.Equal(t, "Non-Disclosure Agreement", result.Type)
	assert.Equal(t, "NON-DISCLOSURE AGREEMENT\n\nThis Agreement...", result.Content)
	assert.False(t, result.Timestamp.IsZero())

	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "draft a comprehensive Non-Disclosure Agreement")
	assert.Contains(t, llm.prompts[0], "Parties Involved: Acme Corp and Jane Doe")
	assert.Contains(t, llm.prompts[0], "Jurisdiction: Not specified")
	assert.Contains(t, llm.prompts[0], "Special Requirements: None")
}

func TestGeneratePropagatesAIError(t *testing.T) {
	llm := &fakeInvoker{err: fmt.Errorf("quota exceeded")}
	svc := NewGeneratorService(GeneratorWithInvoker(llm))

	_, err := svc.Generate(context.Background(), GenerateRequest{
		DocumentType: "motion",
		Details:      "Motion to dismiss for lack of jurisdiction.",
	})
	assert.EqualError(t, err, "quota exceeded")
}
