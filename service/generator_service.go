package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DocumentType describes one kind of legal document the generator can draft
type DocumentType struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// DocumentTypes lists the supported document types
var DocumentTypes = []DocumentType{
	{Value: "demand_letter", Label: "Demand Letter", Description: "Formal request for payment or action"},
	{Value: "contract", Label: "Contract", Description: "Legal agreement between parties"},
	{Value: "motion", Label: "Motion", Description: "Court filing requesting specific action"},
	{Value: "affidavit", Label: "Affidavit", Description: "Sworn statement of facts"},
	{Value: "cease_desist", Label: "Cease and Desist", Description: "Letter demanding cessation of activity"},
	{Value: "settlement_agreement", Label: "Settlement Agreement", Description: "Agreement to resolve dispute"},
	{Value: "privacy_policy", Label: "Privacy Policy", Description: "Website/app privacy policy"},
	{Value: "terms_of_service", Label: "Terms of Service", Description: "User agreement for services"},
	{Value: "employment_contract", Label: "Employment Contract", Description: "Agreement between employer and employee"},
	{Value: "nda", Label: "Non-Disclosure Agreement", Description: "Confidentiality agreement"},
}

// GenerateRequest holds the drafting form inputs
type GenerateRequest struct {
	DocumentType        string `json:"document_type"`
	Parties             string `json:"parties"`
	Jurisdiction        string `json:"jurisdiction"`
	Details             string `json:"details"`
	SpecialRequirements string `json:"special_requirements"`
}

// GenerateResult is a drafted document
type GenerateResult struct {
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// GeneratorService drafts standalone legal documents from form inputs
type GeneratorService struct {
	llm Invoker
	log *zap.SugaredLogger
}

// GeneratorOption is a functional option for GeneratorService
type GeneratorOption func(*GeneratorService)

// GeneratorWithInvoker sets the LLM collaborator
func GeneratorWithInvoker(llm Invoker) GeneratorOption {
	return func(s *GeneratorService) { s.llm = llm }
}

// GeneratorWithLogger sets the logger
func GeneratorWithLogger(log *zap.SugaredLogger) GeneratorOption {
	return func(s *GeneratorService) { s.log = log }
}

// NewGeneratorService creates a new generator service
func NewGeneratorService(opts ...GeneratorOption) *GeneratorService {
	s := &GeneratorService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = zap.NewNop().Sugar()
	}
	return s
}

// Generate drafts a document of the requested type
func (s *GeneratorService) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	if s.llm == nil {
		return nil, fmt.Errorf("generator service invoker not set")
	}
	docType, ok := lookupDocumentType(req.DocumentType)
	if !ok {
		return nil, ErrUnknownDocumentType
	}
	if strings.TrimSpace(req.Details) == "" {
		return nil, ErrMissingDetails
	}

	content, err := s.llm.GenerateText(ctx, generatorPrompt(docType, req))
	if err != nil {
		return nil, err
	}
	if content == "" {
		return nil, ErrEmptyAIResponse
	}

	return &GenerateResult{
		Type:      docType.Label,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}, nil
}

func lookupDocumentType(value string) (DocumentType, bool) {
	for _, t := range DocumentTypes {
		if t.Value == value {
			return t, true
		}
	}
	return DocumentType{}, false
}

func generatorPrompt(docType DocumentType, req GenerateRequest) string {
	orDefault := func(value, fallback string) string {
		if strings.TrimSpace(value) == "" {
			return fallback
		}
		return value
	}

	return fmt.Sprintf("You are a professional legal document drafting AI. "+
		"Please draft a comprehensive %s with the following specifications: \n\n"+
		"Document Type: %s\nDescription: %s\nParties Involved: %s\nJurisdiction: %s\n"+
		"Details and Requirements: %s\nSpecial Requirements: %s\n\n"+
		"Please create a professional, legally sound document that includes proper formatting and placeholders.",
		docType.Label, docType.Label, docType.Description,
		orDefault(req.Parties, "Not specified"),
		orDefault(req.Jurisdiction, "Not specified"),
		req.Details,
		orDefault(req.SpecialRequirements, "None"))
}
