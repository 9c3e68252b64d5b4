package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"lexiai-backend/models"
	"lexiai-backend/repository"
	"lexiai-backend/store"
)

// apologyMessage is persisted as the assistant turn when the AI call fails
const apologyMessage = "I apologize, but I'm having trouble processing your request right now. Please try again."

// caseUpdateFields are the case fields a chat turn is allowed to change,
// in the order they are reported in the update summary.
var caseUpdateFields = []string{"deadline", "priority", "status", "jurisdiction"}

// SendMessageResult is the outcome of a chat turn
type SendMessageResult struct {
	UserMessage      *models.Message `json:"user_message"`
	AssistantMessage *models.Message `json:"assistant_message"`
	Case             *models.Case    `json:"case"`
}

// ChatService handles case-scoped conversations with the legal assistant
type ChatService struct {
	cases     *repository.CaseRepository
	documents *repository.DocumentRepository
	messages  *repository.MessageRepository
	llm       Invoker
	log       *zap.SugaredLogger
}

// ChatOption is a functional option for ChatService
type ChatOption func(*ChatService)

// ChatWithCaseRepository sets the case repository
func ChatWithCaseRepository(repo *repository.CaseRepository) ChatOption {
	return func(s *ChatService) { s.cases = repo }
}

// ChatWithDocumentRepository sets the document repository
func ChatWithDocumentRepository(repo *repository.DocumentRepository) ChatOption {
	return func(s *ChatService) { s.documents = repo }
}

// ChatWithMessageRepository sets the message repository
func ChatWithMessageRepository(repo *repository.MessageRepository) ChatOption {
	return func(s *ChatService) { s.messages = repo }
}

// ChatWithInvoker sets the LLM collaborator
func ChatWithInvoker(llm Invoker) ChatOption {
	return func(s *ChatService) { s.llm = llm }
}

// ChatWithLogger sets the logger
func ChatWithLogger(log *zap.SugaredLogger) ChatOption {
	return func(s *ChatService) { s.log = log }
}

// NewChatService creates a new chat service
func NewChatService(opts ...ChatOption) *ChatService {
	s := &ChatService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = zap.NewNop().Sugar()
	}
	return s
}

// Transcript returns a case's messages in chronological order
func (s *ChatService) Transcript(ctx context.Context, caseID string) ([]models.Message, error) {
	if s.messages == nil {
		return nil, fmt.Errorf("message repository not set")
	}
	return s.messages.Filter(ctx, map[string]any{"case_id": caseID}, "created_date")
}

// SendMessage runs one chat turn: the user's message is persisted first,
// unconditionally, then the assistant's reply is produced and persisted.
// An AI failure yields an apology reply and leaves the case untouched.
func (s *ChatService) SendMessage(ctx context.Context, caseID, text string) (*SendMessageResult, error) {
	if s.cases == nil || s.documents == nil || s.messages == nil || s.llm == nil {
		return nil, fmt.Errorf("chat service collaborators not set")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	legalCase, err := s.cases.Get(ctx, caseID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCaseNotFound
		}
		return nil, err
	}

	userMessage, err := s.messages.Create(ctx, &models.Message{
		CaseID:  caseID,
		Message: text,
		Sender:  models.SenderUser,
	})
	if err != nil {
		return nil, err
	}

	assistantText, updatedCase := s.assistantReply(ctx, legalCase, text)

	assistantMessage, err := s.messages.Create(ctx, &models.Message{
		CaseID:  caseID,
		Message: assistantText,
		Sender:  models.SenderAssistant,
	})
	if err != nil {
		return nil, err
	}

	return &SendMessageResult{
		UserMessage:      userMessage,
		AssistantMessage: assistantMessage,
		Case:             updatedCase,
	}, nil
}

// assistantReply produces the assistant's message text and the possibly
// updated case. It never fails; AI errors collapse to the apology.
func (s *ChatService) assistantReply(ctx context.Context, legalCase *models.Case, text string) (string, *models.Case) {
	documents, err := s.documents.Filter(ctx, map[string]any{"case_id": legalCase.ID}, "-created_date")
	if err != nil {
		s.log.Warnw("chat document lookup failed", "case", legalCase.ID, "error", err)
		return apologyMessage, legalCase
	}

	result, err := s.llm.Invoke(ctx, InvokeRequest{
		Prompt:         chatPrompt(legalCase, documents, text),
		ResponseSchema: chatResponseSchema(),
	})
	if err != nil {
		s.log.Warnw("chat AI invocation failed", "case", legalCase.ID, "error", err)
		return apologyMessage, legalCase
	}

	reply, _ := result["response_text"].(string)
	if reply == "" {
		s.log.Warnw("chat AI returned no response_text", "case", legalCase.ID)
		return apologyMessage, legalCase
	}

	if analysis, ok := result["jurisdiction_analysis"].(map[string]any); ok {
		reasoning, _ := analysis["reasoning"].(string)
		if reasoning != "" {
			proper, _ := analysis["proper_jurisdiction"].(string)
			reply += fmt.Sprintf("\n\nJURISDICTION ANALYSIS:\nProper jurisdiction: %s\nReasoning: %s",
				strings.ToUpper(proper), reasoning)
		}
	}

	if updates, ok := result["updated_case_data"].(map[string]any); ok && len(updates) > 0 {
		patch := make(map[string]any)
		var summaries []string
		for _, field := range caseUpdateFields {
			value, ok := updates[field].(string)
			if !ok || value == "" {
				continue
			}
			patch[field] = value
			summaries = append(summaries, updateSummary(field, value))
		}
		if len(patch) > 0 {
			updated, err := s.cases.Update(ctx, legalCase.ID, patch)
			if err != nil {
				s.log.Warnw("chat case update failed", "case", legalCase.ID, "error", err)
			} else {
				legalCase = updated
				reply += fmt.Sprintf("\n\n*System Update: I've updated the case %s.*", strings.Join(summaries, ", "))
			}
		}
	}

	return reply, legalCase
}

// updateSummary renders one changed field for the System Update line.
// Deadlines are shown as a readable date rather than the raw ISO value.
func updateSummary(field, value string) string {
	if field == "deadline" {
		if parsed, err := time.Parse("2006-01-02", value); err == nil {
			return fmt.Sprintf("deadline to %s", parsed.Format("January 2, 2006"))
		}
	}
	return fmt.Sprintf("%s to %q", field, value)
}

func chatPrompt(legalCase *models.Case, documents []models.Document, text string) string {
	blocks := make([]string, len(documents))
	for i, doc := range documents {
		content := doc.ExtractedContent
		if content == "" {
			content = "Content not extracted"
		}
		blocks[i] = fmt.Sprintf("Document: %s\nContent: %s", doc.Title, content)
	}

	return fmt.Sprintf("You are a versatile and professional legal AI assistant.\n\n"+
		"CASE INFORMATION:\nTitle: %s\nType: %s\nDescription: %s\nJurisdiction: %s\n\n"+
		"Documents:\n%s\n\nUser's question: %s",
		legalCase.Title, legalCase.CaseType, legalCase.Description, legalCase.Jurisdiction,
		strings.Join(blocks, "\n\n"), text)
}

// chatResponseSchema constrains the assistant reply to the structure the
// turn logic consumes: the reply text, an optional jurisdiction analysis,
// and an optional set of case field updates.
func chatResponseSchema() *models.Schema {
	return &models.Schema{
		Type: models.TypeObject,
		Properties: map[string]*models.Schema{
			"response_text": {Type: models.TypeString},
			"jurisdiction_analysis": {
				Type: models.TypeObject,
				Properties: map[string]*models.Schema{
					"federal_indicators_found": {
						Type:  models.TypeArray,
						Items: &models.Schema{Type: models.TypeString},
					},
					"proper_jurisdiction": {
						Type: models.TypeString,
						Enum: []string{"federal", "state", "uncertain"},
					},
					"reasoning": {Type: models.TypeString},
				},
			},
			"updated_case_data": {
				Type: models.TypeObject,
				Properties: map[string]*models.Schema{
					"deadline":     {Type: models.TypeString, Format: "date"},
					"priority":     {Type: models.TypeString, Enum: models.CasePriorities},
					"status":       {Type: models.TypeString, Enum: models.CaseStatuses},
					"jurisdiction": {Type: models.TypeString},
				},
			},
		},
		Required: []string{"response_text"},
	}
}
