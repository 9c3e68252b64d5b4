package repository

import (
	"fmt"

	"lexiai-backend/models"
	"lexiai-backend/store"
)

// MessageRepository handles record store operations for chat messages
type MessageRepository struct {
	*Repository[models.Message]
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(s *store.Store) *MessageRepository {
	return &MessageRepository{
		Repository: NewRepository(s, CollectionMessages, validateMessage),
	}
}

func validateMessage(m *models.Message) error {
	if m.CaseID == "" {
		return fmt.Errorf("%w: case_id is required", ErrValidation)
	}
	if m.Sender != models.SenderUser && m.Sender != models.SenderAssistant {
		return fmt.Errorf("%w: invalid sender %q", ErrValidation, m.Sender)
	}
	if m.MessageType == "" {
		m.MessageType = "text"
	}
	return nil
}
