package models

// MessageSender identifies who authored a chat message
type MessageSender string

const (
	SenderUser      MessageSender = "user"
	SenderAssistant MessageSender = "assistant"
)

// Message represents one utterance in a case's chat transcript
type Message struct {
	ID          string        `json:"id,omitempty"`
	CaseID      string        `json:"case_id"`
	Message     string        `json:"message"`
	Sender      MessageSender `json:"sender"`
	MessageType string        `json:"message_type,omitempty"`
	CreatedDate string        `json:"created_date,omitempty"`
}
