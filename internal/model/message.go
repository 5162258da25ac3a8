package model

import (
	"time"
)

// Role represents the role of a message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message represents one turn half within a conversation. Messages are
// immutable once written; creation time ascending is the sole ordering key.
type Message struct {
	ID             string    `gorm:"type:uuid;primaryKey" json:"id"`
	ConversationID string    `gorm:"type:uuid;index:idx_messages_conversation_created;not null" json:"conversation_id"`
	Role           Role      `gorm:"type:varchar(20);not null" json:"role"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	CreatedAt      time.Time `gorm:"index:idx_messages_conversation_created" json:"created_at"`
}

// SendMessageRequest is the body of POST /api/chat/message.
type SendMessageRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversationId,omitempty"`
}

// SendMessageResponse is the result of one processed turn.
type SendMessageResponse struct {
	ConversationID string    `json:"conversationId"`
	Message        string    `json:"message"`
	Timestamp      time.Time `json:"timestamp"`
}

// ListMessagesResponse is the response for listing a conversation's messages.
type ListMessagesResponse struct {
	Messages []Message `json:"messages"`
	HasMore  bool      `json:"has_more"`
}
