// Package model defines data structures for the assistant backend.
package model

import (
	"time"
)

// Conversation represents a user-owned conversation thread.
type Conversation struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;index:idx_conversations_user;not null" json:"user_id"`
	Title     string    `gorm:"type:varchar(64);not null" json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `gorm:"index:idx_conversations_user_updated" json:"updated_at"`
}

// ConversationSummary is the listing view of a conversation.
type ConversationSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Summary returns the listing view of the conversation.
func (c *Conversation) Summary() ConversationSummary {
	return ConversationSummary{
		ID:        c.ID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ListConversationsResponse is the response for listing conversations.
type ListConversationsResponse struct {
	Conversations []ConversationSummary `json:"conversations"`
	Total         int64                 `json:"total"`
	HasMore       bool                  `json:"has_more"`
}
