package model

import (
	"time"
)

// EventType represents the type of domain event.
type EventType string

const (
	EventTurnCompleted       EventType = "turn_completed"
	EventConversationDeleted EventType = "conversation_deleted"
	EventSearchPerformed     EventType = "search_performed"
)

// Event is a domain event published to the stream after a state change.
// Publication is best-effort; consumers must tolerate gaps.
type Event struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	ConversationID string    `json:"conversation_id,omitempty"`
	Type           EventType `json:"type"`
	CreatedAt      time.Time `json:"created_at"`
}
