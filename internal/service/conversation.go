package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/richu337/codex-ai-assistant/internal/events"
	"github.com/richu337/codex-ai-assistant/internal/model"
	"github.com/richu337/codex-ai-assistant/internal/store"
	"github.com/richu337/codex-ai-assistant/pkg/logger"
)

// ConversationStore is the storage surface for conversation CRUD.
type ConversationStore interface {
	GetConversation(ctx context.Context, id, userID string) (*model.Conversation, error)
	ListConversations(ctx context.Context, userID string, limit, offset int) ([]model.Conversation, int64, error)
	DeleteConversation(ctx context.Context, id, userID string) error
	ListMessages(ctx context.Context, conversationID string, limit, offset int) ([]model.Message, error)
}

// ConversationService handles conversation read and delete operations.
type ConversationService struct {
	store     ConversationStore
	publisher events.Publisher
	logger    *logger.Logger
}

// NewConversationService creates a new conversation service.
func NewConversationService(st ConversationStore, pub events.Publisher, log *logger.Logger) *ConversationService {
	return &ConversationService{store: st, publisher: pub, logger: log}
}

// List returns a page of the user's conversations ordered by last activity.
func (s *ConversationService) List(ctx context.Context, userID string, limit, offset int) (*model.ListConversationsResponse, error) {
	convs, total, err := s.store.ListConversations(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: listing conversations: %v", ErrPersistence, err)
	}

	summaries := make([]model.ConversationSummary, len(convs))
	for i := range convs {
		summaries[i] = convs[i].Summary()
	}

	return &model.ListConversationsResponse{
		Conversations: summaries,
		Total:         total,
		HasMore:       int64(offset+len(convs)) < total,
	}, nil
}

// Get fetches one conversation owned by the user.
func (s *ConversationService) Get(ctx context.Context, userID, conversationID string) (*model.Conversation, error) {
	conv, err := s.store.GetConversation(ctx, conversationID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: conversation", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: fetching conversation: %v", ErrPersistence, err)
	}
	return conv, nil
}

// Delete removes a conversation and its messages.
func (s *ConversationService) Delete(ctx context.Context, userID, conversationID string) error {
	if err := s.store.DeleteConversation(ctx, conversationID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: conversation", ErrNotFound)
		}
		return fmt.Errorf("%w: deleting conversation: %v", ErrPersistence, err)
	}
	s.publisher.ConversationDeleted(ctx, userID, conversationID)
	return nil
}

// Messages returns a page of a conversation's messages in submission order,
// after verifying the conversation belongs to the user.
func (s *ConversationService) Messages(ctx context.Context, userID, conversationID string, limit, offset int) (*model.ListMessagesResponse, error) {
	if _, err := s.Get(ctx, userID, conversationID); err != nil {
		return nil, err
	}

	msgs, err := s.store.ListMessages(ctx, conversationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: listing messages: %v", ErrPersistence, err)
	}

	return &model.ListMessagesResponse{
		Messages: msgs,
		HasMore:  len(msgs) == limit,
	}, nil
}
