package store

import (
	"context"

	"github.com/richu337/codex-ai-assistant/internal/model"
)

// CreateMessage inserts a message row. Messages are never updated or
// reordered after this point.
func (s *Store) CreateMessage(ctx context.Context, msg *model.Message) error {
	return s.db.WithContext(ctx).Create(msg).Error
}

// ListMessages returns a page of a conversation's messages ordered by
// creation time ascending.
func (s *Store) ListMessages(ctx context.Context, conversationID string, limit, offset int) ([]model.Message, error) {
	var msgs []model.Message
	err := s.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// RecentMessages returns up to limit of the most recent messages in the
// conversation, reordered ascending so the oldest comes first.
func (s *Store) RecentMessages(ctx context.Context, conversationID string, limit int) ([]model.Message, error) {
	var msgs []model.Message
	err := s.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// CountMessages counts all messages across the user's conversations.
func (s *Store) CountMessages(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Message{}).
		Joins("JOIN conversations ON conversations.id = messages.conversation_id").
		Where("conversations.user_id = ?", userID).
		Count(&count).Error
	return count, err
}
