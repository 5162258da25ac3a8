package store

import (
	"context"
	"time"

	"github.com/richu337/codex-ai-assistant/internal/model"
)

// CreateConversation inserts a new conversation row.
func (s *Store) CreateConversation(ctx context.Context, conv *model.Conversation) error {
	return s.db.WithContext(ctx).Create(conv).Error
}

// GetConversation fetches a conversation by (id, userID). A nonexistent id
// and an id owned by someone else both return ErrNotFound.
func (s *Store) GetConversation(ctx context.Context, id, userID string) (*model.Conversation, error) {
	var conv model.Conversation
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&conv).Error
	if err != nil {
		return nil, translate(err)
	}
	return &conv, nil
}

// ListConversations returns a page of the user's conversations ordered by
// updated_at descending, plus the total count.
func (s *Store) ListConversations(ctx context.Context, userID string, limit, offset int) ([]model.Conversation, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).
		Model(&model.Conversation{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var convs []model.Conversation
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&convs).Error
	if err != nil {
		return nil, 0, err
	}
	return convs, total, nil
}

// DeleteConversation removes a conversation and its messages. Returns
// ErrNotFound when no row matched the (id, userID) pair.
func (s *Store) DeleteConversation(ctx context.Context, id, userID string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Conversation{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return s.db.WithContext(ctx).
		Where("conversation_id = ?", id).
		Delete(&model.Message{}).Error
}

// TouchConversation bumps updated_at to the given time.
func (s *Store) TouchConversation(ctx context.Context, id string, t time.Time) error {
	return s.db.WithContext(ctx).
		Model(&model.Conversation{}).
		Where("id = ?", id).
		Update("updated_at", t).Error
}
