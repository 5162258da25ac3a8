package store

import (
	"context"

	"github.com/richu337/codex-ai-assistant/internal/model"
)

// CreateSearchEntry inserts a search history row.
func (s *Store) CreateSearchEntry(ctx context.Context, entry *model.SearchEntry) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

// ListSearchHistory returns a page of the user's search history, newest first.
func (s *Store) ListSearchHistory(ctx context.Context, userID string, limit, offset int) ([]model.SearchEntry, error) {
	var entries []model.SearchEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteSearchEntry removes one history row owned by the user.
func (s *Store) DeleteSearchEntry(ctx context.Context, id, userID string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.SearchEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountSearches counts the user's search history rows.
func (s *Store) CountSearches(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.SearchEntry{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
