package store

import (
	"context"
	"errors"

	"gorm.io/gorm/clause"

	"github.com/richu337/codex-ai-assistant/internal/model"
)

// GetUser fetches a profile row by id.
func (s *Store) GetUser(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// EnsureUser fetches the profile row, creating it if absent. The identity
// itself lives with the auth provider; only the profile row is lazy.
func (s *Store) EnsureUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.GetUser(ctx, id)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	created := &model.User{ID: id}
	if err := s.db.WithContext(ctx).Create(created).Error; err != nil {
		// Lost a create race with a concurrent first login; re-read.
		if existing, getErr := s.GetUser(ctx, id); getErr == nil {
			return existing, nil
		}
		return nil, err
	}
	return created, nil
}

// UpdateUser applies profile field updates and returns the fresh row.
func (s *Store) UpdateUser(ctx context.Context, id string, updates map[string]any) (*model.User, error) {
	res := s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetUser(ctx, id)
}

// GetPreferences fetches the user's preferences row.
func (s *Store) GetPreferences(ctx context.Context, userID string) (*model.Preferences, error) {
	var prefs model.Preferences
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&prefs).Error; err != nil {
		return nil, translate(err)
	}
	return &prefs, nil
}

// UpsertPreferences creates or replaces the user's preferences row.
func (s *Store) UpsertPreferences(ctx context.Context, prefs *model.Preferences) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"interests", "settings", "updated_at"}),
		}).
		Create(prefs).Error
}

// CountConversations counts the user's conversations.
func (s *Store) CountConversations(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Conversation{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
