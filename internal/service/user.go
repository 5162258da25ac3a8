package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"

	"github.com/richu337/codex-ai-assistant/internal/model"
	"github.com/richu337/codex-ai-assistant/internal/store"
	"github.com/richu337/codex-ai-assistant/pkg/logger"
)

// UserStore is the storage surface for profile and preferences operations.
type UserStore interface {
	EnsureUser(ctx context.Context, id string) (*model.User, error)
	UpdateUser(ctx context.Context, id string, updates map[string]any) (*model.User, error)
	GetPreferences(ctx context.Context, userID string) (*model.Preferences, error)
	UpsertPreferences(ctx context.Context, prefs *model.Preferences) error
	CountConversations(ctx context.Context, userID string) (int64, error)
	CountMessages(ctx context.Context, userID string) (int64, error)
	CountSearches(ctx context.Context, userID string) (int64, error)
}

// UserService handles profile, preferences and account stats.
type UserService struct {
	store  UserStore
	logger *logger.Logger
}

// NewUserService creates a new user service.
func NewUserService(st UserStore, log *logger.Logger) *UserService {
	return &UserService{store: st, logger: log}
}

// Profile returns the user's profile row, creating it on first access.
func (s *UserService) Profile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.store.EnsureUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching profile: %v", ErrPersistence, err)
	}
	return user, nil
}

// UpdateProfile applies profile field updates.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req *model.UpdateProfileRequest) (*model.User, error) {
	updates := map[string]any{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.AvatarURL != "" {
		updates["avatar_url"] = req.AvatarURL
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: no profile fields to update", ErrInvalidInput)
	}

	// First update may race first login; ensure the row exists.
	if _, err := s.store.EnsureUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("%w: ensuring profile: %v", ErrPersistence, err)
	}

	user, err := s.store.UpdateUser(ctx, userID, updates)
	if err != nil {
		return nil, fmt.Errorf("%w: updating profile: %v", ErrPersistence, err)
	}
	return user, nil
}

// Preferences returns the user's preferences. A user without a preferences
// row gets an empty one rather than an error.
func (s *UserService) Preferences(ctx context.Context, userID string) (*model.Preferences, error) {
	prefs, err := s.store.GetPreferences(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &model.Preferences{
				UserID:    userID,
				Interests: datatypes.JSON([]byte("[]")),
				Settings:  datatypes.JSON([]byte("{}")),
			}, nil
		}
		return nil, fmt.Errorf("%w: fetching preferences: %v", ErrPersistence, err)
	}
	return prefs, nil
}

// UpdatePreferences replaces the user's interests and settings.
func (s *UserService) UpdatePreferences(ctx context.Context, userID string, req *model.UpdatePreferencesRequest) (*model.Preferences, error) {
	interests, err := json.Marshal(req.Interests)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding interests", ErrInvalidInput)
	}
	settings, err := json.Marshal(req.Settings)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding settings", ErrInvalidInput)
	}

	prefs := &model.Preferences{
		UserID:    userID,
		Interests: datatypes.JSON(interests),
		Settings:  datatypes.JSON(settings),
	}
	if err := s.store.UpsertPreferences(ctx, prefs); err != nil {
		return nil, fmt.Errorf("%w: saving preferences: %v", ErrPersistence, err)
	}
	return prefs, nil
}

// Stats returns the user's activity counts.
func (s *UserService) Stats(ctx context.Context, userID string) (*model.Stats, error) {
	conversations, err := s.store.CountConversations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: counting conversations: %v", ErrPersistence, err)
	}
	messages, err := s.store.CountMessages(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: counting messages: %v", ErrPersistence, err)
	}
	searches, err := s.store.CountSearches(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: counting searches: %v", ErrPersistence, err)
	}

	return &model.Stats{
		Conversations: conversations,
		Messages:      messages,
		Searches:      searches,
	}, nil
}
