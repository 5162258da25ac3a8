package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richu337/codex-ai-assistant/internal/model"
	"github.com/richu337/codex-ai-assistant/internal/service"
	"github.com/richu337/codex-ai-assistant/pkg/logger"
)

func TestProfileCreatedOnFirstAccess(t *testing.T) {
	st := newMemStore()
	svc := service.NewUserService(st, logger.NewNop())

	user, err := svc.Profile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Empty(t, user.Name)

	// Second access returns the same row.
	again, err := svc.Profile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
	assert.Len(t, st.users, 1)
}

func TestUpdateProfile(t *testing.T) {
	st := newMemStore()
	svc := service.NewUserService(st, logger.NewNop())

	user, err := svc.UpdateProfile(context.Background(), "user-1", &model.UpdateProfileRequest{
		Name:      "Ada",
		AvatarURL: "https://example.com/ada.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, "https://example.com/ada.png", user.AvatarURL)

	// Partial update leaves other fields alone.
	user, err = svc.UpdateProfile(context.Background(), "user-1", &model.UpdateProfileRequest{Name: "Ada L"})
	require.NoError(t, err)
	assert.Equal(t, "Ada L", user.Name)
	assert.Equal(t, "https://example.com/ada.png", user.AvatarURL)
}

func TestUpdateProfileNoFields(t *testing.T) {
	svc := service.NewUserService(newMemStore(), logger.NewNop())

	_, err := svc.UpdateProfile(context.Background(), "user-1", &model.UpdateProfileRequest{})
	require.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestPreferencesDefaultEmpty(t *testing.T) {
	svc := service.NewUserService(newMemStore(), logger.NewNop())

	prefs, err := svc.Preferences(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", prefs.UserID)
	assert.Empty(t, prefs.InterestList())
}

func TestUpdatePreferencesRoundTrip(t *testing.T) {
	st := newMemStore()
	svc := service.NewUserService(st, logger.NewNop())

	_, err := svc.UpdatePreferences(context.Background(), "user-1", &model.UpdatePreferencesRequest{
		Interests: []string{"space", "cooking"},
		Settings:  map[string]string{"theme": "dark"},
	})
	require.NoError(t, err)

	prefs, err := svc.Preferences(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"space", "cooking"}, prefs.InterestList())

	// Replacement, not merge.
	_, err = svc.UpdatePreferences(context.Background(), "user-1", &model.UpdatePreferencesRequest{
		Interests: []string{"jazz"},
	})
	require.NoError(t, err)

	prefs, err = svc.Preferences(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"jazz"}, prefs.InterestList())
}

func TestStatsCountsPerUser(t *testing.T) {
	st := newMemStore()
	seedConversation(t, st, "user-1", "alpha")
	seedConversation(t, st, "user-1", "beta")
	seedConversation(t, st, "user-2", "gamma")

	searchSvc := newSearchService(st, &fakeLLM{reply: "answer"}, &recordingPublisher{})
	_, err := searchSvc.Search(context.Background(), "user-1", "query")
	require.NoError(t, err)

	svc := service.NewUserService(st, logger.NewNop())
	stats, err := svc.Stats(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Conversations)
	assert.Equal(t, int64(4), stats.Messages)
	assert.Equal(t, int64(1), stats.Searches)
}
