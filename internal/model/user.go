package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// User is the profile row for an authenticated identity. The auth provider
// owns the identity itself; the profile row is created lazily on first access.
type User struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(128)" json:"name"`
	AvatarURL string    `gorm:"type:varchar(512)" json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Preferences decorates the system prompt with the user's interests.
type Preferences struct {
	UserID    string         `gorm:"type:uuid;primaryKey" json:"user_id"`
	Interests datatypes.JSON `gorm:"type:jsonb" json:"interests"`
	Settings  datatypes.JSON `gorm:"type:jsonb" json:"settings"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// InterestList decodes the stored interests. A missing or malformed value
// decodes to nil rather than an error; prompt decoration is best-effort.
func (p *Preferences) InterestList() []string {
	if p == nil || len(p.Interests) == 0 {
		return nil
	}
	var interests []string
	if err := json.Unmarshal(p.Interests, &interests); err != nil {
		return nil
	}
	return interests
}

// UpdateProfileRequest is the body of PUT /api/user/profile.
type UpdateProfileRequest struct {
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// UpdatePreferencesRequest is the body of PUT /api/user/preferences.
type UpdatePreferencesRequest struct {
	Interests []string          `json:"interests"`
	Settings  map[string]string `json:"settings"`
}

// Stats summarizes a user's activity counts.
type Stats struct {
	Conversations int64 `json:"conversations"`
	Messages      int64 `json:"messages"`
	Searches      int64 `json:"searches"`
}
