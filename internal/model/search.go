package model

import (
	"time"
)

// SearchEntry is one persisted AI search, independent of conversations.
type SearchEntry struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;index:idx_search_user_created;not null" json:"user_id"`
	Query     string    `gorm:"type:text;not null" json:"query"`
	Result    string    `gorm:"type:text;not null" json:"result"`
	CreatedAt time.Time `gorm:"index:idx_search_user_created" json:"created_at"`
}

// TableName keeps the table name aligned with the product schema.
func (SearchEntry) TableName() string { return "search_history" }

// SearchResponse is the response of GET /api/search.
type SearchResponse struct {
	Query     string    `json:"query"`
	Answer    string    `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
}

// SearchHistoryResponse is the response of GET /api/search/history.
type SearchHistoryResponse struct {
	History []SearchEntry `json:"history"`
	HasMore bool          `json:"has_more"`
}
