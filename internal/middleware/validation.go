package middleware

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ValidateMessageContent validates an inbound chat message.
func ValidateMessageContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return errors.New("message cannot be empty")
	}
	if len(content) > 100000 { // ~100KB limit
		return errors.New("message exceeds maximum length")
	}
	if !utf8.ValidString(content) {
		return errors.New("message must be valid UTF-8")
	}
	return nil
}

// ValidateConversationID validates a conversation ID.
func ValidateConversationID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New("invalid conversation ID format")
	}
	return nil
}

// ValidateSearchEntryID validates a search history entry ID.
func ValidateSearchEntryID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New("invalid search entry ID format")
	}
	return nil
}

// ValidateSearchQuery validates a search query.
func ValidateSearchQuery(q string) error {
	if strings.TrimSpace(q) == "" {
		return errors.New("query cannot be empty")
	}
	if len(q) > 2000 {
		return errors.New("query exceeds maximum length")
	}
	return nil
}

// ValidateInterests validates the preferences interest list.
func ValidateInterests(interests []string) error {
	if len(interests) > 50 {
		return errors.New("too many interests")
	}
	for _, interest := range interests {
		if strings.TrimSpace(interest) == "" {
			return errors.New("interests cannot be empty")
		}
		if len(interest) > 100 {
			return errors.New("interest exceeds maximum length")
		}
	}
	return nil
}
