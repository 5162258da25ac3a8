package service

import (
	"strings"
)

// assistantPersona is the fixed system prompt for chat turns.
const assistantPersona = "You are Codex, a helpful and intelligent personal AI assistant. " +
	"You remember previous conversations and learn user preferences."

// searchPersona is the fixed system prompt for AI search.
const searchPersona = "You are Codex, a helpful search assistant. Provide accurate, " +
	"concise, and informative answers to user queries. If you need real-time " +
	"information, indicate that."

// BuildSystemPrompt assembles the chat system prompt, appending an interests
// clause when the user has any.
func BuildSystemPrompt(interests []string) string {
	var b strings.Builder
	b.WriteString(assistantPersona)
	if len(interests) > 0 {
		b.WriteString(" The user is interested in: ")
		b.WriteString(strings.Join(interests, ", "))
		b.WriteString(".")
	}
	b.WriteString(" Be conversational, friendly, and helpful.")
	return b.String()
}

// DeriveTitle derives a conversation title from its first message: the first
// 50 characters, with an ellipsis appended when the message is longer.
// Truncation counts runes, never bytes; a multibyte message must not be
// sliced mid-character.
func DeriveTitle(message string) string {
	const maxLen = 50
	runes := []rune(message)
	if len(runes) <= maxLen {
		return message
	}
	return string(runes[:maxLen]) + "..."
}
