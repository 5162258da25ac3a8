package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/richu337/codex-ai-assistant/internal/events"
	"github.com/richu337/codex-ai-assistant/internal/llm"
	"github.com/richu337/codex-ai-assistant/internal/model"
	"github.com/richu337/codex-ai-assistant/internal/store"
	"github.com/richu337/codex-ai-assistant/pkg/logger"
	"github.com/richu337/codex-ai-assistant/pkg/metrics"
)

const (
	chatTemperature = 0.7
	chatMaxTokens   = 1000
)

// TurnStore is the storage surface the turn workflow consumes.
type TurnStore interface {
	CreateConversation(ctx context.Context, conv *model.Conversation) error
	GetConversation(ctx context.Context, id, userID string) (*model.Conversation, error)
	TouchConversation(ctx context.Context, id string, t time.Time) error
	CreateMessage(ctx context.Context, msg *model.Message) error
	RecentMessages(ctx context.Context, conversationID string, limit int) ([]model.Message, error)
	GetPreferences(ctx context.Context, userID string) (*model.Preferences, error)
}

// ChatService runs the conversation turn workflow.
type ChatService struct {
	store         TurnStore
	llmClient     llm.Client
	publisher     events.Publisher
	logger        *logger.Logger
	historyWindow int
	now           func() time.Time
}

// NewChatService creates a new chat service.
func NewChatService(st TurnStore, llmClient llm.Client, pub events.Publisher, log *logger.Logger, historyWindow int) *ChatService {
	if historyWindow <= 0 {
		historyWindow = 20
	}
	return &ChatService{
		store:         st,
		llmClient:     llmClient,
		publisher:     pub,
		logger:        log,
		historyWindow: historyWindow,
		now:           time.Now,
	}
}

// ProcessTurn runs one conversation turn: resolve or create the conversation,
// persist the inbound message, assemble bounded history and the system
// prompt, call the completion provider, persist the reply and bump the
// conversation timestamp.
//
// Turns are not idempotent: a retry after the inbound message was persisted
// duplicates it. Concurrent turns on one conversation may interleave their
// history reads; neither is serialized here.
func (s *ChatService) ProcessTurn(ctx context.Context, userID, message, conversationID string) (*model.SendMessageResponse, error) {
	if message == "" {
		return nil, fmt.Errorf("%w: message must not be empty", ErrInvalidInput)
	}

	conv, err := s.resolveConversation(ctx, userID, message, conversationID)
	if err != nil {
		return nil, err
	}

	userMsg := &model.Message{
		ID:             uuid.Must(uuid.NewV7()).String(),
		ConversationID: conv.ID,
		Role:           model.RoleUser,
		Content:        message,
		CreatedAt:      s.now(),
	}
	if err := s.store.CreateMessage(ctx, userMsg); err != nil {
		// An unsaved user message must never reach the model silently.
		metrics.TurnsTotal.WithLabelValues("persistence_error").Inc()
		return nil, fmt.Errorf("%w: saving user message: %v", ErrPersistence, err)
	}
	metrics.MessagesTotal.WithLabelValues(string(model.RoleUser)).Inc()

	history, err := s.store.RecentMessages(ctx, conv.ID, s.historyWindow)
	if err != nil {
		metrics.TurnsTotal.WithLabelValues("persistence_error").Inc()
		return nil, fmt.Errorf("%w: loading history: %v", ErrPersistence, err)
	}

	// Preferences decorate the prompt but their absence is not an error.
	var interests []string
	if prefs, err := s.store.GetPreferences(ctx, userID); err == nil {
		interests = prefs.InterestList()
	}

	chatMessages := make([]llm.ChatMessage, len(history))
	for i, msg := range history {
		chatMessages[i] = llm.ChatMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		}
	}

	start := s.now()
	resp, err := s.llmClient.Complete(ctx, &llm.CompletionRequest{
		System:      BuildSystemPrompt(interests),
		Messages:    chatMessages,
		MaxTokens:   chatMaxTokens,
		Temperature: chatTemperature,
	})
	if err != nil {
		s.logger.Error("completion provider call failed",
			zap.String("conversation_id", conv.ID),
			zap.Error(err),
		)
		metrics.RecordLLMCall(s.llmClient.Name(), "", "error", time.Since(start).Seconds(), 0, 0)
		metrics.TurnsTotal.WithLabelValues("upstream_error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	metrics.RecordLLMCall(s.llmClient.Name(), resp.Model, "success", time.Since(start).Seconds(), resp.TokensIn, resp.TokensOut)

	assistantMsg := &model.Message{
		ID:             uuid.Must(uuid.NewV7()).String(),
		ConversationID: conv.ID,
		Role:           model.RoleAssistant,
		Content:        resp.Content,
		CreatedAt:      s.now(),
	}
	if err := s.store.CreateMessage(ctx, assistantMsg); err != nil {
		metrics.TurnsTotal.WithLabelValues("persistence_error").Inc()
		return nil, fmt.Errorf("%w: saving assistant message: %v", ErrPersistence, err)
	}
	metrics.MessagesTotal.WithLabelValues(string(model.RoleAssistant)).Inc()

	// The turn's substantive data is durable; a failed touch only skews
	// conversation ordering, so log and continue.
	if err := s.store.TouchConversation(ctx, conv.ID, s.now()); err != nil {
		s.logger.Warn("failed to touch conversation",
			zap.String("conversation_id", conv.ID),
			zap.Error(err),
		)
	}

	s.publisher.TurnCompleted(ctx, userID, conv.ID)
	metrics.TurnsTotal.WithLabelValues("success").Inc()

	return &model.SendMessageResponse{
		ConversationID: conv.ID,
		Message:        resp.Content,
		Timestamp:      s.now(),
	}, nil
}

func (s *ChatService) resolveConversation(ctx context.Context, userID, message, conversationID string) (*model.Conversation, error) {
	if conversationID != "" {
		conv, err := s.store.GetConversation(ctx, conversationID, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, fmt.Errorf("%w: conversation", ErrNotFound)
			}
			return nil, fmt.Errorf("%w: fetching conversation: %v", ErrPersistence, err)
		}
		return conv, nil
	}

	now := s.now()
	conv := &model.Conversation{
		ID:        uuid.Must(uuid.NewV7()).String(),
		UserID:    userID,
		Title:     DeriveTitle(message),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateConversation(ctx, conv); err != nil {
		return nil, fmt.Errorf("%w: creating conversation: %v", ErrPersistence, err)
	}
	metrics.ConversationsTotal.Inc()
	return conv, nil
}
