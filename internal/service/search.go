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
	searchTemperature = 0.7
	searchMaxTokens   = 500
)

// SearchStore is the storage surface for AI search and its history.
type SearchStore interface {
	CreateSearchEntry(ctx context.Context, entry *model.SearchEntry) error
	ListSearchHistory(ctx context.Context, userID string, limit, offset int) ([]model.SearchEntry, error)
	DeleteSearchEntry(ctx context.Context, id, userID string) error
}

// SearchService answers free-text queries through the completion provider
// and records them in the user's search history.
type SearchService struct {
	store     SearchStore
	llmClient llm.Client
	publisher events.Publisher
	logger    *logger.Logger
	now       func() time.Time
}

// NewSearchService creates a new search service.
func NewSearchService(st SearchStore, llmClient llm.Client, pub events.Publisher, log *logger.Logger) *SearchService {
	return &SearchService{
		store:     st,
		llmClient: llmClient,
		publisher: pub,
		logger:    log,
		now:       time.Now,
	}
}

// Search runs one single-shot query against the completion provider and
// persists the exchange. A failed history write does not lose the answer.
func (s *SearchService) Search(ctx context.Context, userID, query string) (*model.SearchResponse, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: query must not be empty", ErrInvalidInput)
	}

	start := s.now()
	resp, err := s.llmClient.Complete(ctx, &llm.CompletionRequest{
		System:      searchPersona,
		Messages:    []llm.ChatMessage{{Role: string(model.RoleUser), Content: query}},
		MaxTokens:   searchMaxTokens,
		Temperature: searchTemperature,
	})
	if err != nil {
		metrics.RecordLLMCall(s.llmClient.Name(), "", "error", time.Since(start).Seconds(), 0, 0)
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	metrics.RecordLLMCall(s.llmClient.Name(), resp.Model, "success", time.Since(start).Seconds(), resp.TokensIn, resp.TokensOut)
	metrics.SearchesTotal.Inc()

	entry := &model.SearchEntry{
		ID:        uuid.Must(uuid.NewV7()).String(),
		UserID:    userID,
		Query:     query,
		Result:    resp.Content,
		CreatedAt: s.now(),
	}
	if err := s.store.CreateSearchEntry(ctx, entry); err != nil {
		s.logger.Warn("failed to save search history",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}

	s.publisher.SearchPerformed(ctx, userID)

	return &model.SearchResponse{
		Query:     query,
		Answer:    resp.Content,
		Timestamp: s.now(),
	}, nil
}

// History returns a page of the user's search history, newest first.
func (s *SearchService) History(ctx context.Context, userID string, limit, offset int) (*model.SearchHistoryResponse, error) {
	entries, err := s.store.ListSearchHistory(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: listing search history: %v", ErrPersistence, err)
	}
	return &model.SearchHistoryResponse{
		History: entries,
		HasMore: len(entries) == limit,
	}, nil
}

// DeleteHistory removes one history entry owned by the user.
func (s *SearchService) DeleteHistory(ctx context.Context, userID, entryID string) error {
	if err := s.store.DeleteSearchEntry(ctx, entryID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: search entry", ErrNotFound)
		}
		return fmt.Errorf("%w: deleting search entry: %v", ErrPersistence, err)
	}
	return nil
}
