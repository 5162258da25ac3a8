package service_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/richu337/codex-ai-assistant/internal/llm"
	"github.com/richu337/codex-ai-assistant/internal/model"
	"github.com/richu337/codex-ai-assistant/internal/store"
)

// memStore is an in-memory stand-in for the Postgres store. Messages keep
// insertion order, which equals creation order for these tests.
type memStore struct {
	mu            sync.Mutex
	conversations map[string]*model.Conversation
	messages      []*model.Message
	preferences   map[string]*model.Preferences
	users         map[string]*model.User
	searches      []*model.SearchEntry

	failCreateMessage bool
	failTouch         bool
}

func newMemStore() *memStore {
	return &memStore{
		conversations: make(map[string]*model.Conversation),
		preferences:   make(map[string]*model.Preferences),
		users:         make(map[string]*model.User),
	}
}

func (m *memStore) CreateConversation(_ context.Context, conv *model.Conversation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *conv
	m.conversations[conv.ID] = &copied
	return nil
}

func (m *memStore) GetConversation(_ context.Context, id, userID string) (*model.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	conv, ok := m.conversations[id]
	if !ok || conv.UserID != userID {
		return nil, store.ErrNotFound
	}
	copied := *conv
	return &copied, nil
}

func (m *memStore) ListConversations(_ context.Context, userID string, limit, offset int) ([]model.Conversation, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var convs []model.Conversation
	for _, conv := range m.conversations {
		if conv.UserID == userID {
			convs = append(convs, *conv)
		}
	}
	for i := 0; i < len(convs); i++ {
		for j := i + 1; j < len(convs); j++ {
			if convs[j].UpdatedAt.After(convs[i].UpdatedAt) {
				convs[i], convs[j] = convs[j], convs[i]
			}
		}
	}
	total := int64(len(convs))
	if offset > len(convs) {
		offset = len(convs)
	}
	end := offset + limit
	if end > len(convs) {
		end = len(convs)
	}
	return convs[offset:end], total, nil
}

func (m *memStore) DeleteConversation(_ context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	conv, ok := m.conversations[id]
	if !ok || conv.UserID != userID {
		return store.ErrNotFound
	}
	delete(m.conversations, id)
	kept := m.messages[:0]
	for _, msg := range m.messages {
		if msg.ConversationID != id {
			kept = append(kept, msg)
		}
	}
	m.messages = kept
	return nil
}

func (m *memStore) TouchConversation(_ context.Context, id string, t time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failTouch {
		return errors.New("touch failed")
	}
	if conv, ok := m.conversations[id]; ok {
		conv.UpdatedAt = t
	}
	return nil
}

func (m *memStore) CreateMessage(_ context.Context, msg *model.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreateMessage {
		return errors.New("insert failed")
	}
	copied := *msg
	m.messages = append(m.messages, &copied)
	return nil
}

func (m *memStore) ListMessages(_ context.Context, conversationID string, limit, offset int) ([]model.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var msgs []model.Message
	for _, msg := range m.messages {
		if msg.ConversationID == conversationID {
			msgs = append(msgs, *msg)
		}
	}
	if offset > len(msgs) {
		offset = len(msgs)
	}
	end := offset + limit
	if end > len(msgs) {
		end = len(msgs)
	}
	return msgs[offset:end], nil
}

func (m *memStore) RecentMessages(_ context.Context, conversationID string, limit int) ([]model.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var msgs []model.Message
	for _, msg := range m.messages {
		if msg.ConversationID == conversationID {
			msgs = append(msgs, *msg)
		}
	}
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return msgs, nil
}

func (m *memStore) GetPreferences(_ context.Context, userID string) (*model.Preferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefs, ok := m.preferences[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *prefs
	return &copied, nil
}

func (m *memStore) UpsertPreferences(_ context.Context, prefs *model.Preferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *prefs
	m.preferences[prefs.UserID] = &copied
	return nil
}

func (m *memStore) CreateSearchEntry(_ context.Context, entry *model.SearchEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *entry
	m.searches = append(m.searches, &copied)
	return nil
}

func (m *memStore) ListSearchHistory(_ context.Context, userID string, limit, offset int) ([]model.SearchEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var entries []model.SearchEntry
	for i := len(m.searches) - 1; i >= 0; i-- {
		if m.searches[i].UserID == userID {
			entries = append(entries, *m.searches[i])
		}
	}
	if offset > len(entries) {
		offset = len(entries)
	}
	end := offset + limit
	if end > len(entries) {
		end = len(entries)
	}
	return entries[offset:end], nil
}

func (m *memStore) DeleteSearchEntry(_ context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, entry := range m.searches {
		if entry.ID == id && entry.UserID == userID {
			m.searches = append(m.searches[:i], m.searches[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memStore) EnsureUser(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	user := &model.User{ID: id, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	m.users[id] = user
	copied := *user
	return &copied, nil
}

func (m *memStore) UpdateUser(_ context.Context, id string, updates map[string]any) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if name, ok := updates["name"].(string); ok {
		user.Name = name
	}
	if avatar, ok := updates["avatar_url"].(string); ok {
		user.AvatarURL = avatar
	}
	copied := *user
	return &copied, nil
}

func (m *memStore) CountConversations(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, conv := range m.conversations {
		if conv.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (m *memStore) CountMessages(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, msg := range m.messages {
		if conv, ok := m.conversations[msg.ConversationID]; ok && conv.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (m *memStore) CountSearches(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, entry := range m.searches {
		if entry.UserID == userID {
			count++
		}
	}
	return count, nil
}

// fakeLLM replays a fixed reply and records every request it receives.
type fakeLLM struct {
	mu       sync.Mutex
	reply    string
	err      error
	requests []*llm.CompletionRequest
}

func (f *fakeLLM) Complete(_ context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompletionResponse{
		Content: f.reply,
		Model:   "fake-model",
	}, nil
}

func (f *fakeLLM) Name() string { return "fake" }

func (f *fakeLLM) lastRequest() *llm.CompletionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return nil
	}
	return f.requests[len(f.requests)-1]
}

// recordingPublisher records emitted events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []model.EventType
}

func (p *recordingPublisher) record(t model.EventType) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, t)
}

func (p *recordingPublisher) TurnCompleted(context.Context, string, string) {
	p.record(model.EventTurnCompleted)
}

func (p *recordingPublisher) ConversationDeleted(context.Context, string, string) {
	p.record(model.EventConversationDeleted)
}

func (p *recordingPublisher) SearchPerformed(context.Context, string) {
	p.record(model.EventSearchPerformed)
}
