package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/richu337/codex-ai-assistant/internal/model"
	"github.com/richu337/codex-ai-assistant/pkg/logger"
)

const (
	// StreamName is the name of the domain event stream.
	StreamName = "CODEX"

	// SubjectPrefix is the prefix for all event subjects.
	SubjectPrefix = "codex"
)

// Publisher emits domain events after state changes. Publication is
// best-effort: failures are logged and never surfaced to the request.
type Publisher interface {
	TurnCompleted(ctx context.Context, userID, conversationID string)
	ConversationDeleted(ctx context.Context, userID, conversationID string)
	SearchPerformed(ctx context.Context, userID string)
}

// StreamPublisher publishes events to JetStream.
type StreamPublisher struct {
	client *Client
	logger *logger.Logger
}

// NewStreamPublisher creates a publisher on an established connection.
func NewStreamPublisher(client *Client, log *logger.Logger) *StreamPublisher {
	return &StreamPublisher{client: client, logger: log}
}

// EnsureStream creates the event stream if it does not exist yet.
func (p *StreamPublisher) EnsureStream(ctx context.Context) error {
	js := p.client.JetStream()

	if _, err := js.Stream(ctx, StreamName); err == nil {
		return nil
	}

	_, err := js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{fmt.Sprintf("%s.>", SubjectPrefix)},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      30 * 24 * time.Hour,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Description: "Assistant domain events",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}

	return nil
}

// Subject returns the subject for an event.
func Subject(userID string, eventType model.EventType) string {
	return fmt.Sprintf("%s.%s.%s", SubjectPrefix, userID, eventType)
}

// TurnCompleted implements Publisher.
func (p *StreamPublisher) TurnCompleted(ctx context.Context, userID, conversationID string) {
	p.publish(ctx, model.Event{
		UserID:         userID,
		ConversationID: conversationID,
		Type:           model.EventTurnCompleted,
	})
}

// ConversationDeleted implements Publisher.
func (p *StreamPublisher) ConversationDeleted(ctx context.Context, userID, conversationID string) {
	p.publish(ctx, model.Event{
		UserID:         userID,
		ConversationID: conversationID,
		Type:           model.EventConversationDeleted,
	})
}

// SearchPerformed implements Publisher.
func (p *StreamPublisher) SearchPerformed(ctx context.Context, userID string) {
	p.publish(ctx, model.Event{
		UserID: userID,
		Type:   model.EventSearchPerformed,
	})
}

func (p *StreamPublisher) publish(ctx context.Context, event model.Event) {
	event.ID = uuid.Must(uuid.NewV7()).String()
	event.CreatedAt = time.Now()

	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn("failed to marshal event")
		return
	}

	if _, err := p.client.JetStream().Publish(ctx, Subject(event.UserID, event.Type), data); err != nil {
		p.logger.Warn("failed to publish event")
	}
}

// NopPublisher discards all events. Used when NATS is not configured.
type NopPublisher struct{}

func (NopPublisher) TurnCompleted(context.Context, string, string)       {}
func (NopPublisher) ConversationDeleted(context.Context, string, string) {}
func (NopPublisher) SearchPerformed(context.Context, string)             {}
