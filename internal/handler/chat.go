package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/richu337/codex-ai-assistant/internal/middleware"
	"github.com/richu337/codex-ai-assistant/internal/model"
	"github.com/richu337/codex-ai-assistant/pkg/logger"
)

// TurnProcessor runs one conversation turn.
type TurnProcessor interface {
	ProcessTurn(ctx context.Context, userID, message, conversationID string) (*model.SendMessageResponse, error)
}

// ConversationReader serves conversation CRUD.
type ConversationReader interface {
	List(ctx context.Context, userID string, limit, offset int) (*model.ListConversationsResponse, error)
	Get(ctx context.Context, userID, conversationID string) (*model.Conversation, error)
	Delete(ctx context.Context, userID, conversationID string) error
	Messages(ctx context.Context, userID, conversationID string, limit, offset int) (*model.ListMessagesResponse, error)
}

// ChatHandler handles chat endpoints.
type ChatHandler struct {
	turns         TurnProcessor
	conversations ConversationReader
	logger        *logger.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(turns TurnProcessor, conversations ConversationReader, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		turns:         turns,
		conversations: conversations,
		logger:        log,
	}
}

// SendMessage handles POST /api/chat/message
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req model.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateMessageContent(req.Message); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ConversationID != "" {
		if err := middleware.ValidateConversationID(req.ConversationID); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	resp, err := h.turns.ProcessTurn(ctx, userID, req.Message, req.ConversationID)
	if err != nil {
		h.logger.Error("failed to process turn",
			zap.String("request_id", middleware.GetRequestID(ctx)),
			zap.Error(err),
		)
		writeServiceError(w, err, "failed to process message")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListConversations handles GET /api/chat/conversations
func (h *ChatHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	limit, offset := pageParams(r, 20)

	resp, err := h.conversations.List(ctx, userID, limit, offset)
	if err != nil {
		h.logger.Error("failed to list conversations")
		writeServiceError(w, err, "failed to fetch conversations")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetConversation handles GET /api/chat/conversations/{id}
func (h *ChatHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	conversationID := chi.URLParam(r, "id")

	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	conv, err := h.conversations.Get(ctx, userID, conversationID)
	if err != nil {
		writeServiceError(w, err, "failed to fetch conversation")
		return
	}

	writeJSON(w, http.StatusOK, conv)
}

// DeleteConversation handles DELETE /api/chat/conversations/{id}
func (h *ChatHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	conversationID := chi.URLParam(r, "id")

	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.conversations.Delete(ctx, userID, conversationID); err != nil {
		writeServiceError(w, err, "failed to delete conversation")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "conversation deleted"})
}

// ListMessages handles GET /api/chat/conversations/{id}/messages
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	conversationID := chi.URLParam(r, "id")

	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit, offset := pageParams(r, 50)

	resp, err := h.conversations.Messages(ctx, userID, conversationID, limit, offset)
	if err != nil {
		writeServiceError(w, err, "failed to fetch messages")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
