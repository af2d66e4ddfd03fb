package handler

import (
	"context"
	"time"

	"ingechat/internal/agent"
	"ingechat/internal/knowledge"
	"ingechat/internal/model"

	"go.uber.org/zap"
)

// ChatService resolves chat turns for the HTTP API
type ChatService interface {
	ResolveAsync(ctx context.Context, message string) <-chan agent.Reply
	StartNewChatSession(ctx context.Context) error
}

// Conversation is a ChatService owned by a single client
type Conversation interface {
	ChatService
	Close(ctx context.Context) error
}

// ConversationFactory starts a conversation with its own external history
type ConversationFactory func(ctx context.Context) (Conversation, error)

// Quota is charged once per chat message
type Quota interface {
	Allow() bool
}

// Catalog exposes the read-only knowledge listings
type Catalog interface {
	Careers() []model.CareerRecord
	Career(id string) (*model.CareerRecord, bool)
	InstitutionFacts() map[string]string
	Stats() knowledge.Stats
}

// Handler serves the HTTP API
type Handler struct {
	chat        ChatService
	catalog     Catalog
	chatTimeout time.Duration
	logger      *zap.Logger

	// allowedOrigins are the cross-origin pages that may open a chat socket
	allowedOrigins []string
	conversations  ConversationFactory
	quota          Quota
}

// New creates a Handler. chatTimeout bounds one chat request.
func New(chat ChatService, catalog Catalog, chatTimeout time.Duration, logger *zap.Logger) *Handler {
	if chatTimeout <= 0 {
		chatTimeout = ChatTimeout
	}
	return &Handler{
		chat:        chat,
		catalog:     catalog,
		chatTimeout: chatTimeout,
		logger:      logger,
	}
}

// AllowOrigins sets the browser origins accepted by the chat socket in
// addition to same-origin pages.
func (h *Handler) AllowOrigins(origins ...string) *Handler {
	h.allowedOrigins = origins
	return h
}

// UseConversations makes every chat socket start its own conversation.
// Without a factory, sockets share the handler's ChatService.
func (h *Handler) UseConversations(factory ConversationFactory) *Handler {
	h.conversations = factory
	return h
}

// ChargeQuota charges every socket message against quota. HTTP requests are
// charged by the rate limiting middleware instead.
func (h *Handler) ChargeQuota(quota Quota) *Handler {
	h.quota = quota
	return h
}

func (h *Handler) newConversation(ctx context.Context) (Conversation, error) {
	if h.conversations == nil {
		return sharedConversation{h.chat}, nil
	}
	return h.conversations(ctx)
}

// sharedConversation leaves the shared history open when a socket closes
type sharedConversation struct {
	ChatService
}

func (sharedConversation) Close(context.Context) error { return nil }
