// Package app wires configuration, knowledge and the chatbot together.
package app

import (
	"context"
	"fmt"

	"ingechat/internal/agent"
	"ingechat/internal/config"
	"ingechat/internal/handler"
	"ingechat/internal/knowledge"

	"go.uber.org/zap"
)

// App holds the long-lived components of one IngeChat process
type App struct {
	Config    *config.Config
	Store     *knowledge.Store
	Responder *agent.GeminiResponder
	Chatbot   *agent.Chatbot

	logger *zap.Logger
}

// New loads the knowledge base and builds the chatbot.
// A missing Gemini credential is the only fatal condition.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	store := knowledge.NewStore(knowledge.LoadDataset(cfg.Data.Dir, logger))

	responder, err := agent.NewGeminiResponder(ctx, agent.GeminiConfig{
		APIKey:  cfg.Gemini.APIKey,
		Model:   cfg.Gemini.Model,
		Persona: cfg.Gemini.Persona,
		Timeout: cfg.Gemini.Timeout,
		Catalog: store,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini responder: %w", err)
	}

	return &App{
		Config:    cfg,
		Store:     store,
		Responder: responder,
		Chatbot:   agent.NewChatbot(store, responder, logger),
		logger:    logger,
	}, nil
}

// NewConversation starts a chatbot with its own Gemini history over the
// shared knowledge store.
func (a *App) NewConversation(context.Context) (handler.Conversation, error) {
	return agent.NewChatbot(a.Store, a.Responder.NewConversation(), a.logger), nil
}
