package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"ingechat/internal/agent/deps"
	"ingechat/internal/agent/prompt"
	"ingechat/internal/agent/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/adk/tool"
	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	// DefaultModel is the Gemini model used when none is configured
	DefaultModel = "gemini-2.0-flash"
	// DefaultTimeout bounds one external call
	DefaultTimeout = 30 * time.Second

	appName = "ingechat"
)

// ErrMissingAPIKey is returned when no Gemini credential is configured
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not set")

// GeminiConfig configures the external responder
type GeminiConfig struct {
	APIKey  string
	Model   string
	Persona string
	Timeout time.Duration
	// Catalog, when set, is exposed to the model through function tools
	Catalog deps.Catalog
}

// sessionExchanger is the conversational transport behind GeminiResponder
type sessionExchanger interface {
	Open(ctx context.Context) (string, error)
	Close(ctx context.Context, sessionID string) error
	Exchange(ctx context.Context, sessionID, message string) (string, error)
}

// GeminiResponder answers out-of-scope questions with Gemini, keeping one
// conversation history until it is reset.
type GeminiResponder struct {
	exchanger sessionExchanger
	pipeline  *validation.Pipeline
	timeout   time.Duration
	logger    *zap.Logger

	mu        sync.Mutex
	sessionID string
}

// NewGeminiResponder creates an ADK-backed responder
func NewGeminiResponder(ctx context.Context, cfg GeminiConfig, logger *zap.Logger) (*GeminiResponder, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	geminiModel, err := gemini.NewModel(ctx, cfg.Model, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini model: %w", err)
	}

	systemPrompt := prompt.NewBuilder(cfg.Persona).BuildSystemPrompt()

	var tools []tool.Tool
	if cfg.Catalog != nil {
		tools, err = NewKnowledgeTools(cfg.Catalog, logger).BuildTools()
		if err != nil {
			return nil, fmt.Errorf("failed to build tools: %w", err)
		}
	}

	llmAgent, err := llmagent.New(llmagent.Config{
		Name:        appName,
		Model:       geminiModel,
		Description: "Virtual assistant for the engineering careers of UNEFA Los Teques.",
		Instruction: systemPrompt,
		Tools:       tools,
		GenerateContentConfig: &genai.GenerateContentConfig{
			Temperature:     genai.Ptr[float32](0.4),
			MaxOutputTokens: 1024,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM agent: %w", err)
	}

	sessionService := session.InMemoryService()

	r, err := runner.New(runner.Config{
		AppName:        appName,
		Agent:          llmAgent,
		SessionService: sessionService,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}

	exchanger := &adkExchanger{
		runner:         r,
		sessionService: sessionService,
		userID:         uuid.NewString(),
	}
	logger.Info("Gemini responder ready", zap.String("model", cfg.Model), zap.Int("tools", len(tools)))
	return newGeminiResponder(exchanger, systemPrompt, cfg.Timeout, logger), nil
}

func newGeminiResponder(exchanger sessionExchanger, systemPrompt string, timeout time.Duration, logger *zap.Logger) *GeminiResponder {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &GeminiResponder{
		exchanger: exchanger,
		pipeline: validation.NewPipeline([]validation.Validator{
			validation.NewEmptyResponseValidator(),
			validation.NewPromptLeakValidator(systemPrompt),
		}, logger),
		timeout: timeout,
		logger:  logger,
	}
}

// Send forwards message within the current conversation.
// Any failure is logged and replaced by the apology message.
func (g *GeminiResponder) Send(ctx context.Context, message string) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if g.sessionID == "" {
		id, err := g.exchanger.Open(ctx)
		if err != nil {
			g.logger.Error("Failed to open Gemini session", zap.Error(err))
			return prompt.ApologyMessage
		}
		g.sessionID = id
	}

	text, err := g.exchanger.Exchange(ctx, g.sessionID, message)
	if err != nil {
		g.logFailure(err)
		return prompt.ApologyMessage
	}

	if err := g.pipeline.Validate(ctx, validation.ValidationInput{UserQuestion: message, Response: text}); err != nil {
		return prompt.ApologyMessage
	}
	return text
}

// ResetSession drops the conversation history and opens a fresh session
func (g *GeminiResponder) ResetSession(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.sessionID != "" {
		if err := g.exchanger.Close(ctx, g.sessionID); err != nil {
			g.logger.Warn("Failed to delete old session", zap.String("session_id", g.sessionID), zap.Error(err))
		}
		g.sessionID = ""
	}

	id, err := g.exchanger.Open(ctx)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	g.sessionID = id
	g.logger.Info("Gemini session reset", zap.String("session_id", id))
	return nil
}

// Close deletes the current session, if any. A later Send opens a new one.
func (g *GeminiResponder) Close(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.sessionID == "" {
		return nil
	}
	id := g.sessionID
	g.sessionID = ""
	if err := g.exchanger.Close(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// NewConversation returns a responder with its own history that shares
// the model, runner and response guard of g.
func (g *GeminiResponder) NewConversation() *GeminiResponder {
	return &GeminiResponder{
		exchanger: g.exchanger,
		pipeline:  g.pipeline,
		timeout:   g.timeout,
		logger:    g.logger,
	}
}

func (g *GeminiResponder) logFailure(err error) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		g.logger.Error("Gemini call timed out", zap.Duration("timeout", g.timeout), zap.Error(err))
	case isRateLimitError(err):
		g.logger.Error("Gemini quota exhausted", zap.Error(err))
	default:
		g.logger.Error("Gemini call failed", zap.Error(err))
	}
}

// isRateLimitError checks if the error is a Gemini quota or rate limit error
func isRateLimitError(err error) bool {
	if s, ok := status.FromError(err); ok && s.Code() == codes.ResourceExhausted {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "RESOURCE_EXHAUSTED") ||
		strings.Contains(errStr, "ResourceExhausted") ||
		strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "quota")
}

// adkExchanger runs messages through an ADK runner with in-memory sessions
type adkExchanger struct {
	runner         *runner.Runner
	sessionService session.Service
	userID         string
}

func (e *adkExchanger) Open(ctx context.Context) (string, error) {
	resp, err := e.sessionService.Create(ctx, &session.CreateRequest{
		AppName: appName,
		UserID:  e.userID,
	})
	if err != nil {
		return "", err
	}
	return resp.Session.ID(), nil
}

func (e *adkExchanger) Close(ctx context.Context, sessionID string) error {
	return e.sessionService.Delete(ctx, &session.DeleteRequest{
		AppName:   appName,
		UserID:    e.userID,
		SessionID: sessionID,
	})
}

func (e *adkExchanger) Exchange(ctx context.Context, sessionID, message string) (string, error) {
	userMessage := &genai.Content{
		Role:  "user",
		Parts: []*genai.Part{{Text: message}},
	}

	var sb strings.Builder
	for event, err := range e.runner.Run(ctx, e.userID, sessionID, userMessage, agent.RunConfig{
		StreamingMode: agent.StreamingModeNone,
	}) {
		if err != nil {
			return "", fmt.Errorf("agent run error: %w", err)
		}
		if event.Content == nil {
			continue
		}
		for _, part := range event.Content.Parts {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}
