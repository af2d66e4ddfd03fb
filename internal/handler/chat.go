package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"ingechat/internal/agent"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

const (
	// ChatTimeout is the default maximum time allowed for a chat request
	ChatTimeout = 35 * time.Second
	// MaxMessageLength is the maximum allowed message length
	MaxMessageLength = 1000

	timeoutMessage = "La solicitud tardó demasiado. Inténtalo de nuevo."
)

type ChatRequest struct {
	Message string `json:"message" binding:"required,max=1000"`
}

type ChatResponseDTO struct {
	Response    string   `json:"response"`
	Source      string   `json:"source"`
	Intent      string   `json:"intent,omitempty"`
	Career      string   `json:"career,omitempty"`
	Suggestions []string `json:"suggestions"`
}

// HandleChat answers one chat message
func (h *Handler) HandleChat(c *gin.Context) {
	startTime := time.Now()

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if isMaxLengthError(err) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "El mensaje es demasiado largo (máximo 1000 caracteres)",
				"code":  "MESSAGE_TOO_LONG",
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Solicitud inválida: el mensaje es obligatorio",
			"code":  "INVALID_REQUEST",
		})
		return
	}

	// Normalize Unicode to NFC so composed and decomposed accents compare equal
	req.Message = strings.TrimSpace(norm.NFC.String(req.Message))
	if req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Solicitud inválida: el mensaje es obligatorio",
			"code":  "INVALID_REQUEST",
		})
		return
	}

	reply, err := h.resolve(c.Request.Context(), h.chat, req.Message)
	switch {
	case err == nil:
		h.logger.Info("Chat completed",
			zap.String("source", string(reply.Source)),
			zap.Duration("duration", time.Since(startTime)),
		)
		c.JSON(http.StatusOK, toChatResponse(reply))
	case errors.Is(err, context.DeadlineExceeded):
		h.logger.Warn("Chat timed out", zap.Duration("timeout", h.chatTimeout))
		c.JSON(http.StatusGatewayTimeout, gin.H{
			"error":    timeoutMessage,
			"code":     "TIMEOUT",
			"fallback": true,
		})
	default:
		// client went away
		h.logger.Debug("Chat cancelled by client")
		c.Status(499)
	}
}

// resolve waits for one reply, bounded by the chat timeout
func (h *Handler) resolve(ctx context.Context, chat ChatService, message string) (agent.Reply, error) {
	ctx, cancel := context.WithTimeout(ctx, h.chatTimeout)
	defer cancel()

	select {
	case reply := <-chat.ResolveAsync(ctx, message):
		return reply, nil
	case <-ctx.Done():
		return agent.Reply{}, ctx.Err()
	}
}

// HandleRestart starts a new chat session
func (h *Handler) HandleRestart(c *gin.Context) {
	if err := h.chat.StartNewChatSession(c.Request.Context()); err != nil {
		h.logger.Error("Failed to restart chat session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "No se pudo reiniciar la conversación",
			"code":  "RESTART_FAILED",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "restarted"})
}

func toChatResponse(reply agent.Reply) ChatResponseDTO {
	suggestions := reply.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}
	return ChatResponseDTO{
		Response:    reply.Text,
		Source:      string(reply.Source),
		Intent:      string(reply.Intent),
		Career:      reply.Career,
		Suggestions: suggestions,
	}
}

func isMaxLengthError(err error) bool {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return false
	}
	for _, fe := range verrs {
		if fe.Tag() == "max" {
			return true
		}
	}
	return false
}
