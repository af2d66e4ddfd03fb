package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/time/rate"
)

const (
	wsTypeMessage   = "message"
	wsTypeRestart   = "restart"
	wsTypeReply     = "reply"
	wsTypeRestarted = "restarted"
	wsTypeError     = "error"

	// wsReadLimit bounds one inbound frame; 4 bytes per rune plus the envelope
	wsReadLimit = 4*MaxMessageLength + 256
	// per-connection message rate
	wsMessagesPerSecond = 1
	wsBurst             = 3
)

// SocketMessage is a client frame on the chat socket
type SocketMessage struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}

// SocketEvent is a server frame on the chat socket
type SocketEvent struct {
	Type string `json:"type"`
	*ChatResponseDTO
	Code  string `json:"code,omitempty"`
	Error string `json:"error,omitempty"`
}

func socketError(code, message string) SocketEvent {
	return SocketEvent{Type: wsTypeError, Code: code, Error: message}
}

// HandleChatSocket keeps one conversation per WebSocket. Each inbound
// message frame gets exactly one reply frame, in order.
func (h *Handler) HandleChatSocket(c *gin.Context) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	conv, err := h.newConversation(ctx)
	if err != nil {
		h.logger.Error("Failed to start conversation", zap.Error(err))
		_ = conn.WriteJSON(socketError("CONVERSATION_UNAVAILABLE", "No se pudo iniciar la conversación"))
		return
	}
	defer func() {
		if err := conv.Close(context.WithoutCancel(ctx)); err != nil {
			h.logger.Warn("Failed to close conversation", zap.Error(err))
		}
	}()

	conn.SetReadLimit(wsReadLimit)
	limiter := rate.NewLimiter(rate.Limit(wsMessagesPerSecond), wsBurst)

	h.logger.Debug("Chat socket opened", zap.String("remote", c.ClientIP()))
	for {
		var msg SocketMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug("Chat socket read error", zap.Error(err))
			}
			return
		}

		if err := conn.WriteJSON(h.handleSocketMessage(ctx, conv, limiter, msg)); err != nil {
			h.logger.Debug("Chat socket write error", zap.Error(err))
			return
		}
	}
}

func (h *Handler) handleSocketMessage(ctx context.Context, conv Conversation, limiter *rate.Limiter, msg SocketMessage) SocketEvent {
	switch msg.Type {
	case wsTypeRestart:
		if err := conv.StartNewChatSession(ctx); err != nil {
			h.logger.Error("Failed to restart chat session", zap.Error(err))
			return socketError("RESTART_FAILED", "No se pudo reiniciar la conversación")
		}
		return SocketEvent{Type: wsTypeRestarted}

	case wsTypeMessage, "":
		if !limiter.Allow() {
			return socketError("RATE_LIMITED", "Demasiadas solicitudes. Espera un momento.")
		}
		text := strings.TrimSpace(norm.NFC.String(msg.Message))
		if text == "" {
			return socketError("INVALID_REQUEST", "Solicitud inválida: el mensaje es obligatorio")
		}
		if utf8.RuneCountInString(text) > MaxMessageLength {
			return socketError("MESSAGE_TOO_LONG", "El mensaje es demasiado largo (máximo 1000 caracteres)")
		}
		if h.quota != nil && !h.quota.Allow() {
			h.logger.Warn("Daily quota exceeded", zap.String("transport", "websocket"))
			return socketError("DAILY_QUOTA_EXCEEDED", "IngeChat alcanzó el límite diario de consultas. Vuelve mañana.")
		}

		startTime := time.Now()
		reply, err := h.resolve(ctx, conv, text)
		if errors.Is(err, context.DeadlineExceeded) {
			h.logger.Warn("Chat timed out", zap.Duration("timeout", h.chatTimeout))
			return socketError("TIMEOUT", timeoutMessage)
		}
		if err != nil {
			return socketError("CANCELLED", err.Error())
		}
		h.logger.Info("Chat completed",
			zap.String("source", string(reply.Source)),
			zap.String("transport", "websocket"),
			zap.Duration("duration", time.Since(startTime)),
		)
		dto := toChatResponse(reply)
		return SocketEvent{Type: wsTypeReply, ChatResponseDTO: &dto}

	default:
		return socketError("INVALID_REQUEST", "Tipo de mensaje desconocido: "+msg.Type)
	}
}

// checkOrigin accepts non-browser clients, same-origin pages and the
// configured origins.
func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || slices.Contains(h.allowedOrigins, origin) {
		return true
	}
	u, err := url.Parse(origin)
	return err == nil && strings.EqualFold(u.Host, r.Host)
}
