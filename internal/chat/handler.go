package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/websocket"

	"github.com/careorbit/careportal/internal/http/middleware"
	"github.com/careorbit/careportal/internal/observability/metrics"
	"github.com/careorbit/careportal/internal/upstream"
	"github.com/careorbit/careportal/pkg/logging"
)

// welcomeText opens every fresh conversation.
const welcomeText = "Hello! I'm HealthBot. How can I help you today?"

// errorText is the bubble shown when the assistant could not answer. The
// user's message stays in the transcript either way.
const errorText = "Sorry, something went wrong. Please try again."

// Config carries the widget handler's dependencies.
type Config struct {
	Chatbot    *upstream.ChatbotClient
	Transcript TranscriptStore
	Logger     *logging.Logger
	Metrics    *metrics.PortalMetrics
	// ReplyDelay simulates the assistant typing before its answer lands.
	ReplyDelay time.Duration
}

// Handler serves the chat widget over HTTP and WebSocket.
type Handler struct {
	chatbot    *upstream.ChatbotClient
	transcript TranscriptStore
	logger     *logging.Logger
	metrics    *metrics.PortalMetrics
	replyDelay time.Duration

	mu       sync.Mutex
	sessions map[string]string // portal user id -> assistant session id
}

func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	transcript := cfg.Transcript
	if transcript == nil {
		transcript = NewMemoryTranscript()
	}
	return &Handler{
		chatbot:    cfg.Chatbot,
		transcript: transcript,
		logger:     logger,
		metrics:    cfg.Metrics,
		replyDelay: cfg.ReplyDelay,
		sessions:   make(map[string]string),
	}
}

func (h *Handler) sessionID(userID string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sessions[userID]
}

func (h *Handler) rememberSession(userID, sessionID string) {
	if sessionID == "" {
		return
	}
	h.mu.Lock()
	h.sessions[userID] = sessionID
	h.mu.Unlock()
}

type sessionResponse struct {
	SessionID string    `json:"session_id,omitempty"`
	Messages  []Message `json:"messages"`
}

// HandleSession handles GET /chat/session: the transcript so far, seeded
// with the welcome message on first open.
func (h *Handler) HandleSession(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		jsonError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	msgs, err := h.transcript.List(r.Context(), p.ID, 0)
	if err != nil {
		h.logger.Error("chat: transcript load failed", "user_id", p.ID, "error", err)
		msgs = nil
	}
	if len(msgs) == 0 {
		welcome := Message{Role: "assistant", Text: welcomeText, Timestamp: time.Now().UTC()}
		if err := h.transcript.Append(r.Context(), p.ID, welcome); err != nil {
			h.logger.Warn("chat: welcome append failed", "error", err)
		}
		msgs = []Message{welcome}
	}

	respondJSON(w, http.StatusOK, sessionResponse{
		SessionID: h.sessionID(p.ID),
		Messages:  msgs,
	})
}

type messageRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// HandleMessage handles POST /chat/message. The user's message is appended
// first, so a failed assistant call still leaves it on the transcript next
// to an error bubble.
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		jsonError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	text := strings.TrimSpace(req.Message)
	if text == "" {
		jsonError(w, http.StatusBadRequest, "Message cannot be empty.")
		return
	}
	if req.SessionID != "" {
		h.rememberSession(p.ID, req.SessionID)
	}

	if err := h.transcript.Append(r.Context(), p.ID, Message{Role: "user", Text: text}); err != nil {
		h.logger.Warn("chat: user message append failed", "error", err)
	}

	reply := h.exchange(r.Context(), p.ID, text)

	msgs, err := h.transcript.List(r.Context(), p.ID, 0)
	if err != nil {
		h.logger.Error("chat: transcript reload failed", "error", err)
		msgs = []Message{reply}
	}
	respondJSON(w, http.StatusOK, sessionResponse{
		SessionID: h.sessionID(p.ID),
		Messages:  msgs,
	})
}

// exchange sends one message to the assistant and appends its answer (or an
// error bubble) to the transcript.
func (h *Handler) exchange(ctx context.Context, userID, text string) Message {
	h.pause(ctx)

	reply, err := h.chatbot.SendMessage(ctx, text, h.sessionID(userID))
	var msg Message
	if err != nil {
		h.metrics.ObserveChatMessage("failure")
		h.logger.Error("chat: assistant call failed", "user_id", userID, "error", err)
		msg = Message{Role: "error", Text: errorText}
	} else {
		h.metrics.ObserveChatMessage("success")
		h.rememberSession(userID, reply.SessionID)
		msg = Message{Role: "assistant", Text: reply.Response}
	}
	if appendErr := h.transcript.Append(ctx, userID, msg); appendErr != nil {
		h.logger.Warn("chat: reply append failed", "error", appendErr)
	}
	return msg
}

func (h *Handler) pause(ctx context.Context) {
	if h.replyDelay <= 0 {
		return
	}
	select {
	case <-time.After(h.replyDelay):
	case <-ctx.Done():
	}
}

// InboundMessage is what the widget sends over the socket.
type InboundMessage struct {
	Type string `json:"type"` // "message", "ping"
	Text string `json:"text"`
}

// OutboundMessage is what the socket sends to the widget.
type OutboundMessage struct {
	Type      string    `json:"type"` // "message", "typing", "history", "session", "error", "pong"
	Role      string    `json:"role,omitempty"`
	Text      string    `json:"text,omitempty"`
	SessionID string    `json:"session_id,omitempty"`
	Messages  []Message `json:"messages,omitempty"`
}

// HandleWebSocket upgrades to WebSocket for real-time messaging.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.PrincipalFromContext(r.Context()); !ok {
		jsonError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	p, _ := middleware.PrincipalFromContext(r.Context())

	_ = websocket.JSON.Send(conn, OutboundMessage{Type: "session", SessionID: h.sessionID(p.ID)})
	if msgs, err := h.transcript.List(r.Context(), p.ID, 50); err == nil && len(msgs) > 0 {
		_ = websocket.JSON.Send(conn, OutboundMessage{Type: "history", Messages: msgs})
	}

	h.logger.Info("chat: connection opened", "user_id", p.ID)

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			h.logger.Debug("chat: connection closed", "user_id", p.ID, "error", err)
			return
		}

		if msg.Type == "ping" {
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "pong"})
			continue
		}
		if msg.Type != "message" || strings.TrimSpace(msg.Text) == "" {
			continue
		}

		text := strings.TrimSpace(msg.Text)
		if err := h.transcript.Append(r.Context(), p.ID, Message{Role: "user", Text: text}); err != nil {
			h.logger.Warn("chat: user message append failed", "error", err)
		}
		_ = websocket.JSON.Send(conn, OutboundMessage{Type: "typing"})

		reply := h.exchange(r.Context(), p.ID, text)
		out := OutboundMessage{Type: "message", Role: reply.Role, Text: reply.Text, SessionID: h.sessionID(p.ID)}
		if reply.Role == "error" {
			out.Type = "error"
			out.Role = ""
		}
		_ = websocket.JSON.Send(conn, out)
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
