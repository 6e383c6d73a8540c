package upstream

import (
	"context"
	"net/http"
)

// ChatbotClient exchanges messages with the assistant service.
type ChatbotClient struct {
	*Client
}

func NewChatbotClient(cfg Config) (*ChatbotClient, error) {
	cfg.Service = "chatbot"
	c, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return &ChatbotClient{Client: c}, nil
}

// ChatReply is the assistant's answer; SessionID is echoed back so the
// conversation keeps its continuity.
type ChatReply struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

func (c *ChatbotClient) SendMessage(ctx context.Context, message, sessionID string) (*ChatReply, error) {
	body := struct {
		Message   string `json:"message"`
		SessionID string `json:"session_id,omitempty"`
	}{Message: message, SessionID: sessionID}

	var out ChatReply
	if err := c.post(ctx, "/message/", body, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
