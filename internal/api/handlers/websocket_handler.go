package handlers

import (
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/interview-studio/backend/internal/events"
	"github.com/interview-studio/backend/pkg/logger"
)

// WebSocketHandler streams render-completion and session-ready events to a
// connected client, keyed by user id.
type WebSocketHandler struct {
	hub *events.Hub
}

func NewWebSocketHandler(hub *events.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

func (h *WebSocketHandler) HandleEvents(c *websocket.Conn) {
	userID := c.Params("user_id")
	if userID == "" {
		c.Close()
		return
	}

	logger.Info("Event stream opened", zap.String("user_id", userID))

	ch := h.hub.Subscribe(userID)
	defer func() {
		h.hub.Unsubscribe(userID, ch)
		c.Close()
		logger.Info("Event stream closed", zap.String("user_id", userID))
	}()

	// Reader loop detects a client disconnect; inbound frames are ignored.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if err := c.WriteJSON(ev); err != nil {
				logger.Warn("Failed to push event", zap.String("user_id", userID), zap.Error(err))
				return
			}
		case <-done:
			return
		}
	}
}
