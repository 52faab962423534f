package handlers

import (
	"net/http"
	"slices"

	"github.com/dom/blog-platform/internal/api/response"
	"github.com/dom/blog-platform/internal/config"
	"github.com/dom/blog-platform/internal/domain"
	"github.com/dom/blog-platform/internal/websocket"
	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

type WebSocketHandler struct {
	hub      *websocket.Hub
	upgrader ws.Upgrader
	resp     *response.Responder
	log      logrus.FieldLogger
}

func NewWebSocketHandler(hub *websocket.Hub, cfg *config.Config, resp *response.Responder, log logrus.FieldLogger) *WebSocketHandler {
	dev := cfg.IsDevelopment()
	origins := cfg.WhitelistOrigins
	return &WebSocketHandler{
		hub: hub,
		upgrader: ws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || dev || slices.Contains(origins, origin)
			},
		},
		resp: resp,
		log:  log,
	}
}

// Handle subscribes the connection to counter updates for the blog named by
// the topic query parameter. The feed is public and read-only.
func (h *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	topic, err := uuid.Parse(r.URL.Query().Get("topic"))
	if err != nil {
		h.resp.Error(w, r, domain.NewValidationError("Invalid topic", map[string]string{"topic": "must be a blog id"}))
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	client := websocket.NewClient(h.hub, conn, topic, h.log)
	if msg, err := websocket.NewMessage(websocket.MessageTypeSubscribed, websocket.SubscribedPayload{Topic: topic.String()}); err == nil {
		client.Send(msg)
	}
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
