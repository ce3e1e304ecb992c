package ws

import (
	"context"
	"log"
	"net/http"
	"time"

	"bhoomisetu/internal/model"
	"bhoomisetu/internal/service"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	maxMessageSize = 4096
	queryTimeout   = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// chatFrame is one inbound message on the chat socket
type chatFrame struct {
	Text           string `json:"text"`
	Location       string `json:"location,omitempty"`
	ConversationID string `json:"conversationId,omitempty"`
	KnownLocation  string `json:"knownLocation,omitempty"`
}

// errorFrame is sent when a query cannot be processed
type errorFrame struct {
	Error string `json:"error"`
}

// Handler handles the WebSocket chat endpoint
type Handler struct {
	pipeline *service.Pipeline
	authSvc  *service.AuthService
}

// NewHandler creates a new WebSocket handler
func NewHandler(pipeline *service.Pipeline, authSvc *service.AuthService) *Handler {
	return &Handler{
		pipeline: pipeline,
		authSvc:  authSvc,
	}
}

// Chat handles GET /v1/ws/chat. Each inbound frame is one query; the
// answer is written back on the same connection. The connection tracks
// the last resolved location so follow-up queries can say "here".
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.authSvc.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}
	defer wsConn.Close()

	log.Printf("Client %s connected to chat via WebSocket", claims.ClientID)

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	knownLocation := ""
	for {
		var frame chatFrame
		if err := wsConn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
		wsConn.SetReadDeadline(time.Now().Add(pongWait))

		if frame.KnownLocation != "" {
			knownLocation = frame.KnownLocation
		}
		conv := &model.ConversationContext{
			ConversationID: frame.ConversationID,
			KnownLocation:  knownLocation,
		}

		ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
		answer, err := h.pipeline.AnswerQuery(ctx, frame.Text, frame.Location, conv)
		cancel()

		wsConn.SetWriteDeadline(time.Now().Add(writeWait))
		if err != nil {
			if writeErr := wsConn.WriteJSON(errorFrame{Error: err.Error()}); writeErr != nil {
				break
			}
			continue
		}

		if answer.Place != nil {
			knownLocation = answer.Place.Name
		}
		if err := wsConn.WriteJSON(answer); err != nil {
			break
		}
	}

	log.Printf("Client %s disconnected from chat", claims.ClientID)
}
