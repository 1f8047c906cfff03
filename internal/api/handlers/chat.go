package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/coinscan/backend/internal/chat"
	"github.com/coinscan/backend/pkg/logger"
)

// ChatHandler handles conversational API endpoints
type ChatHandler struct {
	service  *chat.Service
	upgrader websocket.Upgrader
	logger   *logger.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(service *chat.Service, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: log,
	}
}

// ChatRequest represents a chat message from a client
type ChatRequest struct {
	Message string `json:"message"`
}

// Chat processes one chat message
// POST /api/v1/chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusBadRequest, "Message is required")
		return
	}

	reply := h.service.Handle(r.Context(), req.Message)
	respondJSON(w, http.StatusOK, reply)
}

// History returns recent conversation exchanges
// GET /api/v1/chat/history?limit=N
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"history": h.service.History().Recent(limit),
	})
}

// Websocket runs the chat loop over a websocket connection. Each text frame
// is one user message; each reply is sent back as a JSON frame.
// GET /api/v1/chat/ws
func (h *ChatHandler) Websocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	h.logger.WithField("remote", r.RemoteAddr).Debug("Websocket chat session opened")

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.WithError(err).Debug("Websocket read failed")
			}
			return
		}

		reply := h.service.Handle(r.Context(), string(message))
		if err := conn.WriteJSON(reply); err != nil {
			h.logger.WithError(err).Debug("Websocket write failed")
			return
		}
	}
}
