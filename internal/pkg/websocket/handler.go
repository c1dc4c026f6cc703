// Package websocket pushes dashboard events to connected browsers.
package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Handler for WebSocket connections
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewHandler creates a new WebSocket handler. Every origin is accepted;
// access is controlled by the auth middleware in front of the route.
func NewHandler(hub *Hub, logger zerolog.Logger) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// HandleConnection godoc
// @Summary Live collection status feed
// @Description Upgrades to a WebSocket that receives a "collection.status" event every time a collection changes state
// @Tags dashboard, websocket
// @Security BearerAuth
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 401 {object} dto.APIResponse "Unauthorized: JWT token missing or invalid"
// @Router /ws [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already answered the request
		h.logger.Warn().Err(err).Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		logger: h.logger.With().Str("remoteAddr", conn.RemoteAddr().String()).Logger(),
	}
	if !h.hub.join(client) {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		conn.Close()
		return
	}

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.writePump()
	go client.readPump()
}
