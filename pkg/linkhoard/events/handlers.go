package events

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/linkhoard/linkhoard/pkg/linkhoard/auth"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The token already authenticates the socket; cross-origin pages
	// cannot read it, so origin checks add nothing here.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type conn struct {
	ws   *websocket.Conn
	send chan Event
}

// Handler upgrades authenticated requests to websocket event streams
type Handler struct {
	hub *Hub
}

// NewHandler creates a new events handler
func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

// Subscribe upgrades the connection and streams the user's bookmark events
// @Summary Subscribe to bookmark events
// @Description Websocket stream of created/updated/deleted bookmark ids
// @Tags events
// @Success 101 {string} string "Switching protocols"
// @Security BearerAuth
// @Router /events [get]
func (h *Handler) Subscribe(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		return
	}

	cn := &conn{ws: ws, send: make(chan Event, sendBuffer)}
	h.hub.add(userID, cn)

	go h.writeLoop(userID, cn)
	go h.readLoop(userID, cn)
}

// writeLoop pushes events and keepalive pings until the connection drops.
func (h *Handler) writeLoop(userID uint, cn *conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		h.hub.remove(userID, cn)
		cn.ws.Close()
	}()

	for {
		select {
		case event := <-cn.send:
			cn.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cn.ws.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			cn.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cn.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop discards client messages; it exists to notice closed connections
// and answer pings.
func (h *Handler) readLoop(userID uint, cn *conn) {
	defer func() {
		h.hub.remove(userID, cn)
		cn.ws.Close()
	}()

	cn.ws.SetReadLimit(512)
	cn.ws.SetReadDeadline(time.Now().Add(pongWait))
	cn.ws.SetPongHandler(func(string) error {
		cn.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := cn.ws.ReadMessage(); err != nil {
			return
		}
	}
}

// RegisterRoutes registers the events route
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/events", h.Subscribe)
}
