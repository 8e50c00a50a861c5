package notify

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// clientBuffer bounds how far a slow websocket client may fall behind
	// before it starts missing events.
	clientBuffer = 32
)

type subscribeCommand struct {
	Action string `json:"action"`
	Topic  string `json:"topic"`
}

// WSHandler upgrades HTTP requests to websocket connections and bridges them
// to the hub. Clients drive their own membership with join/leave commands:
//
//	{"action": "join", "topic": "all-orders"}
//	{"action": "leave", "topic": "status:pending"}
type WSHandler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

func NewWSHandler(hub *Hub, logger *slog.Logger) *WSHandler {
	return &WSHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

func (h *WSHandler) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	client := NewClient(clientBuffer)
	h.logger.Debug("websocket client connected", "remote_addr", conn.RemoteAddr().String())

	go h.writePump(conn, client)
	h.readPump(conn, client)
}

func (h *WSHandler) readPump(conn *websocket.Conn, client *Client) {
	defer func() {
		h.hub.Remove(client)
		_ = conn.Close()
		h.logger.Debug("websocket client disconnected", "remote_addr", conn.RemoteAddr().String())
	}()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var cmd subscribeCommand
		if err := conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read error", "error", err)
			}
			return
		}

		switch cmd.Action {
		case "join":
			if cmd.Topic != "" {
				h.hub.Join(cmd.Topic, client)
				h.logger.Debug("client joined topic", "topic", cmd.Topic)
			}
		case "leave":
			if cmd.Topic != "" {
				h.hub.Leave(cmd.Topic, client)
				h.logger.Debug("client left topic", "topic", cmd.Topic)
			}
		default:
			h.logger.Warn("unknown websocket command", "action", cmd.Action)
		}
	}
}

func (h *WSHandler) writePump(conn *websocket.Conn, client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case event, ok := <-client.Events():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				h.logger.Warn("websocket write error", "error", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
