// Package realtime pushes tournament snapshots to websocket subscribers,
// one room per tournament.
package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Типы сообщений, рассылаемых подписчикам турнира.
const (
	MessageSnapshot            = "SNAPSHOT"
	MessageMatchResolved       = "MATCH_RESOLVED"
	MessageRoundAdvanced       = "ROUND_ADVANCED"
	MessageTournamentCompleted = "TOURNAMENT_COMPLETED"
)

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	RoomID  string      `json:"room_id,omitempty"`
}

// RoomForTournament returns the room name subscribers of a tournament join.
func RoomForTournament(tournamentID string) string {
	return "tournament_" + tournamentID
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 256
)

type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	room string
}

type Hub struct {
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu    sync.RWMutex
	rooms map[string]map[*Client]bool

	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

// Run serves registrations until ctx is cancelled, then disconnects every client.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.rooms[client.room]; !ok {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			size := len(h.rooms[client.room])
			h.mu.Unlock()
			h.logger.Debug("client registered", slog.String("room", client.room), slog.Int("clients", size))

		case client := <-h.unregister:
			h.mu.Lock()
			h.removeLocked(client)
			h.mu.Unlock()

		case <-ctx.Done():
			h.mu.Lock()
			for _, clients := range h.rooms {
				for client := range clients {
					h.removeLocked(client)
				}
			}
			h.mu.Unlock()
			h.logger.Info("websocket hub stopped")
			return nil
		}
	}
}

// removeLocked закрывает канал клиента; вызывать под h.mu.
func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.rooms[client.room]
	if !ok || !clients[client] {
		return
	}
	close(client.send)
	delete(clients, client)
	if len(clients) == 0 {
		delete(h.rooms, client.room)
		h.logger.Debug("room closed", slog.String("room", client.room))
	}
}

// BroadcastToRoom sends msg to every client in the room. Slow clients whose
// buffers are full miss the message instead of blocking the caller.
func (h *Hub) BroadcastToRoom(roomID string, msg Message) {
	if msg.RoomID == "" {
		msg.RoomID = roomID
	}
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to marshal websocket message", slog.String("room", roomID), slog.Any("error", err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[roomID] {
		select {
		case client.send <- data:
		default:
			h.logger.Warn("client send buffer full, dropping message", slog.String("room", roomID))
		}
	}
}

func (h *Hub) RoomSize(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// Serve registers conn in the room and starts its read and write pumps.
// It returns false when the hub is no longer running.
func (h *Hub) Serve(conn *websocket.Conn, roomID string) bool {
	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
		room: roomID,
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return false
	}

	go client.writePump()
	go client.readPump()
	return true
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { return c.conn.SetReadDeadline(time.Now().Add(pongWait)) })

	for {
		// входящие сообщения не используются, чтение нужно для pong и close
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket read error", slog.String("room", c.room), slog.Any("error", err))
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// одно сообщение на кадр: клиент разбирает каждый кадр как JSON
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
