package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Dosada05/versusite/realtime"
	"github.com/Dosada05/versusite/services"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	hub            *realtime.Hub
	sessionService services.SessionService
	upgrader       websocket.Upgrader
	logger         *slog.Logger
}

// NewWebSocketHandler accepts connections whose Origin host is listed in
// allowedOrigins; "*" allows any origin.
func NewWebSocketHandler(hub *realtime.Hub, ss services.SessionService, allowedOrigins []string, logger *slog.Logger) *WebSocketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocketHandler{
		hub:            hub,
		sessionService: ss,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	hosts := make(map[string]bool, len(allowed))
	for _, origin := range allowed {
		if origin == "*" {
			return func(*http.Request) bool { return true }
		}
		if u, err := url.Parse(origin); err == nil && u.Host != "" {
			hosts[strings.ToLower(u.Host)] = true
		}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // не браузер
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return hosts[strings.ToLower(u.Host)] || strings.EqualFold(u.Host, r.Host)
	}
}

// ServeWs подписывает клиента на обновления турнира.
// Клиент подключается к /ws/tournaments/{tournamentID} и сразу получает текущий снимок.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.sessionService.Get(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отправляет HTTP ошибку клиенту
		h.logger.Warn("websocket upgrade failed", slog.String("tournament_id", tournamentID), slog.Any("error", err))
		return
	}

	room := realtime.RoomForTournament(tournamentID)

	// насосы ещё не запущены, писать в conn здесь безопасно
	_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := conn.WriteJSON(realtime.Message{Type: realtime.MessageSnapshot, Payload: tournament, RoomID: room}); err != nil {
		h.logger.Warn("failed to send initial snapshot", slog.String("tournament_id", tournamentID), slog.Any("error", err))
		conn.Close()
		return
	}

	if !h.hub.Serve(conn, room) {
		h.logger.Warn("websocket hub is not running", slog.String("tournament_id", tournamentID))
		return
	}
	h.logger.Debug("websocket client subscribed", slog.String("room", room))
}
