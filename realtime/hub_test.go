package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc, chan error) {
	t.Helper()
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error, 1)
	go func() { stopped <- hub.Run(ctx) }()
	t.Cleanup(cancel)
	return hub, cancel, stopped
}

func dialRoom(t *testing.T, hub *Hub, room string) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Serve(conn, room)
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	return conn
}

func TestHub_BroadcastReachesRoom(t *testing.T) {
	hub, _, _ := startHub(t)
	room := RoomForTournament("t1")

	conn := dialRoom(t, hub, room)
	defer conn.Close()
	other := dialRoom(t, hub, RoomForTournament("t2"))
	defer other.Close()

	require.Eventually(t, func() bool { return hub.RoomSize(room) == 1 }, time.Second, 10*time.Millisecond)

	hub.BroadcastToRoom(room, Message{Type: MessageMatchResolved, Payload: map[string]string{"id": "m1"}})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var got Message
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, MessageMatchResolved, got.Type)
	assert.Equal(t, "tournament_t1", got.RoomID)
	assert.Equal(t, map[string]interface{}{"id": "m1"}, got.Payload)

	_ = other.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err = other.ReadMessage()
	assert.Error(t, err, "other rooms must not receive the message")
}

func TestHub_DisconnectLeavesRoom(t *testing.T) {
	hub, _, _ := startHub(t)
	room := RoomForTournament("t1")

	conn := dialRoom(t, hub, room)
	require.Eventually(t, func() bool { return hub.RoomSize(room) == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.RoomSize(room) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_StopClosesClients(t *testing.T) {
	hub, cancel, stopped := startHub(t)
	room := RoomForTournament("t1")

	conn := dialRoom(t, hub, room)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.RoomSize(room) == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-stopped)
	assert.Zero(t, hub.RoomSize(room))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestHub_BroadcastToEmptyRoomIsNoop(t *testing.T) {
	hub, _, _ := startHub(t)
	assert.NotPanics(t, func() {
		hub.BroadcastToRoom("nobody", Message{Type: MessageRoundAdvanced})
	})
}
