package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"soccer-impostor/internal/game"
)

type rawEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	hub := NewHub()
	registry := game.NewRegistry(12)
	svc := game.NewService(registry, hub,
		game.WithSecretSource(func() string { return "Pedri" }))
	hub.Bind(svc)
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msg any) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// readUntil discards events until one of the wanted type arrives.
func readUntil(t *testing.T, conn *websocket.Conn, eventType string) rawEvent {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	_ = conn.SetReadDeadline(deadline)
	for {
		var ev rawEvent
		if err := conn.ReadJSON(&ev); err != nil {
			t.Fatalf("waiting for %q: %v", eventType, err)
		}
		if ev.Type == eventType {
			return ev
		}
	}
}

func TestCreateAndJoinFlow(t *testing.T) {
	srv := newTestServer(t)
	host := dial(t, srv)

	send(t, host, map[string]any{"type": "create_room"})
	created := readUntil(t, host, game.EventRoomCreated)
	var ack game.RoomCreatedPayload
	if err := json.Unmarshal(created.Data, &ack); err != nil {
		t.Fatalf("decode ack: %v", err)
	}
	if len(ack.Code) != 5 {
		t.Fatalf("room code %q, want 5 chars", ack.Code)
	}

	send(t, host, map[string]any{"type": "join_room", "code": ack.Code, "name": "Alice"})
	joined := readUntil(t, host, game.EventJoined)
	var jp game.JoinedPayload
	if err := json.Unmarshal(joined.Data, &jp); err != nil {
		t.Fatalf("decode joined: %v", err)
	}
	if jp.You.Name != "Alice" || jp.You.Token == "" {
		t.Fatalf("joined self = %+v", jp.You)
	}
	if jp.HostID != jp.You.ID {
		t.Fatal("first joiner is not host")
	}

	// A second participant joins; both sides see the two-player roster.
	guest := dial(t, srv)
	send(t, guest, map[string]any{"type": "join_room", "code": strings.ToLower(ack.Code), "name": "Bob"})
	readUntil(t, guest, game.EventJoined)

	state := readUntil(t, host, game.EventState)
	var sp game.StatePayload
	if err := json.Unmarshal(state.Data, &sp); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	for len(sp.Players) < 2 {
		state = readUntil(t, host, game.EventState)
		if err := json.Unmarshal(state.Data, &sp); err != nil {
			t.Fatalf("decode state: %v", err)
		}
	}
	if sp.Players[1].Name != "Bob" {
		t.Fatalf("roster = %+v, want Bob second", sp.Players)
	}
}

func TestErrorDeliveredToSender(t *testing.T) {
	srv := newTestServer(t)
	conn := dial(t, srv)

	send(t, conn, map[string]any{"type": "join_room", "code": "XXXX2", "name": "Zoe"})
	ev := readUntil(t, conn, game.EventError)
	var ep game.ErrorPayload
	if err := json.Unmarshal(ev.Data, &ep); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if ep.Code != game.ErrRoomNotFound.Error() {
		t.Fatalf("error code = %q, want room_not_found", ep.Code)
	}
}

func TestDisconnectUpdatesRoster(t *testing.T) {
	srv := newTestServer(t)
	host := dial(t, srv)
	guest := dial(t, srv)

	send(t, host, map[string]any{"type": "create_room"})
	created := readUntil(t, host, game.EventRoomCreated)
	var ack game.RoomCreatedPayload
	if err := json.Unmarshal(created.Data, &ack); err != nil {
		t.Fatalf("decode ack: %v", err)
	}
	send(t, host, map[string]any{"type": "join_room", "code": ack.Code, "name": "Alice"})
	readUntil(t, host, game.EventJoined)
	send(t, guest, map[string]any{"type": "join_room", "code": ack.Code, "name": "Bob"})
	readUntil(t, guest, game.EventJoined)

	_ = guest.Close()

	deadline := time.Now().Add(2 * time.Second)
	for {
		if time.Now().After(deadline) {
			t.Fatal("never saw Bob disconnected in roster")
		}
		state := readUntil(t, host, game.EventState)
		var sp game.StatePayload
		if err := json.Unmarshal(state.Data, &sp); err != nil {
			t.Fatalf("decode state: %v", err)
		}
		if len(sp.Players) == 2 && !sp.Players[1].Connected {
			return
		}
	}
}
