// Package ws is the push-messaging transport: one websocket per participant,
// JSON envelopes in both directions. It implements game.Gateway.
package ws

import (
	"encoding/json"
	"expvar"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"soccer-impostor/internal/game"
)

var wsConnectionsTotal = expvar.NewInt("ws_connections_total")

const sendBuffer = 16

type Client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	room string
}

type Hub struct {
	svc      *game.Service
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[string]*Client
	rooms map[string]map[string]*Client
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		conns:    map[string]*Client{},
		rooms:    map[string]map[string]*Client{},
	}
}

// Bind wires the command handler in after construction; the hub and the
// service reference each other.
func (h *Hub) Bind(svc *game.Service) {
	h.svc = svc
}

func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &Client{id: newConnID(), conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	h.conns[client.id] = client
	h.mu.Unlock()
	wsConnectionsTotal.Add(1)
	log.Debug().Str("conn", client.id).Msg("ws_connected")

	go h.writeLoop(client)
	h.readLoop(client)
}

func (h *Hub) readLoop(c *Client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg inbound
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		h.dispatch(c, msg)
	}
}

func (h *Hub) writeLoop(c *Client) {
	for msg := range c.send {
		_ = c.conn.WriteMessage(websocket.TextMessage, msg)
	}
	_ = c.conn.Close()
}

func (h *Hub) dispatch(c *Client, msg inbound) {
	var err error
	switch msg.Type {
	case "create_room":
		h.svc.CreateRoom(c.id, msg.Capacity)
	case "join_room":
		err = h.join(c, msg)
	case "start_round":
		err = h.svc.StartRound(msg.Code, c.id)
	case "end_clue":
		err = h.svc.EndClue(msg.Code, c.id)
	case "update_settings":
		patch := game.SettingsPatch{}
		if msg.Settings != nil {
			patch = *msg.Settings
		}
		err = h.svc.UpdateSettings(msg.Code, c.id, patch)
	case "send_clue":
		err = h.svc.SendClue(msg.Code, c.id, msg.Text)
	case "submit_task":
		err = h.svc.SubmitTask(msg.Code, c.id, msg.Amount)
	case "sabotage":
		err = h.svc.Sabotage(msg.Code, c.id)
	case "eliminate":
		err = h.svc.Kill(msg.Code, c.id, msg.TargetID)
	case "cast_vote":
		err = h.svc.CastVote(msg.Code, c.id, msg.TargetID)
	default:
		return
	}
	if err != nil {
		h.ToConn(c.id, game.EventError, game.ErrorEvent(err))
	}
}

// join registers room membership before the command runs so the joiner
// receives the room-wide events the join itself triggers.
func (h *Hub) join(c *Client, msg inbound) error {
	code := strings.ToUpper(strings.TrimSpace(msg.Code))
	prev := c.room

	h.mu.Lock()
	if prev != "" && prev != code {
		delete(h.rooms[prev], c.id)
	}
	if h.rooms[code] == nil {
		h.rooms[code] = map[string]*Client{}
	}
	h.rooms[code][c.id] = c
	c.room = code
	h.mu.Unlock()

	err := h.svc.Join(c.id, code, msg.Name, msg.Token)
	if err != nil {
		h.mu.Lock()
		delete(h.rooms[code], c.id)
		c.room = prev
		if prev != "" {
			h.rooms[prev][c.id] = c
		}
		h.mu.Unlock()
	}
	return err
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	delete(h.conns, c.id)
	if c.room != "" {
		delete(h.rooms[c.room], c.id)
		if len(h.rooms[c.room]) == 0 {
			delete(h.rooms, c.room)
		}
	}
	h.mu.Unlock()
	safeClose(c.send)

	h.svc.Disconnect(c.id)
	log.Debug().Str("conn", c.id).Msg("ws_disconnected")
}

// ToConn implements game.Gateway. Sends never block: a slow consumer drops
// events instead of stalling a room.
func (h *Hub) ToConn(connID, event string, payload any) {
	h.mu.Lock()
	c := h.conns[connID]
	h.mu.Unlock()
	if c == nil {
		return
	}
	safeSend(c.send, encode(event, payload))
}

// ToRoom implements game.Gateway.
func (h *Hub) ToRoom(code, event string, payload any) {
	h.mu.Lock()
	members := make([]*Client, 0, len(h.rooms[code]))
	for _, c := range h.rooms[code] {
		members = append(members, c)
	}
	h.mu.Unlock()
	msg := encode(event, payload)
	for _, c := range members {
		safeSend(c.send, msg)
	}
}

func encode(event string, payload any) []byte {
	msg, _ := json.Marshal(outbound{Type: event, Data: payload})
	return msg
}

func safeClose(ch chan []byte) {
	defer func() { _ = recover() }()
	close(ch)
}

func safeSend(ch chan []byte, msg []byte) {
	defer func() { _ = recover() }()
	select {
	case ch <- msg:
	default:
	}
}
