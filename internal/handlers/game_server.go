// internal/handlers/game_server.go
package handlers

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/openuno/openuno/internal/game"
	"github.com/openuno/openuno/internal/models"
	"github.com/openuno/openuno/internal/room"
)

// outboundMsg is one encoded event plus the connection snapshot it fans
// out to, captured at dispatch time under the room lock.
type outboundMsg struct {
	conns   []*websocket.Conn
	payload []byte
}

// GameServer owns the room registry and builds game instances on demand.
// Created once at process start; nothing here is an ambient global.
//
// Outbound events go through one ordered outbox per room: a single writer
// goroutine drains the queue, so every connection observes events in
// mutation order while game logic never blocks on a slow socket.
type GameServer struct {
	Rooms  *room.Store
	Logger *logrus.Logger

	mu       sync.Mutex
	outboxes map[string]chan outboundMsg

	// writeFn performs one socket write. Swapped out in tests.
	writeFn func(ctx context.Context, conn *websocket.Conn, payload []byte) error
}

func NewGameServer(logger *logrus.Logger) *GameServer {
	gs := &GameServer{
		Rooms:    room.NewStore(),
		Logger:   logger,
		outboxes: make(map[string]chan outboundMsg),
	}
	gs.writeFn = func(ctx context.Context, conn *websocket.Conn, payload []byte) error {
		return conn.Write(ctx, websocket.MessageText, payload)
	}
	gs.Rooms.OnDelete = gs.closeOutbox
	return gs
}

// ensureGame returns the room's match, creating and wiring one from the
// current membership on the first start request. Concurrent start
// attempts converge on a single instance via Room.SetGame.
func (gs *GameServer) ensureGame(rm *room.Room) *game.UnoGame {
	if g := rm.Game(); g != nil {
		return g
	}
	g := game.NewUnoGame(rm.ID)
	g.BroadcastFn = func(ev game.Event) { gs.broadcastToRoom(rm, ev) }
	g.BroadcastToPlayerFn = func(playerID uuid.UUID, ev game.Event) { gs.sendToPlayer(rm, playerID, ev) }
	g.OnGameEnd = func(roomID string, winner uuid.UUID, scores map[uuid.UUID]int) {
		gs.Logger.WithFields(logrus.Fields{
			"room":   roomID,
			"winner": winner,
		}).Info("match finished")
	}
	g = rm.SetGame(g)
	for _, m := range rm.Members() {
		g.AddPlayer(&models.Player{
			ID:        m.PlayerID,
			Name:      m.Name,
			Conn:      m.Conn,
			Connected: true,
			Hand:      []*models.Card{},
		})
	}
	return g
}

// broadcastToRoom fans an event out to every connection currently bound
// to the room.
func (gs *GameServer) broadcastToRoom(rm *room.Room, ev game.Event) {
	var conns []*websocket.Conn
	for _, m := range rm.Members() {
		if m.Conn != nil {
			conns = append(conns, m.Conn)
		}
	}
	gs.dispatch(rm.ID, conns, ev)
}

// sendToPlayer delivers an event to a single member's connection,
// through the same ordered outbox as the room broadcasts.
func (gs *GameServer) sendToPlayer(rm *room.Room, playerID uuid.UUID, ev game.Event) {
	for _, m := range rm.Members() {
		if m.PlayerID == playerID {
			if m.Conn != nil {
				gs.dispatch(rm.ID, []*websocket.Conn{m.Conn}, ev)
			}
			return
		}
	}
}

// dispatch marshals the event once and queues it on the room's outbox,
// creating the writer on first use. Enqueueing never blocks: a saturated
// outbox drops the event rather than stalling the game under its lock.
func (gs *GameServer) dispatch(roomID string, conns []*websocket.Conn, ev game.Event) {
	if len(conns) == 0 {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		gs.Logger.Errorf("failed to marshal event (%s) for room %s: %v", ev.Type, roomID, err)
		return
	}

	gs.mu.Lock()
	ch, ok := gs.outboxes[roomID]
	if !ok {
		ch = make(chan outboundMsg, 256)
		gs.outboxes[roomID] = ch
		go gs.writeLoop(roomID, ch)
	}
	gs.mu.Unlock()

	select {
	case ch <- outboundMsg{conns: conns, payload: payload}:
	default:
		gs.Logger.Warnf("outbox for room %s is saturated, dropping %s event", roomID, ev.Type)
	}
}

// writeLoop drains one room's outbox sequentially until the outbox is
// closed, bounding each socket write with its own timeout.
func (gs *GameServer) writeLoop(roomID string, ch chan outboundMsg) {
	for msg := range ch {
		for _, conn := range msg.conns {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			if err := gs.writeFn(ctx, conn, msg.payload); err != nil {
				gs.Logger.Warnf("failed to write event to a connection in room %s: %v", roomID, err)
			}
			cancel()
		}
	}
}

// closeOutbox tears down the room's outbox once the registry drops the
// room; the writer drains whatever is still buffered and exits.
func (gs *GameServer) closeOutbox(roomID string) {
	gs.mu.Lock()
	ch, ok := gs.outboxes[roomID]
	if ok {
		delete(gs.outboxes, roomID)
	}
	gs.mu.Unlock()
	if ok {
		close(ch)
	}
}

func (gs *GameServer) hasOutbox(roomID string) bool {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	_, ok := gs.outboxes[roomID]
	return ok
}
