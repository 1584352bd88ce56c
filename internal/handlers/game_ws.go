// internal/handlers/game_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/openuno/openuno/internal/auth"
	"github.com/openuno/openuno/internal/database"
	"github.com/openuno/openuno/internal/game"
	"github.com/openuno/openuno/internal/models"
	"github.com/openuno/openuno/internal/room"
)

// ack is the synchronous response to a request-shaped intent, correlated
// back to the request by token. Rejections carry the stable error code
// and are never broadcast to other members.
type ack struct {
	Type    string       `json:"type"`
	Token   string       `json:"token,omitempty"`
	Success bool         `json:"success"`
	Error   *game.Error  `json:"error,omitempty"`
	Room    *roomSummary `json:"room,omitempty"`
	Card    *models.Card `json:"card,omitempty"`
}

type roomSummary struct {
	ID      string          `json:"id"`
	HostID  string          `json:"hostId"`
	Players []memberSummary `json:"players"`
}

type memberSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var errMalformedIntent = &game.Error{Code: "MalformedIntent", Message: "malformed intent payload"}

// GameWSHandler upgrades the HTTP connection to WebSocket, authenticates
// the player and runs the intent read loop. One connection serves one
// player; the room it acts on is addressed per intent.
func GameWSHandler(logger *logrus.Logger, gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"uno"},
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			logger.Warnf("WebSocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "Internal server error during handler exit.")

		if c.Subprotocol() != "uno" {
			logger.Warnf("client connected with invalid subprotocol: %s", c.Subprotocol())
			c.Close(websocket.StatusPolicyViolation, "Client must use the 'uno' subprotocol.")
			return
		}

		playerID, err := auth.PlayerIDFromRequest(r)
		if err != nil {
			logger.Warnf("authentication failed for %s: %v", r.RemoteAddr, err)
			c.Close(websocket.StatusPolicyViolation, "Authentication failed.")
			return
		}
		logger.Infof("player %s connected from %s", playerID, r.RemoteAddr)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		sess := &session{
			gs:       gs,
			logger:   logger,
			conn:     c,
			playerID: playerID,
		}
		sess.readIntents(ctx)

		// The read loop exited: transport-level disconnect. Membership is
		// unbound immediately; the hand stays with the player id so a
		// reconnect resumes it.
		sess.handleDisconnect()
		logger.Infof("player %s cleanup complete", playerID)
	}
}

// session tracks one connection's gateway state.
type session struct {
	gs       *GameServer
	logger   *logrus.Logger
	conn     *websocket.Conn
	playerID uuid.UUID

	curRoom    *room.Room
	playerName string
}

// readIntents decodes, validates and routes inbound intents until the
// connection drops or the context is cancelled.
func (s *session) readIntents(ctx context.Context) {
	for {
		msgType, data, err := s.conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				s.logger.Infof("WebSocket closed normally for player %s", s.playerID)
			} else if strings.Contains(err.Error(), "context canceled") {
				s.logger.Infof("WebSocket context canceled for player %s", s.playerID)
			} else {
				s.logger.Warnf("error reading from WebSocket for player %s: %v", s.playerID, err)
			}
			return
		}
		if msgType != websocket.MessageText {
			continue
		}

		var in models.Intent
		if err := json.Unmarshal(data, &in); err != nil {
			s.sendAck(ctx, ack{Type: "ack", Success: false, Error: errMalformedIntent})
			continue
		}
		if err := in.Validate(); err != nil {
			s.sendAck(ctx, ack{Type: "ack", Token: in.Token, Success: false,
				Error: &game.Error{Code: "MalformedIntent", Message: err.Error()}})
			continue
		}

		s.logger.Debugf("intent %s from player %s (room %s)", in.Type, s.playerID, in.RoomID)
		s.route(ctx, &in)

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

func (s *session) route(ctx context.Context, in *models.Intent) {
	switch in.Type {
	case models.IntentJoinRoom:
		s.handleJoin(ctx, in)
	case models.IntentStartGame:
		rm, gerr := s.roomFor(in)
		if gerr != nil {
			s.sendAck(ctx, ack{Type: "ack", Token: in.Token, Success: false, Error: gerr})
			return
		}
		g := s.gs.ensureGame(rm)
		s.ack(ctx, in.Token, g.Start(s.playerID))
	case models.IntentPlayCard:
		g, gerr := s.gameFor(in)
		if gerr != nil {
			s.sendAck(ctx, ack{Type: "ack", Token: in.Token, Success: false, Error: gerr})
			return
		}
		s.ack(ctx, in.Token, g.PlayCard(s.playerID, in.Card(), models.CardColor(in.DeclaredColor)))
	case models.IntentDrawCard:
		s.handleDraw(ctx, in)
	case models.IntentCallUno:
		g, gerr := s.gameFor(in)
		if gerr != nil {
			s.sendAck(ctx, ack{Type: "ack", Token: in.Token, Success: false, Error: gerr})
			return
		}
		s.ack(ctx, in.Token, g.CallUno(s.playerID))
	case models.IntentChallenge:
		g, gerr := s.gameFor(in)
		if gerr != nil {
			s.sendAck(ctx, ack{Type: "ack", Token: in.Token, Success: false, Error: gerr})
			return
		}
		s.ack(ctx, in.Token, g.Challenge(s.playerID, in.Target()))
	case models.IntentLeaveRoom:
		// Fire-and-forget: no ack expected.
		s.handleLeave(in)
	case models.IntentPing:
		s.sendAck(ctx, ack{Type: "pong", Token: in.Token, Success: true})
	}
}

// handleJoin binds the connection to a room, creating the room shell
// idempotently. Rejoining players are rebound to their in-flight hand.
func (s *session) handleJoin(ctx context.Context, in *models.Intent) {
	rm, created := s.gs.Rooms.CreateOrGet(in.RoomID)
	if _, err := rm.AddMember(s.playerID, in.PlayerName, s.conn); err != nil {
		s.sendAck(ctx, ack{Type: "ack", Token: in.Token, Success: false, Error: toGameError(err)})
		return
	}
	s.curRoom = rm
	s.playerName = in.PlayerName

	if created {
		// Boundary write, outside any room critical section.
		go func(roomID string, hostID uuid.UUID, createdAt time.Time) {
			dbCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := database.InsertRoomRecord(dbCtx, roomID, hostID, createdAt); err != nil {
				log.Printf("room %s: failed to persist creation record: %v", roomID, err)
			}
		}(rm.ID, s.playerID, rm.CreatedAt)
	}

	if g := rm.Game(); g != nil {
		g.AddPlayer(&models.Player{
			ID:        s.playerID,
			Name:      in.PlayerName,
			Conn:      s.conn,
			Connected: true,
			Hand:      []*models.Card{},
		})
		if g.Snapshot().Status == models.StatusInProgress {
			g.HandleReconnect(s.playerID, s.conn)
		}
	}

	s.gs.broadcastToRoom(rm, game.Event{
		Type:         game.EventPlayerJoined,
		PlayerID:     s.playerID.String(),
		PlayerName:   in.PlayerName,
		TotalPlayers: rm.MemberCount(),
	})

	summary := &roomSummary{ID: rm.ID, HostID: rm.HostID().String()}
	for _, m := range rm.Members() {
		summary.Players = append(summary.Players, memberSummary{ID: m.PlayerID.String(), Name: m.Name})
	}
	s.sendAck(ctx, ack{Type: "ack", Token: in.Token, Success: true, Room: summary})
}

// handleDraw draws for the player and applies the gateway's auto-pass
// policy: an unplayable drawn card ends the turn.
func (s *session) handleDraw(ctx context.Context, in *models.Intent) {
	g, gerr := s.gameFor(in)
	if gerr != nil {
		s.sendAck(ctx, ack{Type: "ack", Token: in.Token, Success: false, Error: gerr})
		return
	}
	card, playable, err := g.DrawCard(s.playerID)
	if err != nil {
		s.sendAck(ctx, ack{Type: "ack", Token: in.Token, Success: false, Error: toGameError(err)})
		return
	}
	if !playable {
		if endErr := g.EndTurn(s.playerID); endErr != nil {
			s.logger.Debugf("auto-pass skipped for player %s: %v", s.playerID, endErr)
		}
	}
	s.sendAck(ctx, ack{Type: "ack", Token: in.Token, Success: true, Card: card})
}

func (s *session) handleLeave(in *models.Intent) {
	rm, ok := s.gs.Rooms.Get(in.RoomID)
	if !ok {
		return
	}
	if g := rm.Game(); g != nil {
		g.RemovePlayer(s.playerID)
	}
	if !rm.RemoveMember(s.playerID) {
		return
	}
	if s.curRoom == rm {
		s.curRoom = nil
	}
	s.gs.broadcastToRoom(rm, game.Event{
		Type:             game.EventPlayerLeft,
		PlayerID:         s.playerID.String(),
		PlayerName:       s.playerName,
		RemainingPlayers: rm.MemberCount(),
	})
}

// handleDisconnect unbinds membership after the transport drops. The
// player's game seat survives so the same id can reconnect into it.
func (s *session) handleDisconnect() {
	rm := s.curRoom
	if rm == nil {
		return
	}
	s.curRoom = nil
	if g := rm.Game(); g != nil {
		g.HandleDisconnect(s.playerID)
	}
	rm.RemoveMember(s.playerID)
	s.gs.broadcastToRoom(rm, game.Event{
		Type:     game.EventPlayerDisconnected,
		PlayerID: s.playerID.String(),
	})
}

// roomFor resolves the addressed room and enforces membership.
func (s *session) roomFor(in *models.Intent) (*room.Room, *game.Error) {
	rm, ok := s.gs.Rooms.Get(in.RoomID)
	if !ok || !rm.Has(s.playerID) {
		return nil, game.ErrRoomNotFound
	}
	return rm, nil
}

// gameFor resolves the addressed room's live match.
func (s *session) gameFor(in *models.Intent) (*game.UnoGame, *game.Error) {
	rm, gerr := s.roomFor(in)
	if gerr != nil {
		return nil, gerr
	}
	g := rm.Game()
	if g == nil {
		return nil, game.ErrGameNotInProgress
	}
	return g, nil
}

func (s *session) ack(ctx context.Context, token string, err error) {
	if err != nil {
		s.sendAck(ctx, ack{Type: "ack", Token: token, Success: false, Error: toGameError(err)})
		return
	}
	s.sendAck(ctx, ack{Type: "ack", Token: token, Success: true})
}

func (s *session) sendAck(ctx context.Context, a ack) {
	msgBytes, err := json.Marshal(a)
	if err != nil {
		s.logger.Errorf("failed to marshal ack: %v", err)
		return
	}
	writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.conn.Write(writeCtx, websocket.MessageText, msgBytes); err != nil {
		status := websocket.CloseStatus(err)
		if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
			s.logger.Warnf("error writing ack to player %s: %v", s.playerID, err)
		}
	}
}

// toGameError converts any controller failure into a tagged wire error.
func toGameError(err error) *game.Error {
	var gerr *game.Error
	if errors.As(err, &gerr) {
		return gerr
	}
	return &game.Error{Code: "Internal", Message: err.Error()}
}
