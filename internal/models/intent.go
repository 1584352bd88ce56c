// internal/models/intent.go
package models

import (
	"fmt"

	"github.com/google/uuid"
)

// IntentType tags an inbound player intent on the real-time channel.
type IntentType string

const (
	IntentJoinRoom  IntentType = "join-room"
	IntentStartGame IntentType = "start-game"
	IntentPlayCard  IntentType = "play-card"
	IntentDrawCard  IntentType = "draw-card"
	IntentCallUno   IntentType = "call-uno"
	IntentChallenge IntentType = "challenge"
	IntentLeaveRoom IntentType = "leave-room"
	IntentPing      IntentType = "ping"
)

// Intent is the decoded wire form of a client message. Fields are
// populated per type and checked by Validate before any of them reach the
// state machine; the acting player's identity never comes from here, it is
// taken from the authenticated connection.
type Intent struct {
	Type  IntentType `json:"type"`
	Token string     `json:"token,omitempty"` // correlation token echoed in the ack

	RoomID         string `json:"roomId,omitempty"`
	PlayerName     string `json:"playerName,omitempty"`
	CardID         string `json:"cardId,omitempty"`
	DeclaredColor  string `json:"declaredColor,omitempty"`
	TargetPlayerID string `json:"targetPlayerId,omitempty"`
}

// Validate rejects malformed payloads for the given intent type.
func (in *Intent) Validate() error {
	if in.RoomID == "" && in.Type != IntentPing {
		return fmt.Errorf("missing roomId")
	}
	switch in.Type {
	case IntentJoinRoom:
		if in.PlayerName == "" {
			return fmt.Errorf("missing playerName")
		}
	case IntentPlayCard:
		if _, err := uuid.Parse(in.CardID); err != nil {
			return fmt.Errorf("invalid cardId")
		}
		if in.DeclaredColor != "" && !CardColor(in.DeclaredColor).IsConcrete() {
			return fmt.Errorf("invalid declaredColor")
		}
	case IntentChallenge:
		if _, err := uuid.Parse(in.TargetPlayerID); err != nil {
			return fmt.Errorf("invalid targetPlayerId")
		}
	case IntentStartGame, IntentDrawCard, IntentCallUno, IntentLeaveRoom, IntentPing:
		// room id alone suffices
	default:
		return fmt.Errorf("unknown intent type %q", in.Type)
	}
	return nil
}

// Card returns the parsed card id; Validate must have passed first.
func (in *Intent) Card() uuid.UUID {
	id, _ := uuid.Parse(in.CardID)
	return id
}

// Target returns the parsed challenge target id; Validate must have passed first.
func (in *Intent) Target() uuid.UUID {
	id, _ := uuid.Parse(in.TargetPlayerID)
	return id
}
