// internal/game/events.go
package game

import "github.com/openuno/openuno/internal/models"

// EventType names an outbound broadcast event.
type EventType string

const (
	EventPlayerJoined       EventType = "player-joined"
	EventPlayerLeft         EventType = "player-left"
	EventPlayerDisconnected EventType = "player-disconnected"
	EventGameStarted        EventType = "game-started"
	EventCardPlayed         EventType = "card-played"
	EventCardDrawn          EventType = "card-drawn"
	EventTurnPassed         EventType = "turn-passed"
	EventUnoAlert           EventType = "uno-alert"
	EventUnoCalled          EventType = "uno-called"
	EventChallengeResult    EventType = "challenge-result"
	EventGameFinished       EventType = "game-finished"
)

// Event is the single outbound message shape. Fields are populated per
// type; everything is typed up front so the wire format cannot drift per
// call site.
type Event struct {
	Type EventType `json:"type"`

	PlayerID   string `json:"playerId,omitempty"`
	PlayerName string `json:"playerName,omitempty"`

	Card          *models.Card     `json:"card,omitempty"`
	DeclaredColor models.CardColor `json:"declaredColor,omitempty"`
	NewHandSize   *int             `json:"newHandSize,omitempty"`

	TotalPlayers     int    `json:"totalPlayers,omitempty"`
	RemainingPlayers int    `json:"remainingPlayers,omitempty"`
	CurrentPlayer    string `json:"currentPlayer,omitempty"`
	Message          string `json:"message,omitempty"`

	ChallengerID       string `json:"challengerId,omitempty"`
	TargetPlayerID     string `json:"targetPlayerId,omitempty"`
	ChallengeSucceeded *bool  `json:"challengeSucceeded,omitempty"`

	Winner string         `json:"winner,omitempty"`
	Scores map[string]int `json:"scores,omitempty"`

	// State and Hand ride on game-started (and reconnect resyncs); Hand
	// is only ever sent to its owner.
	State *StateSnapshot `json:"state,omitempty"`
	Hand  []*models.Card `json:"hand,omitempty"`
}

// PlayerSummary is the public view of a seat.
type PlayerSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	HandSize     int    `json:"handSize"`
	Score        int    `json:"score"`
	HasCalledUno bool   `json:"hasCalledUno"`
	Connected    bool   `json:"connected"`
}

// StateSnapshot is the public game state: everything every client may
// see. Hands stay private; only their sizes appear here.
type StateSnapshot struct {
	Status             models.GameStatus `json:"status"`
	Players            []PlayerSummary   `json:"players"`
	CurrentPlayerIndex int               `json:"currentPlayerIndex"`
	TopCard            *models.Card      `json:"topCard,omitempty"`
	ActiveColor        models.CardColor  `json:"activeColor,omitempty"`
	Direction          models.Direction  `json:"direction"`
	DrawPileSize       int               `json:"drawPileSize"`
	DiscardPileSize    int               `json:"discardPileSize"`
}

func intp(n int) *int { return &n }

func boolp(b bool) *bool { return &b }
