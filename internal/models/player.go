package models

import (
	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// Player is a seat in a live game. The ID is the verified identity the
// gateway hands us; Conn is the current transport session and may be
// rebound across reconnects without touching Hand or Score.
type Player struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Conn         *websocket.Conn `json:"-"`
	Hand         []*Card         `json:"-"`
	Score        int             `json:"score"`
	HasCalledUno bool            `json:"hasCalledUno"`
	Connected    bool            `json:"connected"`
}

// HandContains returns the card with the given id if the player holds it.
func (p *Player) HandContains(cardID uuid.UUID) *Card {
	for _, c := range p.Hand {
		if c.ID == cardID {
			return c
		}
	}
	return nil
}
