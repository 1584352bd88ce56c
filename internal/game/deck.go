// internal/game/deck.go
package game

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/openuno/openuno/internal/models"
)

// DeckSize is the number of cards NewDeck produces: the standard 108-card
// set plus four customizable blanks.
const DeckSize = 112

// StartingHandSize is the number of cards dealt to each seat.
const StartingHandSize = 7

// MaxPlayers caps a table at ten seats. The deal must leave cards in the
// draw pile after every seat takes seven, so seating is bounded well below
// the deck size.
const MaxPlayers = 10

// NewDeck builds a fresh deck: per color one 0, two each of 1-9 and two
// each of Skip/Reverse/DrawTwo, plus four Wilds, four Wild Draw Fours and
// four custom blanks. Every call yields uniquely-identified cards.
func NewDeck() []*models.Card {
	deck := make([]*models.Card, 0, DeckSize)
	for _, color := range models.Colors {
		deck = append(deck, models.NewNumberCard(color, 0))
		for n := 1; n <= 9; n++ {
			deck = append(deck, models.NewNumberCard(color, n), models.NewNumberCard(color, n))
		}
		for i := 0; i < 2; i++ {
			deck = append(deck,
				models.NewActionCard(color, models.TypeSkip),
				models.NewActionCard(color, models.TypeReverse),
				models.NewActionCard(color, models.TypeDrawTwo))
		}
	}
	for i := 0; i < 4; i++ {
		deck = append(deck,
			models.NewWildCard(models.TypeWild),
			models.NewWildCard(models.TypeWildDrawFour))
	}
	for i := 0; i < 4; i++ {
		deck = append(deck, models.NewWildCard(models.TypeCustomBlank))
	}
	return deck
}

// Shuffle returns a uniform Fisher-Yates permutation of deck. The input
// slice is left untouched so callers can reuse it.
func Shuffle(deck []*models.Card, r *rand.Rand) []*models.Card {
	out := make([]*models.Card, len(deck))
	copy(out, deck)
	for i := len(out) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// DealInitialHands deals handSize cards per seat in seat order from the
// front of deck and returns the hands plus the remaining draw pile.
func DealInitialHands(deck []*models.Card, playerCount, handSize int) ([][]*models.Card, []*models.Card, error) {
	if len(deck) < playerCount*handSize {
		return nil, nil, fmt.Errorf("deck of %d cards cannot deal %d to %d players", len(deck), handSize, playerCount)
	}
	hands := make([][]*models.Card, playerCount)
	idx := 0
	for seat := 0; seat < playerCount; seat++ {
		hands[seat] = make([]*models.Card, 0, handSize)
		for j := 0; j < handSize; j++ {
			hands[seat] = append(hands[seat], deck[idx])
			idx++
		}
	}
	rest := make([]*models.Card, len(deck)-idx)
	copy(rest, deck[idx:])
	return hands, rest, nil
}

// ScoreHand totals a hand: number cards at face value, Skip/Reverse/
// DrawTwo at 20, wild-colored cards at 50.
func ScoreHand(hand []*models.Card) int {
	total := 0
	for _, c := range hand {
		switch c.Type {
		case models.TypeNumber:
			if c.Number != nil {
				total += *c.Number
			}
		case models.TypeSkip, models.TypeReverse, models.TypeDrawTwo:
			total += 20
		case models.TypeWild, models.TypeWildDrawFour, models.TypeCustomBlank:
			total += 50
		}
	}
	return total
}

// NextPlayerIndex advances skip+1 steps around a ring of total seats in
// the given direction. A ring of one (or none) stays put.
func NextPlayerIndex(current, total int, dir models.Direction, skip int) int {
	if total <= 1 {
		return current
	}
	steps := skip + 1
	if dir == models.Clockwise {
		return (current + steps) % total
	}
	idx := (current - steps) % total
	if idx < 0 {
		idx += total
	}
	return idx
}

// IsHeadsUp reports whether this is a two-player match, where Reverse is
// played as a Skip.
func IsHeadsUp(playerCount int) bool {
	return playerCount == 2
}

// ValidateDeck checks the structural invariants of a deck instance: size
// within the standard-to-extended range and no duplicate ids.
func ValidateDeck(deck []*models.Card) bool {
	if len(deck) < 108 || len(deck) > DeckSize {
		return false
	}
	seen := make(map[uuid.UUID]struct{}, len(deck))
	for _, c := range deck {
		if _, dup := seen[c.ID]; dup {
			return false
		}
		seen[c.ID] = struct{}{}
	}
	return true
}
