// internal/models/card.go
package models

import "github.com/google/uuid"

// CardColor is one of the four play colors, or Wild for cards that carry
// no color of their own until one is declared.
type CardColor string

const (
	ColorRed    CardColor = "red"
	ColorBlue   CardColor = "blue"
	ColorGreen  CardColor = "green"
	ColorYellow CardColor = "yellow"
	ColorWild   CardColor = "wild"
)

// Colors lists the four concrete play colors in deck order.
var Colors = []CardColor{ColorRed, ColorBlue, ColorGreen, ColorYellow}

// IsConcrete reports whether c is one of the four declared-playable colors.
func (c CardColor) IsConcrete() bool {
	switch c {
	case ColorRed, ColorBlue, ColorGreen, ColorYellow:
		return true
	}
	return false
}

// CardType tags the closed set of card kinds. Illegal shapes (a numbered
// Skip, a red Wild) are unrepresentable because the constructors below are
// the only way cards are built.
type CardType string

const (
	TypeNumber       CardType = "number"
	TypeSkip         CardType = "skip"
	TypeReverse      CardType = "reverse"
	TypeDrawTwo      CardType = "drawTwo"
	TypeWild         CardType = "wild"
	TypeWildDrawFour CardType = "wildDrawFour"
	TypeCustomBlank  CardType = "customBlank"
)

// Card is an immutable value owned by exactly one pile or hand at a time.
type Card struct {
	ID         uuid.UUID `json:"id"`
	Color      CardColor `json:"color"`
	Type       CardType  `json:"type"`
	Number     *int      `json:"number,omitempty"`     // 0-9, set only for TypeNumber
	CustomRule string    `json:"customRule,omitempty"` // free text on TypeCustomBlank
}

// NewNumberCard builds a number card 0-9 in a concrete color.
func NewNumberCard(color CardColor, n int) *Card {
	num := n
	return &Card{ID: uuid.New(), Color: color, Type: TypeNumber, Number: &num}
}

// NewActionCard builds a Skip, Reverse or DrawTwo in a concrete color.
func NewActionCard(color CardColor, t CardType) *Card {
	return &Card{ID: uuid.New(), Color: color, Type: t}
}

// NewWildCard builds a Wild, WildDrawFour or CustomBlank card.
func NewWildCard(t CardType) *Card {
	return &Card{ID: uuid.New(), Color: ColorWild, Type: t}
}

// IsWild reports whether the card is wild-colored (Wild, WildDrawFour or
// CustomBlank), meaning a color declaration accompanies its play.
func (c *Card) IsWild() bool {
	return c.Color == ColorWild
}
