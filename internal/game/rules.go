// internal/game/rules.go
package game

import "github.com/openuno/openuno/internal/models"

// IsValidMove decides whether card may be played on topCard given the
// activeColor a prior Wild declared. The checks run in precedence order;
// the first match wins.
func IsValidMove(card, topCard *models.Card, activeColor models.CardColor) bool {
	// Nothing face-up yet: any opener is legal.
	if topCard == nil {
		return true
	}

	// Wild-colored cards always play; a declaration follows.
	if card.IsWild() {
		return true
	}

	// A declared color overrides the top card's own color.
	if activeColor.IsConcrete() && card.Color == activeColor {
		return true
	}

	if card.Color == topCard.Color {
		return true
	}

	// Same type stacks regardless of color (Skip on Skip, etc).
	if card.Type == topCard.Type {
		return true
	}

	if card.Type == models.TypeNumber && topCard.Type == models.TypeNumber &&
		card.Number != nil && topCard.Number != nil && *card.Number == *topCard.Number {
		return true
	}

	return false
}

// IsWildDrawFourLegal reports whether a Wild Draw Four play was honest:
// legal only when the hand held at play time contains no card of the
// declared color. An absent or wild declaration is never legal.
func IsWildDrawFourLegal(handAtPlayTime []*models.Card, declaredColor models.CardColor) bool {
	if !declaredColor.IsConcrete() {
		return false
	}
	for _, c := range handAtPlayTime {
		if c.Color == declaredColor {
			return false
		}
	}
	return true
}

// PlayableCards filters hand down to the cards IsValidMove accepts.
func PlayableCards(hand []*models.Card, topCard *models.Card, activeColor models.CardColor) []*models.Card {
	var playable []*models.Card
	for _, c := range hand {
		if IsValidMove(c, topCard, activeColor) {
			playable = append(playable, c)
		}
	}
	return playable
}
