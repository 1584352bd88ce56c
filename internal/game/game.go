// internal/game/game.go
package game

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/openuno/openuno/internal/cache"
	"github.com/openuno/openuno/internal/database"
	"github.com/openuno/openuno/internal/models"
)

// OnGameEndFunc handles a finished match: the gateway uses it to reset
// room-level state after broadcasting results.
type OnGameEndFunc func(roomID string, winner uuid.UUID, scores map[uuid.UUID]int)

// DefaultChallengeWindow bounds how long a Wild Draw Four stays
// contestable before it resolves as unchallenged.
const DefaultChallengeWindow = 10 * time.Second

// ChallengeState records a Wild Draw Four awaiting a challenge decision.
// HandSnapshot is the accused's hand as it was immediately after the card
// left it; the challenge is judged against this snapshot, not against
// whatever the hand looks like by challenge time.
type ChallengeState struct {
	PlayedBy      uuid.UUID
	TargetID      uuid.UUID
	DeclaredColor models.CardColor
	HandSnapshot  []*models.Card
	Deadline      time.Time
}

// UnoGame holds the entire state for one live match. All exported
// operations take the game mutex for their full duration: intents for one
// room are fully applied or rejected before the next one begins, which is
// what keeps two players from both believing it is their turn.
type UnoGame struct {
	ID     uuid.UUID
	RoomID string

	Players            []*models.Player
	DrawPile           []*models.Card // top of pile = end of slice
	DiscardPile        []*models.Card
	TopCard            *models.Card
	ActiveColor        models.CardColor // set only while a declared color is in force
	Direction          models.Direction
	CurrentPlayerIndex int
	Status             models.GameStatus
	Pending            *ChallengeState

	WinnerID   uuid.UUID
	CreatedAt  time.Time
	FinishedAt time.Time

	ChallengeWindow time.Duration

	Mu sync.Mutex

	// BroadcastFn sends an event to every connection bound to the room.
	BroadcastFn func(ev Event)
	// BroadcastToPlayerFn sends an event to a single player.
	BroadcastToPlayerFn func(playerID uuid.UUID, ev Event)
	// OnGameEnd is invoked once when the match finishes.
	OnGameEnd OnGameEndFunc

	rng            *rand.Rand
	deckSize       int // conservation baseline for the round
	drewThisTurn   bool
	turnSerial     int // guards stale challenge timers
	challengeTimer *time.Timer
	actionIndex    int
}

// NewUnoGame builds an empty Waiting game bound to a room.
func NewUnoGame(roomID string) *UnoGame {
	return &UnoGame{
		ID:              uuid.New(),
		RoomID:          roomID,
		Status:          models.StatusWaiting,
		Direction:       models.Clockwise,
		ChallengeWindow: DefaultChallengeWindow,
		CreatedAt:       time.Now(),
		rng:             rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// AddPlayer seats a new player before the match starts, or rebinds the
// connection of a player who is already seated.
func (g *UnoGame) AddPlayer(p *models.Player) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	for _, pl := range g.Players {
		if pl.ID == p.ID {
			pl.Conn = p.Conn
			pl.Connected = true
			pl.Name = p.Name
			return
		}
	}
	if g.Status != models.StatusWaiting {
		log.Printf("game %s: player %s cannot join a match in progress", g.ID, p.ID)
		return
	}
	if len(g.Players) >= MaxPlayers {
		log.Printf("game %s: player %s cannot join a full table", g.ID, p.ID)
		return
	}
	g.Players = append(g.Players, p)
}

// Start deals the match: builds and shuffles a deck, deals seven cards a
// seat, seeds the first face-up card and opens play with seat 0.
func (g *UnoGame) Start(requestingPlayerID uuid.UUID) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.Status != models.StatusWaiting {
		return ErrGameAlreadyStarted
	}
	if len(g.Players) < 2 {
		return ErrNotEnoughPlayers
	}
	// More seats than MaxPlayers would let the deal consume the entire
	// deck and leave nothing to seed the face-up card from.
	if len(g.Players) > MaxPlayers {
		return ErrRoomFull
	}

	deck := Shuffle(NewDeck(), g.rng)
	if !ValidateDeck(deck) {
		// A broken deck is a bug, not a user error.
		log.Printf("ERROR game %s: deck failed integrity validation", g.ID)
		return ErrGameNotInProgress
	}

	hands, rest, err := DealInitialHands(deck, len(g.Players), StartingHandSize)
	if err != nil {
		return ErrNotEnoughPlayers
	}
	for i, p := range g.Players {
		p.Hand = hands[i]
		p.Score = 0
		p.HasCalledUno = false
	}
	g.DrawPile = rest
	g.deckSize = len(deck)

	g.seedTopCardLocked()
	g.CurrentPlayerIndex = 0
	g.Direction = models.Clockwise
	g.Status = models.StatusInProgress
	g.drewThisTurn = false

	log.Printf("game %s: started with %d players, requested by %s", g.ID, len(g.Players), requestingPlayerID)
	g.logAction(requestingPlayerID, "game_started", map[string]interface{}{"players": len(g.Players)})

	for _, p := range g.Players {
		ev := Event{
			Type:          EventGameStarted,
			State:         g.snapshotLocked(),
			Hand:          append([]*models.Card(nil), p.Hand...),
			CurrentPlayer: g.Players[0].ID.String(),
		}
		g.fireEventToPlayer(p.ID, ev)
	}
	g.assertConservationLocked("start")
	return nil
}

// seedTopCardLocked pops cards off the draw pile until a non-WildDrawFour
// surfaces; rejected cards go back beneath the pile so nothing is lost.
func (g *UnoGame) seedTopCardLocked() {
	for {
		top := g.DrawPile[len(g.DrawPile)-1]
		g.DrawPile = g.DrawPile[:len(g.DrawPile)-1]
		if top.Type != models.TypeWildDrawFour {
			g.TopCard = top
			g.DiscardPile = append(g.DiscardPile, top)
			g.ActiveColor = ""
			return
		}
		g.DrawPile = append([]*models.Card{top}, g.DrawPile...)
	}
}

// PlayCard validates and applies a play by the current player. declared
// must be a concrete color when the card is a Wild or Wild Draw Four.
func (g *UnoGame) PlayCard(playerID, cardID uuid.UUID, declared models.CardColor) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.Status != models.StatusInProgress {
		return ErrGameNotInProgress
	}
	if err := g.gatePendingLocked(playerID); err != nil {
		return err
	}
	player := g.currentPlayerLocked()
	if player == nil || player.ID != playerID {
		return ErrNotYourTurn
	}
	card := player.HandContains(cardID)
	if card == nil {
		return ErrCardNotInHand
	}
	if !IsValidMove(card, g.TopCard, g.ActiveColor) {
		return ErrInvalidMove
	}
	needsDeclaration := card.Type == models.TypeWild || card.Type == models.TypeWildDrawFour
	if needsDeclaration && !declared.IsConcrete() {
		return ErrMissingColorDeclaration
	}

	// All preconditions hold; mutate.
	g.removeFromHandLocked(player, cardID)
	g.TopCard = card
	g.DiscardPile = append(g.DiscardPile, card)
	if needsDeclaration {
		g.ActiveColor = declared
	} else {
		g.ActiveColor = ""
	}

	handSize := len(player.Hand)
	g.fireEvent(Event{
		Type:          EventCardPlayed,
		PlayerID:      playerID.String(),
		PlayerName:    player.Name,
		Card:          card,
		DeclaredColor: g.ActiveColor,
		NewHandSize:   intp(handSize),
	})
	g.logAction(playerID, "card_played", map[string]interface{}{
		"cardId": card.ID, "type": string(card.Type), "declared": string(declared),
	})

	if handSize == 1 {
		g.fireEvent(Event{
			Type:     EventUnoAlert,
			PlayerID: playerID.String(),
			Message:  fmt.Sprintf("%s has 1 card left!", player.Name),
		})
	}
	if handSize == 0 {
		g.finishLocked(player)
		return nil
	}

	g.resolveCardEffectLocked(player, card)
	g.assertConservationLocked("play")
	return nil
}

// resolveCardEffectLocked applies the played card's turn effect and
// advances play.
func (g *UnoGame) resolveCardEffectLocked(player *models.Player, card *models.Card) {
	switch card.Type {
	case models.TypeSkip:
		g.advanceTurnLocked(1)
	case models.TypeReverse:
		if IsHeadsUp(len(g.Players)) {
			// Two players: Reverse acts as a Skip.
			g.advanceTurnLocked(1)
		} else {
			g.Direction = g.Direction.Flip()
			g.advanceTurnLocked(0)
		}
	case models.TypeDrawTwo:
		nextIdx := NextPlayerIndex(g.CurrentPlayerIndex, len(g.Players), g.Direction, 0)
		g.dealPenaltyLocked(g.Players[nextIdx], 2)
		g.advanceTurnLocked(1)
	case models.TypeWildDrawFour:
		g.openChallengeWindowLocked(player, card)
	default:
		g.advanceTurnLocked(0)
	}
}

// openChallengeWindowLocked snapshots the accused's remaining hand and
// arms the deadline timer. The turn does not advance until the window
// resolves.
func (g *UnoGame) openChallengeWindowLocked(player *models.Player, card *models.Card) {
	nextIdx := NextPlayerIndex(g.CurrentPlayerIndex, len(g.Players), g.Direction, 0)
	snapshot := append([]*models.Card(nil), player.Hand...)
	g.Pending = &ChallengeState{
		PlayedBy:      player.ID,
		TargetID:      g.Players[nextIdx].ID,
		DeclaredColor: g.ActiveColor,
		HandSnapshot:  snapshot,
		Deadline:      time.Now().Add(g.ChallengeWindow),
	}

	serial := g.turnSerial
	if g.challengeTimer != nil {
		g.challengeTimer.Stop()
	}
	g.challengeTimer = time.AfterFunc(g.ChallengeWindow, func() {
		g.Mu.Lock()
		defer g.Mu.Unlock()
		// Ignore stale timers: the window may have resolved already.
		if g.Pending == nil || g.turnSerial != serial || g.Status != models.StatusInProgress {
			return
		}
		log.Printf("game %s: challenge window expired for player %s", g.ID, g.Pending.TargetID)
		g.resolveUnchallengedLocked()
	})
}

// gatePendingLocked enforces the challenge window. The window's target
// forfeits the challenge by acting: the Wild Draw Four resolves first and
// the submitted intent is then judged against the post-resolution state.
// Anyone else simply isn't on turn while the window is open.
func (g *UnoGame) gatePendingLocked(playerID uuid.UUID) error {
	if g.Pending == nil {
		return nil
	}
	if playerID != g.Pending.TargetID {
		return ErrNotYourTurn
	}
	g.resolveUnchallengedLocked()
	return nil
}

// resolveUnchallengedLocked applies the standard Wild Draw Four outcome:
// the next player draws four and is skipped. The resolution is announced
// so clients can tell it apart from whatever intent triggered it.
func (g *UnoGame) resolveUnchallengedLocked() {
	targetID := g.Pending.TargetID
	target := g.findPlayerLocked(targetID)
	g.clearPendingLocked()
	if target != nil {
		g.dealPenaltyLocked(target, 4)
	}
	g.advanceTurnLocked(1)
	g.fireEvent(Event{
		Type:     EventChallengeResult,
		PlayerID: targetID.String(),
		Message:  "wild draw four stands unchallenged",
	})
	g.assertConservationLocked("wd4-resolve")
}

// Challenge contests the pending Wild Draw Four. Only the player the
// window targets may challenge, and only the accused may be named.
func (g *UnoGame) Challenge(challengerID, targetID uuid.UUID) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.Status != models.StatusInProgress {
		return ErrGameNotInProgress
	}
	if g.Pending == nil || g.TopCard == nil || g.TopCard.Type != models.TypeWildDrawFour {
		return ErrChallengeNotApplicable
	}
	if challengerID != g.Pending.TargetID || targetID != g.Pending.PlayedBy {
		return ErrChallengeNotApplicable
	}

	legal := IsWildDrawFourLegal(g.Pending.HandSnapshot, g.Pending.DeclaredColor)
	accused := g.findPlayerLocked(g.Pending.PlayedBy)
	challenger := g.findPlayerLocked(challengerID)
	g.clearPendingLocked()

	succeeded := !legal
	if succeeded {
		// Bluff exposed: the accused draws four and the skip is forfeited.
		if accused != nil {
			g.dealPenaltyLocked(accused, 4)
		}
		g.advanceTurnLocked(0)
	} else {
		// Honest play: the challenger draws four and forfeits their turn.
		if challenger != nil {
			g.dealPenaltyLocked(challenger, 4)
		}
		g.advanceTurnLocked(1)
	}

	g.fireEvent(Event{
		Type:               EventChallengeResult,
		ChallengerID:       challengerID.String(),
		TargetPlayerID:     targetID.String(),
		ChallengeSucceeded: boolp(succeeded),
	})
	g.logAction(challengerID, "challenge", map[string]interface{}{
		"target": targetID, "succeeded": succeeded,
	})
	g.assertConservationLocked("challenge")
	return nil
}

// DrawCard pops one card into the current player's hand, reshuffling the
// discard pile (minus the face-up top card) when the draw pile runs dry.
// The turn does not end here; playable reports whether the drawn card
// could legally be played so the gateway can apply its auto-pass policy.
func (g *UnoGame) DrawCard(playerID uuid.UUID) (card *models.Card, playable bool, err error) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.Status != models.StatusInProgress {
		return nil, false, ErrGameNotInProgress
	}
	if err := g.gatePendingLocked(playerID); err != nil {
		return nil, false, err
	}
	player := g.currentPlayerLocked()
	if player == nil || player.ID != playerID {
		return nil, false, ErrNotYourTurn
	}

	card, err = g.popDrawLocked()
	if err != nil {
		return nil, false, err
	}
	player.Hand = append(player.Hand, card)
	g.drewThisTurn = true

	g.fireEvent(Event{
		Type:        EventCardDrawn,
		PlayerID:    playerID.String(),
		NewHandSize: intp(len(player.Hand)),
	})
	g.logAction(playerID, "card_drawn", map[string]interface{}{"cardId": card.ID})
	g.assertConservationLocked("draw")
	return card, IsValidMove(card, g.TopCard, g.ActiveColor), nil
}

// EndTurn passes after a draw. It exists for the gateway's auto-pass
// policy; a player who has not drawn this turn cannot pass.
func (g *UnoGame) EndTurn(playerID uuid.UUID) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.Status != models.StatusInProgress {
		return ErrGameNotInProgress
	}
	if err := g.gatePendingLocked(playerID); err != nil {
		return err
	}
	player := g.currentPlayerLocked()
	if player == nil || player.ID != playerID {
		return ErrNotYourTurn
	}
	if !g.drewThisTurn {
		return ErrCannotEndTurn
	}
	g.advanceTurnLocked(0)
	g.fireEvent(Event{
		Type:          EventTurnPassed,
		PlayerID:      playerID.String(),
		CurrentPlayer: g.currentPlayerLocked().ID.String(),
	})
	return nil
}

// CallUno marks the caller as having called UNO. Legal only with exactly
// one card in hand.
func (g *UnoGame) CallUno(playerID uuid.UUID) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.Status != models.StatusInProgress {
		return ErrGameNotInProgress
	}
	player := g.findPlayerLocked(playerID)
	if player == nil || len(player.Hand) != 1 {
		return ErrCannotCallUno
	}
	player.HasCalledUno = true
	g.fireEvent(Event{
		Type:       EventUnoCalled,
		PlayerID:   playerID.String(),
		PlayerName: player.Name,
	})
	g.logAction(playerID, "uno_called", nil)
	return nil
}

// finishLocked ends the round: the winner scores zero and every other
// player scores their remaining hand.
func (g *UnoGame) finishLocked(winner *models.Player) {
	g.Status = models.StatusFinished
	g.WinnerID = winner.ID
	g.FinishedAt = time.Now()
	g.clearPendingLocked()

	scores := make(map[uuid.UUID]int, len(g.Players))
	wire := make(map[string]int, len(g.Players))
	for _, p := range g.Players {
		if p.ID == winner.ID {
			p.Score = 0
		} else {
			p.Score = ScoreHand(p.Hand)
		}
		scores[p.ID] = p.Score
		wire[p.ID.String()] = p.Score
	}

	log.Printf("game %s: finished, winner %s", g.ID, winner.ID)
	g.fireEvent(Event{
		Type:   EventGameFinished,
		Winner: winner.ID.String(),
		Scores: wire,
	})
	g.logAction(winner.ID, "game_finished", map[string]interface{}{"scores": wire})

	if g.OnGameEnd != nil {
		g.OnGameEnd(g.RoomID, winner.ID, scores)
	}

	// Persistence happens outside the critical section; the in-memory
	// state stays authoritative.
	players := append([]*models.Player(nil), g.Players...)
	go func(gameID uuid.UUID, roomID string, winnerID uuid.UUID) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := database.RecordMatchResult(ctx, gameID, roomID, players, scores, winnerID); err != nil {
			log.Printf("game %s: failed to record match result: %v", gameID, err)
		}
	}(g.ID, g.RoomID, winner.ID)
}

// RemovePlayer handles an explicit leave: the seat is destroyed and, mid
// match, the departing hand is returned beneath the draw pile so card
// conservation holds. A match left with a single seat ends in that
// player's favor.
func (g *UnoGame) RemovePlayer(playerID uuid.UUID) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	idx := -1
	for i, p := range g.Players {
		if p.ID == playerID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}
	leaving := g.Players[idx]

	if g.Status == models.StatusInProgress {
		if g.Pending != nil && (g.Pending.PlayedBy == playerID || g.Pending.TargetID == playerID) {
			g.clearPendingLocked()
		}
		g.DrawPile = append(append([]*models.Card(nil), leaving.Hand...), g.DrawPile...)
		leaving.Hand = nil
	}

	g.Players = append(g.Players[:idx], g.Players[idx+1:]...)
	switch {
	case len(g.Players) == 0:
		g.Status = models.StatusFinished
		return
	case idx < g.CurrentPlayerIndex:
		g.CurrentPlayerIndex--
	case idx == g.CurrentPlayerIndex:
		g.CurrentPlayerIndex = g.CurrentPlayerIndex % len(g.Players)
		g.drewThisTurn = false
	}

	if g.Status == models.StatusInProgress {
		if len(g.Players) == 1 {
			g.finishLocked(g.Players[0])
			return
		}
		g.assertConservationLocked("leave")
	}
}

// HandleDisconnect marks a player disconnected. Hand and score stay bound
// to the player id so a reconnect resumes the same in-flight hand.
func (g *UnoGame) HandleDisconnect(playerID uuid.UUID) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	p := g.findPlayerLocked(playerID)
	if p == nil || !p.Connected {
		return
	}
	p.Connected = false
	p.Conn = nil
	log.Printf("game %s: player %s disconnected", g.ID, playerID)
}

// HandleReconnect rebinds a returning player's connection and resyncs
// their private view of the match.
func (g *UnoGame) HandleReconnect(playerID uuid.UUID, conn *websocket.Conn) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	p := g.findPlayerLocked(playerID)
	if p == nil {
		return
	}
	p.Connected = true
	p.Conn = conn
	log.Printf("game %s: player %s reconnected", g.ID, playerID)

	g.fireEventToPlayer(playerID, Event{
		Type:          EventGameStarted,
		State:         g.snapshotLocked(),
		Hand:          append([]*models.Card(nil), p.Hand...),
		CurrentPlayer: g.currentPlayerIDLocked(),
	})
}

// Snapshot returns the public game state.
func (g *UnoGame) Snapshot() *StateSnapshot {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.snapshotLocked()
}

// --- internals, lock held ---

func (g *UnoGame) advanceTurnLocked(skip int) {
	g.CurrentPlayerIndex = NextPlayerIndex(g.CurrentPlayerIndex, len(g.Players), g.Direction, skip)
	g.drewThisTurn = false
	g.turnSerial++
}

func (g *UnoGame) clearPendingLocked() {
	g.Pending = nil
	if g.challengeTimer != nil {
		g.challengeTimer.Stop()
		g.challengeTimer = nil
	}
}

// dealPenaltyLocked moves n cards into a player's hand, reshuffling as
// needed. Penalty draws stop quietly if every pile is exhausted.
func (g *UnoGame) dealPenaltyLocked(p *models.Player, n int) {
	drawn := 0
	for i := 0; i < n; i++ {
		card, err := g.popDrawLocked()
		if err != nil {
			log.Printf("game %s: penalty draw stopped after %d of %d cards: %v", g.ID, drawn, n, err)
			break
		}
		p.Hand = append(p.Hand, card)
		drawn++
	}
	if drawn > 0 {
		g.fireEvent(Event{
			Type:        EventCardDrawn,
			PlayerID:    p.ID.String(),
			NewHandSize: intp(len(p.Hand)),
		})
	}
}

// popDrawLocked pops the top card of the draw pile, folding the discard
// pile (minus the live top card) back in when the pile is empty.
func (g *UnoGame) popDrawLocked() (*models.Card, error) {
	if len(g.DrawPile) == 0 {
		if len(g.DiscardPile) <= 1 {
			return nil, ErrNoCardsAvailable
		}
		reshuffled := Shuffle(g.DiscardPile[:len(g.DiscardPile)-1], g.rng)
		g.DiscardPile = []*models.Card{g.DiscardPile[len(g.DiscardPile)-1]}
		g.DrawPile = reshuffled
		log.Printf("game %s: reshuffled %d discards into the draw pile", g.ID, len(reshuffled))
	}
	card := g.DrawPile[len(g.DrawPile)-1]
	g.DrawPile = g.DrawPile[:len(g.DrawPile)-1]
	return card, nil
}

func (g *UnoGame) removeFromHandLocked(p *models.Player, cardID uuid.UUID) {
	for i, c := range p.Hand {
		if c.ID == cardID {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return
		}
	}
}

func (g *UnoGame) currentPlayerLocked() *models.Player {
	if len(g.Players) == 0 || g.CurrentPlayerIndex < 0 || g.CurrentPlayerIndex >= len(g.Players) {
		return nil
	}
	return g.Players[g.CurrentPlayerIndex]
}

func (g *UnoGame) currentPlayerIDLocked() string {
	if p := g.currentPlayerLocked(); p != nil {
		return p.ID.String()
	}
	return ""
}

func (g *UnoGame) findPlayerLocked(id uuid.UUID) *models.Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (g *UnoGame) snapshotLocked() *StateSnapshot {
	snap := &StateSnapshot{
		Status:             g.Status,
		CurrentPlayerIndex: g.CurrentPlayerIndex,
		TopCard:            g.TopCard,
		ActiveColor:        g.ActiveColor,
		Direction:          g.Direction,
		DrawPileSize:       len(g.DrawPile),
		DiscardPileSize:    len(g.DiscardPile),
	}
	for _, p := range g.Players {
		snap.Players = append(snap.Players, PlayerSummary{
			ID:           p.ID.String(),
			Name:         p.Name,
			HandSize:     len(p.Hand),
			Score:        p.Score,
			HasCalledUno: p.HasCalledUno,
			Connected:    p.Connected,
		})
	}
	return snap
}

// assertConservationLocked verifies no card was created or destroyed. A
// violation is a bug in this package, never a user error, so the match is
// terminated loudly instead of limping on.
func (g *UnoGame) assertConservationLocked(op string) {
	if g.deckSize == 0 {
		return
	}
	total := len(g.DrawPile) + len(g.DiscardPile)
	for _, p := range g.Players {
		total += len(p.Hand)
	}
	if total != g.deckSize {
		log.Printf("ERROR game %s: card conservation broken after %s: %d cards, expected %d", g.ID, op, total, g.deckSize)
		g.Status = models.StatusFinished
		g.clearPendingLocked()
	}
}

func (g *UnoGame) fireEvent(ev Event) {
	if g.BroadcastFn != nil {
		g.BroadcastFn(ev)
	}
}

func (g *UnoGame) fireEventToPlayer(playerID uuid.UUID, ev Event) {
	if g.BroadcastToPlayerFn != nil {
		g.BroadcastToPlayerFn(playerID, ev)
	}
}

// logAction queues an action record for the external historian. The push
// is asynchronous; match processing never waits on redis.
func (g *UnoGame) logAction(actor uuid.UUID, actionType string, payload map[string]interface{}) {
	if !cache.Enabled() {
		return
	}
	g.actionIndex++
	rec := cache.MatchActionRecord{
		GameID:      g.ID,
		RoomID:      g.RoomID,
		ActionIndex: g.actionIndex,
		ActorID:     actor,
		ActionType:  actionType,
		Payload:     payload,
		Timestamp:   time.Now().Unix(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := cache.PublishMatchAction(ctx, rec); err != nil {
			log.Printf("game %s: failed to publish action record: %v", g.ID, err)
		}
	}()
}
