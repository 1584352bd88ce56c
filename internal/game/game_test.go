// internal/game/game_test.go
package game

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openuno/openuno/internal/models"
)

// mockBroadcaster collects events instead of sending them over WS.
type mockBroadcaster struct {
	mu           sync.Mutex
	allEvents    []Event               // Events sent to everyone
	playerEvents map[uuid.UUID][]Event // Events sent to specific players
}

func newMockBroadcaster() *mockBroadcaster {
	return &mockBroadcaster{
		playerEvents: make(map[uuid.UUID][]Event),
	}
}

func (mb *mockBroadcaster) broadcastFn(ev Event) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.allEvents = append(mb.allEvents, ev)
}

func (mb *mockBroadcaster) broadcastToPlayerFn(playerID uuid.UUID, ev Event) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.playerEvents[playerID] = append(mb.playerEvents[playerID], ev)
}

func (mb *mockBroadcaster) clear() {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.allEvents = []Event{}
	mb.playerEvents = make(map[uuid.UUID][]Event)
}

func (mb *mockBroadcaster) findEvent(typ EventType) *Event {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	for i := range mb.allEvents {
		if mb.allEvents[i].Type == typ {
			return &mb.allEvents[i]
		}
	}
	return nil
}

func (mb *mockBroadcaster) getLastPlayerEvent(playerID uuid.UUID) *Event {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	events, ok := mb.playerEvents[playerID]
	if !ok || len(events) == 0 {
		return nil
	}
	return &events[len(events)-1]
}

// setupTestGame starts a match with numPlayers seats and mock broadcasters.
func setupTestGame(t *testing.T, numPlayers int) (*UnoGame, []*models.Player, *mockBroadcaster) {
	g := NewUnoGame("test-room")
	mb := newMockBroadcaster()
	g.BroadcastFn = mb.broadcastFn
	g.BroadcastToPlayerFn = mb.broadcastToPlayerFn

	players := make([]*models.Player, numPlayers)
	for i := range players {
		players[i] = &models.Player{
			ID:        uuid.New(),
			Name:      fmt.Sprintf("player-%d", i),
			Connected: true,
		}
		g.AddPlayer(players[i])
	}

	require.NoError(t, g.Start(players[0].ID))
	require.Equal(t, models.StatusInProgress, g.Status)

	mb.clear() // Clear events from setup phase
	return g, players, mb
}

// rigTurn points play at seat idx with a fixed hand and face-up card, then
// rebaselines card accounting so the conservation check stays meaningful.
func rigTurn(g *UnoGame, idx int, hand []*models.Card, top *models.Card, active models.CardColor) {
	g.CurrentPlayerIndex = idx
	g.Players[idx].Hand = hand
	g.TopCard = top
	g.DiscardPile = []*models.Card{top}
	g.ActiveColor = active
	g.drewThisTurn = false
	rebaseline(g)
}

func rebaseline(g *UnoGame) {
	g.deckSize = cardTotal(g)
}

func cardTotal(g *UnoGame) int {
	total := len(g.DrawPile) + len(g.DiscardPile)
	for _, p := range g.Players {
		total += len(p.Hand)
	}
	return total
}

// TestStartDealsAndSeeds verifies the initial deal: seven cards a seat, a
// non-WildDrawFour face-up card and a private hand sync per player.
func TestStartDealsAndSeeds(t *testing.T) {
	g := NewUnoGame("test-room")
	mb := newMockBroadcaster()
	g.BroadcastFn = mb.broadcastFn
	g.BroadcastToPlayerFn = mb.broadcastToPlayerFn

	players := make([]*models.Player, 3)
	for i := range players {
		players[i] = &models.Player{ID: uuid.New(), Name: fmt.Sprintf("player-%d", i), Connected: true}
		g.AddPlayer(players[i])
	}
	require.NoError(t, g.Start(players[0].ID))

	assert.Equal(t, models.StatusInProgress, g.Status)
	assert.Equal(t, 0, g.CurrentPlayerIndex)
	assert.Equal(t, models.Clockwise, g.Direction)
	require.NotNil(t, g.TopCard)
	assert.NotEqual(t, models.TypeWildDrawFour, g.TopCard.Type, "a Wild Draw Four may not open the match")
	assert.Equal(t, DeckSize, cardTotal(g), "every card is in a pile or a hand")

	for _, p := range players {
		assert.Len(t, p.Hand, StartingHandSize)
		ev := mb.getLastPlayerEvent(p.ID)
		require.NotNil(t, ev, "each player gets a private game-started event")
		assert.Equal(t, EventGameStarted, ev.Type)
		assert.Len(t, ev.Hand, StartingHandSize)
		require.NotNil(t, ev.State)
		assert.Equal(t, players[0].ID.String(), ev.CurrentPlayer)
	}
}

func TestStartRequiresTwoPlayers(t *testing.T) {
	g := NewUnoGame("test-room")
	p := &models.Player{ID: uuid.New(), Name: "solo"}
	g.AddPlayer(p)
	assert.ErrorIs(t, g.Start(p.ID), ErrNotEnoughPlayers)
	assert.Equal(t, models.StatusWaiting, g.Status)
}

func TestStartTwiceRejected(t *testing.T) {
	g, players, _ := setupTestGame(t, 2)
	assert.ErrorIs(t, g.Start(players[0].ID), ErrGameAlreadyStarted)
}

func TestAddPlayerAfterStartIgnored(t *testing.T) {
	g, _, _ := setupTestGame(t, 2)
	g.AddPlayer(&models.Player{ID: uuid.New(), Name: "late"})
	assert.Len(t, g.Players, 2)
}

// TestStartFullTable verifies a ten-seat deal still leaves a draw pile to
// seed the face-up card from and to serve later draws.
func TestStartFullTable(t *testing.T) {
	g, players, _ := setupTestGame(t, MaxPlayers)

	for _, p := range players {
		assert.Len(t, p.Hand, StartingHandSize)
	}
	require.NotNil(t, g.TopCard)
	assert.NotEmpty(t, g.DrawPile)
	assert.Equal(t, DeckSize, cardTotal(g))
}

func TestAddPlayerCapsSeats(t *testing.T) {
	g := NewUnoGame("test-room")
	for i := 0; i < MaxPlayers+3; i++ {
		g.AddPlayer(&models.Player{ID: uuid.New(), Name: fmt.Sprintf("player-%d", i)})
	}
	assert.Len(t, g.Players, MaxPlayers, "seats beyond the cap are rejected")
}

// TestStartRejectsOverfullTable forces more seats than the cap allows and
// checks the deal is refused instead of consuming the whole deck.
func TestStartRejectsOverfullTable(t *testing.T) {
	g := NewUnoGame("test-room")
	for i := 0; i < 16; i++ {
		g.Players = append(g.Players, &models.Player{ID: uuid.New(), Name: fmt.Sprintf("player-%d", i)})
	}

	assert.ErrorIs(t, g.Start(g.Players[0].ID), ErrRoomFull)
	assert.Equal(t, models.StatusWaiting, g.Status)
	assert.Empty(t, g.DrawPile, "a refused start deals nothing")
	for _, p := range g.Players {
		assert.Empty(t, p.Hand)
	}
}

// TestPlayCardAdvancesTurn covers the plain number-card play.
func TestPlayCardAdvancesTurn(t *testing.T) {
	g, players, mb := setupTestGame(t, 3)
	red7 := models.NewNumberCard(models.ColorRed, 7)
	rigTurn(g, 0, []*models.Card{
		red7,
		models.NewNumberCard(models.ColorBlue, 3),
		models.NewNumberCard(models.ColorGreen, 2),
	}, models.NewNumberCard(models.ColorRed, 5), "")

	require.NoError(t, g.PlayCard(players[0].ID, red7.ID, ""))

	assert.Equal(t, 1, g.CurrentPlayerIndex)
	assert.Equal(t, red7.ID, g.TopCard.ID)
	assert.Len(t, players[0].Hand, 2)
	assert.Equal(t, models.CardColor(""), g.ActiveColor, "a concrete card clears any declared color")

	ev := mb.findEvent(EventCardPlayed)
	require.NotNil(t, ev)
	assert.Equal(t, players[0].ID.String(), ev.PlayerID)
	assert.Equal(t, red7.ID, ev.Card.ID)
	require.NotNil(t, ev.NewHandSize)
	assert.Equal(t, 2, *ev.NewHandSize)
}

// TestPlayCardRejections verifies every precondition failure leaves the
// state untouched.
func TestPlayCardRejections(t *testing.T) {
	g, players, mb := setupTestGame(t, 3)
	blue3 := models.NewNumberCard(models.ColorBlue, 3)
	wild := models.NewWildCard(models.TypeWild)
	rigTurn(g, 0, []*models.Card{blue3, wild}, models.NewNumberCard(models.ColorRed, 5), "")

	cases := []struct {
		name   string
		player uuid.UUID
		card   uuid.UUID
		color  models.CardColor
		want   *Error
	}{
		{"out of turn", players[1].ID, blue3.ID, "", ErrNotYourTurn},
		{"card not held", players[0].ID, uuid.New(), "", ErrCardNotInHand},
		{"no color/type/number match", players[0].ID, blue3.ID, "", ErrInvalidMove},
		{"wild without declaration", players[0].ID, wild.ID, "", ErrMissingColorDeclaration},
		{"wild with wild declaration", players[0].ID, wild.ID, models.ColorWild, ErrMissingColorDeclaration},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, g.PlayCard(tc.player, tc.card, tc.color), tc.want)
			assert.Equal(t, 0, g.CurrentPlayerIndex, "a rejected play must not advance the turn")
			assert.Len(t, players[0].Hand, 2, "a rejected play must not touch the hand")
			assert.Nil(t, mb.findEvent(EventCardPlayed), "a rejected play must not broadcast")
		})
	}
}

func TestSkipCard(t *testing.T) {
	g, players, _ := setupTestGame(t, 4)
	skip := models.NewActionCard(models.ColorRed, models.TypeSkip)
	rigTurn(g, 0, []*models.Card{skip, models.NewNumberCard(models.ColorBlue, 1)},
		models.NewNumberCard(models.ColorRed, 5), "")

	require.NoError(t, g.PlayCard(players[0].ID, skip.ID, ""))
	assert.Equal(t, 2, g.CurrentPlayerIndex, "Skip jumps the next seat")
}

func TestReverseFlipsDirection(t *testing.T) {
	g, players, _ := setupTestGame(t, 4)
	rev := models.NewActionCard(models.ColorRed, models.TypeReverse)
	rigTurn(g, 1, []*models.Card{rev, models.NewNumberCard(models.ColorBlue, 1)},
		models.NewNumberCard(models.ColorRed, 5), "")

	require.NoError(t, g.PlayCard(players[1].ID, rev.ID, ""))
	assert.Equal(t, models.CounterClockwise, g.Direction)
	assert.Equal(t, 0, g.CurrentPlayerIndex, "play walks backwards after a Reverse")
}

func TestReverseHeadsUpActsAsSkip(t *testing.T) {
	g, players, _ := setupTestGame(t, 2)
	rev := models.NewActionCard(models.ColorRed, models.TypeReverse)
	rigTurn(g, 0, []*models.Card{rev, models.NewNumberCard(models.ColorBlue, 1)},
		models.NewNumberCard(models.ColorRed, 5), "")

	require.NoError(t, g.PlayCard(players[0].ID, rev.ID, ""))
	assert.Equal(t, models.Clockwise, g.Direction, "heads-up Reverse does not flip")
	assert.Equal(t, 0, g.CurrentPlayerIndex, "heads-up Reverse returns the turn to the player")
}

func TestDrawTwoPenalizesAndSkips(t *testing.T) {
	g, players, _ := setupTestGame(t, 4)
	d2 := models.NewActionCard(models.ColorRed, models.TypeDrawTwo)
	rigTurn(g, 0, []*models.Card{d2, models.NewNumberCard(models.ColorBlue, 1)},
		models.NewNumberCard(models.ColorRed, 5), "")
	before := cardTotal(g)

	require.NoError(t, g.PlayCard(players[0].ID, d2.ID, ""))
	assert.Len(t, players[1].Hand, StartingHandSize+2, "the next seat draws two")
	assert.Equal(t, 2, g.CurrentPlayerIndex, "the penalized seat is skipped")
	assert.Equal(t, before, cardTotal(g))
}

func TestWildDeclaresColor(t *testing.T) {
	g, players, _ := setupTestGame(t, 3)
	wild := models.NewWildCard(models.TypeWild)
	rigTurn(g, 0, []*models.Card{wild, models.NewNumberCard(models.ColorBlue, 1)},
		models.NewNumberCard(models.ColorRed, 5), "")

	require.NoError(t, g.PlayCard(players[0].ID, wild.ID, models.ColorBlue))
	assert.Equal(t, models.ColorBlue, g.ActiveColor)
	assert.Equal(t, 1, g.CurrentPlayerIndex)
}

func TestUnoAlertOnPenultimateCard(t *testing.T) {
	g, players, mb := setupTestGame(t, 3)
	red7 := models.NewNumberCard(models.ColorRed, 7)
	rigTurn(g, 0, []*models.Card{red7, models.NewNumberCard(models.ColorBlue, 3)},
		models.NewNumberCard(models.ColorRed, 5), "")

	require.NoError(t, g.PlayCard(players[0].ID, red7.ID, ""))

	ev := mb.findEvent(EventUnoAlert)
	require.NotNil(t, ev, "dropping to one card raises the alert")
	assert.Equal(t, players[0].ID.String(), ev.PlayerID)
}

func TestCallUno(t *testing.T) {
	g, players, mb := setupTestGame(t, 2)

	players[0].Hand = []*models.Card{models.NewNumberCard(models.ColorRed, 7)}
	rebaseline(g)
	require.NoError(t, g.CallUno(players[0].ID))
	assert.True(t, players[0].HasCalledUno)
	require.NotNil(t, mb.findEvent(EventUnoCalled))

	assert.ErrorIs(t, g.CallUno(players[1].ID), ErrCannotCallUno, "seven cards in hand cannot call UNO")
	assert.False(t, players[1].HasCalledUno)
}

// TestWinFinishesMatch plays the last card and checks the scoring sweep.
func TestWinFinishesMatch(t *testing.T) {
	g, players, mb := setupTestGame(t, 3)

	var endedRoom string
	var endedWinner uuid.UUID
	g.OnGameEnd = func(roomID string, winner uuid.UUID, scores map[uuid.UUID]int) {
		endedRoom = roomID
		endedWinner = winner
	}

	red7 := models.NewNumberCard(models.ColorRed, 7)
	rigTurn(g, 0, []*models.Card{red7}, models.NewNumberCard(models.ColorRed, 5), "")
	players[1].Hand = []*models.Card{
		models.NewNumberCard(models.ColorBlue, 9),
		models.NewActionCard(models.ColorGreen, models.TypeSkip),
	}
	players[2].Hand = []*models.Card{models.NewWildCard(models.TypeWild)}
	rebaseline(g)

	require.NoError(t, g.PlayCard(players[0].ID, red7.ID, ""))

	assert.Equal(t, models.StatusFinished, g.Status)
	assert.Equal(t, players[0].ID, g.WinnerID)
	assert.Equal(t, 0, players[0].Score)
	assert.Equal(t, 29, players[1].Score)
	assert.Equal(t, 50, players[2].Score)
	assert.Equal(t, "test-room", endedRoom)
	assert.Equal(t, players[0].ID, endedWinner)

	ev := mb.findEvent(EventGameFinished)
	require.NotNil(t, ev)
	assert.Equal(t, players[0].ID.String(), ev.Winner)
	assert.Equal(t, 29, ev.Scores[players[1].ID.String()])

	// The table is closed.
	assert.ErrorIs(t, g.PlayCard(players[1].ID, players[1].Hand[0].ID, ""), ErrGameNotInProgress)
	assert.ErrorIs(t, g.CallUno(players[2].ID), ErrGameNotInProgress)
}

// riggedWD4 puts seat 0 on turn holding a Wild Draw Four next to a red 5
// and plays it with the given declaration, opening the challenge window
// against seat 1.
func riggedWD4(t *testing.T, g *UnoGame, players []*models.Player, declared models.CardColor) {
	wd4 := models.NewWildCard(models.TypeWildDrawFour)
	rigTurn(g, 0, []*models.Card{wd4, models.NewNumberCard(models.ColorRed, 5)},
		models.NewNumberCard(models.ColorGreen, 3), "")
	require.NoError(t, g.PlayCard(players[0].ID, wd4.ID, declared))
	require.NotNil(t, g.Pending)
	require.Equal(t, players[1].ID, g.Pending.TargetID)
}

func TestChallengeSucceedsOnBluff(t *testing.T) {
	g, players, mb := setupTestGame(t, 3)
	// Declaring red while still holding a red card is a bluff.
	riggedWD4(t, g, players, models.ColorRed)

	require.NoError(t, g.Challenge(players[1].ID, players[0].ID))

	assert.Nil(t, g.Pending)
	assert.Len(t, players[0].Hand, 5, "the exposed bluffer draws four onto their remaining card")
	assert.Len(t, players[1].Hand, StartingHandSize, "the successful challenger draws nothing")
	assert.Equal(t, 1, g.CurrentPlayerIndex, "the challenger keeps their turn")

	ev := mb.findEvent(EventChallengeResult)
	require.NotNil(t, ev)
	require.NotNil(t, ev.ChallengeSucceeded)
	assert.True(t, *ev.ChallengeSucceeded)
	assert.Equal(t, players[1].ID.String(), ev.ChallengerID)
}

func TestChallengeFailsOnHonestPlay(t *testing.T) {
	g, players, mb := setupTestGame(t, 3)
	// No blue in the remaining hand: the play was honest.
	riggedWD4(t, g, players, models.ColorBlue)

	require.NoError(t, g.Challenge(players[1].ID, players[0].ID))

	assert.Nil(t, g.Pending)
	assert.Len(t, players[0].Hand, 1, "an honest player draws nothing")
	assert.Len(t, players[1].Hand, StartingHandSize+4, "the failed challenger draws four")
	assert.Equal(t, 2, g.CurrentPlayerIndex, "the failed challenger is skipped")

	ev := mb.findEvent(EventChallengeResult)
	require.NotNil(t, ev)
	require.NotNil(t, ev.ChallengeSucceeded)
	assert.False(t, *ev.ChallengeSucceeded)
}

func TestChallengeJudgedOnPlayTimeSnapshot(t *testing.T) {
	g, players, _ := setupTestGame(t, 3)
	riggedWD4(t, g, players, models.ColorRed)

	// The accused sheds the incriminating card before the challenge lands;
	// the verdict still comes from the hand as it was at play time.
	players[0].Hand = []*models.Card{models.NewNumberCard(models.ColorBlue, 2)}
	rebaseline(g)

	require.NoError(t, g.Challenge(players[1].ID, players[0].ID))
	assert.Len(t, players[0].Hand, 5, "the bluff is judged on the snapshot, not the live hand")
}

func TestChallengeGuards(t *testing.T) {
	g, players, _ := setupTestGame(t, 3)

	assert.ErrorIs(t, g.Challenge(players[1].ID, players[0].ID), ErrChallengeNotApplicable,
		"no window open")

	riggedWD4(t, g, players, models.ColorBlue)
	assert.ErrorIs(t, g.Challenge(players[2].ID, players[0].ID), ErrChallengeNotApplicable,
		"only the targeted seat may challenge")
	assert.ErrorIs(t, g.Challenge(players[1].ID, players[2].ID), ErrChallengeNotApplicable,
		"only the accused may be named")
	assert.NotNil(t, g.Pending, "rejected challenges leave the window open")
}

func TestPendingWindowBlocksOtherSeats(t *testing.T) {
	g, players, _ := setupTestGame(t, 3)
	riggedWD4(t, g, players, models.ColorBlue)

	err := g.PlayCard(players[2].ID, players[2].Hand[0].ID, "")
	assert.ErrorIs(t, err, ErrNotYourTurn)
	assert.NotNil(t, g.Pending)
}

func TestPendingResolvesWhenTargetActs(t *testing.T) {
	g, players, mb := setupTestGame(t, 3)
	riggedWD4(t, g, players, models.ColorBlue)

	// Acting instead of challenging forfeits the challenge: the standard
	// penalty applies first, then the intent is judged on the new state.
	_, _, err := g.DrawCard(players[1].ID)
	assert.ErrorIs(t, err, ErrNotYourTurn, "after resolution the skipped seat is off turn")
	assert.Nil(t, g.Pending)
	assert.Len(t, players[1].Hand, StartingHandSize+4)
	assert.Equal(t, 2, g.CurrentPlayerIndex)

	// The forfeit itself is announced, distinct from the rejected intent.
	ev := mb.findEvent(EventChallengeResult)
	require.NotNil(t, ev)
	assert.Nil(t, ev.ChallengeSucceeded, "an unchallenged resolution carries no verdict")
	assert.Equal(t, players[1].ID.String(), ev.PlayerID)
}

func TestPendingResolvesOnDeadline(t *testing.T) {
	g, players, mb := setupTestGame(t, 3)
	g.ChallengeWindow = 50 * time.Millisecond
	riggedWD4(t, g, players, models.ColorBlue)

	time.Sleep(200 * time.Millisecond)

	g.Mu.Lock()
	assert.Nil(t, g.Pending, "the window resolves itself at the deadline")
	assert.Len(t, players[1].Hand, StartingHandSize+4)
	assert.Equal(t, 2, g.CurrentPlayerIndex)
	g.Mu.Unlock()

	ev := mb.findEvent(EventChallengeResult)
	require.NotNil(t, ev, "the expiry is announced to the room")
	assert.Nil(t, ev.ChallengeSucceeded)
	assert.Equal(t, players[1].ID.String(), ev.PlayerID)
}

func TestDrawCardAndEndTurn(t *testing.T) {
	g, players, mb := setupTestGame(t, 3)
	before := cardTotal(g)

	assert.ErrorIs(t, g.EndTurn(players[0].ID), ErrCannotEndTurn, "passing without drawing is not allowed")

	_, _, err := g.DrawCard(players[1].ID)
	assert.ErrorIs(t, err, ErrNotYourTurn)

	card, _, err := g.DrawCard(players[0].ID)
	require.NoError(t, err)
	require.NotNil(t, card)
	assert.Len(t, players[0].Hand, StartingHandSize+1)
	assert.Equal(t, before, cardTotal(g))

	ev := mb.findEvent(EventCardDrawn)
	require.NotNil(t, ev)
	assert.Equal(t, players[0].ID.String(), ev.PlayerID)
	assert.Nil(t, ev.Card, "broadcasts never reveal the drawn card")

	require.NoError(t, g.EndTurn(players[0].ID))
	assert.Equal(t, 1, g.CurrentPlayerIndex)
	require.NotNil(t, mb.findEvent(EventTurnPassed))
}

func TestDrawReportsPlayability(t *testing.T) {
	g, players, _ := setupTestGame(t, 2)
	rigTurn(g, 0, []*models.Card{models.NewNumberCard(models.ColorBlue, 3)},
		models.NewNumberCard(models.ColorRed, 5), "")

	g.DrawPile = append(g.DrawPile, models.NewNumberCard(models.ColorRed, 9))
	rebaseline(g)
	_, playable, err := g.DrawCard(players[0].ID)
	require.NoError(t, err)
	assert.True(t, playable, "a red card plays on a red 5")

	g.drewThisTurn = false
	g.DrawPile = append(g.DrawPile, models.NewNumberCard(models.ColorGreen, 1))
	rebaseline(g)
	_, playable, err = g.DrawCard(players[0].ID)
	require.NoError(t, err)
	assert.False(t, playable, "a green 1 does not play on a red 5")
}

func TestDrawReshufflesDiscards(t *testing.T) {
	g, players, _ := setupTestGame(t, 2)
	top := models.NewNumberCard(models.ColorRed, 5)
	rigTurn(g, 0, []*models.Card{models.NewNumberCard(models.ColorBlue, 3)}, top, "")
	g.DrawPile = nil
	g.DiscardPile = []*models.Card{
		models.NewNumberCard(models.ColorGreen, 1),
		models.NewNumberCard(models.ColorGreen, 2),
		models.NewNumberCard(models.ColorGreen, 4),
		top, // top of the discard pile stays on the table
	}
	rebaseline(g)

	card, _, err := g.DrawCard(players[0].ID)
	require.NoError(t, err)
	require.NotNil(t, card)
	assert.Len(t, g.DrawPile, 2, "three discards folded back in, one drawn")
	assert.Len(t, g.DiscardPile, 1)
	assert.Equal(t, top.ID, g.DiscardPile[0].ID, "the face-up card never leaves the table")
	assert.Equal(t, top.ID, g.TopCard.ID)
}

func TestDrawExhausted(t *testing.T) {
	g, players, _ := setupTestGame(t, 2)
	top := models.NewNumberCard(models.ColorRed, 5)
	rigTurn(g, 0, []*models.Card{models.NewNumberCard(models.ColorBlue, 3)}, top, "")
	g.DrawPile = nil
	rebaseline(g)

	_, _, err := g.DrawCard(players[0].ID)
	assert.ErrorIs(t, err, ErrNoCardsAvailable)
	assert.Len(t, players[0].Hand, 1, "a failed draw leaves the hand alone")
	assert.Equal(t, 0, g.CurrentPlayerIndex)
}

func TestRemovePlayerReturnsHand(t *testing.T) {
	g, players, _ := setupTestGame(t, 3)
	before := cardTotal(g)
	drawBefore := len(g.DrawPile)

	g.RemovePlayer(players[2].ID)

	assert.Len(t, g.Players, 2)
	assert.Equal(t, before, cardTotal(g), "the departing hand returns to the table")
	assert.Equal(t, drawBefore+StartingHandSize, len(g.DrawPile))
	assert.Equal(t, models.StatusInProgress, g.Status)
}

func TestRemoveCurrentPlayerFixesTurn(t *testing.T) {
	g, players, _ := setupTestGame(t, 3)
	require.Equal(t, 0, g.CurrentPlayerIndex)

	g.RemovePlayer(players[0].ID)

	assert.Len(t, g.Players, 2)
	assert.Equal(t, players[1].ID, g.Players[g.CurrentPlayerIndex].ID, "the next seat inherits the turn")
}

func TestRemoveToLastPlayerFinishes(t *testing.T) {
	g, players, mb := setupTestGame(t, 2)

	g.RemovePlayer(players[1].ID)

	assert.Equal(t, models.StatusFinished, g.Status)
	assert.Equal(t, players[0].ID, g.WinnerID, "the last seat standing wins")
	require.NotNil(t, mb.findEvent(EventGameFinished))
}

func TestDisconnectKeepsSeat(t *testing.T) {
	g, players, mb := setupTestGame(t, 3)

	g.HandleDisconnect(players[1].ID)
	assert.False(t, players[1].Connected)
	assert.Len(t, players[1].Hand, StartingHandSize, "the hand survives the disconnect")
	assert.Len(t, g.Players, 3, "the seat survives the disconnect")

	g.HandleReconnect(players[1].ID, nil)
	assert.True(t, players[1].Connected)

	ev := mb.getLastPlayerEvent(players[1].ID)
	require.NotNil(t, ev, "a reconnect resyncs the private view")
	assert.Equal(t, EventGameStarted, ev.Type)
	assert.Len(t, ev.Hand, StartingHandSize)
}

func TestSnapshotHidesHands(t *testing.T) {
	g, players, _ := setupTestGame(t, 2)

	snap := g.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, models.StatusInProgress, snap.Status)
	require.Len(t, snap.Players, 2)
	for i, ps := range snap.Players {
		assert.Equal(t, players[i].ID.String(), ps.ID)
		assert.Equal(t, StartingHandSize, ps.HandSize)
	}
	assert.Equal(t, len(g.DrawPile), snap.DrawPileSize)
}
