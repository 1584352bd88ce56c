// internal/room/room.go
package room

import (
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/openuno/openuno/internal/game"
)

// Member is one player's presence in a room: identity, display name and
// the live transport session. Membership is connectivity bookkeeping,
// distinct from the in-game hand data the session controller owns.
type Member struct {
	PlayerID uuid.UUID
	Name     string
	Conn     *websocket.Conn
	JoinedAt time.Time
}

// Room groups the players sharing one match. The registry owns every Room
// for as long as it exists; a room that loses its last member is deleted
// through OnEmpty, as a hard invariant rather than best-effort cleanup.
type Room struct {
	ID        string
	CreatedAt time.Time

	// OnEmpty is called once membership drops to zero. Assigned by the
	// store that created the room, before anyone can join.
	OnEmpty func(roomID string)

	mu      sync.Mutex
	hostID  uuid.UUID
	members map[uuid.UUID]*Member
	order   []uuid.UUID // join order; drives host reassignment
	game    *game.UnoGame
}

func newRoom(id string) *Room {
	return &Room{
		ID:        id,
		CreatedAt: time.Now(),
		members:   make(map[uuid.UUID]*Member),
	}
}

// AddMember joins a player, or rebinds the connection of a player who is
// already a member. The first member becomes host. A full table rejects
// new joins; rebinds always succeed.
func (r *Room) AddMember(playerID uuid.UUID, name string, conn *websocket.Conn) (rejoined bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.members[playerID]; ok {
		m.Conn = conn
		m.Name = name
		return true, nil
	}
	if len(r.members) >= game.MaxPlayers {
		return false, game.ErrRoomFull
	}
	r.members[playerID] = &Member{
		PlayerID: playerID,
		Name:     name,
		Conn:     conn,
		JoinedAt: time.Now(),
	}
	r.order = append(r.order, playerID)
	if len(r.members) == 1 {
		r.hostID = playerID
	}
	return false, nil
}

// RemoveMember drops a player from the room. A departing host hands the
// role to the first remaining member in join order; the last member out
// triggers room deletion.
func (r *Room) RemoveMember(playerID uuid.UUID) (removed bool) {
	r.mu.Lock()
	if _, ok := r.members[playerID]; !ok {
		r.mu.Unlock()
		return false
	}
	delete(r.members, playerID)
	for i, id := range r.order {
		if id == playerID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	if r.hostID == playerID {
		if len(r.order) > 0 {
			r.hostID = r.order[0]
		} else {
			r.hostID = uuid.Nil
		}
	}
	empty := len(r.members) == 0
	onEmpty := r.OnEmpty
	r.mu.Unlock()

	if empty && onEmpty != nil {
		onEmpty(r.ID)
	}
	return true
}

// Has reports whether the player is currently a member.
func (r *Room) Has(playerID uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.members[playerID]
	return ok
}

// HostID returns the current host, or uuid.Nil for an empty room.
func (r *Room) HostID() uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hostID
}

// Members returns a value snapshot of the membership in join order, taken
// under the room lock. Callers read the snapshot freely; later rebinds
// mutate the live records, never the copies handed out here.
func (r *Room) Members() []Member {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Member, 0, len(r.members))
	for _, id := range r.order {
		if m, ok := r.members[id]; ok {
			out = append(out, *m)
		}
	}
	return out
}

// MemberCount returns the current membership size.
func (r *Room) MemberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members)
}

// Game returns the live match, or nil before start.
func (r *Room) Game() *game.UnoGame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game
}

// SetGame binds a match to the room if none exists yet and returns the
// bound instance, so concurrent start attempts converge on one game.
func (r *Room) SetGame(g *game.UnoGame) *game.UnoGame {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.game == nil {
		r.game = g
	}
	return r.game
}
