// internal/room/room_store.go
package room

import (
	"log"
	"sync"
)

// Store is the process-wide registry of live rooms, keyed by room id.
// It is created at startup and owned by the session gateway; there is no
// ambient global.
type Store struct {
	mu    sync.Mutex
	rooms map[string]*Room

	// OnDelete is invoked after a room leaves the registry, letting the
	// gateway tear down transport resources bound to the id.
	OnDelete func(roomID string)
}

// NewStore initializes an empty registry.
func NewStore() *Store {
	return &Store{
		rooms: make(map[string]*Room),
	}
}

// CreateOrGet returns the room with the given id, creating an empty shell
// when none exists. Creation wires the empty-room teardown invariant.
func (s *Store) CreateOrGet(id string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.rooms[id]; ok {
		return r, false
	}
	r := newRoom(id)
	r.OnEmpty = func(roomID string) { s.Delete(roomID) }
	s.rooms[id] = r
	log.Printf("room store: created room %s", id)
	return r, true
}

// Get retrieves a room by id.
func (s *Store) Get(id string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	return r, ok
}

// Delete removes a room from the registry.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	_, ok := s.rooms[id]
	if ok {
		delete(s.rooms, id)
		log.Printf("room store: deleted room %s", id)
	}
	onDelete := s.OnDelete
	s.mu.Unlock()

	if ok && onDelete != nil {
		onDelete(id)
	}
}

// Rooms returns a copy of the registry so callers can iterate without
// racing mutations.
func (s *Store) Rooms() map[string]*Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]*Room, len(s.rooms))
	for k, v := range s.rooms {
		out[k] = v
	}
	return out
}
