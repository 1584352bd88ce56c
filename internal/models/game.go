// internal/models/game.go
package models

// Direction is the orientation the turn order walks the seat ring.
type Direction string

const (
	Clockwise        Direction = "clockwise"
	CounterClockwise Direction = "counterClockwise"
)

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Clockwise {
		return CounterClockwise
	}
	return Clockwise
}

// GameStatus is the coarse lifecycle of a match.
type GameStatus string

const (
	StatusWaiting    GameStatus = "waiting"
	StatusInProgress GameStatus = "inProgress"
	StatusFinished   GameStatus = "finished"
)
