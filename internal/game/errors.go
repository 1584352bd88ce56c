// internal/game/errors.go
package game

// Error is a rule violation with a stable machine-readable code. Every
// violated precondition returns one of these and leaves the game state
// untouched; the gateway embeds the code in the rejecting ack and never
// broadcasts it.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return e.Message }

var (
	ErrRoomNotFound            = &Error{Code: "RoomNotFound", Message: "room does not exist"}
	ErrNotEnoughPlayers        = &Error{Code: "NotEnoughPlayers", Message: "at least 2 players are required to start"}
	ErrRoomFull                = &Error{Code: "RoomFull", Message: "the table is already at the 10 player maximum"}
	ErrGameAlreadyStarted      = &Error{Code: "GameAlreadyStarted", Message: "the match has already started"}
	ErrGameNotInProgress       = &Error{Code: "GameNotInProgress", Message: "no match is in progress"}
	ErrNotYourTurn             = &Error{Code: "NotYourTurn", Message: "it is not your turn"}
	ErrCardNotInHand           = &Error{Code: "CardNotInHand", Message: "card is not in your hand"}
	ErrInvalidMove             = &Error{Code: "InvalidMove", Message: "card cannot be played on the current top card"}
	ErrMissingColorDeclaration = &Error{Code: "MissingColorDeclaration", Message: "a wild card needs a declared color"}
	ErrCannotCallUno           = &Error{Code: "CannotCallUno", Message: "UNO can only be called with exactly one card in hand"}
	ErrNoCardsAvailable        = &Error{Code: "NoCardsAvailable", Message: "draw pile and discard pile are both exhausted"}
	ErrChallengeNotApplicable  = &Error{Code: "ChallengeNotApplicable", Message: "there is no challengeable play pending"}
	ErrCannotEndTurn           = &Error{Code: "CannotEndTurn", Message: "you must draw before passing"}
)
