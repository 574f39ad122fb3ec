package brackets

import "errors"

var (
	// ErrInvalidInput: fewer than two items, or items without unique ids.
	ErrInvalidInput = errors.New("invalid tournament input")
	// ErrMatchNotFound: the match id is not in the active round.
	ErrMatchNotFound = errors.New("match not found in current round")
	// ErrInvalidWinner: the winner occupies neither slot of the match.
	ErrInvalidWinner = errors.New("winner is not a participant of the match")
)
