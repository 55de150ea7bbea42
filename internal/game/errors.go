package game

import "errors"

// Errors returned by engine actions. All of them leave the engine state
// untouched; wrap-aware callers should match with errors.Is.
var (
	ErrIllegalMove        = errors.New("game: illegal move")
	ErrMissingColorChoice = errors.New("game: wild card needs a color choice")
	ErrEmptyHand          = errors.New("game: hand is empty")
	ErrInvalidIndex       = errors.New("game: no card at index")
	ErrUnknownPlayer      = errors.New("game: unknown player")
	ErrHandOver           = errors.New("game: hand is over")
	ErrHandInProgress     = errors.New("game: hand still in progress")
	ErrMatchOver          = errors.New("game: match is over")
)
