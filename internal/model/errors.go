package model

import "errors"

// Common errors used across the application. All are recoverable and
// reported only to the offending client; none tear down a room.
var (
	// Registry errors
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomFull         = errors.New("room is full")
	ErrAlreadyStarted   = errors.New("game has already started")
	ErrNoCodesAvailable = errors.New("no room codes available")

	// Membership errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrNotHost        = errors.New("player is not the host")

	// Team errors
	ErrTeamLimitReached     = errors.New("team limit reached")
	ErrMinimumTeamsRequired = errors.New("a room needs at least two teams")
	ErrInvalidTeam          = errors.New("invalid team index")

	// Round errors
	ErrInvalidPhase = errors.New("action not valid in the current phase")
	ErrUnauthorized = errors.New("player may not perform this action")
	ErrValidation   = errors.New("invalid input")

	// Word bank errors
	ErrWordBankExhausted = errors.New("no eligible words remain")
	ErrUnknownCategory   = errors.New("unknown word category")

	// Storage errors
	ErrRecordNotFound = errors.New("game record not found")
)
