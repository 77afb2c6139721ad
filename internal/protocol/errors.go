package protocol

import (
	"errors"

	"github.com/lcastelli/motdepasse-server/internal/model"
)

// Stable error codes reported alongside messages
const (
	CodeNotFound             = "NOT_FOUND"
	CodeRoomFull             = "ROOM_FULL"
	CodeAlreadyStarted       = "ALREADY_STARTED"
	CodeInvalidPhase         = "INVALID_PHASE"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeTeamLimitReached     = "TEAM_LIMIT_REACHED"
	CodeMinimumTeamsRequired = "MINIMUM_TEAMS_REQUIRED"
	CodeInvalidTeam          = "INVALID_TEAM"
	CodeWordBankExhausted    = "WORD_BANK_EXHAUSTED"
	CodeValidationError      = "VALIDATION_ERROR"
	CodeInternalError        = "INTERNAL_ERROR"
)

// ErrorPayloadFor maps an engine error to its wire representation.
// Every engine error is recoverable and reported only to the
// originating client; none tears down a room.
func ErrorPayloadFor(err error) ErrorPayload {
	switch {
	case errors.Is(err, model.ErrRoomNotFound):
		return ErrorPayload{CodeNotFound, "Room not found"}
	case errors.Is(err, model.ErrRoomFull):
		return ErrorPayload{CodeRoomFull, "Room is full"}
	case errors.Is(err, model.ErrAlreadyStarted):
		return ErrorPayload{CodeAlreadyStarted, "Game has already started"}
	case errors.Is(err, model.ErrInvalidPhase):
		return ErrorPayload{CodeInvalidPhase, "Action not valid in the current phase"}
	case errors.Is(err, model.ErrUnauthorized):
		return ErrorPayload{CodeUnauthorized, "You may not perform this action"}
	case errors.Is(err, model.ErrNotHost):
		return ErrorPayload{CodeUnauthorized, "Only the host can perform this action"}
	case errors.Is(err, model.ErrTeamLimitReached):
		return ErrorPayload{CodeTeamLimitReached, "A room holds at most four teams"}
	case errors.Is(err, model.ErrMinimumTeamsRequired):
		return ErrorPayload{CodeMinimumTeamsRequired, "A room needs at least two teams"}
	case errors.Is(err, model.ErrInvalidTeam):
		return ErrorPayload{CodeInvalidTeam, "Invalid team index"}
	case errors.Is(err, model.ErrWordBankExhausted):
		return ErrorPayload{CodeWordBankExhausted, "No eligible words remain"}
	case errors.Is(err, model.ErrValidation):
		return ErrorPayload{CodeValidationError, err.Error()}
	case errors.Is(err, model.ErrUnknownCategory):
		return ErrorPayload{CodeValidationError, err.Error()}
	case errors.Is(err, model.ErrPlayerNotFound):
		return ErrorPayload{CodeNotFound, "Player not found"}
	default:
		return ErrorPayload{CodeInternalError, "Internal server error"}
	}
}
