package protocol

import (
	"encoding/json"

	"github.com/lcastelli/motdepasse-server/internal/model"
	"github.com/lcastelli/motdepasse-server/internal/services/round"
)

// Envelope frames every message in both directions
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Client -> server event names
const (
	EventCreateRoom     = "create-room"
	EventJoinRoom       = "join-room"
	EventLeaveRoom      = "leave-room"
	EventUpdateSettings = "update-settings"
	EventChangeTeam     = "change-team"
	EventAddTeam        = "add-team"
	EventRemoveTeam     = "remove-team"
	EventStartGame      = "start-game"
	EventGiveClue       = "give-clue"
	EventGuess          = "guess"
	EventSteal          = "steal"
	EventContinueGame   = "continue-game"
	EventPlayAgain      = "play-again"
)

// Server -> client event names
const (
	EventRoomCreated     = "room-created"
	EventRoomJoined      = "room-joined"
	EventPlayerJoined    = "player-joined"
	EventPlayerLeft      = "player-left"
	EventSettingsUpdated = "settings-updated"
	EventTeamsUpdated    = "teams-updated"
	EventGameStarted     = "game-started"
	EventGameStateUpdate = "game-state-update"
	EventCurrentWord     = "current-word"
	EventTimerTick       = "timer-tick"
	EventRoundResult     = "round-result"
	EventGameOver        = "game-over"
	EventGameReset       = "game-reset"
	EventError           = "error"
)

// Client -> server payloads

type CreateRoomPayload struct {
	PlayerName string `json:"playerName"`
}

type JoinRoomPayload struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
}

type UpdateSettingsPayload struct {
	Settings model.SettingsPatch `json:"settings"`
}

type ChangeTeamPayload struct {
	PlayerID     model.PlayerID `json:"playerId"`
	NewTeamIndex int            `json:"newTeamIndex"`
}

type RemoveTeamPayload struct {
	TeamIndex int `json:"teamIndex"`
}

type GiveCluePayload struct {
	Clue string `json:"clue"`
}

type GuessPayload struct {
	Answer string `json:"answer"`
}

type StealPayload struct {
	Answer string `json:"answer"`
}

// Server -> client payloads

// RoomCreatedPayload is unicast to the creator; RoomJoinedPayload to a
// joiner. Both carry the full authoritative room snapshot so clients
// never reconstruct state from partial updates.
type RoomCreatedPayload struct {
	Code   model.RoomCode `json:"code"`
	Player model.Player   `json:"player"`
	Room   model.Room     `json:"room"`
}

type RoomJoinedPayload struct {
	Code   model.RoomCode `json:"code"`
	Player model.Player   `json:"player"`
	Room   model.Room     `json:"room"`
}

type PlayerJoinedPayload struct {
	Players []model.Player `json:"players"`
	Teams   []model.Team   `json:"teams"`
}

type PlayerLeftPayload struct {
	Players   []model.Player `json:"players"`
	Teams     []model.Team   `json:"teams"`
	NewHostID model.PlayerID `json:"newHostId,omitempty"`
}

type SettingsUpdatedPayload struct {
	Settings model.Settings `json:"settings"`
}

type TeamsUpdatedPayload struct {
	Players []model.Player `json:"players"`
	Teams   []model.Team   `json:"teams"`
}

// GameStatePayload is the full room snapshot, broadcast on game start
// and on every phase or round transition. The secret word is excluded
// by serialization and only ever travels via CurrentWordPayload.
type GameStatePayload struct {
	Room model.Room `json:"room"`
}

// CurrentWordPayload is unicast to the current giver only
type CurrentWordPayload struct {
	Word     string            `json:"word"`
	Category model.CategoryKey `json:"category"`
	Emoji    string            `json:"emoji"`
}

type TimerTickPayload struct {
	TimeLeft int `json:"timeLeft"`
}

// RoundResultPayload mirrors round.Outcome on the wire
type RoundResultPayload = round.Outcome

type GameOverPayload struct {
	Rankings   []model.TeamRanking `json:"rankings"`
	EndedEarly bool                `json:"endedEarly,omitempty"`
}

type GameResetPayload struct {
	Players  []model.Player `json:"players"`
	Teams    []model.Team   `json:"teams"`
	Settings model.Settings `json:"settings"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Encode wraps an event and payload into a marshaled envelope
func Encode(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: data})
}

// Decode parses a raw frame into an envelope
func Decode(frame []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return Envelope{}, err
	}
	return env, nil
}
