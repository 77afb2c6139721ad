package model

import "time"

// RoomCode is the short human-shareable identifier used to join a room
type RoomCode string

// RoomPhase represents the room-level lifecycle stage
type RoomPhase string

const (
	RoomPhaseLobby    RoomPhase = "lobby"    // Gathering players, settings mutable
	RoomPhasePlaying  RoomPhase = "playing"  // Game in progress
	RoomPhaseFinished RoomPhase = "finished" // Game over, rankings shown
)

// GameMode selects the role-assignment variant
type GameMode string

const (
	// ModeClassic: typed clues, dedicated guesser, opposing steal window
	ModeClassic GameMode = "classic"
	// ModeRelay: giver sees the word, any non-giver teammate may guess
	ModeRelay GameMode = "relay"
)

// Legal values for enumerated settings
var (
	AllowedWordsPerRound  = []int{5, 10, 15, 20}
	AllowedTimerDurations = []int{30, 45, 60}
)

// Settings holds the host-configurable game parameters
type Settings struct {
	WordsPerRound    int           `json:"wordsPerRound"`
	TimerDuration    int           `json:"timerDuration"` // Seconds for the clue/guess window
	Categories       []CategoryKey `json:"categories"`    // Active categories, at least 2
	Mode             GameMode      `json:"mode"`
	ForbidWordInClue bool          `json:"forbidWordInClue"`
}

// DefaultSettings returns the settings a fresh room starts with
func DefaultSettings(categories []CategoryKey) Settings {
	return Settings{
		WordsPerRound:    10,
		TimerDuration:    30,
		Categories:       categories,
		Mode:             ModeClassic,
		ForbidWordInClue: true,
	}
}

// SettingsPatch carries a partial settings update; nil fields are unchanged
type SettingsPatch struct {
	WordsPerRound    *int          `json:"wordsPerRound,omitempty"`
	TimerDuration    *int          `json:"timerDuration,omitempty"`
	Categories       []CategoryKey `json:"categories,omitempty"`
	Mode             *GameMode     `json:"mode,omitempty"`
	ForbidWordInClue *bool         `json:"forbidWordInClue,omitempty"`
}

// MaxPlayers caps room membership
const MaxPlayers = 8

// Room is the authoritative state for one session of the game
type Room struct {
	Code     RoomCode  `json:"code"`
	Phase    RoomPhase `json:"phase"`
	HostID   PlayerID  `json:"hostId"`
	Players  []Player  `json:"players"`
	Teams    []Team    `json:"teams"`
	Settings Settings  `json:"settings"`

	// Game is non-nil while Phase is playing or finished
	Game *Game `json:"game,omitempty"`

	CreatedAt    time.Time `json:"createdAt"`
	LastActivity time.Time `json:"lastActivity"`
}

// GetPlayer returns the player with the given ID, or nil if absent
func (r *Room) GetPlayer(id PlayerID) *Player {
	for i := range r.Players {
		if r.Players[i].ID == id {
			return &r.Players[i]
		}
	}
	return nil
}

// IsHost reports whether the given player is the room host
func (r *Room) IsHost(id PlayerID) bool {
	return r.HostID == id && r.GetPlayer(id) != nil
}

// TeamOf returns the team index for the player, or UnassignedTeam
func (r *Room) TeamOf(id PlayerID) int {
	p := r.GetPlayer(id)
	if p == nil {
		return UnassignedTeam
	}
	return p.TeamIndex
}
