package model

import "time"

// PlayerID uniquely identifies a player within a room.
// IDs are connection-scoped: a player who reconnects gets a new one.
type PlayerID string

// UnassignedTeam marks a player who has not been placed on a team yet.
const UnassignedTeam = -1

// Player represents a game participant
type Player struct {
	ID          PlayerID  `json:"id"`
	DisplayName string    `json:"displayName"`
	IsHost      bool      `json:"isHost"`
	TeamIndex   int       `json:"teamIndex"`
	JoinedAt    time.Time `json:"joinedAt"`
}

// OnTeam returns true if the player has been assigned to a team
func (p *Player) OnTeam() bool {
	return p.TeamIndex != UnassignedTeam
}
