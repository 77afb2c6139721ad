package teams

import (
	"fmt"

	"github.com/lcastelli/motdepasse-server/internal/model"
)

// Service manages team rosters and membership for a room. All methods
// mutate the room in place; the owning session serializes calls.
type Service struct{}

// New creates a new team manager Service
func New() *Service {
	return &Service{}
}

// InitTeams gives a fresh room its two starting teams
func (s *Service) InitTeams(room *model.Room) {
	room.Teams = nil
	for i := 0; i < model.MinTeams; i++ {
		name, color := model.NextTeamIdentity(room.Teams)
		room.Teams = append(room.Teams, model.Team{Name: name, Color: color, Members: []model.PlayerID{}})
	}
}

// AddPlayer registers the player and assigns them to the smallest team
// by membership, breaking ties toward the lowest team index
func (s *Service) AddPlayer(room *model.Room, player model.Player) error {
	if len(room.Players) >= model.MaxPlayers {
		return model.ErrRoomFull
	}

	idx := s.smallestTeam(room.Teams, -1)
	player.TeamIndex = idx
	room.Players = append(room.Players, player)
	room.Teams[idx].Members = append(room.Teams[idx].Members, player.ID)
	return nil
}

// ChangeTeam moves a player to another team. Only permitted in the
// lobby phase.
func (s *Service) ChangeTeam(room *model.Room, playerID model.PlayerID, newTeamIndex int) error {
	if room.Phase != model.RoomPhaseLobby {
		return model.ErrInvalidPhase
	}
	if newTeamIndex < 0 || newTeamIndex >= len(room.Teams) {
		return model.ErrInvalidTeam
	}

	player := room.GetPlayer(playerID)
	if player == nil {
		return model.ErrPlayerNotFound
	}
	if player.TeamIndex == newTeamIndex {
		return nil
	}

	if player.OnTeam() {
		room.Teams[player.TeamIndex].RemoveMember(playerID)
	}
	room.Teams[newTeamIndex].Members = append(room.Teams[newTeamIndex].Members, playerID)
	player.TeamIndex = newTeamIndex
	return nil
}

// AddTeam appends a new team with the next unused palette identity.
// Capped at model.MaxTeams; lobby phase only.
func (s *Service) AddTeam(room *model.Room) error {
	if room.Phase != model.RoomPhaseLobby {
		return model.ErrInvalidPhase
	}
	if len(room.Teams) >= model.MaxTeams {
		return model.ErrTeamLimitReached
	}

	name, color := model.NextTeamIdentity(room.Teams)
	room.Teams = append(room.Teams, model.Team{Name: name, Color: color, Members: []model.PlayerID{}})
	return nil
}

// RemoveTeam deletes a team and redistributes its members to the
// smallest remaining teams. A room never drops below model.MinTeams.
func (s *Service) RemoveTeam(room *model.Room, teamIndex int) error {
	if room.Phase != model.RoomPhaseLobby {
		return model.ErrInvalidPhase
	}
	if len(room.Teams) <= model.MinTeams {
		return model.ErrMinimumTeamsRequired
	}
	if teamIndex < 0 || teamIndex >= len(room.Teams) {
		return model.ErrInvalidTeam
	}

	displaced := room.Teams[teamIndex].Members
	room.Teams = append(room.Teams[:teamIndex], room.Teams[teamIndex+1:]...)

	// Players on later teams shift down one index
	for i := range room.Players {
		if room.Players[i].TeamIndex > teamIndex {
			room.Players[i].TeamIndex--
		}
	}

	for _, id := range displaced {
		idx := s.smallestTeam(room.Teams, -1)
		room.Teams[idx].Members = append(room.Teams[idx].Members, id)
		if p := room.GetPlayer(id); p != nil {
			p.TeamIndex = idx
		}
	}
	return nil
}

// RemovePlayer drops a player from the room and their team. If the
// host left, the next-joined remaining player becomes host; the new
// host ID is returned (empty when the host did not change or the room
// emptied).
func (s *Service) RemovePlayer(room *model.Room, playerID model.PlayerID) (newHost model.PlayerID) {
	player := room.GetPlayer(playerID)
	if player == nil {
		return ""
	}

	wasHost := player.IsHost
	if player.OnTeam() {
		room.Teams[player.TeamIndex].RemoveMember(playerID)
	}
	for i := range room.Players {
		if room.Players[i].ID == playerID {
			room.Players = append(room.Players[:i], room.Players[i+1:]...)
			break
		}
	}

	if wasHost && len(room.Players) > 0 {
		// Players keep join order, so the first entry is next-joined
		room.Players[0].IsHost = true
		room.HostID = room.Players[0].ID
		return room.Players[0].ID
	}
	return ""
}

// ValidateStartPreconditions reports every violated start constraint
// so the host sees all problems at once. An empty slice means the
// game may start.
func (s *Service) ValidateStartPreconditions(room *model.Room) []string {
	var violations []string

	if len(room.Teams) < model.MinTeams {
		violations = append(violations, fmt.Sprintf("at least %d teams are required", model.MinTeams))
	}
	for i, t := range room.Teams {
		if len(t.Members) == 0 {
			violations = append(violations, fmt.Sprintf("team %q (index %d) has no players", t.Name, i))
		}
	}
	if len(room.Players) < 2 {
		violations = append(violations, "at least 2 players are required")
	}
	return violations
}

// smallestTeam returns the index of the team with the fewest members,
// ties broken toward the lowest index. skip excludes a team index
// (pass -1 for none).
func (s *Service) smallestTeam(teams []model.Team, skip int) int {
	best := -1
	for i := range teams {
		if i == skip {
			continue
		}
		if best == -1 || len(teams[i].Members) < len(teams[best].Members) {
			best = i
		}
	}
	return best
}

// Interface for dependency injection
type ServiceInterface interface {
	InitTeams(room *model.Room)
	AddPlayer(room *model.Room, player model.Player) error
	ChangeTeam(room *model.Room, playerID model.PlayerID, newTeamIndex int) error
	AddTeam(room *model.Room) error
	RemoveTeam(room *model.Room, teamIndex int) error
	RemovePlayer(room *model.Room, playerID model.PlayerID) model.PlayerID
	ValidateStartPreconditions(room *model.Room) []string
}

var _ ServiceInterface = (*Service)(nil)
