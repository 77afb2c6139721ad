package model

// Team count bounds for a room
const (
	MinTeams = 2
	MaxTeams = 4
)

// Team groups players competing together. Scores never decrease
// during a game; they reset to zero on play-again.
type Team struct {
	Name    string     `json:"name"`
	Color   string     `json:"color"`
	Members []PlayerID `json:"members"`
	Score   int        `json:"score"`

	// TurnCount is how many times this team has been the active team.
	// It drives giver/guesser rotation within the team.
	TurnCount int `json:"turnCount"`
}

// HasMember returns true if the player is on this team
func (t *Team) HasMember(id PlayerID) bool {
	for _, m := range t.Members {
		if m == id {
			return true
		}
	}
	return false
}

// RemoveMember deletes the player from the team roster if present
func (t *Team) RemoveMember(id PlayerID) {
	for i, m := range t.Members {
		if m == id {
			t.Members = append(t.Members[:i], t.Members[i+1:]...)
			return
		}
	}
}

// teamPalette provides deterministic name/color pairs for new teams.
// AddTeam picks the first entry not already in use.
var teamPalette = []struct {
	Name  string
	Color string
}{
	{"Red", "#FF4444"},
	{"Blue", "#4488FF"},
	{"Green", "#00CC66"},
	{"Gold", "#FFD700"},
}

// NextTeamIdentity returns the first palette name/color not used by
// the given teams. Callers must enforce MaxTeams before asking.
func NextTeamIdentity(existing []Team) (name, color string) {
	for _, p := range teamPalette {
		used := false
		for _, t := range existing {
			if t.Name == p.Name {
				used = true
				break
			}
		}
		if !used {
			return p.Name, p.Color
		}
	}
	// All palette entries in use; callers capped at MaxTeams never get here.
	return teamPalette[0].Name, teamPalette[0].Color
}
