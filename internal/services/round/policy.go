package round

import (
	"github.com/lcastelli/motdepasse-server/internal/model"
)

// RolePolicy decides who gives clues and who guesses when a team
// becomes active. The two observed client variants differ here, so
// role assignment is pluggable rather than hardcoded.
type RolePolicy interface {
	// Assign picks the giver and guesser from the team's members for
	// its turn number. An empty guesser means any non-giver teammate
	// may guess.
	Assign(team *model.Team, turn int) (giver, guesser model.PlayerID)
}

// ClassicPolicy is the canonical mode: typed clues with a dedicated
// guesser. The giver rotates round-robin across the team's members
// each time the team becomes active; the guesser is the next member
// after the giver, so on a two-player team the roles alternate.
type ClassicPolicy struct{}

func (ClassicPolicy) Assign(team *model.Team, turn int) (model.PlayerID, model.PlayerID) {
	n := len(team.Members)
	if n == 0 {
		return "", ""
	}
	giver := team.Members[turn%n]
	if n == 1 {
		return giver, ""
	}
	return giver, team.Members[(turn+1)%n]
}

// RelayPolicy is the physical variant: the giver speaks freely and any
// non-giver teammate may claim the word, so no dedicated guesser is
// assigned.
type RelayPolicy struct{}

func (RelayPolicy) Assign(team *model.Team, turn int) (model.PlayerID, model.PlayerID) {
	n := len(team.Members)
	if n == 0 {
		return "", ""
	}
	return team.Members[turn%n], ""
}

// PolicyFor returns the role policy for a game mode
func PolicyFor(mode model.GameMode) RolePolicy {
	if mode == model.ModeRelay {
		return RelayPolicy{}
	}
	return ClassicPolicy{}
}
