package scoring

import (
	"sort"

	"github.com/lcastelli/motdepasse-server/internal/model"
)

// Service is the scoring ledger: the only mutator of team scores and
// the source of the final rankings.
type Service struct{}

// New creates a new scoring Service
func New() *Service {
	return &Service{}
}

// Award credits points to a team. Scores never decrease mid-game.
func (s *Service) Award(room *model.Room, teamIndex, points int) {
	if teamIndex < 0 || teamIndex >= len(room.Teams) || points <= 0 {
		return
	}
	room.Teams[teamIndex].Score += points
}

// ResetScores zeroes every team's score and turn counter (play-again)
func (s *Service) ResetScores(room *model.Room) {
	for i := range room.Teams {
		room.Teams[i].Score = 0
		room.Teams[i].TurnCount = 0
	}
}

// ComputeRankings sorts teams by score descending. Tied teams share a
// rank number (1224 ranking) and keep team-creation order, so the
// output is deterministic for identical score inputs.
func (s *Service) ComputeRankings(room *model.Room) []model.TeamRanking {
	rankings := make([]model.TeamRanking, 0, len(room.Teams))
	for i, t := range room.Teams {
		names := make([]string, 0, len(t.Members))
		for _, id := range t.Members {
			if p := room.GetPlayer(id); p != nil {
				names = append(names, p.DisplayName)
			}
		}
		rankings = append(rankings, model.TeamRanking{
			TeamIndex: i,
			Name:      t.Name,
			Score:     t.Score,
			Players:   names,
		})
	}

	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].Score > rankings[j].Score
	})

	for i := range rankings {
		if i > 0 && rankings[i].Score == rankings[i-1].Score {
			rankings[i].Rank = rankings[i-1].Rank
		} else {
			rankings[i].Rank = i + 1
		}
	}
	return rankings
}

// Interface for dependency injection
type ServiceInterface interface {
	Award(room *model.Room, teamIndex, points int)
	ResetScores(room *model.Room)
	ComputeRankings(room *model.Room) []model.TeamRanking
}

var _ ServiceInterface = (*Service)(nil)
