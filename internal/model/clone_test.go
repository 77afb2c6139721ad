package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRoom() *Room {
	return &Room{
		Code:   "ABCD",
		Phase:  RoomPhasePlaying,
		HostID: "a",
		Players: []Player{
			{ID: "a", DisplayName: "Alice", IsHost: true, TeamIndex: 0},
			{ID: "b", DisplayName: "Bob", TeamIndex: 1},
		},
		Teams: []Team{
			{Name: "Red", Members: []PlayerID{"a"}, Score: 2},
			{Name: "Blue", Members: []PlayerID{"b"}},
		},
		Settings: Settings{
			WordsPerRound: 10,
			TimerDuration: 30,
			Categories:    []CategoryKey{"animals", "food"},
			Mode:          ModeClassic,
		},
		Game: &Game{
			WordIndex:       1,
			TotalWords:      10,
			ActiveTeamIndex: 1,
			Round: &Round{
				WordIndex: 1,
				GiverID:   "b",
				Word:      Word{Text: "chat", Category: "animals"},
				Clues:     []string{"félin"},
				Phase:     RoundPhaseGuessing,
			},
			WordsFound: []WordRecord{{Word: "pomme", Category: "food", FoundBy: "a"}},
			UsedWords:  map[string]struct{}{"pomme": {}, "chat": {}},
		},
	}
}

func TestCloneEquals(t *testing.T) {
	room := sampleRoom()
	assert.Equal(t, room, room.Clone())
}

func TestCloneIsDeep(t *testing.T) {
	room := sampleRoom()
	c := room.Clone()

	c.Players[0].DisplayName = "Mallory"
	c.Teams[0].Members[0] = "x"
	c.Teams[1].Score = 99
	c.Settings.Categories[0] = "planets"
	c.Game.Round.Clues[0] = "changed"
	c.Game.WordsFound[0].Word = "changed"
	c.Game.UsedWords["extra"] = struct{}{}

	assert.Equal(t, "Alice", room.Players[0].DisplayName)
	assert.Equal(t, PlayerID("a"), room.Teams[0].Members[0])
	assert.Zero(t, room.Teams[1].Score)
	assert.Equal(t, CategoryKey("animals"), room.Settings.Categories[0])
	assert.Equal(t, "félin", room.Game.Round.Clues[0])
	assert.Equal(t, "pomme", room.Game.WordsFound[0].Word)
	assert.Len(t, room.Game.UsedWords, 2)
}

func TestCloneWithoutGame(t *testing.T) {
	room := sampleRoom()
	room.Game = nil

	c := room.Clone()
	require.Nil(t, c.Game)
}
