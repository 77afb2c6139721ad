package model

// Clone makes a deep copy of the room, safe to hand outside the
// owning session's goroutine (snapshots for broadcasts and queries)
func (r *Room) Clone() *Room {
	c := *r

	c.Players = make([]Player, len(r.Players))
	copy(c.Players, r.Players)

	c.Teams = make([]Team, len(r.Teams))
	for i, t := range r.Teams {
		ct := t
		ct.Members = make([]PlayerID, len(t.Members))
		copy(ct.Members, t.Members)
		c.Teams[i] = ct
	}

	c.Settings.Categories = make([]CategoryKey, len(r.Settings.Categories))
	copy(c.Settings.Categories, r.Settings.Categories)

	if r.Game != nil {
		g := *r.Game
		g.WordsFound = make([]WordRecord, len(r.Game.WordsFound))
		copy(g.WordsFound, r.Game.WordsFound)
		g.WordsSkipped = make([]WordRecord, len(r.Game.WordsSkipped))
		copy(g.WordsSkipped, r.Game.WordsSkipped)
		g.UsedWords = make(map[string]struct{}, len(r.Game.UsedWords))
		for w := range r.Game.UsedWords {
			g.UsedWords[w] = struct{}{}
		}
		if r.Game.Round != nil {
			round := *r.Game.Round
			round.Clues = make([]string, len(r.Game.Round.Clues))
			copy(round.Clues, r.Game.Round.Clues)
			g.Round = &round
		}
		c.Game = &g
	}

	return &c
}
