package model

import "time"

// TeamRanking is one team's final standing. Tied scores share a rank
// number and order stays stable with respect to team creation order.
type TeamRanking struct {
	Rank      int      `json:"rank"`
	TeamIndex int      `json:"teamIndex"`
	Name      string   `json:"name"`
	Score     int      `json:"score"`
	Players   []string `json:"players"`
}

// GameRecord archives a completed game for a room
type GameRecord struct {
	RoomCode     RoomCode      `json:"roomCode"`
	Rankings     []TeamRanking `json:"rankings"`
	WordsFound   []WordRecord  `json:"wordsFound"`
	WordsSkipped []WordRecord  `json:"wordsSkipped"`
	EndedEarly   bool          `json:"endedEarly"`
	CompletedAt  time.Time     `json:"completedAt"`
}
