package model

// CategoryKey identifies a word category (e.g. "animals", "food")
type CategoryKey string

// Word is a secret word the active team must name. The emoji is
// decorative and travels with the word to the giver's client.
type Word struct {
	Text     string      `json:"text"`
	Category CategoryKey `json:"category"`
	Emoji    string      `json:"emoji"`
}

// WordRecord is one entry in the per-game found/skipped log
type WordRecord struct {
	Word     string      `json:"word"`
	Category CategoryKey `json:"category"`
	// FoundBy is empty when the word was skipped or timed out
	FoundBy          PlayerID `json:"foundBy,omitempty"`
	FoundByTeamIndex int      `json:"foundByTeamIndex"`
}
