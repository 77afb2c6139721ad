package model

// RoundPhase represents the stage of one word's lifecycle
type RoundPhase string

const (
	RoundPhaseGivingClue RoundPhase = "giving-clue" // Giver composing a clue
	RoundPhaseGuessing   RoundPhase = "guessing"    // Guesser answering the latest clue
	RoundPhaseStealing   RoundPhase = "stealing"    // Opposing teams may answer
	RoundPhaseResult     RoundPhase = "result"      // Outcome shown, scoring applied
)

// MaxClues is the clue cap per round; a third failed guess opens the steal window.
const MaxClues = 3

// StealDuration is the steal window length in seconds
const StealDuration = 15

// ResultDisplaySeconds is how long the result summary shows before the
// session auto-advances; the host can continue earlier.
const ResultDisplaySeconds = 5

// Round tracks one secret word's clue/guess/steal lifecycle.
// The secret word itself never serializes into broadcasts; it is sent
// only to the giver via a unicast.
type Round struct {
	WordIndex       int        `json:"wordIndex"`
	ActiveTeamIndex int        `json:"activeTeamIndex"`
	GiverID         PlayerID   `json:"giverId"`
	GuesserID       PlayerID   `json:"guesserId"` // Empty in relay mode: any teammate may guess
	Word            Word       `json:"-"`
	Clues           []string   `json:"clues"`
	Phase           RoundPhase `json:"phase"`
	TimeLeft        int        `json:"timeLeft"`

	// Resolved guards scoring: exactly one award per round
	Resolved bool `json:"-"`
}

// CluesExhausted returns true when the clue cap has been reached
func (r *Round) CluesExhausted() bool {
	return len(r.Clues) >= MaxClues
}

// Game holds the playing-phase state layered over the room's teams
type Game struct {
	WordIndex       int `json:"wordIndex"` // 0-based, == words consumed so far
	TotalWords      int `json:"totalWords"`
	ActiveTeamIndex int `json:"activeTeamIndex"`

	Round *Round `json:"round,omitempty"`

	WordsFound   []WordRecord `json:"wordsFound"`
	WordsSkipped []WordRecord `json:"wordsSkipped"`

	// UsedWords prevents repetition within one game
	UsedWords map[string]struct{} `json:"-"`

	// EndedEarly is set when the word bank ran dry before TotalWords
	EndedEarly bool `json:"endedEarly,omitempty"`
}

// NewGame initializes playing-phase state for the given word budget
func NewGame(totalWords int) *Game {
	return &Game{
		TotalWords:   totalWords,
		WordsFound:   []WordRecord{},
		WordsSkipped: []WordRecord{},
		UsedWords:    make(map[string]struct{}),
	}
}

// Exclusions returns the set of words already played this game
func (g *Game) Exclusions() map[string]struct{} {
	return g.UsedWords
}

// MarkUsed records a word so it cannot be drawn again this game
func (g *Game) MarkUsed(w Word) {
	g.UsedWords[w.Text] = struct{}{}
}

// Complete returns true when every budgeted word has been played
func (g *Game) Complete() bool {
	return g.WordIndex >= g.TotalWords
}
