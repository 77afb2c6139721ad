package round

import (
	"log/slog"
	"strings"

	"github.com/lcastelli/motdepasse-server/internal/model"
	"github.com/lcastelli/motdepasse-server/internal/services/scoring"
	"github.com/lcastelli/motdepasse-server/internal/services/wordbank"
)

// Input length caps; anything beyond is rejected, not truncated
const (
	maxClueLen   = 50
	maxAnswerLen = 64
)

// Outcome describes how a round resolved
type Outcome struct {
	Correct      bool           `json:"correct"`
	Stolen       bool           `json:"stolen"`
	Word         string         `json:"word"`
	CreditedTeam int            `json:"creditedTeam"` // -1 when nobody scored
	FoundBy      model.PlayerID `json:"foundBy,omitempty"`
}

// Transition reports the phase a machine operation entered, plus the
// outcome when the round resolved. The session uses it to drive
// timers and broadcasts.
type Transition struct {
	Phase   model.RoundPhase
	Outcome *Outcome
}

// Machine drives one round's phases for the currently active team.
// It mutates room state in place and is free of goroutines and
// timers; the owning session serializes calls and owns the clock.
type Machine struct {
	wordBank wordbank.ServiceInterface
	scoring  scoring.ServiceInterface
	logger   *slog.Logger
}

// NewMachine creates a round state machine
func NewMachine(wordBank wordbank.ServiceInterface, scoring scoring.ServiceInterface, logger *slog.Logger) *Machine {
	return &Machine{
		wordBank: wordBank,
		scoring:  scoring,
		logger:   logger,
	}
}

// Start begins a new round for the game's active team: draws a word,
// assigns roles, and enters giving-clue. Returns
// model.ErrWordBankExhausted when no eligible word remains, which the
// caller treats as a forced game end, not a crash.
func (m *Machine) Start(room *model.Room) error {
	game := room.Game

	word, err := m.wordBank.DrawWord(room.Settings.Categories, game.Exclusions())
	if err != nil {
		return err
	}
	game.MarkUsed(word)

	team := &room.Teams[game.ActiveTeamIndex]
	giver, guesser := PolicyFor(room.Settings.Mode).Assign(team, team.TurnCount)
	team.TurnCount++

	game.Round = &model.Round{
		WordIndex:       game.WordIndex,
		ActiveTeamIndex: game.ActiveTeamIndex,
		GiverID:         giver,
		GuesserID:       guesser,
		Word:            word,
		Clues:           []string{},
		Phase:           model.RoundPhaseGivingClue,
		TimeLeft:        room.Settings.TimerDuration,
	}

	m.logger.Info("round started",
		slog.String("room", string(room.Code)),
		slog.Int("word_index", game.WordIndex),
		slog.Int("active_team", game.ActiveTeamIndex),
		slog.String("giver", string(giver)),
		slog.String("category", string(word.Category)),
	)
	return nil
}

// GiveClue appends a clue from the giver and moves to guessing. The
// turn timer window resets on every clue.
func (m *Machine) GiveClue(room *model.Room, playerID model.PlayerID, clue string) (Transition, error) {
	r := room.Game.Round
	if r == nil || r.Phase != model.RoundPhaseGivingClue {
		return Transition{}, model.ErrInvalidPhase
	}
	if playerID != r.GiverID {
		return Transition{}, model.ErrUnauthorized
	}

	clue = strings.TrimSpace(clue)
	if clue == "" || len(clue) > maxClueLen {
		return Transition{}, model.ErrValidation
	}
	if room.Settings.ForbidWordInClue && revealsWord(clue, r.Word.Text) {
		return Transition{}, model.ErrValidation
	}

	r.Clues = append(r.Clues, clue)
	r.Phase = model.RoundPhaseGuessing
	return Transition{Phase: model.RoundPhaseGuessing}, nil
}

// Guess checks the guesser's answer against the secret word. A match
// resolves the round for the active team; a miss returns to
// giving-clue while clues remain, or opens the steal window once the
// clue cap is reached.
func (m *Machine) Guess(room *model.Room, playerID model.PlayerID, answer string) (Transition, error) {
	r := room.Game.Round
	if r == nil || r.Phase != model.RoundPhaseGuessing {
		return Transition{}, model.ErrInvalidPhase
	}
	if !m.mayGuess(room, r, playerID) {
		return Transition{}, model.ErrUnauthorized
	}

	answer = strings.TrimSpace(answer)
	if answer == "" || len(answer) > maxAnswerLen {
		return Transition{}, model.ErrValidation
	}

	if matches(answer, r.Word.Text) {
		return m.resolve(room, &Outcome{
			Correct:      true,
			Word:         r.Word.Text,
			CreditedTeam: r.ActiveTeamIndex,
			FoundBy:      playerID,
		}), nil
	}

	if r.CluesExhausted() {
		r.Phase = model.RoundPhaseStealing
		return Transition{Phase: model.RoundPhaseStealing}, nil
	}
	r.Phase = model.RoundPhaseGivingClue
	return Transition{Phase: model.RoundPhaseGivingClue}, nil
}

// Steal checks an opposing player's answer during the steal window.
// Members of the active team are always rejected, regardless of timer
// state. Either a match or a miss closes the window.
func (m *Machine) Steal(room *model.Room, playerID model.PlayerID, answer string) (Transition, error) {
	game := room.Game
	r := game.Round

	// Authorization is checked before phase so an active-team member
	// probing the steal window always sees Unauthorized
	teamIdx := room.TeamOf(playerID)
	if teamIdx == model.UnassignedTeam || (r != nil && teamIdx == r.ActiveTeamIndex) {
		return Transition{}, model.ErrUnauthorized
	}
	if r == nil || r.Phase != model.RoundPhaseStealing {
		return Transition{}, model.ErrInvalidPhase
	}

	answer = strings.TrimSpace(answer)
	if answer == "" || len(answer) > maxAnswerLen {
		return Transition{}, model.ErrValidation
	}

	if matches(answer, r.Word.Text) {
		return m.resolve(room, &Outcome{
			Correct:      true,
			Stolen:       true,
			Word:         r.Word.Text,
			CreditedTeam: teamIdx,
			FoundBy:      playerID,
		}), nil
	}
	return m.resolve(room, &Outcome{
		Correct:      false,
		Word:         r.Word.Text,
		CreditedTeam: -1,
	}), nil
}

// Expire handles the phase timer running out. In giving-clue or
// guessing the active team's window is spent and the steal window
// opens; in stealing the round resolves unsolved.
func (m *Machine) Expire(room *model.Room) (Transition, error) {
	r := room.Game.Round
	if r == nil {
		return Transition{}, model.ErrInvalidPhase
	}

	switch r.Phase {
	case model.RoundPhaseGivingClue, model.RoundPhaseGuessing:
		r.Phase = model.RoundPhaseStealing
		return Transition{Phase: model.RoundPhaseStealing}, nil
	case model.RoundPhaseStealing:
		return m.resolve(room, &Outcome{
			Correct:      false,
			Word:         r.Word.Text,
			CreditedTeam: -1,
		}), nil
	default:
		// Result phase: a player action won the race; this expiry is stale
		return Transition{}, model.ErrInvalidPhase
	}
}

// Skip resolves the current round unsolved, used when a player holding
// an active role disconnects mid-round
func (m *Machine) Skip(room *model.Room) (Transition, error) {
	r := room.Game.Round
	if r == nil || r.Phase == model.RoundPhaseResult {
		return Transition{}, model.ErrInvalidPhase
	}
	return m.resolve(room, &Outcome{
		Correct:      false,
		Word:         r.Word.Text,
		CreditedTeam: -1,
	}), nil
}

// Advance moves past the result phase: bumps the word index, rotates
// the active team, and reports whether the game is over. The next
// round is not started here; callers invoke Start when Advance says
// the game continues.
func (m *Machine) Advance(room *model.Room) (gameOver bool, err error) {
	game := room.Game
	r := game.Round
	if r == nil || r.Phase != model.RoundPhaseResult {
		return false, model.ErrInvalidPhase
	}

	game.WordIndex++
	game.Round = nil

	if game.Complete() {
		return true, nil
	}

	next, ok := nextActiveTeam(room, game.ActiveTeamIndex)
	if !ok {
		// No team has players left; nothing can continue
		return true, nil
	}
	game.ActiveTeamIndex = next
	return false, nil
}

// resolve enters the result phase exactly once: awards the credited
// team and appends to the found/skipped log
func (m *Machine) resolve(room *model.Room, outcome *Outcome) Transition {
	game := room.Game
	r := game.Round

	if !r.Resolved {
		r.Resolved = true
		record := model.WordRecord{
			Word:             r.Word.Text,
			Category:         r.Word.Category,
			FoundBy:          outcome.FoundBy,
			FoundByTeamIndex: outcome.CreditedTeam,
		}
		if outcome.Correct {
			m.scoring.Award(room, outcome.CreditedTeam, 1)
			game.WordsFound = append(game.WordsFound, record)
		} else {
			game.WordsSkipped = append(game.WordsSkipped, record)
		}
	}

	r.Phase = model.RoundPhaseResult
	m.logger.Info("round resolved",
		slog.String("room", string(room.Code)),
		slog.Int("word_index", r.WordIndex),
		slog.Bool("correct", outcome.Correct),
		slog.Bool("stolen", outcome.Stolen),
	)
	return Transition{Phase: model.RoundPhaseResult, Outcome: outcome}
}

// mayGuess applies the mode's guesser rule
func (m *Machine) mayGuess(room *model.Room, r *model.Round, playerID model.PlayerID) bool {
	if r.GuesserID != "" {
		return playerID == r.GuesserID
	}
	// No dedicated guesser: any active-team member except the giver
	return room.TeamOf(playerID) == r.ActiveTeamIndex && playerID != r.GiverID
}

// nextActiveTeam returns the next team index round-robin from cur that
// still has players, skipping emptied teams
func nextActiveTeam(room *model.Room, cur int) (int, bool) {
	n := len(room.Teams)
	for step := 1; step <= n; step++ {
		idx := (cur + step) % n
		if len(room.Teams[idx].Members) > 0 {
			return idx, true
		}
	}
	return 0, false
}

// matches compares an answer to the secret word: case-insensitive,
// whitespace-trimmed exact match
func matches(answer, word string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(word))
}

// revealsWord rejects clues that give the secret word away: an exact
// match in any case, or a shared root when either string (4+ chars)
// contains the other
func revealsWord(clue, word string) bool {
	c := strings.ToLower(strings.TrimSpace(clue))
	w := strings.ToLower(strings.TrimSpace(word))
	if c == w {
		return true
	}
	if len(w) >= 4 && strings.Contains(c, w) {
		return true
	}
	if len(c) >= 4 && strings.Contains(w, c) {
		return true
	}
	return false
}
