package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/lcastelli/motdepasse-server/internal/dependencies/clock"
	"github.com/lcastelli/motdepasse-server/internal/model"
	"github.com/lcastelli/motdepasse-server/internal/protocol"
	"github.com/lcastelli/motdepasse-server/internal/services/round"
	"github.com/lcastelli/motdepasse-server/internal/services/scoring"
	"github.com/lcastelli/motdepasse-server/internal/services/teams"
	"github.com/lcastelli/motdepasse-server/internal/services/wordbank"
	"github.com/lcastelli/motdepasse-server/internal/storage"
)

const maxNameLen = 24

// Deps bundles the collaborators a session composes
type Deps struct {
	Teams    teams.ServiceInterface
	Scoring  scoring.ServiceInterface
	Machine  *round.Machine
	WordBank wordbank.ServiceInterface
	Storage  storage.Storage
	Clock    clock.Clock
	Logger   *slog.Logger

	// TickInterval is the countdown cadence; zero means one second
	TickInterval time.Duration
}

// command is one unit of work for the session's serial queue
type command struct {
	fn    func() error
	reply chan error
}

// Session is the authoritative per-room actor. Every command destined
// for the room, including timer callbacks, is processed one at a time
// in arrival order on a single goroutine, so no two mutations of the
// room's state ever interleave.
type Session struct {
	room    *model.Room
	sink    Broadcaster
	deps    Deps
	machine *round.Machine
	logger  *slog.Logger

	timer    *Timer
	timerGen uint64

	cmds      chan command
	done      chan struct{}
	closeOnce sync.Once

	// onEmpty notifies the registry that the last player left
	onEmpty func(code model.RoomCode)
}

// New creates a session for a fresh room and starts its command loop
func New(code model.RoomCode, sink Broadcaster, onEmpty func(model.RoomCode), deps Deps) *Session {
	now := deps.Clock.Now()
	room := &model.Room{
		Code:         code,
		Phase:        model.RoomPhaseLobby,
		Players:      []model.Player{},
		Settings:     model.DefaultSettings(deps.WordBank.Categories()),
		CreatedAt:    now,
		LastActivity: now,
	}
	deps.Teams.InitTeams(room)

	s := &Session{
		room:    room,
		sink:    sink,
		deps:    deps,
		machine: deps.Machine,
		logger:  deps.Logger.With(slog.String("room", string(code))),
		timer:   NewTimer(deps.TickInterval),
		cmds:    make(chan command, 32),
		done:    make(chan struct{}),
		onEmpty: onEmpty,
	}
	go s.run()
	return s
}

func (s *Session) run() {
	for {
		select {
		case cmd := <-s.cmds:
			err := cmd.fn()
			if cmd.reply != nil {
				cmd.reply <- err
			}
		case <-s.done:
			return
		}
	}
}

// do submits a command and waits for the loop to process it
func (s *Session) do(fn func() error) error {
	cmd := command{fn: fn, reply: make(chan error, 1)}
	select {
	case s.cmds <- cmd:
	case <-s.done:
		return model.ErrRoomNotFound
	}
	select {
	case err := <-cmd.reply:
		return err
	case <-s.done:
		return model.ErrRoomNotFound
	}
}

// doMut is do for player-driven commands: it refreshes the room's
// activity stamp so the idle reaper only sees genuinely abandoned
// rooms. Reads and timer callbacks go through do/enqueue and leave
// the stamp alone.
func (s *Session) doMut(fn func() error) error {
	return s.do(func() error {
		s.room.LastActivity = s.deps.Clock.Now()
		return fn()
	})
}

// enqueue submits a command without waiting (timer callbacks)
func (s *Session) enqueue(fn func() error) {
	select {
	case s.cmds <- command{fn: fn}:
	case <-s.done:
	}
}

// Close stops the command loop and any running timer. Safe to call
// more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		_ = s.do(func() error {
			s.cancelTimer()
			return nil
		})
		close(s.done)
	})
}

// Code returns the room code (immutable, safe without the loop)
func (s *Session) Code() model.RoomCode {
	return s.room.Code
}

// Sink returns the broadcaster the session was bound to at creation
func (s *Session) Sink() Broadcaster {
	return s.sink
}

// Snapshot returns a deep copy of the room's current state
func (s *Session) Snapshot() (*model.Room, error) {
	var snap *model.Room
	err := s.do(func() error {
		snap = s.room.Clone()
		return nil
	})
	return snap, err
}

// Info reports membership and idle data for the registry's reaper
func (s *Session) Info() (players int, lastActivity time.Time, err error) {
	err = s.do(func() error {
		players = len(s.room.Players)
		lastActivity = s.room.LastActivity
		return nil
	})
	return players, lastActivity, err
}

// Join adds a player to the room. The first joiner becomes host.
// Returns the stored player and a room snapshot for the joiner's
// welcome unicast.
func (s *Session) Join(id model.PlayerID, name string) (model.Player, *model.Room, error) {
	var (
		player model.Player
		snap   *model.Room
	)
	err := s.doMut(func() error {
		if s.room.Phase != model.RoomPhaseLobby {
			return model.ErrAlreadyStarted
		}
		name = strings.TrimSpace(name)
		if name == "" || len(name) > maxNameLen {
			return fmt.Errorf("%w: player name must be 1-%d characters", model.ErrValidation, maxNameLen)
		}

		p := model.Player{
			ID:          id,
			DisplayName: name,
			TeamIndex:   model.UnassignedTeam,
			JoinedAt:    s.deps.Clock.Now(),
		}
		if len(s.room.Players) == 0 {
			p.IsHost = true
			s.room.HostID = id
		}
		if err := s.deps.Teams.AddPlayer(s.room, p); err != nil {
			return err
		}

		player = *s.room.GetPlayer(id)
		snap = s.room.Clone()

		s.sink.Broadcast(protocol.EventPlayerJoined, protocol.PlayerJoinedPayload{
			Players: snap.Players,
			Teams:   snap.Teams,
		})
		s.logger.Info("player joined",
			slog.String("player_id", string(id)),
			slog.Int("player_count", len(s.room.Players)),
		)
		return nil
	})
	return player, snap, err
}

// Leave removes a player, reassigning the host and skipping the
// current round if the player held an active role. Disconnection and
// an explicit leave-room are the same command.
func (s *Session) Leave(id model.PlayerID) error {
	return s.doMut(func() error {
		if s.room.GetPlayer(id) == nil {
			return model.ErrPlayerNotFound
		}

		r := s.activeRound()
		heldRole := r != nil && (id == r.GiverID || id == r.GuesserID)

		newHost := s.deps.Teams.RemovePlayer(s.room, id)

		if len(s.room.Players) == 0 {
			s.cancelTimer()
			s.logger.Info("room emptied", slog.String("player_id", string(id)))
			if s.onEmpty != nil {
				go s.onEmpty(s.room.Code)
			}
			return nil
		}

		snap := s.room.Clone()
		s.sink.Broadcast(protocol.EventPlayerLeft, protocol.PlayerLeftPayload{
			Players:   snap.Players,
			Teams:     snap.Teams,
			NewHostID: newHost,
		})
		s.logger.Info("player left",
			slog.String("player_id", string(id)),
			slog.String("new_host", string(newHost)),
		)

		// Never leave a round waiting on a player who is gone
		if r != nil {
			teamEmpty := len(s.room.Teams[r.ActiveTeamIndex].Members) == 0
			if heldRole || teamEmpty {
				if tr, err := s.machine.Skip(s.room); err == nil {
					s.applyTransition(tr)
				}
			}
		}
		return nil
	})
}

// UpdateSettings applies a partial settings update (host, lobby only)
func (s *Session) UpdateSettings(requester model.PlayerID, patch model.SettingsPatch) error {
	return s.doMut(func() error {
		if err := s.requireHost(requester); err != nil {
			return err
		}
		if s.room.Phase != model.RoomPhaseLobby {
			return model.ErrInvalidPhase
		}

		next := s.room.Settings
		if patch.WordsPerRound != nil {
			if !containsInt(model.AllowedWordsPerRound, *patch.WordsPerRound) {
				return fmt.Errorf("%w: wordsPerRound must be one of %v", model.ErrValidation, model.AllowedWordsPerRound)
			}
			next.WordsPerRound = *patch.WordsPerRound
		}
		if patch.TimerDuration != nil {
			if !containsInt(model.AllowedTimerDurations, *patch.TimerDuration) {
				return fmt.Errorf("%w: timerDuration must be one of %v", model.ErrValidation, model.AllowedTimerDurations)
			}
			next.TimerDuration = *patch.TimerDuration
		}
		if patch.Categories != nil {
			if len(patch.Categories) < 2 {
				return fmt.Errorf("%w: at least 2 categories are required", model.ErrValidation)
			}
			for _, c := range patch.Categories {
				if !s.deps.WordBank.HasCategory(c) {
					return fmt.Errorf("%w: %q", model.ErrUnknownCategory, c)
				}
			}
			next.Categories = patch.Categories
		}
		if patch.Mode != nil {
			if *patch.Mode != model.ModeClassic && *patch.Mode != model.ModeRelay {
				return fmt.Errorf("%w: unknown mode %q", model.ErrValidation, *patch.Mode)
			}
			next.Mode = *patch.Mode
		}
		if patch.ForbidWordInClue != nil {
			next.ForbidWordInClue = *patch.ForbidWordInClue
		}

		s.room.Settings = next
		s.sink.Broadcast(protocol.EventSettingsUpdated, protocol.SettingsUpdatedPayload{Settings: next})
		return nil
	})
}

// ChangeTeam moves a player between teams (host, lobby only)
func (s *Session) ChangeTeam(requester, target model.PlayerID, newTeamIndex int) error {
	return s.doMut(func() error {
		if err := s.requireHost(requester); err != nil {
			return err
		}
		if err := s.deps.Teams.ChangeTeam(s.room, target, newTeamIndex); err != nil {
			return err
		}
		s.broadcastTeams()
		return nil
	})
}

// AddTeam appends a team (host, lobby only)
func (s *Session) AddTeam(requester model.PlayerID) error {
	return s.doMut(func() error {
		if err := s.requireHost(requester); err != nil {
			return err
		}
		if err := s.deps.Teams.AddTeam(s.room); err != nil {
			return err
		}
		s.broadcastTeams()
		return nil
	})
}

// RemoveTeam deletes a team, redistributing its members (host, lobby only)
func (s *Session) RemoveTeam(requester model.PlayerID, teamIndex int) error {
	return s.doMut(func() error {
		if err := s.requireHost(requester); err != nil {
			return err
		}
		if err := s.deps.Teams.RemoveTeam(s.room, teamIndex); err != nil {
			return err
		}
		s.broadcastTeams()
		return nil
	})
}

// StartGame begins play (host only). All violated preconditions are
// reported at once.
func (s *Session) StartGame(requester model.PlayerID) error {
	return s.doMut(func() error {
		if err := s.requireHost(requester); err != nil {
			return err
		}
		if s.room.Phase != model.RoomPhaseLobby {
			return model.ErrAlreadyStarted
		}
		if violations := s.deps.Teams.ValidateStartPreconditions(s.room); len(violations) > 0 {
			return fmt.Errorf("%w: %s", model.ErrValidation, strings.Join(violations, "; "))
		}

		s.room.Phase = model.RoomPhasePlaying
		s.room.Game = model.NewGame(s.room.Settings.WordsPerRound)

		if err := s.machine.Start(s.room); err != nil {
			s.room.Phase = model.RoomPhaseLobby
			s.room.Game = nil
			return err
		}

		snap := s.room.Clone()
		s.sink.Broadcast(protocol.EventGameStarted, protocol.GameStatePayload{Room: *snap})
		s.sendCurrentWord()
		s.startPhaseTimer(s.room.Settings.TimerDuration)
		s.logger.Info("game started",
			slog.Int("total_words", s.room.Game.TotalWords),
			slog.Int("teams", len(s.room.Teams)),
		)
		return nil
	})
}

// GiveClue submits a clue from the giver
func (s *Session) GiveClue(playerID model.PlayerID, clue string) error {
	return s.doMut(func() error {
		if s.activeRound() == nil && !s.inResult() {
			return model.ErrInvalidPhase
		}
		tr, err := s.machine.GiveClue(s.room, playerID, clue)
		if err != nil {
			return err
		}
		s.applyTransition(tr)
		return nil
	})
}

// Guess submits the guesser's answer
func (s *Session) Guess(playerID model.PlayerID, answer string) error {
	return s.doMut(func() error {
		if s.activeRound() == nil && !s.inResult() {
			return model.ErrInvalidPhase
		}
		tr, err := s.machine.Guess(s.room, playerID, answer)
		if err != nil {
			return err
		}
		s.applyTransition(tr)
		return nil
	})
}

// Steal submits an opposing player's answer during the steal window
func (s *Session) Steal(playerID model.PlayerID, answer string) error {
	return s.doMut(func() error {
		if s.room.Game == nil || s.room.Game.Round == nil {
			return model.ErrInvalidPhase
		}
		tr, err := s.machine.Steal(s.room, playerID, answer)
		if err != nil {
			return err
		}
		s.applyTransition(tr)
		return nil
	})
}

// ContinueGame advances past the round-end summary (host only). The
// result display also auto-advances; whichever arrives first wins and
// the other is a no-op.
func (s *Session) ContinueGame(requester model.PlayerID) error {
	return s.doMut(func() error {
		if err := s.requireHost(requester); err != nil {
			return err
		}
		if !s.inResult() {
			return model.ErrInvalidPhase
		}
		return s.advance()
	})
}

// PlayAgain resets scores and the word log and returns the room to
// the lobby with the same players and teams (host only)
func (s *Session) PlayAgain(requester model.PlayerID) error {
	return s.doMut(func() error {
		if err := s.requireHost(requester); err != nil {
			return err
		}
		if s.room.Phase != model.RoomPhaseFinished {
			return model.ErrInvalidPhase
		}

		s.deps.Scoring.ResetScores(s.room)
		s.room.Game = nil
		s.room.Phase = model.RoomPhaseLobby

		snap := s.room.Clone()
		s.sink.Broadcast(protocol.EventGameReset, protocol.GameResetPayload{
			Players:  snap.Players,
			Teams:    snap.Teams,
			Settings: snap.Settings,
		})
		s.logger.Info("game reset")
		return nil
	})
}

// --- internals (command loop only) ---

// requireHost rejects non-host requesters
func (s *Session) requireHost(id model.PlayerID) error {
	if !s.room.IsHost(id) {
		return model.ErrNotHost
	}
	return nil
}

// activeRound returns the round when play is mid-round (not result)
func (s *Session) activeRound() *model.Round {
	if s.room.Phase != model.RoomPhasePlaying || s.room.Game == nil {
		return nil
	}
	r := s.room.Game.Round
	if r == nil || r.Phase == model.RoundPhaseResult {
		return nil
	}
	return r
}

func (s *Session) inResult() bool {
	return s.room.Phase == model.RoomPhasePlaying &&
		s.room.Game != nil &&
		s.room.Game.Round != nil &&
		s.room.Game.Round.Phase == model.RoundPhaseResult
}

// applyTransition drives timers and broadcasts for a machine transition
func (s *Session) applyTransition(tr round.Transition) {
	switch tr.Phase {
	case model.RoundPhaseGuessing:
		// Each clue resets the turn window
		s.room.Game.Round.TimeLeft = s.room.Settings.TimerDuration
		s.startPhaseTimer(s.room.Settings.TimerDuration)
	case model.RoundPhaseGivingClue:
		// Failed guess with clues remaining: window keeps running
	case model.RoundPhaseStealing:
		s.room.Game.Round.TimeLeft = model.StealDuration
		s.startPhaseTimer(model.StealDuration)
	case model.RoundPhaseResult:
		s.room.Game.Round.TimeLeft = model.ResultDisplaySeconds
		s.startPhaseTimer(model.ResultDisplaySeconds)
		s.sink.Broadcast(protocol.EventRoundResult, tr.Outcome)
	}
	s.broadcastState()
}

// advance moves past a result: next round or game over
func (s *Session) advance() error {
	gameOver, err := s.machine.Advance(s.room)
	if err != nil {
		return err
	}
	if gameOver {
		return s.finish(s.room.Game.EndedEarly)
	}

	if err := s.machine.Start(s.room); err != nil {
		if errors.Is(err, model.ErrWordBankExhausted) {
			// Forced game end, not a crash
			s.room.Game.EndedEarly = true
			return s.finish(true)
		}
		return err
	}

	s.sendCurrentWord()
	s.startPhaseTimer(s.room.Settings.TimerDuration)
	s.broadcastState()
	return nil
}

// finish ends the game, computes rankings, archives, and notifies
func (s *Session) finish(early bool) error {
	s.cancelTimer()
	s.room.Phase = model.RoomPhaseFinished
	s.room.Game.Round = nil

	rankings := s.deps.Scoring.ComputeRankings(s.room)
	s.archive(rankings, early)

	s.sink.Broadcast(protocol.EventGameOver, protocol.GameOverPayload{
		Rankings:   rankings,
		EndedEarly: early,
	})
	s.broadcastState()
	s.logger.Info("game over", slog.Bool("ended_early", early))
	return nil
}

// archive writes the completed game to storage; failures are logged,
// never surfaced to players
func (s *Session) archive(rankings []model.TeamRanking, early bool) {
	record := &model.GameRecord{
		RoomCode:     s.room.Code,
		Rankings:     rankings,
		WordsFound:   append([]model.WordRecord{}, s.room.Game.WordsFound...),
		WordsSkipped: append([]model.WordRecord{}, s.room.Game.WordsSkipped...),
		EndedEarly:   early,
		CompletedAt:  s.deps.Clock.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.deps.Storage.SaveGameRecord(ctx, record); err != nil {
		s.logger.Warn("failed to archive game", slog.String("error", err.Error()))
	}
}

// sendCurrentWord unicasts the secret word to the current giver.
// It must never be broadcast.
func (s *Session) sendCurrentWord() {
	r := s.room.Game.Round
	s.sink.Unicast(r.GiverID, protocol.EventCurrentWord, protocol.CurrentWordPayload{
		Word:     r.Word.Text,
		Category: r.Word.Category,
		Emoji:    r.Word.Emoji,
	})
}

// broadcastState pushes the full authoritative snapshot
func (s *Session) broadcastState() {
	s.sink.Broadcast(protocol.EventGameStateUpdate, protocol.GameStatePayload{Room: *s.room.Clone()})
}

// startPhaseTimer replaces the active countdown. Bumping the
// generation first makes any in-flight tick or expiry from the prior
// countdown a no-op.
func (s *Session) startPhaseTimer(seconds int) {
	s.timerGen++
	gen := s.timerGen
	s.timer.Start(seconds, gen,
		func(gen uint64, remaining int) {
			s.enqueue(func() error { return s.handleTick(gen, remaining) })
		},
		func(gen uint64) {
			s.enqueue(func() error { return s.handleExpire(gen) })
		},
	)
}

func (s *Session) cancelTimer() {
	s.timerGen++
	s.timer.Cancel()
}

func (s *Session) handleTick(gen uint64, remaining int) error {
	if gen != s.timerGen {
		return nil
	}
	if s.room.Game != nil && s.room.Game.Round != nil {
		s.room.Game.Round.TimeLeft = remaining
	}
	s.sink.Broadcast(protocol.EventTimerTick, protocol.TimerTickPayload{TimeLeft: remaining})
	return nil
}

// handleExpire fires at most once per countdown generation. A player
// action that won the race has already bumped the generation, so the
// stale expiry is dropped here.
func (s *Session) handleExpire(gen uint64) error {
	if gen != s.timerGen {
		return nil
	}
	game := s.room.Game
	if game == nil || game.Round == nil {
		return nil
	}

	if game.Round.Phase == model.RoundPhaseResult {
		// Result display elapsed
		return s.advance()
	}

	tr, err := s.machine.Expire(s.room)
	if err != nil {
		return nil
	}
	game.Round.TimeLeft = 0
	s.applyTransition(tr)
	return nil
}

func (s *Session) broadcastTeams() {
	snap := s.room.Clone()
	s.sink.Broadcast(protocol.EventTeamsUpdated, protocol.TeamsUpdatedPayload{
		Players: snap.Players,
		Teams:   snap.Teams,
	})
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
