package session

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/lcastelli/motdepasse-server/internal/dependencies/random"
	"github.com/lcastelli/motdepasse-server/internal/model"
)

// Room codes avoid characters that read ambiguously when shared aloud
// or typed from a phone screen (no I/O/0/1)
const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 4

	maxCodeAttempts = 100
)

const (
	// DefaultIdleTTL is how long an empty room lingers before the
	// reaper closes it
	DefaultIdleTTL = 5 * time.Minute

	reapInterval = time.Minute
)

// Registry tracks the live sessions and owns their lifecycle
type Registry struct {
	mu       sync.RWMutex
	sessions map[model.RoomCode]*Session

	deps    Deps
	random  random.Random
	logger  *slog.Logger
	idleTTL time.Duration

	done      chan struct{}
	closeOnce sync.Once
}

// NewRegistry creates a registry and starts the idle-room reaper.
// idleTTL of zero means DefaultIdleTTL.
func NewRegistry(deps Deps, rnd random.Random, idleTTL time.Duration, logger *slog.Logger) *Registry {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	r := &Registry{
		sessions: make(map[model.RoomCode]*Session),
		deps:     deps,
		random:   rnd,
		logger:   logger,
		idleTTL:  idleTTL,
		done:     make(chan struct{}),
	}
	go r.reapLoop()
	return r
}

// CreateRoom allocates an unused code and spins up a session bound to
// the given broadcaster
func (r *Registry) CreateRoom(sink Broadcaster) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	code, err := r.generateCode()
	if err != nil {
		return nil, err
	}

	s := New(code, sink, r.onEmpty, r.deps)
	r.sessions[code] = s
	r.logger.Info("room created",
		slog.String("room", string(code)),
		slog.Int("active_rooms", len(r.sessions)),
	)
	return s, nil
}

// GetRoom looks up a session by code (case-insensitive)
func (r *Registry) GetRoom(code model.RoomCode) (*Session, error) {
	normalized := model.RoomCode(strings.ToUpper(strings.TrimSpace(string(code))))

	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[normalized]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return s, nil
}

// Remove closes and forgets a session. No-op for unknown codes.
func (r *Registry) Remove(code model.RoomCode) {
	r.mu.Lock()
	s, ok := r.sessions[code]
	if ok {
		delete(r.sessions, code)
	}
	active := len(r.sessions)
	r.mu.Unlock()

	if !ok {
		return
	}
	s.Close()
	r.logger.Info("room removed",
		slog.String("room", string(code)),
		slog.Int("active_rooms", active),
	)
}

// Count returns the number of live sessions
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Close shuts down the reaper and every session
func (r *Registry) Close() {
	r.closeOnce.Do(func() {
		close(r.done)

		r.mu.Lock()
		sessions := make([]*Session, 0, len(r.sessions))
		for _, s := range r.sessions {
			sessions = append(sessions, s)
		}
		r.sessions = make(map[model.RoomCode]*Session)
		r.mu.Unlock()

		for _, s := range sessions {
			s.Close()
		}
	})
}

// generateCode must be called with the write lock held
func (r *Registry) generateCode() (model.RoomCode, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code := model.RoomCode(r.random.String(codeLength, codeAlphabet))
		if _, taken := r.sessions[code]; !taken {
			return code, nil
		}
	}
	// 32^4 codes; only reachable when the space is nearly full
	return "", model.ErrNoCodesAvailable
}

// onEmpty is handed to each session; the session invokes it from a
// separate goroutine once its last player leaves
func (r *Registry) onEmpty(code model.RoomCode) {
	r.Remove(code)
}

// ReapIdle removes rooms that have had no players and no activity for
// the idle TTL. Returns how many were removed.
func (r *Registry) ReapIdle() int {
	r.mu.RLock()
	candidates := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		candidates = append(candidates, s)
	}
	r.mu.RUnlock()

	reaped := 0
	for _, s := range candidates {
		players, lastActivity, err := s.Info()
		if err != nil {
			continue
		}
		if players == 0 && r.deps.Clock.Since(lastActivity) > r.idleTTL {
			r.Remove(s.Code())
			reaped++
		}
	}
	if reaped > 0 {
		r.logger.Info("reaped idle rooms", slog.Int("count", reaped))
	}
	return reaped
}

func (r *Registry) reapLoop() {
	ticker := time.NewTicker(reapInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.ReapIdle()
		case <-r.done:
			return
		}
	}
}
