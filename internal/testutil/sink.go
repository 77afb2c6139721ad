package testutil

import (
	"sync"

	"github.com/lcastelli/motdepasse-server/internal/model"
)

// RecordedEvent is one captured broadcast or unicast
type RecordedEvent struct {
	Event   string
	Payload any
	// To is set for unicasts only
	To model.PlayerID
}

// RecordingSink captures room events for assertions. It satisfies the
// session package's Broadcaster interface.
type RecordingSink struct {
	mu     sync.Mutex
	events []RecordedEvent
}

// NewRecordingSink creates an empty RecordingSink
func NewRecordingSink() *RecordingSink {
	return &RecordingSink{}
}

// Broadcast records a room-wide event
func (s *RecordingSink) Broadcast(event string, payload any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, RecordedEvent{Event: event, Payload: payload})
}

// Unicast records an event targeted at one player
func (s *RecordingSink) Unicast(playerID model.PlayerID, event string, payload any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, RecordedEvent{Event: event, Payload: payload, To: playerID})
}

// Events returns a copy of everything recorded so far
func (s *RecordingSink) Events() []RecordedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedEvent, len(s.events))
	copy(out, s.events)
	return out
}

// EventsNamed returns the recorded events with the given name
func (s *RecordingSink) EventsNamed(name string) []RecordedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []RecordedEvent
	for _, e := range s.events {
		if e.Event == name {
			out = append(out, e)
		}
	}
	return out
}

// Last returns the most recent event with the given name, or nil
func (s *RecordingSink) Last(name string) *RecordedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.events) - 1; i >= 0; i-- {
		if s.events[i].Event == name {
			e := s.events[i]
			return &e
		}
	}
	return nil
}

// Reset discards everything recorded so far
func (s *RecordingSink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}
