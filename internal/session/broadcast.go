package session

import "github.com/lcastelli/motdepasse-server/internal/model"

// Broadcaster delivers outbound events to a room's connected clients.
// The websocket adapter implements it; tests substitute a recorder.
type Broadcaster interface {
	// Broadcast sends an event to every client in the room
	Broadcast(event string, payload any)

	// Unicast sends an event to a single client
	Unicast(playerID model.PlayerID, event string, payload any)
}
