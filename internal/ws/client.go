package ws

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lcastelli/motdepasse-server/internal/model"
	"github.com/lcastelli/motdepasse-server/internal/protocol"
	"github.com/lcastelli/motdepasse-server/internal/session"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096

	sendBufferSize = 64
)

// Client is one websocket connection bound to a player in a room
type Client struct {
	playerID model.PlayerID
	conn     *websocket.Conn
	hub      *Hub
	sess     *session.Session
	logger   *slog.Logger

	mu        sync.Mutex
	closed    bool
	send      chan []byte
	closeOnce sync.Once
}

func newClient(playerID model.PlayerID, conn *websocket.Conn, hub *Hub, sess *session.Session, logger *slog.Logger) *Client {
	return &Client{
		playerID: playerID,
		conn:     conn,
		hub:      hub,
		sess:     sess,
		logger: logger.With(
			slog.String("player_id", string(playerID)),
			slog.String("room", string(sess.Code())),
		),
		send: make(chan []byte, sendBufferSize),
	}
}

// trySend queues a frame without blocking. A client whose buffer is
// full cannot keep up and gets dropped rather than stalling the room.
// The send channel stays open here; closing it belongs to the read
// pump's shutdown path, after the hub has already forgotten the client.
func (c *Client) trySend(frame []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- frame:
	default:
		c.logger.Warn("dropping slow client")
		c.closed = true
		if c.conn != nil {
			_ = c.conn.Close()
		}
	}
}

// close stops the send path and releases the write pump. Called only
// after hub.unregister, so no broadcast can race the channel close.
func (c *Client) close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// sendEvent encodes and queues a single event for this client
func (c *Client) sendEvent(event string, payload any) {
	frame, err := protocol.Encode(event, payload)
	if err != nil {
		c.logger.Error("failed to encode event",
			slog.String("event", event),
			slog.String("error", err.Error()),
		)
		return
	}
	c.trySend(frame)
}

func (c *Client) sendError(err error) {
	c.sendEvent(protocol.EventError, protocol.ErrorPayloadFor(err))
}

// readPump consumes client frames until the connection dies, then
// removes the player from the room
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.close()
		_ = c.conn.Close()
		if err := c.sess.Leave(c.playerID); err != nil && !errors.Is(err, model.ErrPlayerNotFound) && !errors.Is(err, model.ErrRoomNotFound) {
			c.logger.Warn("failed to remove player on disconnect", slog.String("error", err.Error()))
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info("connection closed unexpectedly", slog.String("error", err.Error()))
			}
			return
		}

		env, err := protocol.Decode(frame)
		if err != nil {
			c.sendError(err)
			continue
		}
		if env.Event == protocol.EventLeaveRoom {
			return
		}
		if err := c.dispatch(env); err != nil {
			c.sendError(err)
		}
	}
}

// writePump drains the send queue and keeps the connection alive with
// pings
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// dispatch routes an in-room event to the session. create-room and
// join-room are only valid as a connection's first frame and are
// handled by the handler, not here.
func (c *Client) dispatch(env protocol.Envelope) error {
	switch env.Event {
	case protocol.EventUpdateSettings:
		var p protocol.UpdateSettingsPayload
		if err := decodePayload(env.Data, &p); err != nil {
			return err
		}
		return c.sess.UpdateSettings(c.playerID, p.Settings)

	case protocol.EventChangeTeam:
		var p protocol.ChangeTeamPayload
		if err := decodePayload(env.Data, &p); err != nil {
			return err
		}
		return c.sess.ChangeTeam(c.playerID, p.PlayerID, p.NewTeamIndex)

	case protocol.EventAddTeam:
		return c.sess.AddTeam(c.playerID)

	case protocol.EventRemoveTeam:
		var p protocol.RemoveTeamPayload
		if err := decodePayload(env.Data, &p); err != nil {
			return err
		}
		return c.sess.RemoveTeam(c.playerID, p.TeamIndex)

	case protocol.EventStartGame:
		return c.sess.StartGame(c.playerID)

	case protocol.EventGiveClue:
		var p protocol.GiveCluePayload
		if err := decodePayload(env.Data, &p); err != nil {
			return err
		}
		return c.sess.GiveClue(c.playerID, p.Clue)

	case protocol.EventGuess:
		var p protocol.GuessPayload
		if err := decodePayload(env.Data, &p); err != nil {
			return err
		}
		return c.sess.Guess(c.playerID, p.Answer)

	case protocol.EventSteal:
		var p protocol.StealPayload
		if err := decodePayload(env.Data, &p); err != nil {
			return err
		}
		return c.sess.Steal(c.playerID, p.Answer)

	case protocol.EventContinueGame:
		return c.sess.ContinueGame(c.playerID)

	case protocol.EventPlayAgain:
		return c.sess.PlayAgain(c.playerID)

	case protocol.EventCreateRoom, protocol.EventJoinRoom:
		return errors.New("already in a room")

	default:
		return errors.New("unknown event: " + env.Event)
	}
}

func decodePayload(data json.RawMessage, out any) error {
	if len(data) == 0 {
		return errors.New("missing payload")
	}
	return json.Unmarshal(data, out)
}
