package ws

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lcastelli/motdepasse-server/internal/model"
	"github.com/lcastelli/motdepasse-server/internal/protocol"
	"github.com/lcastelli/motdepasse-server/internal/session"
)

// handshakeWait bounds how long a fresh connection may sit silent
// before sending its create-room or join-room frame
const handshakeWait = 10 * time.Second

// Handler upgrades websocket connections and binds each one to a room
// session. The first frame on every connection must be create-room or
// join-room; everything after that is routed by the client's dispatch.
type Handler struct {
	registry *session.Registry
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates a websocket handler backed by the given registry
func NewHandler(registry *session.Registry, logger *slog.Logger) *Handler {
	return &Handler{
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Game access control is the room code itself
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	env, err := h.readHandshake(conn)
	if err != nil {
		h.rejectAndClose(conn, err)
		return
	}

	var client *Client
	switch env.Event {
	case protocol.EventCreateRoom:
		client, err = h.createRoom(conn, env)
	case protocol.EventJoinRoom:
		client, err = h.joinRoom(conn, env)
	default:
		err = errors.New("first event must be create-room or join-room")
	}
	if err != nil {
		h.rejectAndClose(conn, err)
		return
	}

	go client.writePump()
	client.readPump()
}

func (h *Handler) readHandshake(conn *websocket.Conn) (protocol.Envelope, error) {
	_ = conn.SetReadDeadline(time.Now().Add(handshakeWait))
	conn.SetReadLimit(maxMessageSize)

	_, frame, err := conn.ReadMessage()
	if err != nil {
		return protocol.Envelope{}, err
	}
	_ = conn.SetReadDeadline(time.Time{})
	return protocol.Decode(frame)
}

func (h *Handler) createRoom(conn *websocket.Conn, env protocol.Envelope) (*Client, error) {
	var p protocol.CreateRoomPayload
	if err := decodePayload(env.Data, &p); err != nil {
		return nil, err
	}

	hub := NewHub(h.logger)
	sess, err := h.registry.CreateRoom(hub)
	if err != nil {
		return nil, err
	}

	playerID := model.PlayerID(uuid.NewString())
	client := newClient(playerID, conn, hub, sess, h.logger)
	hub.register(client)

	player, snap, err := sess.Join(playerID, p.PlayerName)
	if err != nil {
		hub.unregister(client)
		h.registry.Remove(sess.Code())
		return nil, err
	}

	client.sendEvent(protocol.EventRoomCreated, protocol.RoomCreatedPayload{
		Code:   snap.Code,
		Player: player,
		Room:   *snap,
	})
	return client, nil
}

func (h *Handler) joinRoom(conn *websocket.Conn, env protocol.Envelope) (*Client, error) {
	var p protocol.JoinRoomPayload
	if err := decodePayload(env.Data, &p); err != nil {
		return nil, err
	}

	sess, err := h.registry.GetRoom(model.RoomCode(p.RoomCode))
	if err != nil {
		return nil, err
	}
	hub, ok := sess.Sink().(*Hub)
	if !ok {
		return nil, errors.New("room has no websocket hub")
	}

	playerID := model.PlayerID(uuid.NewString())
	client := newClient(playerID, conn, hub, sess, h.logger)
	hub.register(client)

	player, snap, err := sess.Join(playerID, p.PlayerName)
	if err != nil {
		hub.unregister(client)
		return nil, err
	}

	client.sendEvent(protocol.EventRoomJoined, protocol.RoomJoinedPayload{
		Code:   snap.Code,
		Player: player,
		Room:   *snap,
	})
	return client, nil
}

// rejectAndClose reports a pre-join failure on the raw connection
func (h *Handler) rejectAndClose(conn *websocket.Conn, err error) {
	frame, encErr := protocol.Encode(protocol.EventError, protocol.ErrorPayloadFor(err))
	if encErr == nil {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = conn.WriteMessage(websocket.TextMessage, frame)
	}
	_ = conn.Close()
}
